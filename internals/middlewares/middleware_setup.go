// file: internals/middlewares/middleware_setup.go
package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMw "schoolfee_backend/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMw.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}

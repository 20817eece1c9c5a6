// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schoolfee_backend/internals/features/finance/storage"
	routeDetails "schoolfee_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app)

	store := storage.NewGormStore(db)

	log.Info("mounting finance admin routes")
	admin := app.Group("/api/a")
	routeDetails.FinanceAdminRoutes(admin, store)
}

// file: internals/features/finance/payments/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	payController "schoolfee_backend/internals/features/finance/payments/controller"
	"schoolfee_backend/internals/features/finance/payments/service"
	"schoolfee_backend/internals/features/finance/storage"
)

func AdminPaymentRoutes(r fiber.Router, store storage.Store) {
	ctl := payController.NewPaymentController(service.NewRecorderService(store))
	p := r.Group("/payments")
	{
		p.Post("/", ctl.Create)
		p.Get("/", ctl.List)
	}
}

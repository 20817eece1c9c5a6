// file: internals/features/finance/structures/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolfee_backend/internals/features/finance/storage"
	fsController "schoolfee_backend/internals/features/finance/structures/controller"
	"schoolfee_backend/internals/features/finance/structures/service"
)

func AdminFeeStructureRoutes(r fiber.Router, store storage.Store) {
	ctl := fsController.NewFeeStructureController(service.NewCatalogService(store))
	fs := r.Group("/fee-structures")
	{
		fs.Post("/", ctl.Create)
		fs.Get("/", ctl.List)
		fs.Get("/resolve", ctl.Resolve)
		fs.Get("/:id", ctl.GetByID)
		fs.Patch("/:id", ctl.Update)
		fs.Delete("/:id", ctl.Delete)
	}
}

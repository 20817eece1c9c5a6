// file: internals/features/finance/ledgers/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	lfController "schoolfee_backend/internals/features/finance/ledgers/controller"
	"schoolfee_backend/internals/features/finance/ledgers/service"
	"schoolfee_backend/internals/features/finance/storage"
)

func AdminStudentFeeRoutes(r fiber.Router, store storage.Store) {
	ctl := lfController.NewStudentFeeController(service.NewLedgerService(store))
	sf := r.Group("/student-fees")
	{
		sf.Post("/preview", ctl.Preview)
		sf.Post("/sweep-overdue", ctl.SweepOverdue)
		sf.Post("/", ctl.Create)
		sf.Get("/", ctl.List)
		sf.Get("/:id", ctl.GetByID)
		sf.Delete("/:id", ctl.Delete)
		sf.Post("/:id/discounts", ctl.AttachDiscount)
		sf.Post("/:id/scholarships", ctl.AttachScholarship)
		sf.Post("/:id/recompute", ctl.Recompute)
	}
}

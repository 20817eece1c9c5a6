// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	LedgerRoute "schoolfee_backend/internals/features/finance/ledgers/route"
	PaymentRoute "schoolfee_backend/internals/features/finance/payments/route"
	"schoolfee_backend/internals/features/finance/storage"
	StructureRoute "schoolfee_backend/internals/features/finance/structures/route"
)

func FinanceAdminRoutes(r fiber.Router, store storage.Store) {
	StructureRoute.AdminFeeStructureRoutes(r, store)
	LedgerRoute.AdminStudentFeeRoutes(r, store)
	PaymentRoute.AdminPaymentRoutes(r, store)
}

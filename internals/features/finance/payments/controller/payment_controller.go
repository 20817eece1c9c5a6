// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/payments/dto"
	"schoolfee_backend/internals/features/finance/payments/service"
	"schoolfee_backend/internals/features/finance/storage"
	helper "schoolfee_backend/internals/helpers"
)

type PaymentController struct {
	Service *service.RecorderService
}

func NewPaymentController(svc *service.RecorderService) *PaymentController {
	return &PaymentController{Service: svc}
}

// POST /api/a/payments
//
// Records a payment (or reversal) against a ledger entry. The receipt
// number, allocation rows and the updated ledger come back together.
func (ctl *PaymentController) Create(c *fiber.Ctx) error {
	var body dto.PaymentCreateDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.JsonValidatorError(c, err)
	}

	res, err := ctl.Service.RecordPayment(c.Context(), dto.ToRecordPaymentInput(body))
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonCreated(c, "payment recorded", res)
}

// GET /api/a/payments?school_id=&student_fee_id=
func (ctl *PaymentController) List(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Query("school_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "school_id is required")
	}

	pg := helper.ResolvePaging(c, 20, 200)
	f := storage.PaymentFilter{
		SchoolID: schoolID,
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	}
	if fid, err := uuid.Parse(c.Query("student_fee_id")); err == nil {
		f.StudentFeeID = &fid
	}

	list, total, err := ctl.Service.ListPayments(c.Context(), f)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonList(c, "ok", list, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}

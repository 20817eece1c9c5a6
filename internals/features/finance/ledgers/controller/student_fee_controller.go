// file: internals/features/finance/ledgers/controller/student_fee_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/ledgers/dto"
	"schoolfee_backend/internals/features/finance/ledgers/model"
	"schoolfee_backend/internals/features/finance/ledgers/service"
	"schoolfee_backend/internals/features/finance/storage"
	helper "schoolfee_backend/internals/helpers"
)

type StudentFeeController struct {
	Service *service.LedgerService
}

func NewStudentFeeController(svc *service.LedgerService) *StudentFeeController {
	return &StudentFeeController{Service: svc}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// POST /api/a/student-fees/preview
//
// Dry run: computes the charge summary without persisting anything.
func (ctl *StudentFeeController) Preview(c *fiber.Ctx) error {
	var body dto.ChargesPreviewDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.JsonValidatorError(c, err)
	}

	charges, err := ctl.Service.PreviewCharges(c.Context(),
		body.FeeStructureID,
		dto.ToComponentOverrides(body.Overrides),
		dto.ToDiscountInputs(body.Discounts),
		dto.ToScholarshipInputs(body.Scholarships),
	)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonOK(c, "ok", charges)
}

// POST /api/a/student-fees
func (ctl *StudentFeeController) Create(c *fiber.Ctx) error {
	var body dto.StudentFeeCreateDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.JsonValidatorError(c, err)
	}

	lf, err := ctl.Service.CreateStudentFee(c.Context(), dto.ToCreateStudentFeeInput(body))
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonCreated(c, "student fee created", lf)
}

// GET /api/a/student-fees?school_id=&student_id=&status=
func (ctl *StudentFeeController) List(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Query("school_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "school_id is required")
	}

	pg := helper.ResolvePaging(c, 20, 200)
	f := storage.StudentFeeFilter{
		SchoolID: schoolID,
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	}
	if sid, err := uuid.Parse(c.Query("student_id")); err == nil {
		f.StudentID = &sid
	}
	if s := c.Query("status"); s != "" {
		st := model.StudentFeeStatus(s)
		f.Status = &st
	}

	list, total, err := ctl.Service.ListLedgers(c.Context(), f)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonList(c, "ok", list, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}

// GET /api/a/student-fees/:id
func (ctl *StudentFeeController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	lf, err := ctl.Service.GetLedger(c.Context(), id)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonOK(c, "ok", lf)
}

// DELETE /api/a/student-fees/:id
func (ctl *StudentFeeController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Service.DeleteLedger(c.Context(), id); err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonDeleted(c, "student fee deleted", fiber.Map{"student_fee_id": id})
}

// POST /api/a/student-fees/:id/discounts
func (ctl *StudentFeeController) AttachDiscount(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var body dto.DiscountAttachDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.JsonValidatorError(c, err)
	}

	lf, err := ctl.Service.AttachDiscount(c.Context(), id, dto.ToDiscountInput(body.DiscountCreateDTO), body.Reapproved)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonUpdated(c, "discount applied", lf)
}

// POST /api/a/student-fees/:id/scholarships
func (ctl *StudentFeeController) AttachScholarship(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var body dto.ScholarshipAttachDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.JsonValidatorError(c, err)
	}

	lf, err := ctl.Service.AttachScholarship(c.Context(), id, dto.ToScholarshipInput(body.ScholarshipCreateDTO), body.Reapproved)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonUpdated(c, "scholarship applied", lf)
}

// POST /api/a/student-fees/:id/recompute
func (ctl *StudentFeeController) Recompute(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	lf, err := ctl.Service.RecomputeStatus(c.Context(), id, time.Now())
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonUpdated(c, "status recomputed", lf)
}

// POST /api/a/student-fees/sweep-overdue
//
// Same pass the scheduler runs nightly; exposed for manual triggering.
func (ctl *StudentFeeController) SweepOverdue(c *fiber.Ctx) error {
	swept, err := ctl.Service.SweepOverdue(c.Context(), time.Now())
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonOK(c, "sweep finished", fiber.Map{"transitioned": swept})
}

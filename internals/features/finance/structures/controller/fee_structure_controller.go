// file: internals/features/finance/structures/controller/fee_structure_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/storage"
	"schoolfee_backend/internals/features/finance/structures/dto"
	"schoolfee_backend/internals/features/finance/structures/service"
	helper "schoolfee_backend/internals/helpers"
)

type FeeStructureController struct {
	Service *service.CatalogService
}

func NewFeeStructureController(svc *service.CatalogService) *FeeStructureController {
	return &FeeStructureController{Service: svc}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func parseUUIDQuery(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	return id, err == nil
}

// POST /api/a/fee-structures
func (ctl *FeeStructureController) Create(c *fiber.Ctx) error {
	var body dto.FeeStructureCreateDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.JsonValidatorError(c, err)
	}

	fs, err := ctl.Service.CreateStructure(c.Context(), dto.ToCreateStructureInput(body))
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonCreated(c, "fee structure created", dto.ToFeeStructureResponse(*fs))
}

// PATCH /api/a/fee-structures/:id
func (ctl *FeeStructureController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var body dto.FeeStructureUpdateDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.JsonValidatorError(c, err)
	}

	fs, err := ctl.Service.UpdateStructure(c.Context(), id, dto.ToUpdateStructureInput(body))
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonUpdated(c, "fee structure updated", dto.ToFeeStructureResponse(*fs))
}

// DELETE /api/a/fee-structures/:id
func (ctl *FeeStructureController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Service.DeleteStructure(c.Context(), id); err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonDeleted(c, "fee structure deleted", fiber.Map{"fee_structure_id": id})
}

// GET /api/a/fee-structures/:id
func (ctl *FeeStructureController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	fs, err := ctl.Service.GetStructure(c.Context(), id)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonOK(c, "ok", dto.ToFeeStructureResponse(*fs))
}

// GET /api/a/fee-structures?school_id=&academic_year_id=&active=true
func (ctl *FeeStructureController) List(c *fiber.Ctx) error {
	schoolID, ok := parseUUIDQuery(c, "school_id")
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "school_id is required")
	}

	pg := helper.ResolvePaging(c, 20, 200)
	f := storage.FeeStructureFilter{
		SchoolID:   schoolID,
		ActiveOnly: c.QueryBool("active"),
		Limit:      pg.Limit,
		Offset:     pg.Offset,
	}
	if yearID, ok := parseUUIDQuery(c, "academic_year_id"); ok {
		f.AcademicYearID = &yearID
	}

	list, total, err := ctl.Service.ListStructures(c.Context(), f)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonList(c, "ok", dto.ToFeeStructureResponses(list),
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}

// GET /api/a/fee-structures/resolve?school_id=&academic_year_id=&class_id=&section_id=
func (ctl *FeeStructureController) Resolve(c *fiber.Ctx) error {
	schoolID, ok := parseUUIDQuery(c, "school_id")
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "school_id is required")
	}
	yearID, ok := parseUUIDQuery(c, "academic_year_id")
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "academic_year_id is required")
	}
	classID, ok := parseUUIDQuery(c, "class_id")
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id is required")
	}
	var sectionID *uuid.UUID
	if sid, ok := parseUUIDQuery(c, "section_id"); ok {
		sectionID = &sid
	}

	fs, err := ctl.Service.Resolve(c.Context(), schoolID, yearID, classID, sectionID)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), err.Error())
	}
	return helper.JsonOK(c, "ok", dto.ToFeeStructureResponse(*fs))
}

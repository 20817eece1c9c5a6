// file: internals/features/finance/ledgers/dto/student_fee_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolfee_backend/internals/features/finance/ledgers/model"
	"schoolfee_backend/internals/features/finance/ledgers/service"
)

////////////////////////////////////////////////////////////////////////////////
// STUDENT FEE LEDGER — DTO
//
// Responses reuse the models directly (they carry json tags); this file
// only shapes the write side.
////////////////////////////////////////////////////////////////////////////////

type ComponentOverrideDTO struct {
	ComponentID uuid.UUID       `json:"component_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
}

type DiscountCreateDTO struct {
	DiscountName                 string          `json:"discount_name" validate:"required"`
	DiscountType                 string          `json:"discount_type" validate:"required,oneof=percentage fixed_amount"`
	DiscountValue                decimal.Decimal `json:"discount_value" validate:"required"`
	DiscountAppliedToComponentID *uuid.UUID      `json:"discount_applied_to_component_id,omitempty"`
	DiscountReason               string          `json:"discount_reason" validate:"required"`
}

type ScholarshipCreateDTO struct {
	ScholarshipName     string          `json:"scholarship_name" validate:"required"`
	ScholarshipAmount   decimal.Decimal `json:"scholarship_amount" validate:"required"`
	ScholarshipProvider *string         `json:"scholarship_provider,omitempty"`
}

type StudentFeeCreateDTO struct {
	StudentFeeSchoolID       uuid.UUID              `json:"student_fee_school_id" validate:"required"`
	StudentFeeStudentID      uuid.UUID              `json:"student_fee_student_id" validate:"required"`
	StudentFeeFeeStructureID uuid.UUID              `json:"student_fee_fee_structure_id" validate:"required"`
	StudentFeeDueDate        *time.Time             `json:"student_fee_due_date,omitempty"`
	StudentFeeOverrides      []ComponentOverrideDTO `json:"student_fee_overrides,omitempty" validate:"omitempty,dive"`
	StudentFeeDiscounts      []DiscountCreateDTO    `json:"student_fee_discounts,omitempty" validate:"omitempty,dive"`
	StudentFeeScholarships   []ScholarshipCreateDTO `json:"student_fee_scholarships,omitempty" validate:"omitempty,dive"`
}

// Preview shares the create payload minus the student binding.
type ChargesPreviewDTO struct {
	FeeStructureID uuid.UUID              `json:"fee_structure_id" validate:"required"`
	Overrides      []ComponentOverrideDTO `json:"overrides,omitempty" validate:"omitempty,dive"`
	Discounts      []DiscountCreateDTO    `json:"discounts,omitempty" validate:"omitempty,dive"`
	Scholarships   []ScholarshipCreateDTO `json:"scholarships,omitempty" validate:"omitempty,dive"`
}

type DiscountAttachDTO struct {
	DiscountCreateDTO
	// Set when paid amounts already exist on the ledger and the
	// reduction was re-approved out of band.
	Reapproved bool `json:"reapproved"`
}

type ScholarshipAttachDTO struct {
	ScholarshipCreateDTO
	Reapproved bool `json:"reapproved"`
}

////////////////////////////////////////////////////////////////////////////////
// MAPPERS
////////////////////////////////////////////////////////////////////////////////

func ToComponentOverrides(list []ComponentOverrideDTO) []service.ComponentOverride {
	if list == nil {
		return nil
	}
	out := make([]service.ComponentOverride, 0, len(list))
	for _, d := range list {
		out = append(out, service.ComponentOverride{ComponentID: d.ComponentID, Amount: d.Amount})
	}
	return out
}

func ToDiscountInput(d DiscountCreateDTO) service.DiscountInput {
	return service.DiscountInput{
		Name:                 d.DiscountName,
		Type:                 model.DiscountType(d.DiscountType),
		Value:                d.DiscountValue,
		AppliedToComponentID: d.DiscountAppliedToComponentID,
		Reason:               d.DiscountReason,
	}
}

func ToDiscountInputs(list []DiscountCreateDTO) []service.DiscountInput {
	if list == nil {
		return nil
	}
	out := make([]service.DiscountInput, 0, len(list))
	for _, d := range list {
		out = append(out, ToDiscountInput(d))
	}
	return out
}

func ToScholarshipInput(d ScholarshipCreateDTO) service.ScholarshipInput {
	return service.ScholarshipInput{
		Name:     d.ScholarshipName,
		Amount:   d.ScholarshipAmount,
		Provider: d.ScholarshipProvider,
	}
}

func ToScholarshipInputs(list []ScholarshipCreateDTO) []service.ScholarshipInput {
	if list == nil {
		return nil
	}
	out := make([]service.ScholarshipInput, 0, len(list))
	for _, d := range list {
		out = append(out, ToScholarshipInput(d))
	}
	return out
}

func ToCreateStudentFeeInput(d StudentFeeCreateDTO) service.CreateStudentFeeInput {
	return service.CreateStudentFeeInput{
		SchoolID:       d.StudentFeeSchoolID,
		StudentID:      d.StudentFeeStudentID,
		FeeStructureID: d.StudentFeeFeeStructureID,
		DueDate:        d.StudentFeeDueDate,
		Overrides:      ToComponentOverrides(d.StudentFeeOverrides),
		Discounts:      ToDiscountInputs(d.StudentFeeDiscounts),
		Scholarships:   ToScholarshipInputs(d.StudentFeeScholarships),
	}
}

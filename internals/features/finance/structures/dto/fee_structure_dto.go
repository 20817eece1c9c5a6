// file: internals/features/finance/structures/dto/fee_structure_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolfee_backend/internals/features/finance/structures/model"
	"schoolfee_backend/internals/features/finance/structures/service"
)

////////////////////////////////////////////////////////////////////////////////
// FEE STRUCTURES — DTO
////////////////////////////////////////////////////////////////////////////////

type FeeComponentCreateDTO struct {
	FeeComponentName                string           `json:"fee_component_name" validate:"required"`
	FeeComponentFeeType             string           `json:"fee_component_fee_type" validate:"required"`
	FeeComponentAmount              decimal.Decimal  `json:"fee_component_amount" validate:"required"`
	FeeComponentFrequency           string           `json:"fee_component_frequency" validate:"required"`
	FeeComponentIsMandatory         bool             `json:"fee_component_is_mandatory"`
	FeeComponentAllowPartialPayment bool             `json:"fee_component_allow_partial_payment"`
	FeeComponentLateFeeApplicable   bool             `json:"fee_component_late_fee_applicable"`
	FeeComponentLateFeeAmount       *decimal.Decimal `json:"fee_component_late_fee_amount,omitempty"`
	FeeComponentLateFeePercentage   *decimal.Decimal `json:"fee_component_late_fee_percentage,omitempty"`
}

type FeeStructureCreateDTO struct {
	FeeStructureSchoolID       uuid.UUID               `json:"fee_structure_school_id" validate:"required"`
	FeeStructureName           string                  `json:"fee_structure_name" validate:"required"`
	FeeStructureAcademicYearID uuid.UUID               `json:"fee_structure_academic_year_id" validate:"required"`
	FeeStructureAcademicUnitID *uuid.UUID              `json:"fee_structure_academic_unit_id,omitempty"`
	FeeStructureComponents     []FeeComponentCreateDTO `json:"fee_structure_components" validate:"required,min=1,dive"`
}

// Update (partial). Components, when present, replace the whole set —
// rejected once the structure is referenced.
type FeeStructureUpdateDTO struct {
	FeeStructureName       *string                 `json:"fee_structure_name,omitempty"`
	FeeStructureIsActive   *bool                   `json:"fee_structure_is_active,omitempty"`
	FeeStructureComponents []FeeComponentCreateDTO `json:"fee_structure_components,omitempty" validate:"omitempty,min=1,dive"`
}

type FeeComponentResponse struct {
	FeeComponentID                  uuid.UUID        `json:"fee_component_id"`
	FeeComponentName                string           `json:"fee_component_name"`
	FeeComponentFeeType             string           `json:"fee_component_fee_type"`
	FeeComponentAmount              decimal.Decimal  `json:"fee_component_amount"`
	FeeComponentFrequency           string           `json:"fee_component_frequency"`
	FeeComponentIsMandatory         bool             `json:"fee_component_is_mandatory"`
	FeeComponentAllowPartialPayment bool             `json:"fee_component_allow_partial_payment"`
	FeeComponentLateFeeApplicable   bool             `json:"fee_component_late_fee_applicable"`
	FeeComponentLateFeeAmount       *decimal.Decimal `json:"fee_component_late_fee_amount,omitempty"`
	FeeComponentLateFeePercentage   *decimal.Decimal `json:"fee_component_late_fee_percentage,omitempty"`
	FeeComponentPosition            int              `json:"fee_component_position"`
}

type FeeStructureResponse struct {
	FeeStructureID             uuid.UUID              `json:"fee_structure_id"`
	FeeStructureSchoolID       uuid.UUID              `json:"fee_structure_school_id"`
	FeeStructureName           string                 `json:"fee_structure_name"`
	FeeStructureAcademicYearID uuid.UUID              `json:"fee_structure_academic_year_id"`
	FeeStructureAcademicUnitID *uuid.UUID             `json:"fee_structure_academic_unit_id,omitempty"`
	FeeStructureIsActive       bool                   `json:"fee_structure_is_active"`
	FeeStructureIsLocked       bool                   `json:"fee_structure_is_locked"`
	FeeStructureComponents     []FeeComponentResponse `json:"fee_structure_components"`
	FeeStructureCreatedAt      time.Time              `json:"fee_structure_created_at"`
	FeeStructureUpdatedAt      time.Time              `json:"fee_structure_updated_at"`
}

////////////////////////////////////////////////////////////////////////////////
// MAPPERS
////////////////////////////////////////////////////////////////////////////////

func componentInput(d FeeComponentCreateDTO) service.ComponentInput {
	return service.ComponentInput{
		Name:                d.FeeComponentName,
		FeeType:             model.FeeType(d.FeeComponentFeeType),
		Amount:              d.FeeComponentAmount,
		Frequency:           model.FeeFrequency(d.FeeComponentFrequency),
		IsMandatory:         d.FeeComponentIsMandatory,
		AllowPartialPayment: d.FeeComponentAllowPartialPayment,
		LateFeeApplicable:   d.FeeComponentLateFeeApplicable,
		LateFeeAmount:       d.FeeComponentLateFeeAmount,
		LateFeePercentage:   d.FeeComponentLateFeePercentage,
	}
}

func ComponentInputs(list []FeeComponentCreateDTO) []service.ComponentInput {
	if list == nil {
		return nil
	}
	out := make([]service.ComponentInput, 0, len(list))
	for _, d := range list {
		out = append(out, componentInput(d))
	}
	return out
}

func ToCreateStructureInput(d FeeStructureCreateDTO) service.CreateStructureInput {
	return service.CreateStructureInput{
		SchoolID:       d.FeeStructureSchoolID,
		Name:           d.FeeStructureName,
		AcademicYearID: d.FeeStructureAcademicYearID,
		AcademicUnitID: d.FeeStructureAcademicUnitID,
		Components:     ComponentInputs(d.FeeStructureComponents),
	}
}

func ToUpdateStructureInput(d FeeStructureUpdateDTO) service.UpdateStructureInput {
	return service.UpdateStructureInput{
		Name:       d.FeeStructureName,
		IsActive:   d.FeeStructureIsActive,
		Components: ComponentInputs(d.FeeStructureComponents),
	}
}

func ToFeeComponentResponse(m model.FeeComponent) FeeComponentResponse {
	return FeeComponentResponse{
		FeeComponentID:                  m.FeeComponentID,
		FeeComponentName:                m.FeeComponentName,
		FeeComponentFeeType:             string(m.FeeComponentFeeType),
		FeeComponentAmount:              m.FeeComponentAmount,
		FeeComponentFrequency:           string(m.FeeComponentFrequency),
		FeeComponentIsMandatory:         m.FeeComponentIsMandatory,
		FeeComponentAllowPartialPayment: m.FeeComponentAllowPartialPayment,
		FeeComponentLateFeeApplicable:   m.FeeComponentLateFeeApplicable,
		FeeComponentLateFeeAmount:       m.FeeComponentLateFeeAmount,
		FeeComponentLateFeePercentage:   m.FeeComponentLateFeePercentage,
		FeeComponentPosition:            m.FeeComponentPosition,
	}
}

func ToFeeStructureResponse(m model.FeeStructure) FeeStructureResponse {
	components := make([]FeeComponentResponse, 0, len(m.FeeStructureComponents))
	for _, c := range m.FeeStructureComponents {
		components = append(components, ToFeeComponentResponse(c))
	}
	return FeeStructureResponse{
		FeeStructureID:             m.FeeStructureID,
		FeeStructureSchoolID:       m.FeeStructureSchoolID,
		FeeStructureName:           m.FeeStructureName,
		FeeStructureAcademicYearID: m.FeeStructureAcademicYearID,
		FeeStructureAcademicUnitID: m.FeeStructureAcademicUnitID,
		FeeStructureIsActive:       m.FeeStructureIsActive,
		FeeStructureIsLocked:       m.FeeStructureIsLocked,
		FeeStructureComponents:     components,
		FeeStructureCreatedAt:      m.FeeStructureCreatedAt,
		FeeStructureUpdatedAt:      m.FeeStructureUpdatedAt,
	}
}

func ToFeeStructureResponses(list []model.FeeStructure) []FeeStructureResponse {
	out := make([]FeeStructureResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToFeeStructureResponse(m))
	}
	return out
}

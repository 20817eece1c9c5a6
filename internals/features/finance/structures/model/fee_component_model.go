// file: internals/features/finance/structures/model/fee_component_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ==============================
   ENUM — fee type & frequency
============================== */

type FeeType string

const (
	FeeTypeTuition   FeeType = "tuition"
	FeeTypeTransport FeeType = "transport"
	FeeTypeLab       FeeType = "lab"
	FeeTypeLibrary   FeeType = "library"
	FeeTypeSports    FeeType = "sports"
	FeeTypeExam      FeeType = "exam"
	FeeTypeAdmission FeeType = "admission"
	FeeTypeMisc      FeeType = "misc"
)

func (t FeeType) Valid() bool {
	switch t {
	case FeeTypeTuition, FeeTypeTransport, FeeTypeLab, FeeTypeLibrary,
		FeeTypeSports, FeeTypeExam, FeeTypeAdmission, FeeTypeMisc:
		return true
	}
	return false
}

type FeeFrequency string

const (
	FeeFrequencyOneTime   FeeFrequency = "one_time"
	FeeFrequencyMonthly   FeeFrequency = "monthly"
	FeeFrequencyQuarterly FeeFrequency = "quarterly"
	FeeFrequencyAnnual    FeeFrequency = "annual"
)

func (f FeeFrequency) Valid() bool {
	switch f {
	case FeeFrequencyOneTime, FeeFrequencyMonthly, FeeFrequencyQuarterly, FeeFrequencyAnnual:
		return true
	}
	return false
}

/* ==============================================
   MODEL — fee_components
   One billable line item, owned by exactly one
   fee structure.
============================================== */

type FeeComponent struct {
	// PK
	FeeComponentID uuid.UUID `gorm:"column:fee_component_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_component_id"`

	// FK → fee_structures
	FeeComponentFeeStructureID uuid.UUID `gorm:"column:fee_component_fee_structure_id;type:uuid;not null;index" json:"fee_component_fee_structure_id"`

	FeeComponentName     string       `gorm:"column:fee_component_name;type:varchar(120);not null" json:"fee_component_name"`
	FeeComponentFeeType  FeeType      `gorm:"column:fee_component_fee_type;type:varchar(20);not null" json:"fee_component_fee_type"`
	FeeComponentAmount   decimal.Decimal `gorm:"column:fee_component_amount;type:numeric(12,2);not null" json:"fee_component_amount"`
	FeeComponentFrequency FeeFrequency `gorm:"column:fee_component_frequency;type:varchar(20);not null;default:'one_time'" json:"fee_component_frequency"`

	FeeComponentIsMandatory         bool `gorm:"column:fee_component_is_mandatory;not null;default:true" json:"fee_component_is_mandatory"`
	FeeComponentAllowPartialPayment bool `gorm:"column:fee_component_allow_partial_payment;not null;default:false" json:"fee_component_allow_partial_payment"`

	// Late fee rule (fixed amount OR percentage of the component)
	FeeComponentLateFeeApplicable bool             `gorm:"column:fee_component_late_fee_applicable;not null;default:false" json:"fee_component_late_fee_applicable"`
	FeeComponentLateFeeAmount     *decimal.Decimal `gorm:"column:fee_component_late_fee_amount;type:numeric(12,2)" json:"fee_component_late_fee_amount,omitempty"`
	FeeComponentLateFeePercentage *decimal.Decimal `gorm:"column:fee_component_late_fee_percentage;type:numeric(5,2)" json:"fee_component_late_fee_percentage,omitempty"`

	// Display order inside the structure
	FeeComponentPosition int `gorm:"column:fee_component_position;not null;default:0;index" json:"fee_component_position"`

	// Audit
	FeeComponentCreatedAt time.Time      `gorm:"column:fee_component_created_at;type:timestamptz;not null;autoCreateTime" json:"fee_component_created_at"`
	FeeComponentUpdatedAt time.Time      `gorm:"column:fee_component_updated_at;type:timestamptz;not null;autoUpdateTime" json:"fee_component_updated_at"`
	FeeComponentDeletedAt gorm.DeletedAt `gorm:"column:fee_component_deleted_at;type:timestamptz;index" json:"-"`
}

func (FeeComponent) TableName() string { return "fee_components" }

func (m *FeeComponent) BeforeCreate(tx *gorm.DB) error {
	if m.FeeComponentID == uuid.Nil {
		m.FeeComponentID = uuid.New()
	}
	return nil
}

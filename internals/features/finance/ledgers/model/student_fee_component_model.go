// file: internals/features/finance/ledgers/model/student_fee_component_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	structures "schoolfee_backend/internals/features/finance/structures/model"
)

/* ==============================================
   MODEL — student_fee_components
   Snapshot of a fee component taken when the
   ledger entry is created. Later edits to the
   source structure do not touch these rows.
   Tracks a per-component paid sub-balance and
   the late fee accrued by the overdue sweep.
============================================== */

type StudentFeeComponent struct {
	// PK
	StudentFeeComponentID uuid.UUID `gorm:"column:student_fee_component_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_fee_component_id"`

	// FK → student_fees
	StudentFeeComponentStudentFeeID uuid.UUID `gorm:"column:student_fee_component_student_fee_id;type:uuid;not null;index" json:"student_fee_component_student_fee_id"`

	// Source component (for traceability; snapshot stands on its own)
	StudentFeeComponentSourceID uuid.UUID `gorm:"column:student_fee_component_source_id;type:uuid;not null" json:"student_fee_component_source_id"`

	StudentFeeComponentName      string                  `gorm:"column:student_fee_component_name;type:varchar(120);not null" json:"student_fee_component_name"`
	StudentFeeComponentFeeType   structures.FeeType      `gorm:"column:student_fee_component_fee_type;type:varchar(20);not null" json:"student_fee_component_fee_type"`
	StudentFeeComponentFrequency structures.FeeFrequency `gorm:"column:student_fee_component_frequency;type:varchar(20);not null" json:"student_fee_component_frequency"`

	// Amount after any per-ledger override ("custom" component)
	StudentFeeComponentAmount     decimal.Decimal `gorm:"column:student_fee_component_amount;type:numeric(12,2);not null" json:"student_fee_component_amount"`
	StudentFeeComponentIsOverride bool            `gorm:"column:student_fee_component_is_override;not null;default:false" json:"student_fee_component_is_override"`

	StudentFeeComponentIsMandatory         bool `gorm:"column:student_fee_component_is_mandatory;not null;default:true" json:"student_fee_component_is_mandatory"`
	StudentFeeComponentAllowPartialPayment bool `gorm:"column:student_fee_component_allow_partial_payment;not null;default:false" json:"student_fee_component_allow_partial_payment"`

	// Late fee rule snapshot + accrual state
	StudentFeeComponentLateFeeApplicable bool             `gorm:"column:student_fee_component_late_fee_applicable;not null;default:false" json:"student_fee_component_late_fee_applicable"`
	StudentFeeComponentLateFeeAmount     *decimal.Decimal `gorm:"column:student_fee_component_late_fee_amount;type:numeric(12,2)" json:"student_fee_component_late_fee_amount,omitempty"`
	StudentFeeComponentLateFeePercentage *decimal.Decimal `gorm:"column:student_fee_component_late_fee_percentage;type:numeric(5,2)" json:"student_fee_component_late_fee_percentage,omitempty"`
	StudentFeeComponentLateFeeAccrued    decimal.Decimal  `gorm:"column:student_fee_component_late_fee_accrued;type:numeric(12,2);not null" json:"student_fee_component_late_fee_accrued"`
	StudentFeeComponentLateFeeApplied    bool             `gorm:"column:student_fee_component_late_fee_applied;not null;default:false" json:"student_fee_component_late_fee_applied"`

	// Net payable after discount/scholarship allocation;
	// Σ net over components == ledger final amount.
	StudentFeeComponentNetAmount decimal.Decimal `gorm:"column:student_fee_component_net_amount;type:numeric(12,2);not null" json:"student_fee_component_net_amount"`

	// Paid sub-balance; Σ over components == ledger paid amount
	StudentFeeComponentPaidAmount decimal.Decimal `gorm:"column:student_fee_component_paid_amount;type:numeric(12,2);not null" json:"student_fee_component_paid_amount"`

	StudentFeeComponentPosition int `gorm:"column:student_fee_component_position;not null;default:0;index" json:"student_fee_component_position"`

	// Audit
	StudentFeeComponentCreatedAt time.Time `gorm:"column:student_fee_component_created_at;type:timestamptz;not null;autoCreateTime" json:"student_fee_component_created_at"`
	StudentFeeComponentUpdatedAt time.Time `gorm:"column:student_fee_component_updated_at;type:timestamptz;not null;autoUpdateTime" json:"student_fee_component_updated_at"`
}

func (StudentFeeComponent) TableName() string { return "student_fee_components" }

// EffectiveAmount is the owed amount for this component including any
// accrued late fee.
func (m *StudentFeeComponent) EffectiveAmount() decimal.Decimal {
	return m.StudentFeeComponentAmount.Add(m.StudentFeeComponentLateFeeAccrued)
}

// Remaining is the still-unpaid share of this component's net amount.
func (m *StudentFeeComponent) Remaining() decimal.Decimal {
	r := m.StudentFeeComponentNetAmount.Sub(m.StudentFeeComponentPaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

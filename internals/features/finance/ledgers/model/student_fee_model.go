// file: internals/features/finance/ledgers/model/student_fee_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ==============================
   ENUM — ledger status
============================== */

type StudentFeeStatus string

const (
	StudentFeeStatusPending StudentFeeStatus = "pending"
	StudentFeeStatusPartial StudentFeeStatus = "partial"
	StudentFeeStatusPaid    StudentFeeStatus = "paid"
	StudentFeeStatusOverdue StudentFeeStatus = "overdue"
)

/* ==============================================
   MODEL — student_fees
   Per-student instantiation of a fee structure.
   Amounts are recomputed, never set directly:
     total   = Σ component amounts (incl. accrued late fees)
     final   = max(0, total - discount - scholarship)
     balance = final - paid, always >= 0
============================================== */

type StudentFee struct {
	// PK
	StudentFeeID uuid.UUID `gorm:"column:student_fee_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_fee_id"`

	// Tenant & subject
	StudentFeeSchoolID  uuid.UUID `gorm:"column:student_fee_school_id;type:uuid;not null;index" json:"student_fee_school_id"`
	StudentFeeStudentID uuid.UUID `gorm:"column:student_fee_student_id;type:uuid;not null;index" json:"student_fee_student_id"`

	// FK → fee_structures (template the snapshot was taken from)
	StudentFeeFeeStructureID uuid.UUID `gorm:"column:student_fee_fee_structure_id;type:uuid;not null;index" json:"student_fee_fee_structure_id"`

	// Amounts
	StudentFeeTotalAmount       decimal.Decimal `gorm:"column:student_fee_total_amount;type:numeric(12,2);not null" json:"student_fee_total_amount"`
	StudentFeeDiscountAmount    decimal.Decimal `gorm:"column:student_fee_discount_amount;type:numeric(12,2);not null" json:"student_fee_discount_amount"`
	StudentFeeScholarshipAmount decimal.Decimal `gorm:"column:student_fee_scholarship_amount;type:numeric(12,2);not null" json:"student_fee_scholarship_amount"`
	StudentFeeFinalAmount       decimal.Decimal `gorm:"column:student_fee_final_amount;type:numeric(12,2);not null" json:"student_fee_final_amount"`
	StudentFeePaidAmount        decimal.Decimal `gorm:"column:student_fee_paid_amount;type:numeric(12,2);not null" json:"student_fee_paid_amount"`
	StudentFeeBalanceAmount     decimal.Decimal `gorm:"column:student_fee_balance_amount;type:numeric(12,2);not null" json:"student_fee_balance_amount"`

	// Status (derived, see service.DeriveStatus)
	StudentFeeStatus  StudentFeeStatus `gorm:"column:student_fee_status;type:varchar(20);not null;default:'pending';index" json:"student_fee_status"`
	StudentFeeDueDate *time.Time       `gorm:"column:student_fee_due_date;type:timestamptz;index" json:"student_fee_due_date,omitempty"`

	// Children
	StudentFeeComponents   []StudentFeeComponent   `gorm:"foreignKey:StudentFeeComponentStudentFeeID;references:StudentFeeID" json:"student_fee_components,omitempty"`
	StudentFeeDiscounts    []StudentFeeDiscount    `gorm:"foreignKey:StudentFeeDiscountStudentFeeID;references:StudentFeeID" json:"student_fee_discounts,omitempty"`
	StudentFeeScholarships []StudentFeeScholarship `gorm:"foreignKey:StudentFeeScholarshipStudentFeeID;references:StudentFeeID" json:"student_fee_scholarships,omitempty"`

	// Audit
	StudentFeeCreatedAt time.Time      `gorm:"column:student_fee_created_at;type:timestamptz;not null;autoCreateTime;index" json:"student_fee_created_at"`
	StudentFeeUpdatedAt time.Time      `gorm:"column:student_fee_updated_at;type:timestamptz;not null;autoUpdateTime" json:"student_fee_updated_at"`
	StudentFeeDeletedAt gorm.DeletedAt `gorm:"column:student_fee_deleted_at;type:timestamptz;index" json:"-"`
}

func (StudentFee) TableName() string { return "student_fees" }

func (m *StudentFee) BeforeCreate(tx *gorm.DB) error {
	if m.StudentFeeID == uuid.Nil {
		m.StudentFeeID = uuid.New()
	}
	return nil
}

// ComponentByID returns the snapshot component with the given id, or nil.
func (m *StudentFee) ComponentByID(id uuid.UUID) *StudentFeeComponent {
	for i := range m.StudentFeeComponents {
		if m.StudentFeeComponents[i].StudentFeeComponentID == id {
			return &m.StudentFeeComponents[i]
		}
	}
	return nil
}

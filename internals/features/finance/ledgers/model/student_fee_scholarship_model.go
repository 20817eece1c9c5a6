// file: internals/features/finance/ledgers/model/student_fee_scholarship_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ==============================
   ENUM — scholarship status
============================== */

type ScholarshipStatus string

const (
	ScholarshipStatusActive  ScholarshipStatus = "active"
	ScholarshipStatusRevoked ScholarshipStatus = "revoked"
)

/* ==============================================
   MODEL — student_fee_scholarships
   Unconditional fixed deduction, additive with
   discounts but tracked separately for reporting.
============================================== */

type StudentFeeScholarship struct {
	// PK
	StudentFeeScholarshipID uuid.UUID `gorm:"column:student_fee_scholarship_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_fee_scholarship_id"`

	// FK → student_fees
	StudentFeeScholarshipStudentFeeID uuid.UUID `gorm:"column:student_fee_scholarship_student_fee_id;type:uuid;not null;index" json:"student_fee_scholarship_student_fee_id"`

	StudentFeeScholarshipName     string          `gorm:"column:student_fee_scholarship_name;type:varchar(120);not null" json:"student_fee_scholarship_name"`
	StudentFeeScholarshipAmount   decimal.Decimal `gorm:"column:student_fee_scholarship_amount;type:numeric(12,2);not null" json:"student_fee_scholarship_amount"`
	StudentFeeScholarshipProvider *string         `gorm:"column:student_fee_scholarship_provider;type:varchar(120)" json:"student_fee_scholarship_provider,omitempty"`

	StudentFeeScholarshipStatus ScholarshipStatus `gorm:"column:student_fee_scholarship_status;type:varchar(20);not null;default:'active'" json:"student_fee_scholarship_status"`

	StudentFeeScholarshipCreatedAt time.Time `gorm:"column:student_fee_scholarship_created_at;type:timestamptz;not null;autoCreateTime" json:"student_fee_scholarship_created_at"`
}

func (StudentFeeScholarship) TableName() string { return "student_fee_scholarships" }

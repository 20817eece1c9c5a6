// file: internals/features/finance/ledgers/model/student_fee_discount_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ==============================
   ENUM — discount type
============================== */

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

func (t DiscountType) Valid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixedAmount
}

/* ==============================================
   MODEL — student_fee_discounts
   Reason-justified reduction attached to one
   ledger entry. applied_to_component_id NULL
   means the discount is scoped to the total.
============================================== */

type StudentFeeDiscount struct {
	// PK
	StudentFeeDiscountID uuid.UUID `gorm:"column:student_fee_discount_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_fee_discount_id"`

	// FK → student_fees
	StudentFeeDiscountStudentFeeID uuid.UUID `gorm:"column:student_fee_discount_student_fee_id;type:uuid;not null;index" json:"student_fee_discount_student_fee_id"`

	StudentFeeDiscountName  string          `gorm:"column:student_fee_discount_name;type:varchar(120);not null" json:"student_fee_discount_name"`
	StudentFeeDiscountType  DiscountType    `gorm:"column:student_fee_discount_type;type:varchar(20);not null" json:"student_fee_discount_type"`
	StudentFeeDiscountValue decimal.Decimal `gorm:"column:student_fee_discount_value;type:numeric(12,2);not null" json:"student_fee_discount_value"`

	// NULL = applies to the ledger total
	StudentFeeDiscountAppliedToComponentID *uuid.UUID `gorm:"column:student_fee_discount_applied_to_component_id;type:uuid" json:"student_fee_discount_applied_to_component_id,omitempty"`

	// Audit traceability is mandatory; empty reasons are rejected
	StudentFeeDiscountReason string `gorm:"column:student_fee_discount_reason;type:text;not null" json:"student_fee_discount_reason"`

	StudentFeeDiscountCreatedAt time.Time `gorm:"column:student_fee_discount_created_at;type:timestamptz;not null;autoCreateTime" json:"student_fee_discount_created_at"`
}

func (StudentFeeDiscount) TableName() string { return "student_fee_discounts" }

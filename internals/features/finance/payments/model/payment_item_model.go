// file: internals/features/finance/payments/model/payment_item_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ==============================================
   MODEL — payment_items
   Per-component allocation of a payment. The sum
   of item amounts equals the payment amount.
============================================== */

type PaymentItem struct {
	PaymentItemID uuid.UUID `gorm:"column:payment_item_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_item_id"`

	// FK → payments
	PaymentItemPaymentID uuid.UUID `gorm:"column:payment_item_payment_id;type:uuid;not null;index" json:"payment_item_payment_id"`

	// FK → student_fee_components (snapshot row the amount was applied to)
	PaymentItemStudentFeeComponentID uuid.UUID `gorm:"column:payment_item_student_fee_component_id;type:uuid;not null;index" json:"payment_item_student_fee_component_id"`

	PaymentItemAmount decimal.Decimal `gorm:"column:payment_item_amount;type:numeric(12,2);not null" json:"payment_item_amount"`

	PaymentItemCreatedAt time.Time `gorm:"column:payment_item_created_at;type:timestamptz;not null;autoCreateTime" json:"payment_item_created_at"`
}

func (PaymentItem) TableName() string { return "payment_items" }

func (m *PaymentItem) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentItemID == uuid.Nil {
		m.PaymentItemID = uuid.New()
	}
	return nil
}

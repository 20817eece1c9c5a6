// file: internals/features/finance/payments/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodDD           PaymentMethod = "dd"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard,
		PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodDD:
		return true
	}
	return false
}

// RequiresReferenceNumber reports whether the method needs a manual
// reference (cheque/DD number).
func (m PaymentMethod) RequiresReferenceNumber() bool {
	return m == PaymentMethodCheque || m == PaymentMethodDD
}

// RequiresTransactionID reports whether the method needs an electronic
// transaction id.
func (m PaymentMethod) RequiresTransactionID() bool {
	return m == PaymentMethodUPI || m == PaymentMethodCard || m == PaymentMethodBankTransfer
}

// PaymentKind separates regular payments from reversal events.
// Corrections are appended as reversals, never edited in place.
type PaymentKind string

const (
	PaymentKindPayment  PaymentKind = "payment"
	PaymentKindReversal PaymentKind = "reversal"
)

func (k PaymentKind) Valid() bool {
	return k == PaymentKindPayment || k == PaymentKindReversal
}

/* ===================== Model ===================== */

// Payment is immutable once created.
type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	PaymentSchoolID     uuid.UUID `gorm:"column:payment_school_id;type:uuid;not null;index;uniqueIndex:uniq_payment_receipt,priority:1" json:"payment_school_id"`
	PaymentStudentFeeID uuid.UUID `gorm:"column:payment_student_fee_id;type:uuid;not null;index" json:"payment_student_fee_id"`

	PaymentKind   PaymentKind     `gorm:"column:payment_kind;type:varchar(20);not null;default:'payment'" json:"payment_kind"`
	PaymentAmount decimal.Decimal `gorm:"column:payment_amount;type:numeric(12,2);not null" json:"payment_amount"`
	PaymentMethod PaymentMethod   `gorm:"column:payment_method;type:varchar(20);not null" json:"payment_method"`

	// Institution-scoped, strictly increasing
	PaymentReceiptNumber int64 `gorm:"column:payment_receipt_number;not null;uniqueIndex:uniq_payment_receipt,priority:2" json:"payment_receipt_number"`

	PaymentTransactionID   *string `gorm:"column:payment_transaction_id;type:varchar(120)" json:"payment_transaction_id,omitempty"`
	PaymentReferenceNumber *string `gorm:"column:payment_reference_number;type:varchar(120)" json:"payment_reference_number,omitempty"`

	PaymentPaidAt      time.Time  `gorm:"column:payment_paid_at;type:timestamptz;not null" json:"payment_paid_at"`
	PaymentCollectedBy *uuid.UUID `gorm:"column:payment_collected_by;type:uuid" json:"payment_collected_by,omitempty"`

	// Free-form metadata from the caller (narration, counter id, ...)
	PaymentMeta datatypes.JSON `gorm:"column:payment_meta;type:jsonb" json:"payment_meta,omitempty"`

	PaymentItems []PaymentItem `gorm:"foreignKey:PaymentItemPaymentID;references:PaymentID" json:"payment_items,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;type:timestamptz;not null;autoCreateTime;index" json:"payment_created_at"`
}

func (Payment) TableName() string { return "payments" }

func (m *Payment) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	if m.PaymentPaidAt.IsZero() {
		m.PaymentPaidAt = time.Now()
	}
	return nil
}

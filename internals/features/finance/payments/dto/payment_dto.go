// file: internals/features/finance/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"schoolfee_backend/internals/features/finance/payments/model"
	"schoolfee_backend/internals/features/finance/payments/service"
)

////////////////////////////////////////////////////////////////////////////////
// PAYMENTS — DTO
////////////////////////////////////////////////////////////////////////////////

type PaymentCreateDTO struct {
	PaymentSchoolID     uuid.UUID `json:"payment_school_id" validate:"required"`
	PaymentStudentFeeID uuid.UUID `json:"payment_student_fee_id" validate:"required"`

	// Empty kind defaults to a regular payment; "reversal" releases a
	// previously recorded amount back onto the balance.
	PaymentKind   string          `json:"payment_kind,omitempty" validate:"omitempty,oneof=payment reversal"`
	PaymentAmount decimal.Decimal `json:"payment_amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash upi card bank_transfer cheque dd"`

	PaymentTransactionID   *string `json:"payment_transaction_id,omitempty"`
	PaymentReferenceNumber *string `json:"payment_reference_number,omitempty"`

	PaymentTargetComponentID *uuid.UUID `json:"payment_target_component_id,omitempty"`

	PaymentCollectedBy *uuid.UUID     `json:"payment_collected_by,omitempty"`
	PaymentPaidAt      *time.Time     `json:"payment_paid_at,omitempty"`
	PaymentMeta        datatypes.JSON `json:"payment_meta,omitempty"`
}

func ToRecordPaymentInput(d PaymentCreateDTO) service.RecordPaymentInput {
	return service.RecordPaymentInput{
		SchoolID:          d.PaymentSchoolID,
		StudentFeeID:      d.PaymentStudentFeeID,
		Kind:              model.PaymentKind(d.PaymentKind),
		Amount:            d.PaymentAmount,
		Method:            model.PaymentMethod(d.PaymentMethod),
		TransactionID:     d.PaymentTransactionID,
		ReferenceNumber:   d.PaymentReferenceNumber,
		TargetComponentID: d.PaymentTargetComponentID,
		CollectedBy:       d.PaymentCollectedBy,
		PaidAt:            d.PaymentPaidAt,
		Meta:              d.PaymentMeta,
	}
}

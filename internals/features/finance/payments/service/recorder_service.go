// file: internals/features/finance/payments/service/recorder_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"schoolfee_backend/internals/features/finance/errs"
	ledgermodel "schoolfee_backend/internals/features/finance/ledgers/model"
	ledgersvc "schoolfee_backend/internals/features/finance/ledgers/service"
	"schoolfee_backend/internals/features/finance/payments/model"
	"schoolfee_backend/internals/features/finance/storage"
)

// maxAttempts bounds the internal retry on concurrent-write conflicts
// before the ConflictError surfaces to the caller.
const maxAttempts = 3

/* ==============================================
   RecorderService — Payment Recorder
============================================== */

type RecorderService struct {
	Store storage.Store
}

func NewRecorderService(store storage.Store) *RecorderService {
	return &RecorderService{Store: store}
}

type RecordPaymentInput struct {
	SchoolID     uuid.UUID
	StudentFeeID uuid.UUID

	Kind   model.PaymentKind // empty = regular payment
	Amount decimal.Decimal
	Method model.PaymentMethod

	TransactionID   *string
	ReferenceNumber *string

	// Optional: apply the amount to one snapshot component instead of
	// the greedy position-order allocation.
	TargetComponentID *uuid.UUID

	CollectedBy *uuid.UUID
	PaidAt      *time.Time
	Meta        datatypes.JSON
}

type RecordPaymentResult struct {
	Payment *model.Payment          `json:"payment"`
	Ledger  *ledgermodel.StudentFee `json:"ledger"`
}

func nonEmpty(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}

// validateInput checks everything that does not need ledger state.
func validateInput(in *RecordPaymentInput) error {
	if in.Kind == "" {
		in.Kind = model.PaymentKindPayment
	}
	if !in.Kind.Valid() {
		return errs.Validationf("payment_kind", "unknown payment kind %q", in.Kind)
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return errs.Validation("payment_amount", "payment amount must be positive")
	}
	if !in.Method.Valid() {
		return errs.Validationf("payment_method", "unknown payment method %q", in.Method)
	}
	if in.Method.RequiresReferenceNumber() && !nonEmpty(in.ReferenceNumber) {
		return errs.Validationf("payment_reference_number", "%s payments need a reference number", in.Method)
	}
	if in.Method.RequiresTransactionID() && !nonEmpty(in.TransactionID) {
		return errs.Validationf("payment_transaction_id", "%s payments need a transaction id", in.Method)
	}
	return nil
}

// RecordPayment appends an immutable payment event and updates the
// ledger inside one transaction: receipt number, paid amount, balance
// and status move together or not at all. Conflicts from concurrent
// writers on the same ledger or counter are retried with backoff up
// to maxAttempts.
func (s *RecorderService) RecordPayment(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	var res *RecordPaymentResult
	var err error
	for attempt := 1; ; attempt++ {
		res, err = s.recordOnce(ctx, in)
		if err == nil || !errs.IsRetryable(err) || attempt >= maxAttempts {
			return res, err
		}
		time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
	}
}

func (s *RecorderService) recordOnce(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	var out RecordPaymentResult
	err := s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		lf, err := tx.GetStudentFeeForUpdate(ctx, in.StudentFeeID)
		if err != nil {
			return err
		}
		if lf.StudentFeeSchoolID != in.SchoolID {
			return errs.NotFound("student_fee_id", "student fee not found")
		}

		var items []model.PaymentItem
		switch in.Kind {
		case model.PaymentKindPayment:
			items, err = applyPayment(lf, in)
		case model.PaymentKindReversal:
			items, err = applyReversal(lf, in.Amount)
		}
		if err != nil {
			return err
		}

		next, err := tx.NextReceiptNumber(ctx, in.SchoolID)
		if err != nil {
			return err
		}

		paidAt := time.Now()
		if in.PaidAt != nil {
			paidAt = *in.PaidAt
		}
		p := &model.Payment{
			PaymentID:              uuid.New(),
			PaymentSchoolID:        in.SchoolID,
			PaymentStudentFeeID:    lf.StudentFeeID,
			PaymentKind:            in.Kind,
			PaymentAmount:          in.Amount.Round(2),
			PaymentMethod:          in.Method,
			PaymentReceiptNumber:   next,
			PaymentTransactionID:   in.TransactionID,
			PaymentReferenceNumber: in.ReferenceNumber,
			PaymentPaidAt:          paidAt,
			PaymentCollectedBy:     in.CollectedBy,
			PaymentMeta:            in.Meta,
			PaymentItems:           items,
		}
		if err := tx.AppendPayment(ctx, p); err != nil {
			return err
		}

		if err := ledgersvc.Recompute(lf, paidAt); err != nil {
			return err
		}
		if err := tx.SaveStudentFee(ctx, lf); err != nil {
			return err
		}

		out = RecordPaymentResult{Payment: p, Ledger: lf}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// applyPayment validates the amount against the freshly-read balance
// and distributes it over component sub-balances.
func applyPayment(lf *ledgermodel.StudentFee, in RecordPaymentInput) ([]model.PaymentItem, error) {
	if lf.StudentFeeStatus == ledgermodel.StudentFeeStatusPaid {
		return nil, errs.State("student_fee_id", "ledger is fully paid; record a reversal to reopen it")
	}

	amount := in.Amount.Round(2)

	if in.TargetComponentID != nil {
		comp := findComponent(lf, *in.TargetComponentID)
		if comp == nil {
			return nil, errs.NotFound("target_component_id", "payment targets an unknown component")
		}
		remaining := comp.Remaining()
		if amount.GreaterThan(remaining) {
			return nil, errs.Conflict("payment_amount", "payment exceeds the component's remaining balance")
		}
		if !comp.StudentFeeComponentAllowPartialPayment && !amount.Equal(remaining) {
			return nil, errs.Validation("payment_amount", "component does not allow partial payment")
		}
		comp.StudentFeeComponentPaidAmount = comp.StudentFeeComponentPaidAmount.Add(amount)
		lf.StudentFeePaidAmount = lf.StudentFeePaidAmount.Add(amount)
		return []model.PaymentItem{{
			PaymentItemStudentFeeComponentID: comp.StudentFeeComponentID,
			PaymentItemAmount:                amount,
		}}, nil
	}

	if amount.GreaterThan(lf.StudentFeeBalanceAmount) {
		return nil, errs.Conflict("payment_amount", "payment exceeds the outstanding balance")
	}

	// greedy allocation across components in position order
	var items []model.PaymentItem
	left := amount
	for i := range lf.StudentFeeComponents {
		if !left.IsPositive() {
			break
		}
		comp := &lf.StudentFeeComponents[i]
		take := comp.Remaining()
		if take.GreaterThan(left) {
			take = left
		}
		if !take.IsPositive() {
			continue
		}
		comp.StudentFeeComponentPaidAmount = comp.StudentFeeComponentPaidAmount.Add(take)
		items = append(items, model.PaymentItem{
			PaymentItemStudentFeeComponentID: comp.StudentFeeComponentID,
			PaymentItemAmount:                take,
		})
		left = left.Sub(take)
	}
	lf.StudentFeePaidAmount = lf.StudentFeePaidAmount.Add(amount)
	return items, nil
}

// applyReversal backs a previously recorded amount out of the ledger.
// This is the only way money leaves a PAID ledger; the original
// payment rows stay untouched.
func applyReversal(lf *ledgermodel.StudentFee, amount decimal.Decimal) ([]model.PaymentItem, error) {
	amount = amount.Round(2)
	if amount.GreaterThan(lf.StudentFeePaidAmount) {
		return nil, errs.Conflict("payment_amount", "reversal exceeds the recorded paid amount")
	}

	// release component sub-balances newest-position-first
	var items []model.PaymentItem
	left := amount
	for i := len(lf.StudentFeeComponents) - 1; i >= 0 && left.IsPositive(); i-- {
		comp := &lf.StudentFeeComponents[i]
		take := comp.StudentFeeComponentPaidAmount
		if take.GreaterThan(left) {
			take = left
		}
		if !take.IsPositive() {
			continue
		}
		comp.StudentFeeComponentPaidAmount = comp.StudentFeeComponentPaidAmount.Sub(take)
		items = append(items, model.PaymentItem{
			PaymentItemStudentFeeComponentID: comp.StudentFeeComponentID,
			PaymentItemAmount:                take.Neg(),
		})
		left = left.Sub(take)
	}
	lf.StudentFeePaidAmount = lf.StudentFeePaidAmount.Sub(amount)
	return items, nil
}

func findComponent(lf *ledgermodel.StudentFee, id uuid.UUID) *ledgermodel.StudentFeeComponent {
	for i := range lf.StudentFeeComponents {
		c := &lf.StudentFeeComponents[i]
		if c.StudentFeeComponentID == id || c.StudentFeeComponentSourceID == id {
			return c
		}
	}
	return nil
}

/* ----- read model ----- */

func (s *RecorderService) ListPayments(ctx context.Context, f storage.PaymentFilter) ([]model.Payment, int64, error) {
	return s.Store.ListPayments(ctx, f)
}

// file: internals/features/finance/ledgers/service/status.go
package service

import (
	"time"

	"github.com/shopspring/decimal"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/ledgers/model"
)

// DeriveStatus is the status state machine. It is a pure function of
// (paid, final, dueDate, now); the stored status column is only ever
// assigned from its result.
//
//	pending — nothing paid yet
//	partial — 0 < paid < final
//	paid    — paid >= final (terminal until a reversal)
//	overdue — balance outstanding past the due date; display override,
//	          the paid amount is untouched
func DeriveStatus(paid, final decimal.Decimal, dueDate *time.Time, now time.Time) model.StudentFeeStatus {
	balance := final.Sub(paid)
	if balance.GreaterThan(decimal.Zero) && dueDate != nil && now.After(*dueDate) {
		return model.StudentFeeStatusOverdue
	}
	if paid.GreaterThanOrEqual(final) {
		return model.StudentFeeStatusPaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return model.StudentFeeStatusPartial
	}
	return model.StudentFeeStatusPending
}

// Recompute re-derives every derived field of the ledger from its
// children and re-checks the money invariants. Mutation paths call it
// after every write; a ledger is never saved with stale derived state.
func Recompute(lf *model.StudentFee, now time.Time) error {
	charges, err := ComputeCharges(lf.StudentFeeComponents, lf.StudentFeeDiscounts, lf.StudentFeeScholarships)
	if err != nil {
		return err
	}
	AllocateNet(lf.StudentFeeComponents, lf.StudentFeeDiscounts, charges)

	balance := charges.FinalAmount.Sub(lf.StudentFeePaidAmount)
	if balance.IsNegative() {
		return errs.State("student_fee_balance_amount", "paid amount exceeds the final payable")
	}

	lf.StudentFeeTotalAmount = charges.TotalAmount
	lf.StudentFeeDiscountAmount = charges.DiscountAmount
	lf.StudentFeeScholarshipAmount = charges.ScholarshipAmount
	lf.StudentFeeFinalAmount = charges.FinalAmount
	lf.StudentFeeBalanceAmount = balance
	lf.StudentFeeStatus = DeriveStatus(lf.StudentFeePaidAmount, charges.FinalAmount, lf.StudentFeeDueDate, now)
	return nil
}

// file: internals/features/finance/ledgers/service/latefee.go
package service

import (
	"time"

	"github.com/shopspring/decimal"

	"schoolfee_backend/internals/features/finance/ledgers/model"
)

// accrueLateFees charges the late-fee rule of every flagged component
// exactly once after the due date has elapsed with balance outstanding.
// The accrual raises what is owed (component effective amount → total),
// never what was already paid. Returns true when anything accrued, so
// re-running the sweep on an already-swept ledger is a no-op.
func accrueLateFees(lf *model.StudentFee, now time.Time) bool {
	if lf.StudentFeeDueDate == nil || !now.After(*lf.StudentFeeDueDate) {
		return false
	}
	if !lf.StudentFeeBalanceAmount.GreaterThan(decimal.Zero) {
		return false
	}

	accrued := false
	for i := range lf.StudentFeeComponents {
		c := &lf.StudentFeeComponents[i]
		if !c.StudentFeeComponentLateFeeApplicable || c.StudentFeeComponentLateFeeApplied {
			continue
		}
		fee := lateFeeFor(c)
		if !fee.IsPositive() {
			c.StudentFeeComponentLateFeeApplied = true
			continue
		}
		c.StudentFeeComponentLateFeeAccrued = c.StudentFeeComponentLateFeeAccrued.Add(fee)
		c.StudentFeeComponentLateFeeApplied = true
		accrued = true
	}
	return accrued
}

// lateFeeFor evaluates a component's late-fee rule: a fixed amount
// wins when set, otherwise a percentage of the component amount.
// Rounded half-up to 2 decimal places at the point of computation.
func lateFeeFor(c *model.StudentFeeComponent) decimal.Decimal {
	if c.StudentFeeComponentLateFeeAmount != nil && c.StudentFeeComponentLateFeeAmount.IsPositive() {
		return c.StudentFeeComponentLateFeeAmount.Round(2)
	}
	if c.StudentFeeComponentLateFeePercentage != nil && c.StudentFeeComponentLateFeePercentage.IsPositive() {
		return c.StudentFeeComponentAmount.
			Mul(*c.StudentFeeComponentLateFeePercentage).
			Div(hundred).
			Round(2)
	}
	return decimal.Zero
}

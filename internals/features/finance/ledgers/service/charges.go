// file: internals/features/finance/ledgers/service/charges.go
package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/ledgers/model"
)

var hundred = decimal.NewFromInt(100)

// Charges is the computed money summary of a ledger entry.
type Charges struct {
	TotalAmount       decimal.Decimal `json:"total_amount"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	ScholarshipAmount decimal.Decimal `json:"scholarship_amount"`
	FinalAmount       decimal.Decimal `json:"final_amount"`
}

// ValidateDiscount enforces construction-time rules: a known type, a
// non-negative value, and a non-empty reason (audit traceability is
// mandatory).
func ValidateDiscount(d model.StudentFeeDiscount) error {
	if !d.StudentFeeDiscountType.Valid() {
		return errs.Validationf("student_fee_discount_type", "unknown discount type %q", d.StudentFeeDiscountType)
	}
	if d.StudentFeeDiscountValue.IsNegative() {
		return errs.Validation("student_fee_discount_value", "discount value must not be negative")
	}
	if strings.TrimSpace(d.StudentFeeDiscountReason) == "" {
		return errs.Validation("student_fee_discount_reason", "discount reason must not be empty")
	}
	return nil
}

// discountBase resolves the base a discount is evaluated against: the
// ledger total for total-scoped discounts, a single component's
// effective amount otherwise. Discounts never compound against each
// other's results; every one of them is a share of its original base.
func discountBase(d model.StudentFeeDiscount, total decimal.Decimal, components []model.StudentFeeComponent) (decimal.Decimal, error) {
	if d.StudentFeeDiscountAppliedToComponentID == nil {
		return total, nil
	}
	for i := range components {
		if components[i].StudentFeeComponentID == *d.StudentFeeDiscountAppliedToComponentID {
			return components[i].EffectiveAmount(), nil
		}
	}
	return decimal.Zero, errs.NotFound("student_fee_discount_applied_to_component_id", "discount targets an unknown component")
}

// discountAmount evaluates one discount against its own base.
// Percentages are clamped to [0, 100], fixed amounts to [0, base];
// the result is rounded half-up to 2 decimal places here, at the
// point of computation, never earlier.
func discountAmount(d model.StudentFeeDiscount, base decimal.Decimal) decimal.Decimal {
	switch d.StudentFeeDiscountType {
	case model.DiscountTypePercentage:
		pct := d.StudentFeeDiscountValue
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		return base.Mul(pct).Div(hundred).Round(2)
	case model.DiscountTypeFixedAmount:
		v := d.StudentFeeDiscountValue
		if v.IsNegative() {
			v = decimal.Zero
		}
		if v.GreaterThan(base) {
			v = base
		}
		return v.Round(2)
	}
	return decimal.Zero
}

// ComputeCharges derives the money summary from (possibly overridden)
// component snapshots, discounts and scholarships:
//
//	total       = Σ component effective amounts
//	discount    = Σ per-discount amounts, each against its own base
//	scholarship = Σ active scholarship amounts
//	final       = max(0, total - discount - scholarship)
//
// The discount+scholarship sum is capped at the total; the excess is
// dropped, never turned into a credit.
func ComputeCharges(components []model.StudentFeeComponent, discounts []model.StudentFeeDiscount, scholarships []model.StudentFeeScholarship) (Charges, error) {
	total := decimal.Zero
	for i := range components {
		total = total.Add(components[i].EffectiveAmount())
	}
	total = total.Round(2)

	discount := decimal.Zero
	for _, d := range discounts {
		if err := ValidateDiscount(d); err != nil {
			return Charges{}, err
		}
		base, err := discountBase(d, total, components)
		if err != nil {
			return Charges{}, err
		}
		discount = discount.Add(discountAmount(d, base))
	}

	scholarship := decimal.Zero
	for _, sc := range scholarships {
		if sc.StudentFeeScholarshipStatus == model.ScholarshipStatusRevoked {
			continue
		}
		if sc.StudentFeeScholarshipAmount.IsNegative() {
			return Charges{}, errs.Validation("student_fee_scholarship_amount", "scholarship amount must not be negative")
		}
		scholarship = scholarship.Add(sc.StudentFeeScholarshipAmount.Round(2))
	}

	// cap so discount + scholarship never exceeds the total
	if scholarship.GreaterThan(total) {
		scholarship = total
		discount = decimal.Zero
	} else if discount.Add(scholarship).GreaterThan(total) {
		discount = total.Sub(scholarship)
	}

	return Charges{
		TotalAmount:       total,
		DiscountAmount:    discount,
		ScholarshipAmount: scholarship,
		FinalAmount:       total.Sub(discount).Sub(scholarship),
	}, nil
}

// AllocateNet distributes the final payable across component snapshots
// so that per-component sub-balances sum to the ledger balance.
// Component-scoped discounts reduce their own component; total-scoped
// discounts and scholarships are absorbed greedily in position order.
// A net never drops below what the component has already collected;
// reductions attached after a payment shift onto components that still
// have unpaid headroom.
func AllocateNet(components []model.StudentFeeComponent, discounts []model.StudentFeeDiscount, charges Charges) {
	nets := make([]decimal.Decimal, len(components))
	for i := range components {
		nets[i] = components[i].EffectiveAmount()
	}

	absorbed := decimal.Zero
	for _, d := range discounts {
		if d.StudentFeeDiscountAppliedToComponentID == nil {
			continue
		}
		for i := range components {
			if components[i].StudentFeeComponentID != *d.StudentFeeDiscountAppliedToComponentID {
				continue
			}
			amt := discountAmount(d, components[i].EffectiveAmount())
			if amt.GreaterThan(nets[i]) {
				amt = nets[i]
			}
			nets[i] = nets[i].Sub(amt)
			absorbed = absorbed.Add(amt)
			break
		}
	}

	// whatever the component-scoped discounts did not absorb
	rest := charges.DiscountAmount.Add(charges.ScholarshipAmount).Sub(absorbed)
	for i := range nets {
		if !rest.IsPositive() {
			break
		}
		take := nets[i]
		if take.GreaterThan(rest) {
			take = rest
		}
		nets[i] = nets[i].Sub(take)
		rest = rest.Sub(take)
	}
	if rest.IsNegative() && len(nets) > 0 {
		// cap clipping absorbed more through component-scoped
		// discounts than the summary allows; give the surplus back
		nets[0] = nets[0].Add(rest.Neg())
	}

	// floor each net at the collected amount so Remaining() never
	// clamps; the shortfall moves to components with unpaid headroom
	deficit := decimal.Zero
	for i := range nets {
		paid := components[i].StudentFeeComponentPaidAmount
		if nets[i].LessThan(paid) {
			deficit = deficit.Add(paid.Sub(nets[i]))
			nets[i] = paid
		}
	}
	for i := range nets {
		if !deficit.IsPositive() {
			break
		}
		headroom := nets[i].Sub(components[i].StudentFeeComponentPaidAmount)
		if !headroom.IsPositive() {
			continue
		}
		if headroom.GreaterThan(deficit) {
			headroom = deficit
		}
		nets[i] = nets[i].Sub(headroom)
		deficit = deficit.Sub(headroom)
	}

	for i := range components {
		components[i].StudentFeeComponentNetAmount = nets[i]
	}
}

// file: internals/features/finance/ledgers/service/charges_test.go
package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/ledgers/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func component(name string, amount string) model.StudentFeeComponent {
	return model.StudentFeeComponent{
		StudentFeeComponentID:     uuid.New(),
		StudentFeeComponentName:   name,
		StudentFeeComponentAmount: dec(amount),
	}
}

func totalDiscount(typ model.DiscountType, value string) model.StudentFeeDiscount {
	return model.StudentFeeDiscount{
		StudentFeeDiscountID:     uuid.New(),
		StudentFeeDiscountName:   "test discount",
		StudentFeeDiscountType:   typ,
		StudentFeeDiscountValue:  dec(value),
		StudentFeeDiscountReason: "because",
	}
}

func scholarship(amount string) model.StudentFeeScholarship {
	return model.StudentFeeScholarship{
		StudentFeeScholarshipID:     uuid.New(),
		StudentFeeScholarshipName:   "merit",
		StudentFeeScholarshipAmount: dec(amount),
		StudentFeeScholarshipStatus: model.ScholarshipStatusActive,
	}
}

func TestComputeCharges_PercentageDiscountOnTotal(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "10000")}
	d := totalDiscount(model.DiscountTypePercentage, "10")
	d.StudentFeeDiscountReason = "Sibling"

	charges, err := ComputeCharges(components, []model.StudentFeeDiscount{d}, nil)
	require.NoError(t, err)
	assert.True(t, charges.TotalAmount.Equal(dec("10000")))
	assert.True(t, charges.DiscountAmount.Equal(dec("1000")))
	assert.True(t, charges.FinalAmount.Equal(dec("9000")))
}

func TestComputeCharges_DiscountPlusScholarship(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "10000")}
	d := totalDiscount(model.DiscountTypePercentage, "10")

	charges, err := ComputeCharges(components,
		[]model.StudentFeeDiscount{d},
		[]model.StudentFeeScholarship{scholarship("2000")},
	)
	require.NoError(t, err)
	assert.True(t, charges.ScholarshipAmount.Equal(dec("2000")))
	assert.True(t, charges.FinalAmount.Equal(dec("7000")))
}

func TestComputeCharges_DiscountsDoNotCompound(t *testing.T) {
	// two 10% discounts are each 10% of the original total, not 10%
	// of the already-discounted running total
	components := []model.StudentFeeComponent{component("Tuition", "10000")}
	ds := []model.StudentFeeDiscount{
		totalDiscount(model.DiscountTypePercentage, "10"),
		totalDiscount(model.DiscountTypePercentage, "10"),
	}

	charges, err := ComputeCharges(components, ds, nil)
	require.NoError(t, err)
	assert.True(t, charges.DiscountAmount.Equal(dec("2000")))
	assert.True(t, charges.FinalAmount.Equal(dec("8000")))
}

func TestComputeCharges_ComponentScopedBase(t *testing.T) {
	tuition := component("Tuition", "10000")
	transport := component("Transport", "800")
	d := totalDiscount(model.DiscountTypePercentage, "50")
	d.StudentFeeDiscountAppliedToComponentID = &transport.StudentFeeComponentID

	charges, err := ComputeCharges([]model.StudentFeeComponent{tuition, transport},
		[]model.StudentFeeDiscount{d}, nil)
	require.NoError(t, err)
	assert.True(t, charges.DiscountAmount.Equal(dec("400")))
	assert.True(t, charges.FinalAmount.Equal(dec("10400")))
}

func TestComputeCharges_PercentageClampedTo100(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "1000")}
	d := totalDiscount(model.DiscountTypePercentage, "250")

	charges, err := ComputeCharges(components, []model.StudentFeeDiscount{d}, nil)
	require.NoError(t, err)
	assert.True(t, charges.DiscountAmount.Equal(dec("1000")))
	assert.True(t, charges.FinalAmount.IsZero())
}

func TestComputeCharges_FixedClampedToBase(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "1000")}
	d := totalDiscount(model.DiscountTypeFixedAmount, "5000")

	charges, err := ComputeCharges(components, []model.StudentFeeDiscount{d}, nil)
	require.NoError(t, err)
	assert.True(t, charges.DiscountAmount.Equal(dec("1000")))
	assert.True(t, charges.FinalAmount.IsZero())
}

func TestComputeCharges_CombinedCapNeverGoesNegative(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "1000")}
	d := totalDiscount(model.DiscountTypeFixedAmount, "800")

	charges, err := ComputeCharges(components,
		[]model.StudentFeeDiscount{d},
		[]model.StudentFeeScholarship{scholarship("600")},
	)
	require.NoError(t, err)
	// scholarship kept whole, discount clipped to what remains
	assert.True(t, charges.ScholarshipAmount.Equal(dec("600")))
	assert.True(t, charges.DiscountAmount.Equal(dec("400")))
	assert.True(t, charges.FinalAmount.IsZero())
}

func TestComputeCharges_RevokedScholarshipIgnored(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "1000")}
	sc := scholarship("500")
	sc.StudentFeeScholarshipStatus = model.ScholarshipStatusRevoked

	charges, err := ComputeCharges(components, nil, []model.StudentFeeScholarship{sc})
	require.NoError(t, err)
	assert.True(t, charges.ScholarshipAmount.IsZero())
	assert.True(t, charges.FinalAmount.Equal(dec("1000")))
}

func TestComputeCharges_RoundsHalfUp(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "333.33")}
	d := totalDiscount(model.DiscountTypePercentage, "10")

	charges, err := ComputeCharges(components, []model.StudentFeeDiscount{d}, nil)
	require.NoError(t, err)
	// 33.333 rounds half-up at the point of computation
	assert.True(t, charges.DiscountAmount.Equal(dec("33.33")))
	assert.True(t, charges.FinalAmount.Equal(dec("300.00")))
}

func TestValidateDiscount_EmptyReasonRejected(t *testing.T) {
	d := totalDiscount(model.DiscountTypePercentage, "10")
	d.StudentFeeDiscountReason = "   "

	err := ValidateDiscount(d)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestValidateDiscount_NegativeValueRejected(t *testing.T) {
	d := totalDiscount(model.DiscountTypeFixedAmount, "10")
	d.StudentFeeDiscountValue = dec("-1")

	err := ValidateDiscount(d)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestComputeCharges_DiscountAgainstUnknownComponent(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "1000")}
	bogus := uuid.New()
	d := totalDiscount(model.DiscountTypePercentage, "10")
	d.StudentFeeDiscountAppliedToComponentID = &bogus

	_, err := ComputeCharges(components, []model.StudentFeeDiscount{d}, nil)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestAllocateNet_SubBalancesSumToFinal(t *testing.T) {
	tuition := component("Tuition", "5000")
	transport := component("Transport", "800")
	lab := component("Lab", "300")
	components := []model.StudentFeeComponent{tuition, transport, lab}

	targeted := totalDiscount(model.DiscountTypePercentage, "50")
	targeted.StudentFeeDiscountAppliedToComponentID = &components[1].StudentFeeComponentID
	ds := []model.StudentFeeDiscount{
		targeted,
		totalDiscount(model.DiscountTypeFixedAmount, "1000"),
	}
	scs := []model.StudentFeeScholarship{scholarship("500")}

	charges, err := ComputeCharges(components, ds, scs)
	require.NoError(t, err)
	AllocateNet(components, ds, charges)

	sum := decimal.Zero
	for i := range components {
		assert.False(t, components[i].StudentFeeComponentNetAmount.IsNegative())
		sum = sum.Add(components[i].StudentFeeComponentNetAmount)
	}
	assert.True(t, sum.Equal(charges.FinalAmount), "nets %s vs final %s", sum, charges.FinalAmount)
	// the targeted half of transport landed on transport itself
	assert.True(t, components[1].StudentFeeComponentNetAmount.LessThanOrEqual(dec("400")))
}

func TestAllocateNet_NoDiscounts(t *testing.T) {
	components := []model.StudentFeeComponent{component("Tuition", "5000")}
	charges, err := ComputeCharges(components, nil, nil)
	require.NoError(t, err)
	AllocateNet(components, nil, charges)
	assert.True(t, components[0].StudentFeeComponentNetAmount.Equal(dec("5000")))
}

func TestAllocateNet_NetNeverDropsBelowPaid(t *testing.T) {
	// transport is already settled; a later discount scoped to it must
	// shift onto tuition's unpaid headroom instead of clamping
	tuition := component("Tuition", "1000")
	transport := component("Transport", "1000")
	transport.StudentFeeComponentPaidAmount = dec("1000")
	components := []model.StudentFeeComponent{tuition, transport}

	targeted := totalDiscount(model.DiscountTypePercentage, "50")
	targeted.StudentFeeDiscountAppliedToComponentID = &components[1].StudentFeeComponentID
	ds := []model.StudentFeeDiscount{targeted}

	charges, err := ComputeCharges(components, ds, nil)
	require.NoError(t, err)
	AllocateNet(components, ds, charges)

	assert.True(t, components[1].StudentFeeComponentNetAmount.Equal(dec("1000")))
	assert.True(t, components[0].StudentFeeComponentNetAmount.Equal(dec("500")))

	sum := decimal.Zero
	for i := range components {
		sum = sum.Add(components[i].Remaining())
	}
	balance := charges.FinalAmount.Sub(dec("1000"))
	assert.True(t, sum.Equal(balance), "remaining %s vs balance %s", sum, balance)
}

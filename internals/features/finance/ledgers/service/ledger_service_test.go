// file: internals/features/finance/ledgers/service/ledger_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/ledgers/model"
	"schoolfee_backend/internals/features/finance/storage"
	structures "schoolfee_backend/internals/features/finance/structures/model"
)

func seedStructure(t *testing.T, store *storage.MemStore, schoolID uuid.UUID, amounts ...string) *structures.FeeStructure {
	t.Helper()
	fs := &structures.FeeStructure{
		FeeStructureID:             uuid.New(),
		FeeStructureSchoolID:       schoolID,
		FeeStructureName:           "Grade 5 Annual",
		FeeStructureAcademicYearID: uuid.New(),
		FeeStructureIsActive:       true,
	}
	for i, a := range amounts {
		fs.FeeStructureComponents = append(fs.FeeStructureComponents, structures.FeeComponent{
			FeeComponentID:             uuid.New(),
			FeeComponentFeeStructureID: fs.FeeStructureID,
			FeeComponentName:           "Component",
			FeeComponentFeeType:        structures.FeeTypeTuition,
			FeeComponentAmount:         dec(a),
			FeeComponentFrequency:      structures.FeeFrequencyAnnual,
			FeeComponentIsMandatory:    true,
			FeeComponentPosition:       i,
		})
	}
	require.NoError(t, store.SaveFeeStructure(context.Background(), fs))
	return fs
}

func TestCreateStudentFee_SnapshotAndLock(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000", "800")
	svc := NewLedgerService(store)

	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
	})
	require.NoError(t, err)
	assert.Len(t, lf.StudentFeeComponents, 2)
	assert.True(t, lf.StudentFeeTotalAmount.Equal(dec("10800")))
	assert.True(t, lf.StudentFeeBalanceAmount.Equal(dec("10800")))
	assert.Equal(t, model.StudentFeeStatusPending, lf.StudentFeeStatus)

	// first reference locks the structure
	got, err := store.GetFeeStructure(ctx, fs.FeeStructureID)
	require.NoError(t, err)
	assert.True(t, got.FeeStructureIsLocked)
}

func TestCreateStudentFee_SnapshotIsolation(t *testing.T) {
	// raising the template amount later must not touch existing ledgers
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000")
	svc := NewLedgerService(store)

	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
	})
	require.NoError(t, err)

	fs.FeeStructureComponents[0].FeeComponentAmount = dec("99999")
	require.NoError(t, store.SaveFeeStructure(ctx, fs))

	got, err := svc.GetLedger(ctx, lf.StudentFeeID)
	require.NoError(t, err)
	assert.True(t, got.StudentFeeTotalAmount.Equal(dec("10000")))
}

func TestCreateStudentFee_Overrides(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000")
	svc := NewLedgerService(store)

	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
		Overrides: []ComponentOverride{{
			ComponentID: fs.FeeStructureComponents[0].FeeComponentID,
			Amount:      dec("7500"),
		}},
	})
	require.NoError(t, err)
	assert.True(t, lf.StudentFeeTotalAmount.Equal(dec("7500")))
	assert.True(t, lf.StudentFeeComponents[0].StudentFeeComponentIsOverride)
}

func TestCreateStudentFee_InactiveStructureRejected(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000")
	fs.FeeStructureIsActive = false
	require.NoError(t, store.SaveFeeStructure(ctx, fs))
	svc := NewLedgerService(store)

	_, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
	})
	require.Error(t, err)
	assert.True(t, errs.IsState(err))
}

func TestCreateStudentFee_WrongSchoolIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	fs := seedStructure(t, store, uuid.New(), "10000")
	svc := NewLedgerService(store)

	_, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       uuid.New(),
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestCreateStudentFee_WithDiscountAndScholarship(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000")
	svc := NewLedgerService(store)

	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
		Discounts: []DiscountInput{{
			Name:   "Sibling",
			Type:   model.DiscountTypePercentage,
			Value:  dec("10"),
			Reason: "Sibling enrolled",
		}},
		Scholarships: []ScholarshipInput{{Name: "Merit", Amount: dec("2000")}},
	})
	require.NoError(t, err)
	assert.True(t, lf.StudentFeeFinalAmount.Equal(dec("7000")))
	assert.True(t, lf.StudentFeeBalanceAmount.Equal(dec("7000")))
}

func TestPreviewCharges_PersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000")
	svc := NewLedgerService(store)

	charges, err := svc.PreviewCharges(ctx, fs.FeeStructureID, nil,
		[]DiscountInput{{
			Name:   "Sibling",
			Type:   model.DiscountTypePercentage,
			Value:  dec("10"),
			Reason: "Sibling enrolled",
		}}, nil)
	require.NoError(t, err)
	assert.True(t, charges.FinalAmount.Equal(dec("9000")))

	_, total, err := svc.ListLedgers(ctx, storage.StudentFeeFilter{SchoolID: schoolID})
	require.NoError(t, err)
	assert.Zero(t, total)

	got, err := store.GetFeeStructure(ctx, fs.FeeStructureID)
	require.NoError(t, err)
	assert.False(t, got.FeeStructureIsLocked)
}

func TestDeleteLedger_RejectedAfterPayment(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000")
	svc := NewLedgerService(store)

	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
	})
	require.NoError(t, err)

	lf.StudentFeePaidAmount = dec("100")
	lf.StudentFeeComponents[0].StudentFeeComponentPaidAmount = dec("100")
	require.NoError(t, Recompute(lf, time.Now()))
	require.NoError(t, store.SaveStudentFee(ctx, lf))

	err = svc.DeleteLedger(ctx, lf.StudentFeeID)
	require.Error(t, err)
	assert.True(t, errs.IsState(err))
}

func TestDeleteLedger_UnpaidSucceeds(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000")
	svc := NewLedgerService(store)

	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLedger(ctx, lf.StudentFeeID))
	_, err = svc.GetLedger(ctx, lf.StudentFeeID)
	assert.True(t, errs.IsNotFound(err))
}

func TestAttachDiscount_NeedsReapprovalAfterPayment(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "10000")
	svc := NewLedgerService(store)

	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
	})
	require.NoError(t, err)

	lf.StudentFeePaidAmount = dec("3000")
	lf.StudentFeeComponents[0].StudentFeeComponentPaidAmount = dec("3000")
	require.NoError(t, Recompute(lf, time.Now()))
	require.NoError(t, store.SaveStudentFee(ctx, lf))

	in := DiscountInput{Name: "Hardship", Type: model.DiscountTypeFixedAmount, Value: dec("500"), Reason: "approved by office"}

	_, err = svc.AttachDiscount(ctx, lf.StudentFeeID, in, false)
	require.Error(t, err)
	assert.True(t, errs.IsState(err))

	got, err := svc.AttachDiscount(ctx, lf.StudentFeeID, in, true)
	require.NoError(t, err)
	assert.True(t, got.StudentFeeFinalAmount.Equal(dec("9500")))
}

func TestAttachDiscount_RejectedWhenBalanceWouldGoNegative(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "1000")
	svc := NewLedgerService(store)

	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
	})
	require.NoError(t, err)

	lf.StudentFeePaidAmount = dec("900")
	lf.StudentFeeComponents[0].StudentFeeComponentPaidAmount = dec("900")
	require.NoError(t, Recompute(lf, time.Now()))
	require.NoError(t, store.SaveStudentFee(ctx, lf))

	_, err = svc.AttachDiscount(ctx, lf.StudentFeeID,
		DiscountInput{Name: "Too late", Type: model.DiscountTypeFixedAmount, Value: dec("500"), Reason: "late request"},
		true)
	require.Error(t, err)
	assert.True(t, errs.IsState(err))

	// rolled back: the ledger still has no discounts
	got, err := svc.GetLedger(ctx, lf.StudentFeeID)
	require.NoError(t, err)
	assert.Empty(t, got.StudentFeeDiscounts)
}

func TestSweepOverdue(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()
	fs := seedStructure(t, store, schoolID, "7000")
	svc := NewLedgerService(store)

	due := time.Now().Add(-48 * time.Hour)
	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
		DueDate:        &due,
	})
	require.NoError(t, err)

	// pay 3000 directly through the store
	lf.StudentFeePaidAmount = dec("3000")
	lf.StudentFeeComponents[0].StudentFeeComponentPaidAmount = dec("3000")
	lf.StudentFeeStatus = model.StudentFeeStatusPartial
	lf.StudentFeeBalanceAmount = dec("4000")
	require.NoError(t, store.SaveStudentFee(ctx, lf))

	transitioned, err := svc.SweepOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, transitioned)

	got, err := svc.GetLedger(ctx, lf.StudentFeeID)
	require.NoError(t, err)
	assert.Equal(t, model.StudentFeeStatusOverdue, got.StudentFeeStatus)
	assert.True(t, got.StudentFeeBalanceAmount.Equal(dec("4000")))

	// idempotent: a second sweep transitions nothing
	transitioned, err = svc.SweepOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, transitioned)
}

func TestSweepOverdue_AccruesLateFeesOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	schoolID := uuid.New()

	fixed := dec("50")
	fs := &structures.FeeStructure{
		FeeStructureID:             uuid.New(),
		FeeStructureSchoolID:       schoolID,
		FeeStructureName:           "Grade 5 Annual",
		FeeStructureAcademicYearID: uuid.New(),
		FeeStructureIsActive:       true,
		FeeStructureComponents: []structures.FeeComponent{{
			FeeComponentID:                uuid.New(),
			FeeComponentName:              "Tuition",
			FeeComponentFeeType:           structures.FeeTypeTuition,
			FeeComponentAmount:            dec("10000"),
			FeeComponentFrequency:         structures.FeeFrequencyAnnual,
			FeeComponentLateFeeApplicable: true,
			FeeComponentLateFeeAmount:     &fixed,
		}},
	}
	require.NoError(t, store.SaveFeeStructure(ctx, fs))
	svc := NewLedgerService(store)

	due := time.Now().Add(-24 * time.Hour)
	lf, err := svc.CreateStudentFee(ctx, CreateStudentFeeInput{
		SchoolID:       schoolID,
		StudentID:      uuid.New(),
		FeeStructureID: fs.FeeStructureID,
		DueDate:        &due,
	})
	require.NoError(t, err)

	_, err = svc.SweepOverdue(ctx, time.Now())
	require.NoError(t, err)

	got, err := svc.GetLedger(ctx, lf.StudentFeeID)
	require.NoError(t, err)
	assert.True(t, got.StudentFeeTotalAmount.Equal(dec("10050")))
	assert.True(t, got.StudentFeeBalanceAmount.Equal(dec("10050")))
	assert.Equal(t, model.StudentFeeStatusOverdue, got.StudentFeeStatus)

	// second sweep must not double-charge
	_, err = svc.SweepOverdue(ctx, time.Now())
	require.NoError(t, err)
	got, err = svc.GetLedger(ctx, lf.StudentFeeID)
	require.NoError(t, err)
	assert.True(t, got.StudentFeeTotalAmount.Equal(dec("10050")))

	// component sub-balances still sum to the ledger balance
	sum := decimal.Zero
	for _, c := range got.StudentFeeComponents {
		sum = sum.Add(c.Remaining())
	}
	assert.True(t, sum.Equal(got.StudentFeeBalanceAmount))
}

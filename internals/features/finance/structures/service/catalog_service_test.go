// file: internals/features/finance/structures/service/catalog_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfee_backend/internals/features/finance/errs"
	ledgers "schoolfee_backend/internals/features/finance/ledgers/model"
	"schoolfee_backend/internals/features/finance/storage"
	"schoolfee_backend/internals/features/finance/structures/model"
)

func tuitionInput(amount int64) ComponentInput {
	return ComponentInput{
		Name:      "Tuition",
		FeeType:   model.FeeTypeTuition,
		Amount:    decimal.NewFromInt(amount),
		Frequency: model.FeeFrequencyAnnual,
	}
}

func createInput(schoolID uuid.UUID, components ...ComponentInput) CreateStructureInput {
	return CreateStructureInput{
		SchoolID:       schoolID,
		Name:           "Grade 5 Annual",
		AcademicYearID: uuid.New(),
		Components:     components,
	}
}

// referenceLedger plants a minimal ledger row pointing at the structure.
func referenceLedger(t *testing.T, store *storage.MemStore, fs *model.FeeStructure) *ledgers.StudentFee {
	t.Helper()
	lf := &ledgers.StudentFee{
		StudentFeeID:             uuid.New(),
		StudentFeeSchoolID:       fs.FeeStructureSchoolID,
		StudentFeeStudentID:      uuid.New(),
		StudentFeeFeeStructureID: fs.FeeStructureID,
	}
	require.NoError(t, store.SaveStudentFee(context.Background(), lf))
	return lf
}

func TestCreateStructure(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	svc := NewCatalogService(store)

	fs, err := svc.CreateStructure(ctx, createInput(uuid.New(), tuitionInput(10000), tuitionInput(800)))
	require.NoError(t, err)
	assert.True(t, fs.FeeStructureIsActive)
	assert.False(t, fs.FeeStructureIsLocked)
	require.Len(t, fs.FeeStructureComponents, 2)
	assert.Equal(t, 0, fs.FeeStructureComponents[0].FeeComponentPosition)
	assert.Equal(t, 1, fs.FeeStructureComponents[1].FeeComponentPosition)
}

func TestCreateStructure_NeedsComponents(t *testing.T) {
	svc := NewCatalogService(storage.NewMemStore())
	_, err := svc.CreateStructure(context.Background(), createInput(uuid.New()))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestCreateStructure_LateFeeRuleNeedsValue(t *testing.T) {
	svc := NewCatalogService(storage.NewMemStore())
	in := tuitionInput(10000)
	in.LateFeeApplicable = true
	_, err := svc.CreateStructure(context.Background(), createInput(uuid.New(), in))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestUpdateStructure_ComponentEditBlockedByReference(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	svc := NewCatalogService(store)

	fs, err := svc.CreateStructure(ctx, createInput(uuid.New(), tuitionInput(10000)))
	require.NoError(t, err)
	referenceLedger(t, store, fs)

	_, err = svc.UpdateStructure(ctx, fs.FeeStructureID, UpdateStructureInput{
		Components: []ComponentInput{tuitionInput(12000)},
	})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
}

func TestUpdateStructure_NonStructuralEditsStayOpen(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	svc := NewCatalogService(store)

	fs, err := svc.CreateStructure(ctx, createInput(uuid.New(), tuitionInput(10000)))
	require.NoError(t, err)
	referenceLedger(t, store, fs)

	name := "Grade 5 Annual (revised)"
	inactive := false
	got, err := svc.UpdateStructure(ctx, fs.FeeStructureID, UpdateStructureInput{
		Name:     &name,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, name, got.FeeStructureName)
	assert.False(t, got.FeeStructureIsActive)
}

func TestUpdateStructure_ComponentEditAllowedWhenUnreferenced(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	svc := NewCatalogService(store)

	fs, err := svc.CreateStructure(ctx, createInput(uuid.New(), tuitionInput(10000)))
	require.NoError(t, err)

	got, err := svc.UpdateStructure(ctx, fs.FeeStructureID, UpdateStructureInput{
		Components: []ComponentInput{tuitionInput(12000), tuitionInput(800)},
	})
	require.NoError(t, err)
	require.Len(t, got.FeeStructureComponents, 2)
	assert.True(t, got.FeeStructureComponents[0].FeeComponentAmount.Equal(decimal.NewFromInt(12000)))
}

func TestDeleteStructure_BlockedByReference(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	svc := NewCatalogService(store)

	fs, err := svc.CreateStructure(ctx, createInput(uuid.New(), tuitionInput(10000)))
	require.NoError(t, err)
	lf := referenceLedger(t, store, fs)

	err = svc.DeleteStructure(ctx, fs.FeeStructureID)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	// once the unpaid ledger is gone, deletion goes through
	require.NoError(t, store.DeleteStudentFee(ctx, lf.StudentFeeID))
	require.NoError(t, svc.DeleteStructure(ctx, fs.FeeStructureID))
	_, err = svc.GetStructure(ctx, fs.FeeStructureID)
	assert.True(t, errs.IsNotFound(err))
}

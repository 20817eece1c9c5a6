// file: internals/features/finance/structures/service/catalog_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/storage"
	"schoolfee_backend/internals/features/finance/structures/model"
)

/* ==============================================
   CatalogService — FeeStructure catalog
============================================== */

type CatalogService struct {
	Store storage.Store
}

func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{Store: store}
}

/* ----- inputs ----- */

type ComponentInput struct {
	Name                string
	FeeType             model.FeeType
	Amount              decimal.Decimal
	Frequency           model.FeeFrequency
	IsMandatory         bool
	AllowPartialPayment bool
	LateFeeApplicable   bool
	LateFeeAmount       *decimal.Decimal
	LateFeePercentage   *decimal.Decimal
}

type CreateStructureInput struct {
	SchoolID       uuid.UUID
	Name           string
	AcademicYearID uuid.UUID
	AcademicUnitID *uuid.UUID
	Components     []ComponentInput
}

// UpdateStructureInput carries the non-structural fields that stay
// editable after locking. Replacing the component set is only allowed
// while the structure is unreferenced.
type UpdateStructureInput struct {
	Name       *string
	IsActive   *bool
	Components []ComponentInput // nil = leave untouched
}

func validateComponent(in ComponentInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errs.Validation("name", "component name must not be empty")
	}
	if !in.FeeType.Valid() {
		return errs.Validationf("fee_type", "unknown fee type %q", in.FeeType)
	}
	if !in.Frequency.Valid() {
		return errs.Validationf("frequency", "unknown frequency %q", in.Frequency)
	}
	if in.Amount.IsNegative() {
		return errs.Validation("amount", "component amount must not be negative")
	}
	if in.LateFeeApplicable && in.LateFeeAmount == nil && in.LateFeePercentage == nil {
		return errs.Validation("late_fee", "late-fee component needs a fixed amount or a percentage")
	}
	if in.LateFeeAmount != nil && in.LateFeeAmount.IsNegative() {
		return errs.Validation("late_fee_amount", "late fee amount must not be negative")
	}
	if in.LateFeePercentage != nil && in.LateFeePercentage.IsNegative() {
		return errs.Validation("late_fee_percentage", "late fee percentage must not be negative")
	}
	return nil
}

func buildComponents(ins []ComponentInput, structureID uuid.UUID) ([]model.FeeComponent, error) {
	out := make([]model.FeeComponent, 0, len(ins))
	for i, in := range ins {
		if err := validateComponent(in); err != nil {
			return nil, err
		}
		out = append(out, model.FeeComponent{
			FeeComponentID:                  uuid.New(),
			FeeComponentFeeStructureID:      structureID,
			FeeComponentName:                strings.TrimSpace(in.Name),
			FeeComponentFeeType:             in.FeeType,
			FeeComponentAmount:              in.Amount.Round(2),
			FeeComponentFrequency:           in.Frequency,
			FeeComponentIsMandatory:         in.IsMandatory,
			FeeComponentAllowPartialPayment: in.AllowPartialPayment,
			FeeComponentLateFeeApplicable:   in.LateFeeApplicable,
			FeeComponentLateFeeAmount:       in.LateFeeAmount,
			FeeComponentLateFeePercentage:   in.LateFeePercentage,
			FeeComponentPosition:            i,
		})
	}
	return out, nil
}

/* ----- operations ----- */

func (s *CatalogService) CreateStructure(ctx context.Context, in CreateStructureInput) (*model.FeeStructure, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errs.Validation("name", "structure name must not be empty")
	}
	if len(in.Components) == 0 {
		return nil, errs.Validation("components", "structure needs at least one component")
	}

	fs := &model.FeeStructure{
		FeeStructureID:             uuid.New(),
		FeeStructureSchoolID:       in.SchoolID,
		FeeStructureName:           strings.TrimSpace(in.Name),
		FeeStructureAcademicYearID: in.AcademicYearID,
		FeeStructureAcademicUnitID: in.AcademicUnitID,
		FeeStructureIsActive:       true,
	}
	components, err := buildComponents(in.Components, fs.FeeStructureID)
	if err != nil {
		return nil, err
	}
	fs.FeeStructureComponents = components

	if err := s.Store.SaveFeeStructure(ctx, fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// UpdateStructure applies edits under the locking invariant. The
// reference count is re-checked inside the transaction so a ledger
// created between the caller's check and this write still blocks the
// structural edit.
func (s *CatalogService) UpdateStructure(ctx context.Context, id uuid.UUID, in UpdateStructureInput) (*model.FeeStructure, error) {
	var out *model.FeeStructure
	err := s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		fs, err := tx.GetFeeStructure(ctx, id)
		if err != nil {
			return err
		}

		if in.Components != nil {
			refs, err := tx.CountLedgersForStructure(ctx, id)
			if err != nil {
				return err
			}
			if refs > 0 || fs.FeeStructureIsLocked {
				return errs.Conflict("fee_structure_id", "structure is referenced by ledgers; component set is frozen")
			}
			components, err := buildComponents(in.Components, fs.FeeStructureID)
			if err != nil {
				return err
			}
			fs.FeeStructureComponents = components
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return errs.Validation("name", "structure name must not be empty")
			}
			fs.FeeStructureName = strings.TrimSpace(*in.Name)
		}
		if in.IsActive != nil {
			fs.FeeStructureIsActive = *in.IsActive
		}

		if err := tx.SaveFeeStructure(ctx, fs); err != nil {
			return err
		}
		out = fs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteStructure refuses to delete anything a ledger still points at.
func (s *CatalogService) DeleteStructure(ctx context.Context, id uuid.UUID) error {
	return s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		if _, err := tx.GetFeeStructure(ctx, id); err != nil {
			return err
		}
		refs, err := tx.CountLedgersForStructure(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return errs.Conflict("fee_structure_id", "structure is referenced by ledgers and cannot be deleted")
		}
		return tx.DeleteFeeStructure(ctx, id)
	})
}

func (s *CatalogService) GetStructure(ctx context.Context, id uuid.UUID) (*model.FeeStructure, error) {
	return s.Store.GetFeeStructure(ctx, id)
}

func (s *CatalogService) ListStructures(ctx context.Context, f storage.FeeStructureFilter) ([]model.FeeStructure, int64, error) {
	return s.Store.ListFeeStructures(ctx, f)
}

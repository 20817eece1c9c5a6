// file: internals/features/finance/ledgers/service/ledger_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/ledgers/model"
	"schoolfee_backend/internals/features/finance/storage"
	structures "schoolfee_backend/internals/features/finance/structures/model"
)

/* ==============================================
   LedgerService — Student Fee Ledger operations
============================================== */

type LedgerService struct {
	Store storage.Store
}

func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{Store: store}
}

/* ----- inputs ----- */

// ComponentOverride replaces one component's amount at the ledger
// instance ("custom" component). Only possible before the first
// payment; the structure template itself is never touched.
type ComponentOverride struct {
	ComponentID uuid.UUID
	Amount      decimal.Decimal
}

type DiscountInput struct {
	Name                 string
	Type                 model.DiscountType
	Value                decimal.Decimal
	AppliedToComponentID *uuid.UUID // nil = total
	Reason               string
}

type ScholarshipInput struct {
	Name     string
	Amount   decimal.Decimal
	Provider *string
}

type CreateStudentFeeInput struct {
	SchoolID       uuid.UUID
	StudentID      uuid.UUID
	FeeStructureID uuid.UUID
	DueDate        *time.Time
	Overrides      []ComponentOverride
	Discounts      []DiscountInput
	Scholarships   []ScholarshipInput
}

/* ----- snapshotting ----- */

// snapshotComponents copies the structure's components onto the ledger,
// applying amount overrides. Snapshot ids are assigned eagerly so
// discounts created in the same request can reference them.
func snapshotComponents(fs *structures.FeeStructure, overrides []ComponentOverride) ([]model.StudentFeeComponent, error) {
	byComponent := map[uuid.UUID]decimal.Decimal{}
	for _, o := range overrides {
		if fs.ComponentByID(o.ComponentID) == nil {
			return nil, errs.NotFound("component_id", "override targets an unknown component")
		}
		if o.Amount.IsNegative() {
			return nil, errs.Validation("amount", "override amount must not be negative")
		}
		byComponent[o.ComponentID] = o.Amount
	}

	out := make([]model.StudentFeeComponent, 0, len(fs.FeeStructureComponents))
	for i := range fs.FeeStructureComponents {
		c := &fs.FeeStructureComponents[i]
		amount := c.FeeComponentAmount
		isOverride := false
		if v, ok := byComponent[c.FeeComponentID]; ok {
			amount = v
			isOverride = true
		}
		out = append(out, model.StudentFeeComponent{
			StudentFeeComponentID:                  uuid.New(),
			StudentFeeComponentSourceID:            c.FeeComponentID,
			StudentFeeComponentName:                c.FeeComponentName,
			StudentFeeComponentFeeType:             c.FeeComponentFeeType,
			StudentFeeComponentFrequency:           c.FeeComponentFrequency,
			StudentFeeComponentAmount:              amount.Round(2),
			StudentFeeComponentIsOverride:          isOverride,
			StudentFeeComponentIsMandatory:         c.FeeComponentIsMandatory,
			StudentFeeComponentAllowPartialPayment: c.FeeComponentAllowPartialPayment,
			StudentFeeComponentLateFeeApplicable:   c.FeeComponentLateFeeApplicable,
			StudentFeeComponentLateFeeAmount:       c.FeeComponentLateFeeAmount,
			StudentFeeComponentLateFeePercentage:   c.FeeComponentLateFeePercentage,
			StudentFeeComponentLateFeeAccrued:      decimal.Zero,
			StudentFeeComponentPaidAmount:          decimal.Zero,
			StudentFeeComponentPosition:            c.FeeComponentPosition,
		})
	}
	return out, nil
}

// buildDiscount maps a discount input onto the ledger, resolving the
// targeted structure component to its snapshot row.
func buildDiscount(in DiscountInput, components []model.StudentFeeComponent) (model.StudentFeeDiscount, error) {
	d := model.StudentFeeDiscount{
		StudentFeeDiscountID:     uuid.New(),
		StudentFeeDiscountName:   strings.TrimSpace(in.Name),
		StudentFeeDiscountType:   in.Type,
		StudentFeeDiscountValue:  in.Value,
		StudentFeeDiscountReason: strings.TrimSpace(in.Reason),
	}
	if in.AppliedToComponentID != nil {
		var snap *model.StudentFeeComponent
		for i := range components {
			if components[i].StudentFeeComponentSourceID == *in.AppliedToComponentID ||
				components[i].StudentFeeComponentID == *in.AppliedToComponentID {
				snap = &components[i]
				break
			}
		}
		if snap == nil {
			return d, errs.NotFound("applied_to_component_id", "discount targets an unknown component")
		}
		d.StudentFeeDiscountAppliedToComponentID = &snap.StudentFeeComponentID
	}
	if err := ValidateDiscount(d); err != nil {
		return d, err
	}
	return d, nil
}

func buildScholarship(in ScholarshipInput) (model.StudentFeeScholarship, error) {
	if in.Amount.IsNegative() {
		return model.StudentFeeScholarship{}, errs.Validation("amount", "scholarship amount must not be negative")
	}
	return model.StudentFeeScholarship{
		StudentFeeScholarshipID:       uuid.New(),
		StudentFeeScholarshipName:     strings.TrimSpace(in.Name),
		StudentFeeScholarshipAmount:   in.Amount.Round(2),
		StudentFeeScholarshipProvider: in.Provider,
		StudentFeeScholarshipStatus:   model.ScholarshipStatusActive,
	}, nil
}

/* ----- operations ----- */

// PreviewCharges computes the money summary for a structure plus
// optional overrides/discounts/scholarships without persisting
// anything. Used by onboarding forms before commit.
func (s *LedgerService) PreviewCharges(ctx context.Context, structureID uuid.UUID, overrides []ComponentOverride, discounts []DiscountInput, scholarships []ScholarshipInput) (Charges, error) {
	fs, err := s.Store.GetFeeStructure(ctx, structureID)
	if err != nil {
		return Charges{}, err
	}

	components, err := snapshotComponents(fs, overrides)
	if err != nil {
		return Charges{}, err
	}
	ds := make([]model.StudentFeeDiscount, 0, len(discounts))
	for _, in := range discounts {
		d, err := buildDiscount(in, components)
		if err != nil {
			return Charges{}, err
		}
		ds = append(ds, d)
	}
	scs := make([]model.StudentFeeScholarship, 0, len(scholarships))
	for _, in := range scholarships {
		sc, err := buildScholarship(in)
		if err != nil {
			return Charges{}, err
		}
		scs = append(scs, sc)
	}

	return ComputeCharges(components, ds, scs)
}

// CreateStudentFee takes the snapshot, computes the amounts and locks
// the source structure — all inside one transaction, so a concurrent
// structural edit cannot slip between the reference and the lock.
func (s *LedgerService) CreateStudentFee(ctx context.Context, in CreateStudentFeeInput) (*model.StudentFee, error) {
	var created *model.StudentFee
	err := s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		fs, err := tx.GetFeeStructure(ctx, in.FeeStructureID)
		if err != nil {
			return err
		}
		if !fs.FeeStructureIsActive {
			return errs.State("fee_structure_id", "fee structure is not active")
		}
		if fs.FeeStructureSchoolID != in.SchoolID {
			return errs.NotFound("fee_structure_id", "fee structure not found")
		}
		if len(fs.FeeStructureComponents) == 0 {
			return errs.State("fee_structure_id", "fee structure has no components")
		}

		components, err := snapshotComponents(fs, in.Overrides)
		if err != nil {
			return err
		}

		lf := &model.StudentFee{
			StudentFeeID:             uuid.New(),
			StudentFeeSchoolID:       in.SchoolID,
			StudentFeeStudentID:      in.StudentID,
			StudentFeeFeeStructureID: fs.FeeStructureID,
			StudentFeeDueDate:        in.DueDate,
			StudentFeePaidAmount:     decimal.Zero,
			StudentFeeComponents:     components,
		}
		for _, din := range in.Discounts {
			d, err := buildDiscount(din, components)
			if err != nil {
				return err
			}
			d.StudentFeeDiscountStudentFeeID = lf.StudentFeeID
			lf.StudentFeeDiscounts = append(lf.StudentFeeDiscounts, d)
		}
		for _, scin := range in.Scholarships {
			sc, err := buildScholarship(scin)
			if err != nil {
				return err
			}
			sc.StudentFeeScholarshipStudentFeeID = lf.StudentFeeID
			lf.StudentFeeScholarships = append(lf.StudentFeeScholarships, sc)
		}

		if err := Recompute(lf, time.Now()); err != nil {
			return err
		}
		if err := tx.SaveStudentFee(ctx, lf); err != nil {
			return err
		}

		// first reference locks the structure against structural edits
		if !fs.FeeStructureIsLocked {
			fs.FeeStructureIsLocked = true
			if err := tx.SaveFeeStructure(ctx, fs); err != nil {
				return err
			}
		}

		created = lf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetLedger is the read model for dashboards and receipts.
func (s *LedgerService) GetLedger(ctx context.Context, id uuid.UUID) (*model.StudentFee, error) {
	return s.Store.GetStudentFee(ctx, id)
}

func (s *LedgerService) ListLedgers(ctx context.Context, f storage.StudentFeeFilter) ([]model.StudentFee, int64, error) {
	return s.Store.ListStudentFees(ctx, f)
}

// DeleteLedger removes a ledger entry. Entries with recorded money are
// never physically deleted; corrections go through reversal payments.
func (s *LedgerService) DeleteLedger(ctx context.Context, id uuid.UUID) error {
	return s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		lf, err := tx.GetStudentFee(ctx, id)
		if err != nil {
			return err
		}
		if lf.StudentFeePaidAmount.GreaterThan(decimal.Zero) {
			return errs.State("student_fee_id", "ledger has recorded payments and cannot be deleted")
		}
		return tx.DeleteStudentFee(ctx, id)
	})
}

// AttachDiscount adds a discount to an existing ledger. After the
// first payment this needs an explicit re-approval flag, and it is
// rejected outright if it would push the balance below zero.
func (s *LedgerService) AttachDiscount(ctx context.Context, ledgerID uuid.UUID, in DiscountInput, reapproved bool) (*model.StudentFee, error) {
	var out *model.StudentFee
	err := s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		lf, err := tx.GetStudentFeeForUpdate(ctx, ledgerID)
		if err != nil {
			return err
		}
		if lf.StudentFeePaidAmount.GreaterThan(decimal.Zero) && !reapproved {
			return errs.State("student_fee_id", "ledger already has payments; discount needs re-approval")
		}
		d, err := buildDiscount(in, lf.StudentFeeComponents)
		if err != nil {
			return err
		}
		d.StudentFeeDiscountStudentFeeID = lf.StudentFeeID
		lf.StudentFeeDiscounts = append(lf.StudentFeeDiscounts, d)

		if err := Recompute(lf, time.Now()); err != nil {
			return err
		}
		if err := tx.SaveStudentFee(ctx, lf); err != nil {
			return err
		}
		out = lf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AttachScholarship mirrors AttachDiscount for scholarships.
func (s *LedgerService) AttachScholarship(ctx context.Context, ledgerID uuid.UUID, in ScholarshipInput, reapproved bool) (*model.StudentFee, error) {
	var out *model.StudentFee
	err := s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		lf, err := tx.GetStudentFeeForUpdate(ctx, ledgerID)
		if err != nil {
			return err
		}
		if lf.StudentFeePaidAmount.GreaterThan(decimal.Zero) && !reapproved {
			return errs.State("student_fee_id", "ledger already has payments; scholarship needs re-approval")
		}
		sc, err := buildScholarship(in)
		if err != nil {
			return err
		}
		sc.StudentFeeScholarshipStudentFeeID = lf.StudentFeeID
		lf.StudentFeeScholarships = append(lf.StudentFeeScholarships, sc)

		if err := Recompute(lf, time.Now()); err != nil {
			return err
		}
		if err := tx.SaveStudentFee(ctx, lf); err != nil {
			return err
		}
		out = lf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecomputeStatus re-derives a single ledger's status against now.
func (s *LedgerService) RecomputeStatus(ctx context.Context, ledgerID uuid.UUID, now time.Time) (*model.StudentFee, error) {
	var out *model.StudentFee
	err := s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		lf, err := tx.GetStudentFeeForUpdate(ctx, ledgerID)
		if err != nil {
			return err
		}
		before := lf.StudentFeeStatus
		if err := Recompute(lf, now); err != nil {
			return err
		}
		if lf.StudentFeeStatus != before {
			if err := tx.SaveStudentFee(ctx, lf); err != nil {
				return err
			}
		}
		out = lf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SweepOverdue runs the due-date sweep: accrues late fees once per
// component and re-derives statuses. Returns the number of ledgers
// that transitioned. Running it twice in a row without intervening
// payments changes nothing the second time.
func (s *LedgerService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	transitioned := 0
	err := s.Store.WithTransaction(ctx, func(tx storage.Store) error {
		candidates, err := tx.ListSweepCandidates(ctx, now)
		if err != nil {
			return err
		}
		for i := range candidates {
			lf := &candidates[i]
			before := lf.StudentFeeStatus
			accrued := accrueLateFees(lf, now)
			if err := Recompute(lf, now); err != nil {
				return err
			}
			changed := accrued || lf.StudentFeeStatus != before
			if !changed {
				continue
			}
			if err := tx.SaveStudentFee(ctx, lf); err != nil {
				return err
			}
			if lf.StudentFeeStatus != before {
				transitioned++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return transitioned, nil
}

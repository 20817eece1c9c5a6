// file: internals/features/finance/structures/service/resolver.go
package service

import (
	"context"

	"github.com/google/uuid"

	"schoolfee_backend/internals/features/finance/errs"
	"schoolfee_backend/internals/features/finance/structures/model"
)

// Resolve picks the fee structure that applies to a student's
// (academic year, class, section), most specific first:
//
//	section-level > class-level > institution-wide (nil unit)
//
// Ties at the same specificity go to the most recently created
// structure. No candidate is a hard NotFound — callers must never
// fall through to a zero-fee ledger.
func (s *CatalogService) Resolve(ctx context.Context, schoolID, academicYearID, classID uuid.UUID, sectionID *uuid.UUID) (*model.FeeStructure, error) {
	candidates, err := s.Store.ListActiveFeeStructures(ctx, schoolID, academicYearID)
	if err != nil {
		return nil, err
	}

	// candidates arrive newest-first, so the first hit per tier is
	// already the deterministic tie-break winner
	var classLevel, yearLevel *model.FeeStructure
	for i := range candidates {
		fs := &candidates[i]
		unit := fs.FeeStructureAcademicUnitID
		switch {
		case unit == nil:
			if yearLevel == nil {
				yearLevel = fs
			}
		case sectionID != nil && *unit == *sectionID:
			return fs, nil
		case *unit == classID:
			if classLevel == nil {
				classLevel = fs
			}
		}
	}
	if classLevel != nil {
		return classLevel, nil
	}
	if yearLevel != nil {
		return yearLevel, nil
	}
	return nil, errs.NotFound("fee_structure", "no fee structure matches the academic year, class and section")
}

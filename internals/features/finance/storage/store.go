// file: internals/features/finance/storage/store.go
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	ledgers "schoolfee_backend/internals/features/finance/ledgers/model"
	payments "schoolfee_backend/internals/features/finance/payments/model"
	structures "schoolfee_backend/internals/features/finance/structures/model"
)

/* ==============================================
   Store — transactional storage port
   The engine is agnostic to the backend; any
   implementation must provide atomic
   read-modify-write through WithTransaction.
============================================== */

type Store interface {
	// WithTransaction runs fn inside one atomic unit. Either every
	// write made through tx is committed, or none is.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error

	/* ----- fee structures ----- */

	GetFeeStructure(ctx context.Context, id uuid.UUID) (*structures.FeeStructure, error)
	// ListActiveFeeStructures returns the active structures for one
	// academic year of a school, components preloaded.
	ListActiveFeeStructures(ctx context.Context, schoolID, academicYearID uuid.UUID) ([]structures.FeeStructure, error)
	ListFeeStructures(ctx context.Context, f FeeStructureFilter) ([]structures.FeeStructure, int64, error)
	SaveFeeStructure(ctx context.Context, s *structures.FeeStructure) error
	DeleteFeeStructure(ctx context.Context, id uuid.UUID) error
	// CountLedgersForStructure is the referencedByLedgerCount of the
	// locking invariant; callers must re-check it inside the same
	// transaction as the structural write.
	CountLedgersForStructure(ctx context.Context, structureID uuid.UUID) (int64, error)

	/* ----- student fee ledgers ----- */

	GetStudentFee(ctx context.Context, id uuid.UUID) (*ledgers.StudentFee, error)
	// GetStudentFeeForUpdate locks the ledger row for the duration of
	// the surrounding transaction.
	GetStudentFeeForUpdate(ctx context.Context, id uuid.UUID) (*ledgers.StudentFee, error)
	SaveStudentFee(ctx context.Context, lf *ledgers.StudentFee) error
	DeleteStudentFee(ctx context.Context, id uuid.UUID) error
	ListStudentFees(ctx context.Context, f StudentFeeFilter) ([]ledgers.StudentFee, int64, error)
	// ListSweepCandidates returns ledgers with an elapsed due date and
	// outstanding balance (status not yet terminal-paid).
	ListSweepCandidates(ctx context.Context, now time.Time) ([]ledgers.StudentFee, error)

	/* ----- payments ----- */

	// NextReceiptNumber atomically increments and returns the
	// school-scoped receipt sequence.
	NextReceiptNumber(ctx context.Context, schoolID uuid.UUID) (int64, error)
	AppendPayment(ctx context.Context, p *payments.Payment) error
	ListPayments(ctx context.Context, f PaymentFilter) ([]payments.Payment, int64, error)
}

/* ==============================
   List filters
============================== */

type FeeStructureFilter struct {
	SchoolID       uuid.UUID
	AcademicYearID *uuid.UUID
	ActiveOnly     bool
	Limit          int
	Offset         int
}

type StudentFeeFilter struct {
	SchoolID  uuid.UUID
	StudentID *uuid.UUID
	Status    *ledgers.StudentFeeStatus
	Limit     int
	Offset    int
}

type PaymentFilter struct {
	SchoolID     uuid.UUID
	StudentFeeID *uuid.UUID
	Limit        int
	Offset       int
}

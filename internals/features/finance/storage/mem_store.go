// file: internals/features/finance/storage/mem_store.go
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolfee_backend/internals/features/finance/errs"
	ledgers "schoolfee_backend/internals/features/finance/ledgers/model"
	payments "schoolfee_backend/internals/features/finance/payments/model"
	structures "schoolfee_backend/internals/features/finance/structures/model"
)

/* ==============================================
   MemStore — in-memory Store
   Transactions are serialized by one mutex; the
   whole state is snapshotted on entry and
   restored on error, so a failed transaction
   leaves nothing behind (including the receipt
   counter — numbers stay gapless).
============================================== */

type MemStore struct {
	mu   sync.Mutex
	inTx bool

	structures map[uuid.UUID]*structures.FeeStructure
	ledgers    map[uuid.UUID]*ledgers.StudentFee
	payments   []payments.Payment
	counters   map[uuid.UUID]int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		structures: map[uuid.UUID]*structures.FeeStructure{},
		ledgers:    map[uuid.UUID]*ledgers.StudentFee{},
		counters:   map[uuid.UUID]int64{},
	}
}

func (s *MemStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		// already inside a transaction; reuse it
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	tx := &MemStore{
		inTx:       true,
		structures: s.structures,
		ledgers:    s.ledgers,
		payments:   s.payments,
		counters:   s.counters,
	}
	if err := fn(tx); err != nil {
		s.structures = snap.structures
		s.ledgers = snap.ledgers
		s.payments = snap.payments
		s.counters = snap.counters
		return err
	}
	// tx writes went to fresh maps/slices; adopt them
	s.structures = tx.structures
	s.ledgers = tx.ledgers
	s.payments = tx.payments
	s.counters = tx.counters
	return nil
}

type memSnapshot struct {
	structures map[uuid.UUID]*structures.FeeStructure
	ledgers    map[uuid.UUID]*ledgers.StudentFee
	payments   []payments.Payment
	counters   map[uuid.UUID]int64
}

func (s *MemStore) snapshot() memSnapshot {
	snap := memSnapshot{
		structures: make(map[uuid.UUID]*structures.FeeStructure, len(s.structures)),
		ledgers:    make(map[uuid.UUID]*ledgers.StudentFee, len(s.ledgers)),
		payments:   append([]payments.Payment(nil), s.payments...),
		counters:   make(map[uuid.UUID]int64, len(s.counters)),
	}
	for id, m := range s.structures {
		snap.structures[id] = cloneStructure(m)
	}
	for id, m := range s.ledgers {
		snap.ledgers[id] = cloneLedger(m)
	}
	for id, n := range s.counters {
		snap.counters[id] = n
	}
	return snap
}

func (s *MemStore) lockIfOutsideTx() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

/* ----- clones (stored state never aliases caller memory) ----- */

func cloneStructure(m *structures.FeeStructure) *structures.FeeStructure {
	cp := *m
	cp.FeeStructureComponents = append([]structures.FeeComponent(nil), m.FeeStructureComponents...)
	return &cp
}

func cloneLedger(m *ledgers.StudentFee) *ledgers.StudentFee {
	cp := *m
	cp.StudentFeeComponents = append([]ledgers.StudentFeeComponent(nil), m.StudentFeeComponents...)
	cp.StudentFeeDiscounts = append([]ledgers.StudentFeeDiscount(nil), m.StudentFeeDiscounts...)
	cp.StudentFeeScholarships = append([]ledgers.StudentFeeScholarship(nil), m.StudentFeeScholarships...)
	return &cp
}

/* ----- fee structures ----- */

func (s *MemStore) GetFeeStructure(ctx context.Context, id uuid.UUID) (*structures.FeeStructure, error) {
	defer s.lockIfOutsideTx()()
	m, ok := s.structures[id]
	if !ok {
		return nil, errs.NotFound("fee_structure_id", "fee structure not found")
	}
	return cloneStructure(m), nil
}

func (s *MemStore) ListActiveFeeStructures(ctx context.Context, schoolID, academicYearID uuid.UUID) ([]structures.FeeStructure, error) {
	defer s.lockIfOutsideTx()()
	var list []structures.FeeStructure
	for _, m := range s.structures {
		if m.FeeStructureSchoolID == schoolID &&
			m.FeeStructureAcademicYearID == academicYearID &&
			m.FeeStructureIsActive {
			list = append(list, *cloneStructure(m))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].FeeStructureCreatedAt.After(list[j].FeeStructureCreatedAt)
	})
	return list, nil
}

func (s *MemStore) ListFeeStructures(ctx context.Context, f FeeStructureFilter) ([]structures.FeeStructure, int64, error) {
	defer s.lockIfOutsideTx()()
	var list []structures.FeeStructure
	for _, m := range s.structures {
		if m.FeeStructureSchoolID != f.SchoolID {
			continue
		}
		if f.AcademicYearID != nil && m.FeeStructureAcademicYearID != *f.AcademicYearID {
			continue
		}
		if f.ActiveOnly && !m.FeeStructureIsActive {
			continue
		}
		list = append(list, *cloneStructure(m))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].FeeStructureCreatedAt.After(list[j].FeeStructureCreatedAt)
	})
	total := int64(len(list))
	list = page(list, f.Limit, f.Offset)
	return list, total, nil
}

func (s *MemStore) SaveFeeStructure(ctx context.Context, m *structures.FeeStructure) error {
	defer s.lockIfOutsideTx()()
	if m.FeeStructureID == uuid.Nil {
		m.FeeStructureID = uuid.New()
	}
	if m.FeeStructureCreatedAt.IsZero() {
		m.FeeStructureCreatedAt = time.Now()
	}
	m.FeeStructureUpdatedAt = time.Now()
	for i := range m.FeeStructureComponents {
		c := &m.FeeStructureComponents[i]
		if c.FeeComponentID == uuid.Nil {
			c.FeeComponentID = uuid.New()
		}
		c.FeeComponentFeeStructureID = m.FeeStructureID
	}
	if s.inTx {
		s.structures = copyStructureMap(s.structures)
	}
	s.structures[m.FeeStructureID] = cloneStructure(m)
	return nil
}

func (s *MemStore) DeleteFeeStructure(ctx context.Context, id uuid.UUID) error {
	defer s.lockIfOutsideTx()()
	if _, ok := s.structures[id]; !ok {
		return errs.NotFound("fee_structure_id", "fee structure not found")
	}
	if s.inTx {
		s.structures = copyStructureMap(s.structures)
	}
	delete(s.structures, id)
	return nil
}

func (s *MemStore) CountLedgersForStructure(ctx context.Context, structureID uuid.UUID) (int64, error) {
	defer s.lockIfOutsideTx()()
	var n int64
	for _, lf := range s.ledgers {
		if lf.StudentFeeFeeStructureID == structureID {
			n++
		}
	}
	return n, nil
}

/* ----- student fee ledgers ----- */

func (s *MemStore) GetStudentFee(ctx context.Context, id uuid.UUID) (*ledgers.StudentFee, error) {
	defer s.lockIfOutsideTx()()
	m, ok := s.ledgers[id]
	if !ok {
		return nil, errs.NotFound("student_fee_id", "student fee not found")
	}
	return cloneLedger(m), nil
}

// GetStudentFeeForUpdate is identical to GetStudentFee here; the
// transaction mutex already serializes writers.
func (s *MemStore) GetStudentFeeForUpdate(ctx context.Context, id uuid.UUID) (*ledgers.StudentFee, error) {
	return s.GetStudentFee(ctx, id)
}

func (s *MemStore) SaveStudentFee(ctx context.Context, lf *ledgers.StudentFee) error {
	defer s.lockIfOutsideTx()()
	if lf.StudentFeeID == uuid.Nil {
		lf.StudentFeeID = uuid.New()
	}
	if lf.StudentFeeCreatedAt.IsZero() {
		lf.StudentFeeCreatedAt = time.Now()
	}
	lf.StudentFeeUpdatedAt = time.Now()
	for i := range lf.StudentFeeComponents {
		c := &lf.StudentFeeComponents[i]
		if c.StudentFeeComponentID == uuid.Nil {
			c.StudentFeeComponentID = uuid.New()
		}
		c.StudentFeeComponentStudentFeeID = lf.StudentFeeID
	}
	for i := range lf.StudentFeeDiscounts {
		d := &lf.StudentFeeDiscounts[i]
		if d.StudentFeeDiscountID == uuid.Nil {
			d.StudentFeeDiscountID = uuid.New()
		}
		d.StudentFeeDiscountStudentFeeID = lf.StudentFeeID
	}
	for i := range lf.StudentFeeScholarships {
		sc := &lf.StudentFeeScholarships[i]
		if sc.StudentFeeScholarshipID == uuid.Nil {
			sc.StudentFeeScholarshipID = uuid.New()
		}
		sc.StudentFeeScholarshipStudentFeeID = lf.StudentFeeID
	}
	if s.inTx {
		s.ledgers = copyLedgerMap(s.ledgers)
	}
	s.ledgers[lf.StudentFeeID] = cloneLedger(lf)
	return nil
}

func (s *MemStore) DeleteStudentFee(ctx context.Context, id uuid.UUID) error {
	defer s.lockIfOutsideTx()()
	if _, ok := s.ledgers[id]; !ok {
		return errs.NotFound("student_fee_id", "student fee not found")
	}
	if s.inTx {
		s.ledgers = copyLedgerMap(s.ledgers)
	}
	delete(s.ledgers, id)
	return nil
}

func (s *MemStore) ListStudentFees(ctx context.Context, f StudentFeeFilter) ([]ledgers.StudentFee, int64, error) {
	defer s.lockIfOutsideTx()()
	var list []ledgers.StudentFee
	for _, m := range s.ledgers {
		if m.StudentFeeSchoolID != f.SchoolID {
			continue
		}
		if f.StudentID != nil && m.StudentFeeStudentID != *f.StudentID {
			continue
		}
		if f.Status != nil && m.StudentFeeStatus != *f.Status {
			continue
		}
		list = append(list, *cloneLedger(m))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].StudentFeeCreatedAt.After(list[j].StudentFeeCreatedAt)
	})
	total := int64(len(list))
	list = page(list, f.Limit, f.Offset)
	return list, total, nil
}

func (s *MemStore) ListSweepCandidates(ctx context.Context, now time.Time) ([]ledgers.StudentFee, error) {
	defer s.lockIfOutsideTx()()
	var list []ledgers.StudentFee
	for _, m := range s.ledgers {
		if m.StudentFeeDueDate == nil || !m.StudentFeeDueDate.Before(now) {
			continue
		}
		if !m.StudentFeeBalanceAmount.GreaterThan(decimal.Zero) {
			continue
		}
		if m.StudentFeeStatus == ledgers.StudentFeeStatusPaid {
			continue
		}
		list = append(list, *cloneLedger(m))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].StudentFeeCreatedAt.Before(list[j].StudentFeeCreatedAt)
	})
	return list, nil
}

/* ----- payments ----- */

func (s *MemStore) NextReceiptNumber(ctx context.Context, schoolID uuid.UUID) (int64, error) {
	defer s.lockIfOutsideTx()()
	if s.inTx {
		s.counters = copyCounterMap(s.counters)
	}
	s.counters[schoolID]++
	return s.counters[schoolID], nil
}

func (s *MemStore) AppendPayment(ctx context.Context, p *payments.Payment) error {
	defer s.lockIfOutsideTx()()
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.PaymentPaidAt.IsZero() {
		p.PaymentPaidAt = time.Now()
	}
	if p.PaymentCreatedAt.IsZero() {
		p.PaymentCreatedAt = time.Now()
	}
	for i := range p.PaymentItems {
		it := &p.PaymentItems[i]
		if it.PaymentItemID == uuid.Nil {
			it.PaymentItemID = uuid.New()
		}
		it.PaymentItemPaymentID = p.PaymentID
	}
	cp := *p
	cp.PaymentItems = append([]payments.PaymentItem(nil), p.PaymentItems...)
	if s.inTx {
		s.payments = append([]payments.Payment(nil), s.payments...)
	}
	s.payments = append(s.payments, cp)
	return nil
}

func (s *MemStore) ListPayments(ctx context.Context, f PaymentFilter) ([]payments.Payment, int64, error) {
	defer s.lockIfOutsideTx()()
	var list []payments.Payment
	for _, p := range s.payments {
		if p.PaymentSchoolID != f.SchoolID {
			continue
		}
		if f.StudentFeeID != nil && p.PaymentStudentFeeID != *f.StudentFeeID {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].PaymentReceiptNumber > list[j].PaymentReceiptNumber
	})
	total := int64(len(list))
	list = page(list, f.Limit, f.Offset)
	return list, total, nil
}

/* ----- small utils ----- */

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func copyStructureMap(in map[uuid.UUID]*structures.FeeStructure) map[uuid.UUID]*structures.FeeStructure {
	out := make(map[uuid.UUID]*structures.FeeStructure, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyLedgerMap(in map[uuid.UUID]*ledgers.StudentFee) map[uuid.UUID]*ledgers.StudentFee {
	out := make(map[uuid.UUID]*ledgers.StudentFee, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyCounterMap(in map[uuid.UUID]int64) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

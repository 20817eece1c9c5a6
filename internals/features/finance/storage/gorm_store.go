// file: internals/features/finance/storage/gorm_store.go
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolfee_backend/internals/features/finance/errs"
	ledgers "schoolfee_backend/internals/features/finance/ledgers/model"
	payments "schoolfee_backend/internals/features/finance/payments/model"
	structures "schoolfee_backend/internals/features/finance/structures/model"
)

/* ==============================================
   GormStore — Postgres implementation
============================================== */

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

// translate maps driver errors to the engine taxonomy. String matching
// on SQLSTATE keeps it compatible with both lib/pq and pgx wrappings.
func translate(err error, field string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(field, "record not found")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.ConflictRetryable(field, "duplicate key")
	}
	msg := err.Error()
	if strings.Contains(msg, "23505") || // unique_violation
		strings.Contains(msg, "40001") || // serialization_failure
		strings.Contains(msg, "40P01") { // deadlock_detected
		return errs.ConflictRetryable(field, "concurrent write detected")
	}
	return err
}

// limitOrAll keeps an unset filter limit from turning into LIMIT 0.
func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

/* ----- fee structures ----- */

func (s *GormStore) GetFeeStructure(ctx context.Context, id uuid.UUID) (*structures.FeeStructure, error) {
	var m structures.FeeStructure
	err := s.DB.WithContext(ctx).
		Preload("FeeStructureComponents", func(db *gorm.DB) *gorm.DB {
			return db.Order("fee_component_position ASC")
		}).
		First(&m, "fee_structure_id = ?", id).Error
	if err != nil {
		return nil, translate(err, "fee_structure_id")
	}
	return &m, nil
}

func (s *GormStore) ListActiveFeeStructures(ctx context.Context, schoolID, academicYearID uuid.UUID) ([]structures.FeeStructure, error) {
	var list []structures.FeeStructure
	err := s.DB.WithContext(ctx).
		Preload("FeeStructureComponents", func(db *gorm.DB) *gorm.DB {
			return db.Order("fee_component_position ASC")
		}).
		Where("fee_structure_school_id = ? AND fee_structure_academic_year_id = ? AND fee_structure_is_active = TRUE", schoolID, academicYearID).
		Order("fee_structure_created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "fee_structure")
	}
	return list, nil
}

func (s *GormStore) ListFeeStructures(ctx context.Context, f FeeStructureFilter) ([]structures.FeeStructure, int64, error) {
	q := s.DB.WithContext(ctx).Model(&structures.FeeStructure{}).
		Where("fee_structure_school_id = ?", f.SchoolID)
	if f.AcademicYearID != nil {
		q = q.Where("fee_structure_academic_year_id = ?", *f.AcademicYearID)
	}
	if f.ActiveOnly {
		q = q.Where("fee_structure_is_active = TRUE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "fee_structure")
	}

	var list []structures.FeeStructure
	err := q.
		Preload("FeeStructureComponents", func(db *gorm.DB) *gorm.DB {
			return db.Order("fee_component_position ASC")
		}).
		Order("fee_structure_created_at DESC").
		Limit(limitOrAll(f.Limit)).Offset(f.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, translate(err, "fee_structure")
	}
	return list, total, nil
}

func (s *GormStore) SaveFeeStructure(ctx context.Context, m *structures.FeeStructure) error {
	return translate(s.DB.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(m).Error, "fee_structure")
}

func (s *GormStore) DeleteFeeStructure(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fee_component_fee_structure_id = ?", id).
			Delete(&structures.FeeComponent{}).Error; err != nil {
			return translate(err, "fee_component")
		}
		res := tx.Delete(&structures.FeeStructure{}, "fee_structure_id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "fee_structure_id")
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("fee_structure_id", "fee structure not found")
		}
		return nil
	})
}

func (s *GormStore) CountLedgersForStructure(ctx context.Context, structureID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&ledgers.StudentFee{}).
		Where("student_fee_fee_structure_id = ?", structureID).
		Count(&n).Error
	return n, translate(err, "student_fee")
}

/* ----- student fee ledgers ----- */

func preloadLedger(db *gorm.DB) *gorm.DB {
	return db.
		Preload("StudentFeeComponents", func(db *gorm.DB) *gorm.DB {
			return db.Order("student_fee_component_position ASC")
		}).
		Preload("StudentFeeDiscounts").
		Preload("StudentFeeScholarships")
}

func (s *GormStore) GetStudentFee(ctx context.Context, id uuid.UUID) (*ledgers.StudentFee, error) {
	var m ledgers.StudentFee
	err := preloadLedger(s.DB.WithContext(ctx)).
		First(&m, "student_fee_id = ?", id).Error
	if err != nil {
		return nil, translate(err, "student_fee_id")
	}
	return &m, nil
}

func (s *GormStore) GetStudentFeeForUpdate(ctx context.Context, id uuid.UUID) (*ledgers.StudentFee, error) {
	var m ledgers.StudentFee
	err := preloadLedger(s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"})).
		First(&m, "student_fee_id = ?", id).Error
	if err != nil {
		return nil, translate(err, "student_fee_id")
	}
	return &m, nil
}

func (s *GormStore) SaveStudentFee(ctx context.Context, lf *ledgers.StudentFee) error {
	return translate(s.DB.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(lf).Error, "student_fee")
}

func (s *GormStore) DeleteStudentFee(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_fee_component_student_fee_id = ?", id).
			Delete(&ledgers.StudentFeeComponent{}).Error; err != nil {
			return translate(err, "student_fee_component")
		}
		if err := tx.Where("student_fee_discount_student_fee_id = ?", id).
			Delete(&ledgers.StudentFeeDiscount{}).Error; err != nil {
			return translate(err, "student_fee_discount")
		}
		if err := tx.Where("student_fee_scholarship_student_fee_id = ?", id).
			Delete(&ledgers.StudentFeeScholarship{}).Error; err != nil {
			return translate(err, "student_fee_scholarship")
		}
		res := tx.Delete(&ledgers.StudentFee{}, "student_fee_id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "student_fee_id")
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("student_fee_id", "student fee not found")
		}
		return nil
	})
}

func (s *GormStore) ListStudentFees(ctx context.Context, f StudentFeeFilter) ([]ledgers.StudentFee, int64, error) {
	q := s.DB.WithContext(ctx).Model(&ledgers.StudentFee{}).
		Where("student_fee_school_id = ?", f.SchoolID)
	if f.StudentID != nil {
		q = q.Where("student_fee_student_id = ?", *f.StudentID)
	}
	if f.Status != nil {
		q = q.Where("student_fee_status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "student_fee")
	}

	var list []ledgers.StudentFee
	err := preloadLedger(q).
		Order("student_fee_created_at DESC").
		Limit(limitOrAll(f.Limit)).Offset(f.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, translate(err, "student_fee")
	}
	return list, total, nil
}

func (s *GormStore) ListSweepCandidates(ctx context.Context, now time.Time) ([]ledgers.StudentFee, error) {
	var list []ledgers.StudentFee
	err := preloadLedger(s.DB.WithContext(ctx)).
		Where("student_fee_due_date IS NOT NULL AND student_fee_due_date < ?", now).
		Where("student_fee_balance_amount > 0").
		Where("student_fee_status <> ?", ledgers.StudentFeeStatusPaid).
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "student_fee")
	}
	return list, nil
}

/* ----- payments ----- */

func (s *GormStore) NextReceiptNumber(ctx context.Context, schoolID uuid.UUID) (int64, error) {
	var next int64
	err := s.DB.WithContext(ctx).Raw(`
		INSERT INTO receipt_counters (receipt_counter_school_id, receipt_counter_last_number, receipt_counter_updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (receipt_counter_school_id)
		DO UPDATE SET receipt_counter_last_number = receipt_counters.receipt_counter_last_number + 1,
		              receipt_counter_updated_at  = NOW()
		RETURNING receipt_counter_last_number
	`, schoolID).Scan(&next).Error
	if err != nil {
		return 0, translate(err, "receipt_counter")
	}
	return next, nil
}

func (s *GormStore) AppendPayment(ctx context.Context, p *payments.Payment) error {
	return translate(s.DB.WithContext(ctx).Create(p).Error, "payment")
}

func (s *GormStore) ListPayments(ctx context.Context, f PaymentFilter) ([]payments.Payment, int64, error) {
	q := s.DB.WithContext(ctx).Model(&payments.Payment{}).
		Where("payment_school_id = ?", f.SchoolID)
	if f.StudentFeeID != nil {
		q = q.Where("payment_student_fee_id = ?", *f.StudentFeeID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "payment")
	}

	var list []payments.Payment
	err := q.Preload("PaymentItems").
		Order("payment_receipt_number DESC").
		Limit(limitOrAll(f.Limit)).Offset(f.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, translate(err, "payment")
	}
	return list, total, nil
}

// file: internals/features/finance/payments/model/receipt_counter_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

/* ==============================================
   MODEL — receipt_counters
   One row per school; last issued receipt number.
   Incremented atomically inside the payment
   transaction so numbers are unique, gapless and
   strictly increasing per school.
============================================== */

type ReceiptCounter struct {
	ReceiptCounterSchoolID   uuid.UUID `gorm:"column:receipt_counter_school_id;type:uuid;primaryKey" json:"receipt_counter_school_id"`
	ReceiptCounterLastNumber int64     `gorm:"column:receipt_counter_last_number;not null;default:0" json:"receipt_counter_last_number"`

	ReceiptCounterUpdatedAt time.Time `gorm:"column:receipt_counter_updated_at;type:timestamptz;not null;autoUpdateTime" json:"receipt_counter_updated_at"`
}

func (ReceiptCounter) TableName() string { return "receipt_counters" }

// FormatReceiptNumber renders the display form of a receipt number.
// The core guarantees only the monotonic integer; the prefix and
// padding are a presentation concern.
func FormatReceiptNumber(prefix string, n int64) string {
	if prefix == "" {
		prefix = "RCP"
	}
	return fmt.Sprintf("%s-%06d", prefix, n)
}

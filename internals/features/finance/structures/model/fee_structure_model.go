// file: internals/features/finance/structures/model/fee_structure_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==============================================
   MODEL — fee_structures
   Versioned template of fee components, scoped to
   (academic year, academic unit). academic_unit_id
   NULL = applies to all units of the year.
============================================== */

type FeeStructure struct {
	// PK
	FeeStructureID uuid.UUID `gorm:"column:fee_structure_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_structure_id"`

	// Tenant
	FeeStructureSchoolID uuid.UUID `gorm:"column:fee_structure_school_id;type:uuid;not null;index:idx_fee_structures_scope,priority:1" json:"fee_structure_school_id"`

	// Scope
	FeeStructureName           string     `gorm:"column:fee_structure_name;type:varchar(120);not null" json:"fee_structure_name"`
	FeeStructureAcademicYearID uuid.UUID  `gorm:"column:fee_structure_academic_year_id;type:uuid;not null;index:idx_fee_structures_scope,priority:2" json:"fee_structure_academic_year_id"`
	FeeStructureAcademicUnitID *uuid.UUID `gorm:"column:fee_structure_academic_unit_id;type:uuid;index" json:"fee_structure_academic_unit_id,omitempty"`

	// Flags
	FeeStructureIsActive bool `gorm:"column:fee_structure_is_active;not null;default:true;index" json:"fee_structure_is_active"`
	FeeStructureIsLocked bool `gorm:"column:fee_structure_is_locked;not null;default:false" json:"fee_structure_is_locked"`

	// Components (ordered by position)
	FeeStructureComponents []FeeComponent `gorm:"foreignKey:FeeComponentFeeStructureID;references:FeeStructureID" json:"fee_structure_components,omitempty"`

	// Audit
	FeeStructureCreatedAt time.Time      `gorm:"column:fee_structure_created_at;type:timestamptz;not null;autoCreateTime;index" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time      `gorm:"column:fee_structure_updated_at;type:timestamptz;not null;autoUpdateTime" json:"fee_structure_updated_at"`
	FeeStructureDeletedAt gorm.DeletedAt `gorm:"column:fee_structure_deleted_at;type:timestamptz;index" json:"-"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

func (m *FeeStructure) BeforeCreate(tx *gorm.DB) error {
	if m.FeeStructureID == uuid.Nil {
		m.FeeStructureID = uuid.New()
	}
	return nil
}

// ComponentByID returns the component with the given id, or nil.
func (m *FeeStructure) ComponentByID(id uuid.UUID) *FeeComponent {
	for i := range m.FeeStructureComponents {
		if m.FeeStructureComponents[i].FeeComponentID == id {
			return &m.FeeStructureComponents[i]
		}
	}
	return nil
}

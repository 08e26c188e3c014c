package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MainItem is a top-level inspection category (electrical, plumbing, ...).
// Reference data managed by admins, shared across all reports.
type MainItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NameAr string    `gorm:"size:200;not null" json:"nameAr"`
	NameEn string    `gorm:"size:200;not null" json:"nameEn"`
	Order  int       `gorm:"default:0" json:"order"`

	SubItems []SubItem `gorm:"foreignKey:MainItemID" json:"subItems,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SubItem is a billable unit of work under a MainItem. Its UnitPrice is the
// default for issue line items; an issue may override it per line.
type SubItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MainItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"mainItemId"`
	MainItem   MainItem  `gorm:"foreignKey:MainItemID" json:"mainItem,omitempty"`
	NameAr     string    `gorm:"size:200;not null" json:"nameAr"`
	NameEn     string    `gorm:"size:200;not null" json:"nameEn"`
	Unit       string    `gorm:"size:30;not null" json:"unit"` // e.g. "m2", "piece"
	UnitPrice  float64   `gorm:"not null;default:0" json:"unitPrice"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *MainItem) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

func (s *SubItem) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

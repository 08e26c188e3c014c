package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report statuses.
const (
	ReportStatusDraft     = "draft"
	ReportStatusSubmitted = "submitted"
	ReportStatusApproved  = "approved"
)

// IssueType discriminates the two fixed issue shapes.
type IssueType string

const (
	// IssueTypeSingle: exactly one line item and exactly three photos.
	IssueTypeSingle IssueType = "single"
	// IssueTypeMultiple: exactly three line items, each paired 1:1 with a
	// photo by positional index.
	IssueTypeMultiple IssueType = "multiple"
)

// IsValid returns true if the type is a recognized value.
func (t IssueType) IsValid() bool {
	switch t {
	case IssueTypeSingle, IssueTypeMultiple:
		return true
	}
	return false
}

// Report identifies one inspection visit to a mosque.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MosqueID    uuid.UUID `gorm:"type:uuid;not null;index" json:"mosqueId"`
	Mosque      Mosque    `gorm:"foreignKey:MosqueID" json:"mosque,omitempty"`
	Status      string    `gorm:"size:30;not null;default:draft" json:"status"`
	ReportDate  JSONDate  `gorm:"type:date;not null" json:"reportDate"`
	MapPhotoURL *string   `json:"mapPhotoUrl,omitempty"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"createdById,omitempty"`

	Issues []Issue `gorm:"foreignKey:ReportID" json:"issues,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Issue is one recorded defect within a report. It exclusively owns its
// line items and photos; edits replace both collections wholesale.
type Issue struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID   uuid.UUID `gorm:"type:uuid;not null;index" json:"reportId"`
	MainItemID uuid.UUID `gorm:"type:uuid;not null" json:"mainItemId"`
	MainItem   MainItem  `gorm:"foreignKey:MainItemID" json:"mainItem,omitempty"`
	IssueType  IssueType `gorm:"size:20;not null;default:single" json:"issueType"`
	Notes      string    `gorm:"type:text" json:"notes"`

	Items  []IssueItem  `gorm:"foreignKey:IssueID" json:"items,omitempty"`
	Photos []IssuePhoto `gorm:"foreignKey:IssueID" json:"photos,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Issue) TableName() string {
	return "report_issues"
}

// IssueItem is a quantity + unit price snapshot for one SubItem within one
// issue. Position pairs the item with the photo at the same position for
// the "multiple" shape.
type IssueItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IssueID   uuid.UUID `gorm:"type:uuid;not null;index" json:"issueId"`
	SubItemID uuid.UUID `gorm:"type:uuid;not null" json:"subItemId"`
	SubItem   SubItem   `gorm:"foreignKey:SubItemID" json:"subItem,omitempty"`
	Quantity  float64   `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64   `gorm:"not null;default:0" json:"unitPrice"`
	Position  int       `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `json:"createdAt"`
}

// IssuePhoto is a stored object URL attached to an issue. Position is the
// only ordering signal and must align with IssueItem.Position for the
// "multiple" shape.
type IssuePhoto struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IssueID  uuid.UUID `gorm:"type:uuid;not null;index" json:"issueId"`
	URL      string    `gorm:"not null" json:"url"`
	Position int       `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

func (i *Issue) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (ii *IssueItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return
}

func (ip *IssuePhoto) BeforeCreate(tx *gorm.DB) (err error) {
	if ip.ID == uuid.Nil {
		ip.ID = uuid.New()
	}
	return
}

// EffectiveUnitPrice returns the price used for billing: an explicit
// per-issue override wins, otherwise the catalog price of the sub item.
func (ii *IssueItem) EffectiveUnitPrice() float64 {
	if ii.UnitPrice > 0 {
		return ii.UnitPrice
	}
	return ii.SubItem.UnitPrice
}

// LineTotal is quantity times the effective unit price.
func (ii *IssueItem) LineTotal() float64 {
	return ii.Quantity * ii.EffectiveUnitPrice()
}

// Total sums the line totals of every item across all issues.
func (r *Report) Total() float64 {
	var sum float64
	for _, is := range r.Issues {
		for i := range is.Items {
			sum += is.Items[i].LineTotal()
		}
	}
	return sum
}

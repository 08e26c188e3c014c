package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mosque is the site a report is written against. One mosque can own any
// number of reports; it is also edited inline while a report is open.
type Mosque struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string         `gorm:"size:200;not null" json:"name"`
	SupervisorName  string         `gorm:"size:100" json:"supervisorName"`
	SupervisorPhone string         `gorm:"size:20" json:"supervisorPhone"`
	City            string         `gorm:"size:100" json:"city"`
	District        string         `gorm:"size:100" json:"district"`
	Street          string         `gorm:"size:200" json:"street"`
	MainPhotoURL    *string        `json:"mainPhotoUrl,omitempty"`
	GalleryURLs     pq.StringArray `gorm:"type:text[]" json:"galleryUrls,omitempty"`
	Latitude        *float64       `gorm:"type:double precision" json:"latitude,omitempty"`
	Longitude       *float64       `gorm:"type:double precision" json:"longitude,omitempty"`
	Location        datatypes.JSON `gorm:"type:jsonb" json:"location,omitempty"` // extra address/geo detail as sent by the client

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Mosque) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

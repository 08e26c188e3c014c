package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/masjidops/fahs/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250610_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Mosque{},
					&models.MainItem{}, &models.SubItem{})
			},
		},
		{
			ID: "20250610_create_report_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Report{}, &models.Issue{},
					&models.IssueItem{}, &models.IssuePhoto{})
			},
		},
		{
			ID: "20250722_add_issue_positions",
			Migrate: func(tx *gorm.DB) error {
				// Older rows carried no explicit order; array position at
				// insertion time was the only signal. Backfill from id order.
				if err := tx.Exec("ALTER TABLE issue_items ADD COLUMN IF NOT EXISTS position integer NOT NULL DEFAULT 0").Error; err != nil {
					return err
				}
				return tx.Exec("ALTER TABLE issue_photos ADD COLUMN IF NOT EXISTS position integer NOT NULL DEFAULT 0").Error
			},
		},
		{
			ID: "20250805_add_report_map_photo",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("ALTER TABLE reports ADD COLUMN IF NOT EXISTS map_photo_url text").Error
			},
		},
	})

	return m.Migrate()
}

package config

import (
	"errors"

	"gorm.io/gorm"

	"github.com/masjidops/fahs/logger"
	"github.com/masjidops/fahs/models"
)

type seedSubItem struct {
	nameAr, nameEn, unit string
	price                float64
}

type seedMainItem struct {
	nameAr, nameEn string
	subs           []seedSubItem
}

var catalogSeed = []seedMainItem{
	{
		nameAr: "الأعمال الكهربائية", nameEn: "Electrical works",
		subs: []seedSubItem{
			{"استبدال وحدة إنارة", "Replace light fixture", "piece", 85},
			{"إصلاح لوحة توزيع", "Repair distribution board", "piece", 350},
			{"تمديد نقطة كهرباء", "Extend power outlet", "piece", 120},
		},
	},
	{
		nameAr: "أعمال السباكة", nameEn: "Plumbing works",
		subs: []seedSubItem{
			{"إصلاح تسريب مياه", "Fix water leak", "piece", 150},
			{"استبدال خلاط", "Replace mixer tap", "piece", 110},
			{"تسليك صرف", "Unclog drain", "piece", 90},
		},
	},
	{
		nameAr: "أعمال التكييف", nameEn: "HVAC works",
		subs: []seedSubItem{
			{"تنظيف وصيانة مكيف", "AC cleaning and service", "piece", 180},
			{"استبدال مكيف سبليت", "Replace split unit", "piece", 2200},
		},
	},
	{
		nameAr: "أعمال الدهان والترميم", nameEn: "Painting and restoration",
		subs: []seedSubItem{
			{"دهان جدران", "Wall painting", "m2", 18},
			{"معالجة تشققات", "Crack treatment", "m2", 35},
		},
	},
	{
		nameAr: "أعمال السجاد والفرش", nameEn: "Carpets and furnishing",
		subs: []seedSubItem{
			{"تنظيف سجاد", "Carpet cleaning", "m2", 6},
			{"استبدال سجاد", "Carpet replacement", "m2", 45},
		},
	},
}

// SeedCatalog inserts the main/sub inspection catalog. Skips entirely if
// any main item already exists so redeploys never duplicate reference data.
func SeedCatalog(db *gorm.DB) error {
	var existing models.MainItem
	err := db.First(&existing).Error
	if err == nil {
		logger.Log.Debug("inspection catalog already seeded, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	for order, mi := range catalogSeed {
		main := models.MainItem{NameAr: mi.nameAr, NameEn: mi.nameEn, Order: order}
		if err := db.Create(&main).Error; err != nil {
			return err
		}
		for _, si := range mi.subs {
			sub := models.SubItem{
				MainItemID: main.ID,
				NameAr:     si.nameAr,
				NameEn:     si.nameEn,
				Unit:       si.unit,
				UnitPrice:  si.price,
			}
			if err := db.Create(&sub).Error; err != nil {
				return err
			}
		}
	}
	logger.Log.Infof("seeded %d main inspection items", len(catalogSeed))
	return nil
}

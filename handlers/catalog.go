package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/masjidops/fahs/config"
	"github.com/masjidops/fahs/middleware"
	"github.com/masjidops/fahs/models"
)

// The two-level inspection catalog is shared reference data: admins manage
// it, inspectors only read it.

func GetMainItems(w http.ResponseWriter, r *http.Request) {
	var items []models.MainItem
	q := config.DB.Order("\"order\" asc").Order("created_at asc")
	if r.URL.Query().Get("include_sub_items") == "true" {
		q = q.Preload("SubItems")
	}
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func CreateMainItem(w http.ResponseWriter, r *http.Request) {
	var item models.MainItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.NameAr == "" && item.NameEn == "" {
		http.Error(w, "a name is required", http.StatusBadRequest)
		return
	}
	if err := config.DB.Create(&item).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func UpdateMainItem(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var item models.MainItem
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	delete(patch, "id")
	if err := config.DB.Model(&item).Updates(patch).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func DeleteMainItem(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var used int64
	config.DB.Model(&models.Issue{}).Where("main_item_id = ?", id).Count(&used)
	if used > 0 {
		http.Error(w, "main item is referenced by issues", http.StatusConflict)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SubItem{}, "main_item_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MainItem{}, "id = ?", id).Error
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func GetSubItems(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Order("created_at asc")
	if mainID := r.URL.Query().Get("main_item_id"); mainID != "" {
		q = q.Where("main_item_id = ?", mainID)
	}
	var items []models.SubItem
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func CreateSubItem(w http.ResponseWriter, r *http.Request) {
	var item models.SubItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.MainItemID == uuid.Nil {
		http.Error(w, "main_item_id is required", http.StatusBadRequest)
		return
	}
	var parent models.MainItem
	if err := config.DB.First(&parent, "id = ?", item.MainItemID).Error; err != nil {
		http.Error(w, "main item not found", http.StatusBadRequest)
		return
	}
	if err := config.DB.Create(&item).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func UpdateSubItem(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var item models.SubItem
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	delete(patch, "id")
	delete(patch, "mainItemId")
	if err := config.DB.Model(&item).Updates(patch).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func DeleteSubItem(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var used int64
	config.DB.Model(&models.IssueItem{}).Where("sub_item_id = ?", id).Count(&used)
	if used > 0 {
		http.Error(w, "sub item is referenced by issue items", http.StatusConflict)
		return
	}

	if err := config.DB.Delete(&models.SubItem{}, "id = ?", id).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubItemPrice is the lookup-by-id helper behind unit price defaulting:
// a line that leaves its price at zero bills at the catalog price.
func SubItemPrice(id uuid.UUID) float64 {
	var item models.SubItem
	if err := config.DB.Select("unit_price").First(&item, "id = ?", id).Error; err != nil {
		return 0
	}
	return item.UnitPrice
}

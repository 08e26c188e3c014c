package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/masjidops/fahs/config"
	"github.com/masjidops/fahs/middleware"
	"github.com/masjidops/fahs/models"
	"github.com/masjidops/fahs/utils"
)

func GetAllMosques(w http.ResponseWriter, r *http.Request) {
	params, err := models.ParseListParams(r, "city", "district")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var total int64
	if err := params.ApplyFilters(config.DB.Model(&models.Mosque{})).Count(&total).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var mosques []models.Mosque
	if err := params.Apply(config.DB.Model(&models.Mosque{})).Find(&mosques).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.ListResponse{
		Items:    mosques,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

func CreateMosque(w http.ResponseWriter, r *http.Request) {
	var item models.Mosque
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if item.Latitude != nil && item.Longitude != nil {
		loc, err := utils.LocationGeoJSON(*item.Latitude, *item.Longitude)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		item.Location = datatypes.JSON(loc)
	}

	if err := config.DB.Create(&item).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func GetMosque(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid mosque id", http.StatusBadRequest)
		return
	}

	var item models.Mosque
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UpdateMosque applies a partial update: only the fields present in the
// body change. This is the endpoint backing inline mosque edits while a
// report is open.
func UpdateMosque(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid mosque id", http.StatusBadRequest)
		return
	}

	var item models.Mosque
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
	delete(patch, "createdAt")
	delete(patch, "updatedAt")

	// Moving the pin re-derives the stored GeoJSON point.
	if lat, lok := patch["latitude"].(float64); lok {
		if lng, gok := patch["longitude"].(float64); gok {
			loc, err := utils.LocationGeoJSON(lat, lng)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			patch["location"] = datatypes.JSON(loc)
		}
	}

	if err := config.DB.Model(&item).Updates(patch).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func DeleteMosque(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid mosque id", http.StatusBadRequest)
		return
	}

	var count int64
	config.DB.Model(&models.Report{}).Where("mosque_id = ?", id).Count(&count)
	if count > 0 {
		http.Error(w, "mosque has reports; delete them first", http.StatusConflict)
		return
	}

	if err := config.DB.Delete(&models.Mosque{}, "id = ?", id).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

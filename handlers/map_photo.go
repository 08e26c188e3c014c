package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/masjidops/fahs/config"
	"github.com/masjidops/fahs/logger"
	"github.com/masjidops/fahs/models"
	"github.com/masjidops/fahs/storage"
	"github.com/masjidops/fahs/utils"
)

const (
	mapFetchTimeout = 10 * time.Second
	mapKeyFile      = ".maps_api_key"
)

// staticMapURL is a var so tests can point the fetch at a stub provider.
var staticMapURL = "https://maps.googleapis.com/maps/api/staticmap"

type mapPhotoReq struct {
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	TargetID   string   `json:"targetId"`
	ReportID   string   `json:"reportId"` // legacy alias for targetId
	TargetType string   `json:"targetType"`
	Force      bool     `json:"force"`
}

// resolveMapsAPIKey finds the provider key: a local override file first,
// then the server-only variable, then the client-exposed one.
func resolveMapsAPIKey() string {
	if data, err := os.ReadFile(mapKeyFile); err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			return key
		}
	}
	if key := os.Getenv("MAPS_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("PUBLIC_MAPS_API_KEY")
}

// FetchMapPhoto grabs a static satellite snapshot for a site and stores it
// at a fixed, overwrite-friendly path. POST only.
func FetchMapPhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req mapPhotoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Lat == nil || req.Lng == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}
	if err := utils.ValidateCoordinate(*req.Lat, *req.Lng); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	targetID := req.TargetID
	if targetID == "" {
		targetID = req.ReportID
	}
	if targetID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "targetId is required"})
		return
	}
	targetType := req.TargetType
	if targetType == "" {
		targetType = "report"
	}

	// One snapshot per target: skip when it already exists unless forced.
	if targetType == "report" && !req.Force {
		if id, err := uuid.Parse(targetID); err == nil {
			var report models.Report
			if err := config.DB.First(&report, "id = ?", id).Error; err == nil &&
				report.MapPhotoURL != nil && *report.MapPhotoURL != "" {
				writeJSON(w, http.StatusOK, map[string]string{
					"url":  *report.MapPhotoURL,
					"path": storage.MapPhotoPath(targetType, targetID),
				})
				return
			}
		}
	}

	key := resolveMapsAPIKey()
	if key == "" {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "map provider key not configured"})
		return
	}

	img, err := fetchStaticMap(*req.Lat, *req.Lng, key)
	if err != nil {
		logger.Log.WithError(err).Warn("static map fetch failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "map provider error"})
		return
	}

	path := storage.MapPhotoPath(targetType, targetID)
	url, err := Store.Put(r.Context(), path, "image/jpeg", bytes.NewReader(img))
	if err != nil {
		logger.Log.WithError(err).Error("storing map snapshot failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not store map image"})
		return
	}

	// Best effort: the snapshot is already stored and addressable, so a
	// failed back-reference is only worth a warning.
	if targetType == "report" {
		if id, perr := uuid.Parse(targetID); perr == nil {
			if err := config.DB.Model(&models.Report{}).Where("id = ?", id).
				Update("map_photo_url", url).Error; err != nil {
				logger.Log.WithError(err).Warn("could not record map photo url on report")
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url, "path": path})
}

func fetchStaticMap(lat, lng float64, key string) ([]byte, error) {
	client := &http.Client{Timeout: mapFetchTimeout}
	url := fmt.Sprintf("%s?center=%f,%f&zoom=18&size=640x400&maptype=satellite&format=jpg&key=%s",
		staticMapURL, lat, lng, key)

	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("map provider returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/masjidops/fahs/logger"
	"github.com/masjidops/fahs/pkg/apperr"
	"github.com/masjidops/fahs/pkg/uploader"
	"github.com/masjidops/fahs/storage"
)

// Store is the object storage backend, wired up in main.
var Store storage.Store

// Uploads tracks in-flight photo uploads across all open drafts.
var Uploads = uploader.New()

func SetStorage(s storage.Store) {
	Store = s
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

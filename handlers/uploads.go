package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/masjidops/fahs/logger"
	"github.com/masjidops/fahs/middleware"
	"github.com/masjidops/fahs/storage"
	"github.com/masjidops/fahs/utils"
)

const maxUploadBytes = 50 << 20

// Image types field staff may upload. Sniffed from content, not trusted
// from headers.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heif": true,
}

type uploadResp struct {
	URL     string `json:"url"`
	Path    string `json:"path"`
	Slot    string `json:"slot,omitempty"`
	Applied bool   `json:"applied"` // false when the slot was replaced mid-upload
}

// UploadPhoto stores one inspection photo. The image is compressed
// best-effort under a fixed budget; on timeout or failure the original
// bytes are uploaded instead. When draft_id and slot are present the
// upload participates in the draft's pending counter and slot guard.
func UploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size == 0 {
		http.Error(w, "file is empty", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "reading upload: "+err.Error(), http.StatusInternalServerError)
		return
	}

	kind, _ := filetype.Match(data)
	mime := kind.MIME.Value
	if !allowedImageTypes[mime] {
		http.Error(w, "unsupported file type", http.StatusBadRequest)
		return
	}

	// Slot bookkeeping is optional; plain uploads (mosque photos) skip it.
	draftID, _ := uuid.Parse(r.FormValue("draft_id"))
	slot := r.FormValue("slot")
	tracked := draftID != uuid.Nil && slot != ""

	var token string
	if tracked {
		token = Uploads.Begin(draftID, slot)
	}

	body, contentType := compressForUpload(r.Context(), data, mime)

	path := storage.ObjectPath(claims.UserID, header.Filename, contentType)
	url, err := Store.Put(r.Context(), path, contentType, bytes.NewReader(body))
	if err != nil {
		if tracked {
			Uploads.Fail(draftID, slot, token)
		}
		writeError(w, err)
		return
	}

	applied := true
	if tracked {
		applied = Uploads.Complete(draftID, slot, token, url)
	}

	writeJSON(w, http.StatusOK, uploadResp{URL: url, Path: path, Slot: slot, Applied: applied})
}

// compressForUpload runs Compress under its fixed budget and falls back to
// the original bytes on any failure. Compression never blocks an upload.
func compressForUpload(ctx context.Context, data []byte, mime string) ([]byte, string) {
	cctx, cancel := context.WithTimeout(ctx, utils.CompressTimeout*time.Millisecond)
	defer cancel()

	out, err := utils.Compress(cctx, data, utils.DefaultCompressOptions)
	if err != nil {
		logger.Log.WithError(err).Warn("photo compression failed, uploading original")
		return data, mime
	}
	// Compress returns the input slice itself when it chose not to touch it.
	if len(out) > 0 && len(data) > 0 && &out[0] == &data[0] {
		return data, mime
	}
	return out, "image/jpeg"
}

type clearSlotReq struct {
	DraftID uuid.UUID `json:"draftId"`
	Slot    string    `json:"slot"`
}

// ClearPhotoSlot empties a draft's photo slot. An upload still in flight
// for that slot becomes stale and will not write back when it resolves.
func ClearPhotoSlot(w http.ResponseWriter, r *http.Request) {
	var req clearSlotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.DraftID == uuid.Nil || req.Slot == "" {
		http.Error(w, "draftId and slot are required", http.StatusBadRequest)
		return
	}
	Uploads.Clear(req.DraftID, req.Slot)
	w.WriteHeader(http.StatusNoContent)
}

// GetPendingUploads reports how many uploads are still in flight for a
// draft; clients gate their save button on this reaching zero.
func GetPendingUploads(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(r.URL.Query().Get("draft_id"))
	if err != nil {
		http.Error(w, "invalid draft_id", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"pending": Uploads.Pending(draftID)})
}

type slotStateResp struct {
	URL      string `json:"url"`
	InFlight bool   `json:"inFlight"`
}

// GetPhotoSlot reports one slot's state: the resolved URL once its upload
// finished, and whether one is still in flight. Lets a reconnecting
// client restore a draft's photo grid without re-uploading.
func GetPhotoSlot(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(r.URL.Query().Get("draft_id"))
	if err != nil {
		http.Error(w, "invalid draft_id", http.StatusBadRequest)
		return
	}
	slot := r.URL.Query().Get("slot")
	if slot == "" {
		http.Error(w, "slot is required", http.StatusBadRequest)
		return
	}
	url, inFlight := Uploads.Slot(draftID, slot)
	writeJSON(w, http.StatusOK, slotStateResp{URL: url, InFlight: inFlight})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func getSlotState(t *testing.T, draftID uuid.UUID, slot string) (slotStateResp, int) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/uploads/slots?draft_id="+draftID.String()+"&slot="+slot, nil)
	w := httptest.NewRecorder()
	GetPhotoSlot(w, r)

	var resp slotStateResp
	if w.Code == http.StatusOK {
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, w.Code
}

func TestGetPhotoSlot(t *testing.T) {
	draftID := uuid.New()

	resp, code := getSlotState(t, draftID, "single/0")
	if code != http.StatusOK || resp.URL != "" || resp.InFlight {
		t.Errorf("untouched slot = %+v (status %d), want empty and idle", resp, code)
	}

	token := Uploads.Begin(draftID, "single/0")
	resp, _ = getSlotState(t, draftID, "single/0")
	if !resp.InFlight || resp.URL != "" {
		t.Errorf("slot mid-upload = %+v, want in flight with no url yet", resp)
	}

	Uploads.Complete(draftID, "single/0", token, "u/done.jpg")
	resp, _ = getSlotState(t, draftID, "single/0")
	if resp.InFlight || resp.URL != "u/done.jpg" {
		t.Errorf("settled slot = %+v, want u/done.jpg and idle", resp)
	}

	Uploads.Release(draftID)
}

func TestGetPhotoSlotValidation(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/uploads/slots?draft_id=nope&slot=single/0", nil)
	w := httptest.NewRecorder()
	GetPhotoSlot(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad draft id: status = %d, want 400", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/uploads/slots?draft_id="+uuid.NewString(), nil)
	w = httptest.NewRecorder()
	GetPhotoSlot(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing slot: status = %d, want 400", w.Code)
	}
}

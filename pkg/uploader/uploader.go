// Package uploader tracks in-flight photo uploads for issue drafts.
//
// Two invariants live here. The pending counter is exact: it is
// incremented before an upload starts and decremented exactly once per
// upload regardless of outcome, so saving a draft can be gated on
// Pending()==0. The slot guard is last-writer-wins by identity: each
// upload installs a unique placeholder token in its slot, and completion
// updates the slot only if that same token is still there, so a slow
// upload can never resurrect a slot the user has since replaced or
// cleared.
package uploader

import (
	"sync"

	"github.com/google/uuid"
)

// SlotKey addresses one photo slot of one draft, e.g. {draft, "single/0"}
// or {draft, "multiple/2"}.
type SlotKey struct {
	Draft uuid.UUID
	Slot  string
}

type slotState struct {
	token string // placeholder of the upload currently owning the slot
	url   string // resolved remote URL once an upload completes
}

// Tracker is safe for concurrent use by parallel uploads.
type Tracker struct {
	mu      sync.Mutex
	pending map[uuid.UUID]int
	slots   map[SlotKey]*slotState
}

func New() *Tracker {
	return &Tracker{
		pending: make(map[uuid.UUID]int),
		slots:   make(map[SlotKey]*slotState),
	}
}

// Begin registers a starting upload: bumps the draft's pending counter and
// installs a fresh placeholder token in the slot, displacing any earlier
// upload's claim to it. Returns the token the caller must present on
// completion.
func (t *Tracker) Begin(draft uuid.UUID, slot string) string {
	token := uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[draft]++
	t.slots[SlotKey{draft, slot}] = &slotState{token: token}
	return token
}

// Complete records a finished upload. The pending counter is always
// decremented; the slot takes the URL only if it still holds this
// upload's token. Returns whether the slot was updated.
func (t *Tracker) Complete(draft uuid.UUID, slot, token, url string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.decrement(draft)

	s, ok := t.slots[SlotKey{draft, slot}]
	if !ok || s.token != token {
		return false
	}
	s.token = ""
	s.url = url
	return true
}

// Fail records a failed upload: the counter is decremented and the slot is
// cleared back to empty, under the same staleness guard as Complete.
func (t *Tracker) Fail(draft uuid.UUID, slot, token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.decrement(draft)

	key := SlotKey{draft, slot}
	if s, ok := t.slots[key]; ok && s.token == token {
		delete(t.slots, key)
	}
}

// Clear empties a slot explicitly (user removed the photo). Any upload
// still in flight for it becomes stale and will not write back.
func (t *Tracker) Clear(draft uuid.UUID, slot string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.slots, SlotKey{draft, slot})
}

// Pending returns the number of uploads still in flight for a draft.
func (t *Tracker) Pending(draft uuid.UUID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending[draft]
}

// Slot reports the slot's resolved URL and whether an upload for it is
// still pending.
func (t *Tracker) Slot(draft uuid.UUID, slot string) (url string, inFlight bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.slots[SlotKey{draft, slot}]
	if !ok {
		return "", false
	}
	return s.url, s.token != ""
}

// Release drops all state for a draft once it is saved or cancelled.
func (t *Tracker) Release(draft uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, draft)
	for key := range t.slots {
		if key.Draft == draft {
			delete(t.slots, key)
		}
	}
}

func (t *Tracker) decrement(draft uuid.UUID) {
	if t.pending[draft] > 1 {
		t.pending[draft]--
		return
	}
	delete(t.pending, draft)
}

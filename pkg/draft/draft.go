// Package draft holds the editable in-memory form of one inspection issue
// and its validation rules. A draft always carries BOTH shapes (single and
// multiple); switching the active variant never discards what was typed
// into the other, and only the active variant is validated and persisted.
package draft

import (
	"github.com/google/uuid"

	"github.com/masjidops/fahs/models"
	"github.com/masjidops/fahs/pkg/apperr"
)

// PhotoSlots is the fixed photo count for the single shape, and the fixed
// pair count for the multiple shape.
const PhotoSlots = 3

// PriceLookup resolves a sub item's current catalog price. Used when a
// line leaves its unit price at zero: the explicit price wins, the catalog
// price is the fallback.
type PriceLookup func(subItemID uuid.UUID) float64

// SingleSection is the case1 shape: one line item plus three photos.
type SingleSection struct {
	SubItemID uuid.UUID          `json:"subItemId"`
	Quantity  float64            `json:"quantity"`
	UnitPrice float64            `json:"unitPrice"`
	Photos    [PhotoSlots]string `json:"photos"`
}

// Entry is one item+photo pair of the case2 shape.
type Entry struct {
	SubItemID uuid.UUID `json:"subItemId"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	Photo     string    `json:"photo"`
}

// MultipleSection is the case2 shape. The slice may hold more than three
// entries while the user is editing; validity requires exactly three of
// them to be fully filled in.
type MultipleSection struct {
	Entries []Entry `json:"entries"`
}

// IssueDraft is the editable representation of one issue.
type IssueDraft struct {
	IssueID    uuid.UUID        `json:"issueId,omitempty"` // Nil until first save
	ReportID   uuid.UUID        `json:"reportId"`
	MainItemID uuid.UUID        `json:"mainItemId"`
	Variant    models.IssueType `json:"variant"`
	Notes      string           `json:"notes"`
	Single     SingleSection    `json:"single"`
	Multiple   MultipleSection  `json:"multiple"`
}

// New returns an empty draft template for a report: both sections
// populated, single active.
func New(reportID uuid.UUID) *IssueDraft {
	return &IssueDraft{
		ReportID: reportID,
		Variant:  models.IssueTypeSingle,
		Single:   emptySingle(),
		Multiple: emptyMultiple(),
	}
}

// FromIssue hydrates a draft from a persisted issue. The discriminator
// maps "single" to the single section; anything else is treated as
// multiple. Items/photos are projected by position 0..2; missing positions
// keep placeholder values. The inactive section gets the empty template so
// the user can switch variants without losing the ability to edit it.
func FromIssue(is *models.Issue) *IssueDraft {
	d := &IssueDraft{
		IssueID:    is.ID,
		ReportID:   is.ReportID,
		MainItemID: is.MainItemID,
		Notes:      is.Notes,
		Single:     emptySingle(),
		Multiple:   emptyMultiple(),
	}

	items := byPosition(is.Items, func(ii models.IssueItem) int { return ii.Position })
	photos := byPosition(is.Photos, func(ip models.IssuePhoto) int { return ip.Position })

	if is.IssueType == models.IssueTypeSingle {
		d.Variant = models.IssueTypeSingle
		if it, ok := items[0]; ok {
			d.Single.SubItemID = it.SubItemID
			d.Single.Quantity = it.Quantity
			d.Single.UnitPrice = it.UnitPrice
		}
		for pos := 0; pos < PhotoSlots; pos++ {
			if ph, ok := photos[pos]; ok {
				d.Single.Photos[pos] = ph.URL
			}
		}
		return d
	}

	d.Variant = models.IssueTypeMultiple
	for pos := 0; pos < PhotoSlots; pos++ {
		e := &d.Multiple.Entries[pos]
		if it, ok := items[pos]; ok {
			e.SubItemID = it.SubItemID
			e.Quantity = it.Quantity
			e.UnitPrice = it.UnitPrice
		}
		if ph, ok := photos[pos]; ok {
			e.Photo = ph.URL
		}
	}
	return d
}

func emptySingle() SingleSection {
	return SingleSection{Quantity: 1}
}

func emptyMultiple() MultipleSection {
	entries := make([]Entry, PhotoSlots)
	for i := range entries {
		entries[i].Quantity = 1
	}
	return MultipleSection{Entries: entries}
}

func byPosition[T any](rows []T, pos func(T) int) map[int]T {
	m := make(map[int]T, len(rows))
	for _, row := range rows {
		if _, taken := m[pos(row)]; !taken {
			m[pos(row)] = row
		}
	}
	return m
}

// effectivePrice applies the pricing policy: explicit price wins, catalog
// price is the fallback.
func effectivePrice(explicit float64, subItemID uuid.UUID, lookup PriceLookup) float64 {
	if explicit > 0 {
		return explicit
	}
	if lookup == nil {
		return 0
	}
	return lookup(subItemID)
}

// entryValid reports whether one case2 entry meets all four conditions.
func entryValid(e Entry, lookup PriceLookup) bool {
	return e.SubItemID != uuid.Nil &&
		e.Photo != "" &&
		e.Quantity > 0 &&
		effectivePrice(e.UnitPrice, e.SubItemID, lookup) > 0
}

// Validate enforces the shape rules of the active variant. Failures are
// blocking: nothing is persisted until the draft passes.
func (d *IssueDraft) Validate(lookup PriceLookup) error {
	if d.MainItemID == uuid.Nil {
		return apperr.New(apperr.KindValidation, "main item is required")
	}
	if !d.Variant.IsValid() {
		return apperr.New(apperr.KindValidation, "unknown issue type %q", d.Variant)
	}

	switch d.Variant {
	case models.IssueTypeSingle:
		s := d.Single
		if s.SubItemID == uuid.Nil {
			return apperr.New(apperr.KindValidation, "sub item is required")
		}
		for i, url := range s.Photos {
			if url == "" {
				return apperr.New(apperr.KindValidation, "photo %d is required", i+1)
			}
		}
		if s.Quantity <= 0 {
			return apperr.New(apperr.KindValidation, "quantity must be greater than zero")
		}
		if effectivePrice(s.UnitPrice, s.SubItemID, lookup) <= 0 {
			return apperr.New(apperr.KindValidation, "unit price must be greater than zero")
		}

	case models.IssueTypeMultiple:
		valid := 0
		for _, e := range d.Multiple.Entries {
			if entryValid(e, lookup) {
				valid++
			}
		}
		if valid != PhotoSlots {
			return apperr.New(apperr.KindValidation,
				"exactly %d complete item entries are required, have %d", PhotoSlots, valid)
		}
	}
	return nil
}

// Rows projects the ACTIVE variant into persistable child rows with the
// exact cardinality of its shape: 1 item + 3 photos for single, 3 items +
// 3 photos for multiple. Positions align items with photos pairwise.
// Call Validate first; Rows assumes a valid draft.
func (d *IssueDraft) Rows(lookup PriceLookup) ([]models.IssueItem, []models.IssuePhoto) {
	var items []models.IssueItem
	var photos []models.IssuePhoto

	switch d.Variant {
	case models.IssueTypeMultiple:
		pos := 0
		for _, e := range d.Multiple.Entries {
			if !entryValid(e, lookup) {
				continue
			}
			items = append(items, models.IssueItem{
				SubItemID: e.SubItemID,
				Quantity:  e.Quantity,
				UnitPrice: effectivePrice(e.UnitPrice, e.SubItemID, lookup),
				Position:  pos,
			})
			photos = append(photos, models.IssuePhoto{URL: e.Photo, Position: pos})
			pos++
			if pos == PhotoSlots {
				break
			}
		}

	default: // single
		s := d.Single
		items = append(items, models.IssueItem{
			SubItemID: s.SubItemID,
			Quantity:  s.Quantity,
			UnitPrice: effectivePrice(s.UnitPrice, s.SubItemID, lookup),
			Position:  0,
		})
		for pos, url := range s.Photos {
			photos = append(photos, models.IssuePhoto{URL: url, Position: pos})
		}
	}
	return items, photos
}

package draft

import (
	"testing"

	"github.com/google/uuid"

	"github.com/masjidops/fahs/models"
)

var (
	mainID = uuid.New()
	subA   = uuid.New()
	subB   = uuid.New()
	subC   = uuid.New()
)

// catalogPrice resolves every known sub item to 50, everything else to 0.
func catalogPrice(id uuid.UUID) float64 {
	switch id {
	case subA, subB, subC:
		return 50
	}
	return 0
}

func validSingle(reportID uuid.UUID) *IssueDraft {
	d := New(reportID)
	d.MainItemID = mainID
	d.Single.SubItemID = subA
	d.Single.Quantity = 2
	d.Single.UnitPrice = 10
	d.Single.Photos = [PhotoSlots]string{"u/1.jpg", "u/2.jpg", "u/3.jpg"}
	return d
}

func validMultiple(reportID uuid.UUID) *IssueDraft {
	d := New(reportID)
	d.MainItemID = mainID
	d.Variant = models.IssueTypeMultiple
	d.Multiple.Entries = []Entry{
		{SubItemID: subA, Quantity: 1, UnitPrice: 5, Photo: "m/0.jpg"},
		{SubItemID: subB, Quantity: 2, Photo: "m/1.jpg"},
		{SubItemID: subC, Quantity: 3, UnitPrice: 7, Photo: "m/2.jpg"},
	}
	return d
}

func TestValidateSingle(t *testing.T) {
	reportID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(*IssueDraft)
		wantErr bool
	}{
		{"complete", func(d *IssueDraft) {}, false},
		{"no main item", func(d *IssueDraft) { d.MainItemID = uuid.Nil }, true},
		{"no sub item", func(d *IssueDraft) { d.Single.SubItemID = uuid.Nil }, true},
		{"missing second photo", func(d *IssueDraft) { d.Single.Photos[1] = "" }, true},
		{"zero quantity", func(d *IssueDraft) { d.Single.Quantity = 0 }, true},
		{"negative quantity", func(d *IssueDraft) { d.Single.Quantity = -1 }, true},
		{"catalog price fallback", func(d *IssueDraft) { d.Single.UnitPrice = 0 }, false},
		{"no price anywhere", func(d *IssueDraft) {
			d.Single.SubItemID = uuid.New() // unknown to the catalog
			d.Single.UnitPrice = 0
		}, true},
		{"bad variant", func(d *IssueDraft) { d.Variant = "triple" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validSingle(reportID)
			tt.mutate(d)
			err := d.Validate(catalogPrice)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMultiple(t *testing.T) {
	reportID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(*IssueDraft)
		wantErr bool
	}{
		{"exactly three complete", func(d *IssueDraft) {}, false},
		{"two complete", func(d *IssueDraft) { d.Multiple.Entries[2].Photo = "" }, true},
		{"entry missing sub item", func(d *IssueDraft) { d.Multiple.Entries[0].SubItemID = uuid.Nil }, true},
		{"entry zero quantity", func(d *IssueDraft) { d.Multiple.Entries[1].Quantity = 0 }, true},
		{"entry unpriced anywhere", func(d *IssueDraft) {
			d.Multiple.Entries[1].SubItemID = uuid.New()
		}, true},
		{"four complete of five listed", func(d *IssueDraft) {
			d.Multiple.Entries = append(d.Multiple.Entries,
				Entry{SubItemID: subA, Quantity: 1, Photo: "m/3.jpg"},
				Entry{}) // incomplete trailing entry is ignored either way
		}, true},
		{"three complete among five listed", func(d *IssueDraft) {
			d.Multiple.Entries = append(d.Multiple.Entries, Entry{}, Entry{Photo: "orphan.jpg"})
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validMultiple(reportID)
			tt.mutate(d)
			err := d.Validate(catalogPrice)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRowsSingleCardinality(t *testing.T) {
	d := validSingle(uuid.New())
	d.Single.UnitPrice = 0 // force catalog fallback

	items, photos := d.Rows(catalogPrice)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if len(photos) != PhotoSlots {
		t.Fatalf("photos = %d, want %d", len(photos), PhotoSlots)
	}
	if items[0].Position != 0 || items[0].UnitPrice != 50 {
		t.Errorf("item = %+v, want position 0 with catalog price 50", items[0])
	}
	for i, ph := range photos {
		if ph.Position != i {
			t.Errorf("photo %d has position %d", i, ph.Position)
		}
	}
}

func TestRowsMultiplePairsByPosition(t *testing.T) {
	d := validMultiple(uuid.New())
	// Trailing noise beyond the three valid entries must not leak through.
	d.Multiple.Entries = append(d.Multiple.Entries, Entry{Photo: "noise.jpg"})

	items, photos := d.Rows(catalogPrice)
	if len(items) != PhotoSlots || len(photos) != PhotoSlots {
		t.Fatalf("got %d items, %d photos, want %d of each", len(items), len(photos), PhotoSlots)
	}
	for i := 0; i < PhotoSlots; i++ {
		if items[i].Position != i || photos[i].Position != i {
			t.Errorf("pair %d misaligned: item pos %d, photo pos %d", i, items[i].Position, photos[i].Position)
		}
	}
	// Entry 1 left its price at zero, so the catalog price applies.
	if items[1].UnitPrice != 50 {
		t.Errorf("items[1].UnitPrice = %v, want catalog 50", items[1].UnitPrice)
	}
	if items[0].UnitPrice != 5 {
		t.Errorf("items[0].UnitPrice = %v, want explicit 5", items[0].UnitPrice)
	}
}

func TestFromIssueSingle(t *testing.T) {
	is := &models.Issue{
		ID:         uuid.New(),
		ReportID:   uuid.New(),
		MainItemID: mainID,
		IssueType:  models.IssueTypeSingle,
		Notes:      "cracked tile",
		Items: []models.IssueItem{
			{SubItemID: subA, Quantity: 4, UnitPrice: 12, Position: 0},
		},
		Photos: []models.IssuePhoto{
			{URL: "p/0.jpg", Position: 0},
			{URL: "p/2.jpg", Position: 2},
		},
	}

	d := FromIssue(is)
	if d.Variant != models.IssueTypeSingle {
		t.Fatalf("variant = %q", d.Variant)
	}
	if d.Single.SubItemID != subA || d.Single.Quantity != 4 || d.Single.UnitPrice != 12 {
		t.Errorf("single section = %+v", d.Single)
	}
	if d.Single.Photos != [PhotoSlots]string{"p/0.jpg", "", "p/2.jpg"} {
		t.Errorf("photos = %v", d.Single.Photos)
	}
	// The inactive section keeps its editable template.
	if len(d.Multiple.Entries) != PhotoSlots {
		t.Errorf("inactive multiple section has %d entries, want %d", len(d.Multiple.Entries), PhotoSlots)
	}
}

func TestFromIssueMultiple(t *testing.T) {
	is := &models.Issue{
		ID:         uuid.New(),
		ReportID:   uuid.New(),
		MainItemID: mainID,
		IssueType:  models.IssueTypeMultiple,
		Items: []models.IssueItem{
			{SubItemID: subB, Quantity: 2, UnitPrice: 9, Position: 1},
			{SubItemID: subA, Quantity: 1, Position: 0},
		},
		Photos: []models.IssuePhoto{
			{URL: "m/1.jpg", Position: 1},
		},
	}

	d := FromIssue(is)
	if d.Variant != models.IssueTypeMultiple {
		t.Fatalf("variant = %q", d.Variant)
	}
	e := d.Multiple.Entries
	if e[0].SubItemID != subA || e[1].SubItemID != subB {
		t.Errorf("entries out of position: %+v", e)
	}
	if e[1].Photo != "m/1.jpg" || e[0].Photo != "" {
		t.Errorf("photos out of position: %+v", e)
	}
	// A position nothing was stored for keeps the placeholder quantity.
	if e[2].Quantity != 1 || e[2].SubItemID != uuid.Nil {
		t.Errorf("empty position not left as template: %+v", e[2])
	}
}

func TestEditRoundTrip(t *testing.T) {
	src := validMultiple(uuid.New())
	items, photos := src.Rows(catalogPrice)

	is := &models.Issue{
		ID:         uuid.New(),
		ReportID:   src.ReportID,
		MainItemID: src.MainItemID,
		IssueType:  models.IssueTypeMultiple,
		Items:      items,
		Photos:     photos,
	}
	d := FromIssue(is)
	if err := d.Validate(catalogPrice); err != nil {
		t.Fatalf("rehydrated draft should validate: %v", err)
	}
	items2, photos2 := d.Rows(catalogPrice)
	if len(items2) != len(items) || len(photos2) != len(photos) {
		t.Fatalf("round trip changed cardinality: %d/%d -> %d/%d",
			len(items), len(photos), len(items2), len(photos2))
	}
	for i := range items2 {
		if items2[i].SubItemID != items[i].SubItemID || items2[i].UnitPrice != items[i].UnitPrice {
			t.Errorf("item %d changed: %+v -> %+v", i, items[i], items2[i])
		}
	}
}

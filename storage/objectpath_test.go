package storage

import (
	"regexp"
	"strings"
	"testing"
)

func TestObjectPathShape(t *testing.T) {
	p := ObjectPath("user-1", "photo.png", "image/png")

	re := regexp.MustCompile(`^user-1/\d{13}_[a-f0-9]{12}\.png$`)
	if !re.MatchString(p) {
		t.Errorf("path %q does not match the expected shape", p)
	}
}

func TestObjectPathUnique(t *testing.T) {
	a := ObjectPath("u", "a.jpg", "image/jpeg")
	b := ObjectPath("u", "a.jpg", "image/jpeg")
	if a == b {
		t.Errorf("two uploads of the same file collided: %q", a)
	}
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimeType string
		want     string
	}{
		{"mime wins", "shot.png", "image/jpeg", "jpeg"},
		{"filename fallback", "shot.webp", "", "webp"},
		{"default", "noext", "", "jpg"},
		{"mime garbage falls through", "shot.png", "image/", "png"},
		{"uppercase sanitized", "SHOT.PNG", "", "png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileExtension(tt.filename, tt.mimeType); got != tt.want {
				t.Errorf("FileExtension(%q, %q) = %q, want %q", tt.filename, tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestMapPhotoPath(t *testing.T) {
	tests := []struct {
		targetType string
		id         string
		want       string
	}{
		{"report", "abc-123", "map-photos/report-abc-123.jpg"},
		{"Mosque", "ID-9", "map-photos/mosque-id-9.jpg"},
		{"", "x", "map-photos/report-x.jpg"},
		{"../etc", "a/b", "map-photos/etc-ab.jpg"},
	}
	for _, tt := range tests {
		if got := MapPhotoPath(tt.targetType, tt.id); got != tt.want {
			t.Errorf("MapPhotoPath(%q, %q) = %q, want %q", tt.targetType, tt.id, got, tt.want)
		}
	}
}

func TestMapPhotoPathStable(t *testing.T) {
	a := MapPhotoPath("report", "same-id")
	b := MapPhotoPath("report", "same-id")
	if a != b {
		t.Error("map photo paths must be deterministic so refreshes overwrite")
	}
	if strings.Contains(a, "..") {
		t.Errorf("path %q escapes its prefix", a)
	}
}

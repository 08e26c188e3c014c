package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectPath builds the destination path for an uploaded photo:
// {ownerID}/{epochMillis}_{randomToken}.{ext}. The owner prefix keeps one
// user's photos together; millis + token make collisions practically
// impossible even for rapid-fire uploads.
func ObjectPath(ownerID, filename, mimeType string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/%d_%s.%s",
		ownerID, time.Now().UnixMilli(), token, FileExtension(filename, mimeType))
}

// MapPhotoPath is the fixed, overwrite-friendly location of a site's map
// snapshot: map-photos/{sanitizedType}-{id}.jpg.
func MapPhotoPath(targetType, id string) string {
	t := sanitizeToken(strings.ToLower(targetType))
	if t == "" {
		t = "report"
	}
	return fmt.Sprintf("map-photos/%s-%s.jpg", t, sanitizeToken(id))
}

// FileExtension derives the object extension: MIME subtype first, then the
// filename's extension, then "jpg". The result is sanitized down to
// lowercase alphanumerics and hyphens (subtypes like x-icon keep theirs).
func FileExtension(filename, mimeType string) string {
	if idx := strings.Index(mimeType, "/"); idx >= 0 && idx+1 < len(mimeType) {
		if ext := sanitizeToken(mimeType[idx+1:]); ext != "" {
			return ext
		}
	}
	if ext := sanitizeToken(strings.TrimPrefix(filepath.Ext(filename), ".")); ext != "" {
		return ext
	}
	return "jpg"
}

// sanitizeToken keeps lowercase alphanumerics and hyphens, dropping
// everything else.
func sanitizeToken(s string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(s) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

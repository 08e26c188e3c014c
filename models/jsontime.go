package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONDate wraps time.Time for date-valued fields (report date) so we can
// control both JSON un/marshaling and SQL driver encoding. Clients send
// either a bare date ("2025-05-16") or a full RFC3339 timestamp; we always
// emit the bare date form.
type JSONDate time.Time

const dateLayout = "2006-01-02"

func (jd *JSONDate) UnmarshalJSON(b []byte) error {
	// strip quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*jd = JSONDate(time.Time{})
		return nil
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		*jd = JSONDate(t)
		return nil
	}

	// full RFC3339 with or without nanoseconds
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*jd = JSONDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("JSONDate.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	*jd = JSONDate(t)
	return nil
}

func (jd JSONDate) MarshalJSON() ([]byte, error) {
	t := time.Time(jd)
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(dateLayout))
}

// Value implements driver.Valuer so GORM/pgx can turn JSONDate into a
// SQL DATE parameter.
func (jd JSONDate) Value() (driver.Value, error) {
	return time.Time(jd), nil
}

// Scan implements sql.Scanner so GORM can read DATE columns back.
func (jd *JSONDate) Scan(src interface{}) error {
	if src == nil {
		*jd = JSONDate(time.Time{})
		return nil
	}

	switch v := src.(type) {
	case time.Time:
		*jd = JSONDate(v)
		return nil
	case []byte:
		return jd.parseString(string(v))
	case string:
		return jd.parseString(v)
	default:
		return fmt.Errorf("JSONDate.Scan: unsupported type %T", src)
	}
}

func (jd *JSONDate) parseString(s string) error {
	if t, err := time.Parse(dateLayout, s); err == nil {
		*jd = JSONDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("JSONDate.Scan: parse %q: %w", s, err)
	}
	*jd = JSONDate(t)
	return nil
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func TestPathUUID(t *testing.T) {
	want := uuid.New()
	var got uuid.UUID

	r := mux.NewRouter()
	r.HandleFunc("/reports/{id}", func(w http.ResponseWriter, req *http.Request) {
		got = PathUUID(req, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/reports/"+want.String(), nil))
	if got != want {
		t.Errorf("PathUUID = %v, want %v", got, want)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/reports/not-a-uuid", nil))
	if got != uuid.Nil {
		t.Errorf("malformed id should yield uuid.Nil, got %v", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded wins", "203.0.113.9, 10.0.0.1", "198.51.100.2", "192.0.2.1:4444", "203.0.113.9"},
		{"real ip next", "", "198.51.100.2", "192.0.2.1:4444", "198.51.100.2"},
		{"remote addr last", "", "", "192.0.2.1:4444", "192.0.2.1"},
		{"remote addr without port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

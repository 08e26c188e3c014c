package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// GetMuxVars extracts mux variables from request
func GetMuxVars(r *http.Request) map[string]string {
	return mux.Vars(r)
}

// PathUUID parses the named mux variable as a UUID; returns uuid.Nil when
// missing or malformed.
func PathUUID(r *http.Request, name string) uuid.UUID {
	vars := GetMuxVars(r)
	v, ok := vars[name]
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ClientIP extracts the client IP from headers or remote addr.
// Priority: X-Forwarded-For → X-Real-IP → RemoteAddr
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.Split(ip, ",")[0]
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

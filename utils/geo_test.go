package utils

import (
	"encoding/json"
	"testing"
)

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{"riyadh", 24.7136, 46.6753, false},
		{"extremes", 90, -180, false},
		{"lat too high", 90.1, 0, true},
		{"lat too low", -91, 0, true},
		{"lng too high", 0, 180.5, true},
		{"lng too low", 0, -181, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.lat, tt.lng)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%v, %v) = %v, wantErr %v", tt.lat, tt.lng, err, tt.wantErr)
			}
		})
	}
}

func TestNewPointOrdersLngLat(t *testing.T) {
	p := NewPoint(24.7136, 46.6753)
	if p.Lon() != 46.6753 || p.Lat() != 24.7136 {
		t.Errorf("point = %v, want (lon 46.6753, lat 24.7136)", p)
	}
}

func TestLocationGeoJSON(t *testing.T) {
	b, err := LocationGeoJSON(24.7136, 46.6753)
	if err != nil {
		t.Fatalf("LocationGeoJSON: %v", err)
	}

	var doc struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Type != "Point" {
		t.Errorf("type = %q, want Point", doc.Type)
	}
	// GeoJSON orders coordinates longitude first.
	if doc.Coordinates != [2]float64{46.6753, 24.7136} {
		t.Errorf("coordinates = %v, want [46.6753 24.7136]", doc.Coordinates)
	}

	if _, err := LocationGeoJSON(95, 0); err == nil {
		t.Error("out-of-range latitude must be rejected")
	}
}

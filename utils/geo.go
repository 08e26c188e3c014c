package utils

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// NewPoint builds an orb.Point from the lat/lng pair the clients send.
// orb stores points as (lng, lat).
func NewPoint(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// LocationGeoJSON renders a coordinate pair as a GeoJSON Point document,
// the form the mosques.location jsonb column stores.
func LocationGeoJSON(lat, lng float64) ([]byte, error) {
	if err := ValidateCoordinate(lat, lng); err != nil {
		return nil, err
	}
	return json.Marshal(geojson.NewGeometry(NewPoint(lat, lng)))
}

// ValidateCoordinate rejects values outside the WGS84 bounds.
func ValidateCoordinate(lat, lng float64) error {
	// Latitude must be between -90 and 90
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", lat)
	}

	// Longitude must be between -180 and 180
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", lng)
	}

	return nil
}

package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"homefront/server/internal/models"
)

const metersPerMile = 1609.344

// Point converts a lat/lng pair to an orb point (orb is lng, lat).
func Point(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// MilesBetween is the great-circle distance between two points in miles.
func MilesBetween(a, b orb.Point) float64 {
	return geo.Distance(a, b) / metersPerMile
}

// WithinRadius keeps the records whose coordinates lie within radiusMiles
// of center. Records without coordinates are dropped.
func WithinRadius(records []models.PropertyRecord, center orb.Point, radiusMiles float64) []models.PropertyRecord {
	var kept []models.PropertyRecord
	for _, r := range records {
		if !r.HasCoordinates() {
			continue
		}
		if MilesBetween(center, Point(*r.Latitude, *r.Longitude)) <= radiusMiles {
			kept = append(kept, r)
		}
	}
	return kept
}

// Centroid returns the planar centroid of the records that carry coordinates.
// ok is false when none do.
func Centroid(records []models.PropertyRecord) (lat, lng float64, ok bool) {
	var points orb.MultiPoint
	for _, r := range records {
		if r.HasCoordinates() {
			points = append(points, Point(*r.Latitude, *r.Longitude))
		}
	}
	if len(points) == 0 {
		return 0, 0, false
	}

	center, _ := planar.CentroidArea(points)
	return center.Lat(), center.Lon(), true
}

// FeatureCollection builds the map layer for a set of records.
func FeatureCollection(records []models.PropertyRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		if !r.HasCoordinates() {
			continue
		}

		feature := geojson.NewFeature(Point(*r.Latitude, *r.Longitude))
		feature.ID = r.ID
		feature.Properties = geojson.Properties{
			"id":      r.ID,
			"address": r.Address,
		}
		if r.Price != nil {
			feature.Properties["price"] = *r.Price
		}
		if r.ListingStatus != "" {
			feature.Properties["listing_status"] = r.ListingStatus
		}
		fc.Append(feature)
	}
	return fc
}

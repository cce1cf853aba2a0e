package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"homefront/server/internal/models"
)

// footprintPadding pushes the hull out from its centroid, in degrees, so
// listings on the boundary sit inside the drawn area.
const footprintPadding = 0.001

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull returns the closed counter-clockwise hull of points, or nil when
// the points do not span an area.
func convexHull(points []orb.Point) orb.Ring {
	pts := make([]orb.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] == pts[j][0] {
			return pts[i][1] < pts[j][1]
		}
		return pts[i][0] < pts[j][0]
	})

	// Monotone chain: lower hull then upper hull
	hull := make([]orb.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// The last point repeats the first, closing the ring
	if len(hull) < 4 {
		return nil
	}
	return orb.Ring(hull)
}

func padRing(ring orb.Ring, padding float64) orb.Ring {
	center, _ := planar.CentroidArea(ring)

	padded := make(orb.Ring, len(ring))
	for i, p := range ring {
		dx, dy := p[0]-center[0], p[1]-center[1]
		dist := planar.Distance(center, p)
		if dist == 0 {
			padded[i] = p
			continue
		}
		scale := (dist + padding) / dist
		padded[i] = orb.Point{center[0] + dx*scale, center[1] + dy*scale}
	}
	return padded
}

// Footprint outlines the records that carry coordinates. It is nil for fewer
// than three distinct, non-collinear locations.
func Footprint(records []models.PropertyRecord) orb.Polygon {
	var points []orb.Point
	for _, r := range records {
		if r.HasCoordinates() {
			points = append(points, Point(*r.Latitude, *r.Longitude))
		}
	}
	if len(points) < 3 {
		return nil
	}

	hull := convexHull(points)
	if hull == nil {
		return nil
	}
	return orb.Polygon{padRing(hull, footprintPadding)}
}

// FootprintFeature is the map polygon for one area, or nil when the area has
// no footprint.
func FootprintFeature(name string, records []models.PropertyRecord) *geojson.Feature {
	polygon := Footprint(records)
	if polygon == nil {
		return nil
	}

	feature := geojson.NewFeature(polygon)
	feature.Properties = geojson.Properties{
		"name":          name,
		"listing_count": len(records),
	}
	return feature
}

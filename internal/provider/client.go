// Package provider talks to the third-party real-estate data API and turns its
// responses into canonical records. It only reads; nothing is retried.
package provider

import (
	"context"
	"errors"
	"math"

	"homefront/server/internal/models"
)

var (
	// ErrProviderUnavailable covers transport failures, timeouts and non-2xx statuses.
	ErrProviderUnavailable = errors.New("property data provider unavailable")
	// ErrProviderMalformedResponse means the body could not be read into the expected shape.
	ErrProviderMalformedResponse = errors.New("property data provider returned a malformed response")
	ErrInvalidQuery              = errors.New("invalid provider query")
	ErrNotFound                  = errors.New("property not found")
)

// Client is the set of lookups the tools need from a data provider.
type Client interface {
	SearchProperties(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error)
	SearchByCoordinates(ctx context.Context, query CoordinateQuery) (*models.SearchResult, error)
	ResolveLocation(ctx context.Context, location string) ([]models.LocationCandidate, error)
	PropertyDetail(ctx context.Context, id string) (*models.PropertyDetail, error)
	ValuationEstimate(ctx context.Context, id string) (*models.Valuation, error)
	MortgageRates(ctx context.Context) ([]models.MortgageRate, error)
}

// CoordinateQuery searches around a point. Filters.Location is ignored.
type CoordinateQuery struct {
	Latitude      float64
	Longitude     float64
	ListingIntent models.ListingIntent
	RadiusMiles   float64
	Filters       models.SearchFilters
}

// IsUnavailable reports whether err means the provider could not serve the
// request, as opposed to rejecting it.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrProviderMalformedResponse)
}

func validCoordinate(lat, lng float64) bool {
	for _, v := range []float64{lat, lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func validateCoordinateQuery(q CoordinateQuery) error {
	if !validCoordinate(q.Latitude, q.Longitude) {
		return ErrInvalidQuery
	}
	if q.ListingIntent != models.ForSale && q.ListingIntent != models.ForRent {
		return ErrInvalidQuery
	}
	return nil
}

package provider

import (
	"context"
	"fmt"
	"math"
	"strings"

	"homefront/server/config"
	"homefront/server/internal/geometry"
	"homefront/server/internal/models"
)

// DemoClient serves the fixed demo dataset through the same interface as the
// live provider. It never fails for availability reasons.
type DemoClient struct {
	data   *config.DemoDataset
	radius float64
}

func NewDemoClient(data *config.DemoDataset, radiusMiles float64) *DemoClient {
	if radiusMiles <= 0 {
		radiusMiles = 2
	}
	return &DemoClient{data: data, radius: radiusMiles}
}

// SearchProperties always returns the fixed search listings; filters are not applied.
func (d *DemoClient) SearchProperties(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error) {
	if strings.TrimSpace(filters.Location) == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}

	records := make([]models.PropertyRecord, len(d.data.SearchListings))
	copy(records, d.data.SearchListings)
	return &models.SearchResult{
		Records:    records,
		TotalCount: len(records),
		Page:       1,
		TotalPages: 1,
	}, nil
}

func (d *DemoClient) SearchByCoordinates(ctx context.Context, query CoordinateQuery) (*models.SearchResult, error) {
	if err := validateCoordinateQuery(query); err != nil {
		return nil, fmt.Errorf("%w: lat=%v lng=%v intent=%q", err, query.Latitude, query.Longitude, query.ListingIntent)
	}
	radius := query.RadiusMiles
	if radius <= 0 {
		radius = d.radius
	}

	var matching []models.PropertyRecord
	for _, listing := range d.data.Listings {
		if listing.ListingStatus == string(query.ListingIntent) {
			matching = append(matching, listing.PropertyRecord)
		}
	}
	records := geometry.WithinRadius(matching, geometry.Point(query.Latitude, query.Longitude), radius)
	if records == nil {
		records = []models.PropertyRecord{}
	}

	return &models.SearchResult{
		Records:    records,
		TotalCount: len(records),
		Page:       1,
		TotalPages: 1,
	}, nil
}

// ResolveLocation matches demo areas by name. "austin" and "Downtown Austin, Texas"
// both match "Austin, TX"; unknown places yield no candidates.
func (d *DemoClient) ResolveLocation(ctx context.Context, location string) ([]models.LocationCandidate, error) {
	query := strings.ToLower(strings.TrimSpace(location))
	if query == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}

	candidates := []models.LocationCandidate{}
	for _, area := range d.data.Areas {
		name := strings.ToLower(area.DisplayName)
		city, _, _ := strings.Cut(name, ",")
		if strings.Contains(name, query) || strings.Contains(query, strings.TrimSpace(city)) {
			candidates = append(candidates, area)
		}
	}
	return candidates, nil
}

func (d *DemoClient) listing(id string) (*models.PropertyDetail, bool) {
	for _, listing := range d.data.Listings {
		if listing.ID == id {
			l := listing
			return &l, true
		}
	}
	for _, record := range d.data.SearchListings {
		if record.ID == id {
			return &models.PropertyDetail{PropertyRecord: record}, true
		}
	}
	return nil, false
}

func (d *DemoClient) PropertyDetail(ctx context.Context, id string) (*models.PropertyDetail, error) {
	detail, ok := d.listing(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the demo dataset", ErrNotFound, id)
	}
	if detail.HasCoordinates() {
		center := geometry.Point(*detail.Latitude, *detail.Longitude)
		var nearby []models.PropertyRecord
		for _, other := range d.data.Listings {
			if other.ID != id && other.ListingStatus == detail.ListingStatus {
				nearby = append(nearby, other.PropertyRecord)
			}
		}
		detail.NearbyComparables = geometry.WithinRadius(nearby, center, d.radius)
	}
	return detail, nil
}

// ValuationEstimate derives a +/-5% range around the demo estimate.
func (d *DemoClient) ValuationEstimate(ctx context.Context, id string) (*models.Valuation, error) {
	detail, ok := d.listing(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the demo dataset", ErrNotFound, id)
	}

	valuation := &models.Valuation{
		Estimate:     detail.Zestimate,
		RentEstimate: detail.RentZestimate,
	}
	if detail.Zestimate != nil {
		est := float64(*detail.Zestimate)
		valuation.ValuationRange = &models.ValueRange{
			Low:  int(math.Round(est * 0.95)),
			High: int(math.Round(est * 1.05)),
		}
	}
	return valuation, nil
}

func (d *DemoClient) MortgageRates(ctx context.Context) ([]models.MortgageRate, error) {
	rates := make([]models.MortgageRate, len(d.data.MortgageRates))
	copy(rates, d.data.MortgageRates)
	return rates, nil
}

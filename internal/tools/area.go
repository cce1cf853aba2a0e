package tools

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/paulmach/orb/geojson"

	"homefront/server/internal/geometry"
	"homefront/server/internal/models"
	"homefront/server/internal/provider"
)

const (
	maxCandidates = 5
	maxFeatured   = 8
)

type areaPayload struct {
	Location           string                     `json:"location"`
	PropertyIntent     models.ListingIntent       `json:"property_intent"`
	Areas              []models.AreaSummary       `json:"areas"`
	FeaturedProperties []models.PropertyRecord    `json:"featured_properties"`
	Map                *geojson.FeatureCollection `json:"map"`
	Boundaries         *geojson.FeatureCollection `json:"boundaries"`
	UsingMockData      bool                       `json:"usingMockData"`
}

// areaSearch holds the coordinate search results for one candidate, by intent.
type areaSearch struct {
	candidate models.LocationCandidate
	sale      *models.SearchResult
	rent      *models.SearchResult
}

func (s areaSearch) records() []models.PropertyRecord {
	var records []models.PropertyRecord
	if s.sale != nil {
		records = append(records, s.sale.Records...)
	}
	if s.rent != nil {
		records = append(records, s.rent.Records...)
	}
	return records
}

func searchIntents(intent models.ListingIntent) []models.ListingIntent {
	if intent == models.Both {
		return []models.ListingIntent{models.ForSale, models.ForRent}
	}
	return []models.ListingIntent{intent}
}

func (d *Dispatcher) areaLookup(ctx context.Context, raw Arguments) (*result, error) {
	args, err := parseAreaArgs(raw)
	if err != nil {
		return nil, err
	}

	payload, usingMockData, err := withFallback(ctx, d, AreaLookup, func(client provider.Client) (*areaPayload, error) {
		return lookupArea(ctx, client, args)
	})
	if err != nil {
		return nil, err
	}
	payload.UsingMockData = usingMockData

	return &result{
		summary:       areaSummaryText(payload),
		payload:       payload,
		usingMockData: usingMockData,
	}, nil
}

// lookupArea resolves the location and searches around each candidate. The
// searches run concurrently but the areas keep the provider's candidate order.
func lookupArea(ctx context.Context, client provider.Client, args *areaArgs) (*areaPayload, error) {
	candidates, err := client.ResolveLocation(ctx, args.Location)
	if err != nil {
		return nil, err
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	var filters models.SearchFilters
	args.Filters.apply(&filters)

	searches := make([]areaSearch, len(candidates))
	intents := searchIntents(args.PropertyIntent)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// firstErr is the error that triggered cancellation, not one caused by it.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, candidate := range candidates {
		searches[i].candidate = candidate
		for _, intent := range intents {
			wg.Add(1)
			go func(i int, candidate models.LocationCandidate, intent models.ListingIntent) {
				defer wg.Done()

				res, err := client.SearchByCoordinates(ctx, provider.CoordinateQuery{
					Latitude:      candidate.Latitude,
					Longitude:     candidate.Longitude,
					ListingIntent: intent,
					Filters:       filters,
				})
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
						cancel()
					}
					mu.Unlock()
					return
				}
				if intent == models.ForSale {
					searches[i].sale = res
				} else {
					searches[i].rent = res
				}
			}(i, candidate, intent)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	payload := &areaPayload{
		Location:           args.Location,
		PropertyIntent:     args.PropertyIntent,
		Areas:              make([]models.AreaSummary, 0, len(searches)),
		FeaturedProperties: []models.PropertyRecord{},
		Boundaries:         geojson.NewFeatureCollection(),
	}
	for _, s := range searches {
		payload.Areas = append(payload.Areas, summarizeArea(s))
		if boundary := geometry.FootprintFeature(s.candidate.DisplayName, s.records()); boundary != nil {
			payload.Boundaries.Append(boundary)
		}

		for _, res := range []*models.SearchResult{s.sale, s.rent} {
			if res == nil {
				continue
			}
			for _, r := range res.Records {
				if len(payload.FeaturedProperties) == maxFeatured {
					break
				}
				payload.FeaturedProperties = append(payload.FeaturedProperties, r)
			}
		}
	}
	payload.Map = geometry.FeatureCollection(payload.FeaturedProperties)
	return payload, nil
}

func summarizeArea(s areaSearch) models.AreaSummary {
	summary := models.AreaSummary{
		Name:       s.candidate.DisplayName,
		RegionType: s.candidate.RegionType,
		Latitude:   s.candidate.Latitude,
		Longitude:  s.candidate.Longitude,
	}

	if s.sale != nil {
		summary.ForSaleCount = s.sale.TotalCount
	}
	if s.rent != nil {
		summary.ForRentCount = s.rent.TotalCount
	}

	// Sale and rent prices are not comparable; rents only count when
	// no sale prices are known.
	if s.sale != nil {
		summary.AveragePrice = averagePrice(s.sale.Records)
	}
	if summary.AveragePrice == nil && s.rent != nil {
		summary.AveragePrice = averagePrice(s.rent.Records)
	}

	if summary.Latitude == 0 && summary.Longitude == 0 {
		if lat, lng, ok := geometry.Centroid(s.records()); ok {
			summary.Latitude, summary.Longitude = lat, lng
		}
	}

	summary.Description = describeArea(summary)
	return summary
}

// averagePrice ignores records without a price; nil when none have one.
func averagePrice(records []models.PropertyRecord) *int {
	var sum, n int
	for _, r := range records {
		if r.Price != nil {
			sum += *r.Price
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := int(math.Round(float64(sum) / float64(n)))
	return &avg
}

func describeArea(a models.AreaSummary) string {
	desc := fmt.Sprintf("%s has %s for sale and %s for rent",
		a.Name, plural(a.ForSaleCount, "home"), plural(a.ForRentCount, "rental"))
	if a.AveragePrice != nil {
		desc += fmt.Sprintf(", with an average listed price of %s", formatDollars(float64(*a.AveragePrice)))
	}
	return desc + "."
}

func areaSummaryText(p *areaPayload) string {
	if len(p.Areas) == 0 {
		return fmt.Sprintf("No areas found matching %q.", p.Location)
	}

	var sale, rent int
	for _, a := range p.Areas {
		sale += a.ForSaleCount
		rent += a.ForRentCount
	}

	text := fmt.Sprintf("Found %s matching %q", plural(len(p.Areas), "area"), p.Location)
	switch p.PropertyIntent {
	case models.ForSale:
		text += fmt.Sprintf(" with %s for sale", plural(sale, "home"))
	case models.ForRent:
		text += fmt.Sprintf(" with %s for rent", plural(rent, "rental"))
	default:
		text += fmt.Sprintf(" with %s for sale and %s for rent", plural(sale, "home"), plural(rent, "rental"))
	}
	if p.UsingMockData {
		text += " (demo data)"
	}
	return text + "."
}

package tools

import (
	"context"
	"fmt"

	"homefront/server/internal/models"
	"homefront/server/internal/provider"
)

const maxSearchResults = 10

type searchPayload struct {
	Location      string                  `json:"location"`
	ListingIntent models.ListingIntent    `json:"listing_intent"`
	Properties    []models.PropertyRecord `json:"properties"`
	TotalCount    int                     `json:"total_count"`
	Page          int                     `json:"page"`
	TotalPages    int                     `json:"total_pages"`
	UsingMockData bool                    `json:"usingMockData"`
}

func (d *Dispatcher) propertySearch(ctx context.Context, raw Arguments) (*result, error) {
	args, err := parseSearchArgs(raw)
	if err != nil {
		return nil, err
	}

	filters := models.SearchFilters{
		Location:      args.Location,
		ListingIntent: args.ListingIntent,
		Page:          args.Page,
	}
	args.Filters.apply(&filters)

	found, usingMockData, err := withFallback(ctx, d, PropertySearch, func(client provider.Client) (*models.SearchResult, error) {
		return client.SearchProperties(ctx, filters)
	})
	if err != nil {
		return nil, err
	}

	properties := found.Records
	if len(properties) > maxSearchResults {
		properties = properties[:maxSearchResults]
	}
	if properties == nil {
		properties = []models.PropertyRecord{}
	}

	payload := &searchPayload{
		Location:      args.Location,
		ListingIntent: args.ListingIntent,
		Properties:    properties,
		TotalCount:    found.TotalCount,
		Page:          found.Page,
		TotalPages:    found.TotalPages,
		UsingMockData: usingMockData,
	}
	return &result{
		summary:       searchSummaryText(payload),
		payload:       payload,
		usingMockData: usingMockData,
	}, nil
}

func searchSummaryText(p *searchPayload) string {
	kind := "for sale"
	if p.ListingIntent == models.ForRent {
		kind = "for rent"
	}
	if len(p.Properties) == 0 {
		return fmt.Sprintf("No properties %s found in %s.", kind, p.Location)
	}

	text := fmt.Sprintf("Found %s %s in %s", plural(p.TotalCount, "property"), kind, p.Location)
	if p.TotalCount > len(p.Properties) {
		text += fmt.Sprintf(", showing %d", len(p.Properties))
	}
	if p.UsingMockData {
		text += " (demo data)"
	}
	return text + "."
}

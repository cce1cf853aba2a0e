package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"homefront/server/internal/models"
)

// Options configures the RapidAPI client.
type Options struct {
	BaseURL     string
	Host        string
	APIKey      string
	Timeout     time.Duration
	RadiusMiles float64
}

// RapidAPIClient reads from a Zillow-style real-estate API hosted on RapidAPI.
type RapidAPIClient struct {
	logger  *logrus.Logger
	client  *http.Client
	baseURL string
	host    string
	apiKey  string
	radius  float64
}

func NewRapidAPIClient(opts Options, logger *logrus.Logger) *RapidAPIClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RadiusMiles <= 0 {
		opts.RadiusMiles = 2
	}

	return &RapidAPIClient{
		logger:  logger,
		client:  &http.Client{Timeout: opts.Timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		host:    opts.Host,
		apiKey:  opts.APIKey,
		radius:  opts.RadiusMiles,
	}
}

var homeTypes = map[string]string{
	"house":         "Houses",
	"single-family": "Houses",
	"condo":         "Condos",
	"apartment":     "Apartments",
	"townhouse":     "Townhomes",
	"townhome":      "Townhomes",
	"multi-family":  "Multi-family",
	"land":          "LotsLand",
	"manufactured":  "Manufactured",
}

func statusType(intent models.ListingIntent) string {
	if intent == models.ForRent {
		return "ForRent"
	}
	return "ForSale"
}

func setInt(params url.Values, key string, v *int) {
	if v != nil {
		params.Set(key, strconv.Itoa(*v))
	}
}

func filterParams(params url.Values, f models.SearchFilters, intent models.ListingIntent) {
	params.Set("status_type", statusType(intent))

	if intent == models.ForRent {
		setInt(params, "rentMinPrice", f.MinPrice)
		setInt(params, "rentMaxPrice", f.MaxPrice)
	} else {
		setInt(params, "minPrice", f.MinPrice)
		setInt(params, "maxPrice", f.MaxPrice)
	}
	setInt(params, "bedsMin", f.Bedrooms)
	if f.Bathrooms != nil {
		params.Set("bathsMin", strconv.FormatFloat(*f.Bathrooms, 'f', -1, 64))
	}
	setInt(params, "sqftMin", f.SqftMin)
	setInt(params, "sqftMax", f.SqftMax)
	if f.PropertyType != "" {
		homeType, ok := homeTypes[strings.ToLower(f.PropertyType)]
		if !ok {
			homeType = f.PropertyType
		}
		params.Set("home_type", homeType)
	}
}

func (c *RapidAPIClient) get(ctx context.Context, path string, params url.Values) (interface{}, error) {
	fields := logrus.Fields{"endpoint": path}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrProviderUnavailable, err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(fields).Warn("Provider request failed")
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	fields["status"] = resp.StatusCode
	fields["duration_ms"] = time.Since(start).Milliseconds()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).WithFields(fields).Warn("Failed to read provider response")
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrProviderUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(fields).Warn("Provider returned non-success status")
		return nil, fmt.Errorf("%w: %s returned status %d", ErrProviderUnavailable, path, resp.StatusCode)
	}
	c.logger.WithFields(fields).Debug("Provider request completed")

	v, err := decodeJSON(body)
	if err != nil {
		c.logger.WithError(err).WithFields(fields).Warn("Failed to parse provider response")
		return nil, err
	}
	return v, nil
}

func (c *RapidAPIClient) SearchProperties(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error) {
	location := strings.TrimSpace(filters.Location)
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}
	intent := filters.ListingIntent
	if intent == "" {
		intent = models.ForSale
	}

	params := url.Values{}
	params.Set("location", location)
	filterParams(params, filters, intent)
	if filters.Page > 1 {
		params.Set("page", strconv.Itoa(filters.Page))
	}

	v, err := c.get(ctx, "/propertyExtendedSearch", params)
	if err != nil {
		return nil, err
	}
	return normalizeSearch(v)
}

func (c *RapidAPIClient) SearchByCoordinates(ctx context.Context, query CoordinateQuery) (*models.SearchResult, error) {
	if err := validateCoordinateQuery(query); err != nil {
		return nil, fmt.Errorf("%w: lat=%v lng=%v intent=%q", err, query.Latitude, query.Longitude, query.ListingIntent)
	}
	radius := query.RadiusMiles
	if radius <= 0 {
		radius = c.radius
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(query.Latitude, 'f', 6, 64))
	params.Set("long", strconv.FormatFloat(query.Longitude, 'f', 6, 64))
	params.Set("d", strconv.FormatFloat(radius, 'f', -1, 64))
	params.Set("includeSold", "false")
	filterParams(params, query.Filters, query.ListingIntent)

	v, err := c.get(ctx, "/propertyByCoordinates", params)
	if err != nil {
		return nil, err
	}
	result, err := normalizeSearch(v)
	if err != nil {
		return nil, err
	}

	// Some responses mix listing kinds; keep only the requested one.
	kept := result.Records[:0]
	for _, r := range result.Records {
		if r.ListingStatus == "" || r.ListingStatus == string(query.ListingIntent) {
			kept = append(kept, r)
		}
	}
	if len(kept) != len(result.Records) {
		result.TotalCount = len(kept)
	}
	result.Records = kept
	return result, nil
}

func (c *RapidAPIClient) ResolveLocation(ctx context.Context, location string) ([]models.LocationCandidate, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}

	v, err := c.get(ctx, "/locationSuggestions", url.Values{"q": []string{location}})
	if err != nil {
		return nil, err
	}
	return normalizeCandidates(v)
}

func (c *RapidAPIClient) PropertyDetail(ctx context.Context, id string) (*models.PropertyDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: property id is required", ErrInvalidQuery)
	}

	v, err := c.get(ctx, "/property", url.Values{"zpid": []string{id}})
	if err != nil {
		return nil, err
	}
	return normalizeDetail(v)
}

func (c *RapidAPIClient) ValuationEstimate(ctx context.Context, id string) (*models.Valuation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: property id is required", ErrInvalidQuery)
	}

	v, err := c.get(ctx, "/zestimate", url.Values{"zpid": []string{id}})
	if err != nil {
		return nil, err
	}
	return normalizeValuation(v)
}

func (c *RapidAPIClient) MortgageRates(ctx context.Context) ([]models.MortgageRate, error) {
	v, err := c.get(ctx, "/mortgage/rates", url.Values{})
	if err != nil {
		return nil, err
	}
	return normalizeRates(v)
}

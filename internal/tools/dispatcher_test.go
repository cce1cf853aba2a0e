package tools

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"homefront/server/config"
	"homefront/server/internal/models"
	"homefront/server/internal/provider"
)

// MockClient is a mock implementation of provider.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) SearchProperties(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error) {
	args := m.Called(ctx, filters)
	res, _ := args.Get(0).(*models.SearchResult)
	return res, args.Error(1)
}

func (m *MockClient) SearchByCoordinates(ctx context.Context, query provider.CoordinateQuery) (*models.SearchResult, error) {
	args := m.Called(ctx, query)
	res, _ := args.Get(0).(*models.SearchResult)
	return res, args.Error(1)
}

func (m *MockClient) ResolveLocation(ctx context.Context, location string) ([]models.LocationCandidate, error) {
	args := m.Called(ctx, location)
	res, _ := args.Get(0).([]models.LocationCandidate)
	return res, args.Error(1)
}

func (m *MockClient) PropertyDetail(ctx context.Context, id string) (*models.PropertyDetail, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.PropertyDetail)
	return res, args.Error(1)
}

func (m *MockClient) ValuationEstimate(ctx context.Context, id string) (*models.Valuation, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.Valuation)
	return res, args.Error(1)
}

func (m *MockClient) MortgageRates(ctx context.Context) ([]models.MortgageRate, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]models.MortgageRate)
	return res, args.Error(1)
}

type captureRecorder struct {
	mu    sync.Mutex
	calls []*models.Invocation
}

func (r *captureRecorder) Record(inv *models.Invocation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv)
}

var unavailable = fmt.Errorf("%w: connection refused", provider.ErrProviderUnavailable)

func ptr[T any](v T) *T { return &v }

func newTestDispatcher(t *testing.T, live provider.Client) (*Dispatcher, *captureRecorder) {
	t.Helper()
	data, err := config.LoadDemoData()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	recorder := &captureRecorder{}
	return NewDispatcher(live, provider.NewDemoClient(data, 2), recorder, logger), recorder
}

func TestCall_UnknownTool(t *testing.T) {
	d, recorder := newTestDispatcher(t, nil)

	_, err := d.Call(context.Background(), "book_viewing", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.Empty(t, recorder.calls)
}

func TestDefinitions(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)

	defs := d.Definitions()
	require.Len(t, defs, 5)
	assert.Equal(t, AreaLookup, defs[0].Name)
	assert.Equal(t, PropertyDetails, defs[4].Name)
	for _, def := range defs {
		assert.Contains(t, def.PresentationHint.TemplateID, "ui://widget/")
		assert.Equal(t, "object", def.InputSchema.Type)
	}
	assert.Equal(t, []string{"location"}, defs[3].InputSchema.Required)
}

func TestPropertySearch_FallbackList(t *testing.T) {
	failing := &MockClient{}
	failing.On("SearchProperties", mock.Anything, mock.Anything).Return(nil, unavailable)

	tests := []struct {
		name string
		live provider.Client
	}{
		{name: "provider failing", live: failing},
		{name: "provider not configured", live: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, recorder := newTestDispatcher(t, tt.live)

			resp, err := d.Call(context.Background(), PropertySearch, map[string]interface{}{
				"location": "Seattle, WA",
				"bedrooms": 3,
			})
			require.NoError(t, err)
			assert.False(t, resp.IsError)

			payload := resp.StructuredPayload.(*searchPayload)
			assert.Len(t, payload.Properties, 2)
			assert.True(t, payload.UsingMockData)
			assert.Equal(t, "ui://widget/property-list.html", resp.PresentationHint.TemplateID)

			require.Len(t, recorder.calls, 1)
			assert.True(t, recorder.calls[0].UsingMockData)
			assert.False(t, recorder.calls[0].IsError)
			assert.JSONEq(t, `{"location":"Seattle, WA","bedrooms":3}`, recorder.calls[0].Arguments)
		})
	}
}

func TestPropertySearch_CancelledCallDoesNotServeDemo(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	live := &MockClient{}
	live.On("SearchProperties", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: %v", provider.ErrProviderUnavailable, ctx.Err()))

	d, recorder := newTestDispatcher(t, live)
	resp, err := d.Call(ctx, PropertySearch, map[string]interface{}{"location": "Austin, TX"})
	require.NoError(t, err)

	assert.True(t, resp.IsError)
	assert.Nil(t, resp.StructuredPayload)
	live.AssertNumberOfCalls(t, "SearchProperties", 1)

	require.Len(t, recorder.calls, 1)
	assert.True(t, recorder.calls[0].IsError)
	assert.False(t, recorder.calls[0].UsingMockData)
}

func TestPropertySearch_CapsAndPassesFilters(t *testing.T) {
	records := make([]models.PropertyRecord, 25)
	for i := range records {
		records[i] = models.PropertyRecord{ID: fmt.Sprintf("%d", i), Address: "somewhere"}
	}

	live := &MockClient{}
	live.On("SearchProperties", mock.Anything, mock.MatchedBy(func(f models.SearchFilters) bool {
		return f.Location == "Denver, CO" &&
			f.ListingIntent == models.ForRent &&
			*f.MaxPrice == 2500 &&
			*f.Bathrooms == 1.5 &&
			f.MinPrice == nil
	})).Return(&models.SearchResult{Records: records, TotalCount: 57, Page: 1, TotalPages: 3}, nil)

	d, _ := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), PropertySearch, map[string]interface{}{
		"location":       "Denver, CO",
		"listing_intent": "for-rent",
		"max_price":      "$2,500",
		"bathrooms":      1.5,
	})
	require.NoError(t, err)

	payload := resp.StructuredPayload.(*searchPayload)
	assert.Len(t, payload.Properties, 10)
	assert.Equal(t, "0", payload.Properties[0].ID)
	assert.Equal(t, 57, payload.TotalCount)
	assert.Equal(t, 3, payload.TotalPages)
	assert.False(t, payload.UsingMockData)
	assert.Contains(t, resp.SummaryText, "showing 10")
	live.AssertExpectations(t)
}

func TestPropertySearch_RejectsBadArgumentsBeforeCalling(t *testing.T) {
	live := &MockClient{}
	d, recorder := newTestDispatcher(t, live)

	tests := []struct {
		name string
		args map[string]interface{}
		msg  string
	}{
		{name: "missing location", args: map[string]interface{}{"bedrooms": 2}, msg: "location is required"},
		{name: "blank location", args: map[string]interface{}{"location": "   "}, msg: "location is required"},
		{name: "bad intent", args: map[string]interface{}{"location": "Austin", "listingIntent": "auction"}, msg: "listingIntent must be one of"},
		{name: "non-numeric price", args: map[string]interface{}{"location": "Austin", "minPrice": "cheap"}, msg: "minPrice must be a number"},
		{name: "negative bedrooms", args: map[string]interface{}{"location": "Austin", "bedrooms": -1}, msg: "bedrooms must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := d.Call(context.Background(), PropertySearch, tt.args)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.ErrorContains(t, err, tt.msg)
			assert.Nil(t, resp)
		})
	}

	live.AssertNotCalled(t, "SearchProperties", mock.Anything, mock.Anything)
	require.Len(t, recorder.calls, len(tests))
	assert.True(t, recorder.calls[0].IsError)
}

func candidate(name string, lat, lng float64) models.LocationCandidate {
	return models.LocationCandidate{DisplayName: name, RegionType: "city", Latitude: lat, Longitude: lng}
}

func TestAreaLookup_ForRentNeverSearchesForSale(t *testing.T) {
	live := &MockClient{}
	live.On("ResolveLocation", mock.Anything, "Austin, TX").
		Return([]models.LocationCandidate{candidate("Austin, TX", 30.2672, -97.7431)}, nil)
	live.On("SearchByCoordinates", mock.Anything, mock.Anything).
		Return(&models.SearchResult{
			Records:    []models.PropertyRecord{{ID: "r1", Price: ptr(1800), ListingStatus: "for-rent"}},
			TotalCount: 12,
		}, nil)

	d, _ := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), AreaLookup, map[string]interface{}{
		"location":       "Austin, TX",
		"propertyIntent": "for-rent",
	})
	require.NoError(t, err)

	for _, call := range live.Calls {
		if call.Method == "SearchByCoordinates" {
			query := call.Arguments.Get(1).(provider.CoordinateQuery)
			assert.Equal(t, models.ForRent, query.ListingIntent)
		}
	}
	live.AssertNumberOfCalls(t, "SearchByCoordinates", 1)

	payload := resp.StructuredPayload.(*areaPayload)
	require.Len(t, payload.Areas, 1)
	assert.Equal(t, 0, payload.Areas[0].ForSaleCount)
	assert.Equal(t, 12, payload.Areas[0].ForRentCount)
	assert.Equal(t, 1800, *payload.Areas[0].AveragePrice)
	assert.False(t, payload.UsingMockData)
}

func TestAreaLookup_CandidateOrderAndCaps(t *testing.T) {
	candidates := make([]models.LocationCandidate, 7)
	for i := range candidates {
		candidates[i] = candidate(fmt.Sprintf("Area %d", i), 40+float64(i), -100)
	}

	live := &MockClient{}
	live.On("ResolveLocation", mock.Anything, "Springfield").Return(candidates, nil)
	for i, c := range candidates[:maxCandidates] {
		for _, intent := range []models.ListingIntent{models.ForSale, models.ForRent} {
			lat, intent := c.Latitude, intent
			records := []models.PropertyRecord{
				{ID: fmt.Sprintf("%d-%s-a", i, intent), Price: ptr(100000 * (i + 1)), Latitude: ptr(lat), Longitude: ptr(-100.0)},
				{ID: fmt.Sprintf("%d-%s-b", i, intent), Price: ptr(100000 * (i + 1))},
			}
			live.On("SearchByCoordinates", mock.Anything, mock.MatchedBy(func(q provider.CoordinateQuery) bool {
				return q.Latitude == lat && q.ListingIntent == intent
			})).Return(&models.SearchResult{Records: records, TotalCount: 2 + i}, nil)
		}
	}

	d, _ := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), AreaLookup, map[string]interface{}{"location": "Springfield"})
	require.NoError(t, err)

	payload := resp.StructuredPayload.(*areaPayload)
	require.Len(t, payload.Areas, maxCandidates)
	for i, area := range payload.Areas {
		assert.Equal(t, fmt.Sprintf("Area %d", i), area.Name)
		assert.Equal(t, 2+i, area.ForSaleCount)
		assert.Equal(t, 2+i, area.ForRentCount)
		assert.Equal(t, 100000*(i+1), *area.AveragePrice)
		assert.NotEmpty(t, area.Description)
	}

	require.Len(t, payload.FeaturedProperties, maxFeatured)
	assert.Equal(t, "0-for-sale-a", payload.FeaturedProperties[0].ID)
	assert.Equal(t, "0-for-rent-b", payload.FeaturedProperties[3].ID)
	assert.Equal(t, "1-for-sale-a", payload.FeaturedProperties[4].ID)
	assert.Equal(t, "1-for-rent-b", payload.FeaturedProperties[7].ID)

	// Only records with coordinates are mapped.
	assert.Len(t, payload.Map.Features, 4)
	// Two listings at one spot have no outline
	assert.Empty(t, payload.Boundaries.Features)
	live.AssertNumberOfCalls(t, "SearchByCoordinates", 2*maxCandidates)
}

func TestAreaLookup_FallbackDoesNotMixSources(t *testing.T) {
	live := &MockClient{}
	live.On("ResolveLocation", mock.Anything, "Austin, TX").
		Return([]models.LocationCandidate{candidate("Austin (live)", 30.2672, -97.7431)}, nil)
	live.On("SearchByCoordinates", mock.Anything, mock.MatchedBy(func(q provider.CoordinateQuery) bool {
		return q.ListingIntent == models.ForSale
	})).Return(&models.SearchResult{Records: []models.PropertyRecord{{ID: "live-1"}}, TotalCount: 1}, nil)
	live.On("SearchByCoordinates", mock.Anything, mock.MatchedBy(func(q provider.CoordinateQuery) bool {
		return q.ListingIntent == models.ForRent
	})).Return(nil, unavailable)

	d, recorder := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), AreaLookup, map[string]interface{}{"location": "Austin, TX"})
	require.NoError(t, err)
	assert.False(t, resp.IsError)

	payload := resp.StructuredPayload.(*areaPayload)
	assert.True(t, payload.UsingMockData)
	require.Len(t, payload.Areas, 1)
	assert.Equal(t, "Austin, TX", payload.Areas[0].Name)
	assert.Equal(t, 2, payload.Areas[0].ForSaleCount)
	assert.Equal(t, 1, payload.Areas[0].ForRentCount)
	for _, r := range payload.FeaturedProperties {
		assert.Contains(t, r.ID, "demo-")
	}
	assert.Len(t, payload.Map.Features, 3)
	require.Len(t, payload.Boundaries.Features, 1)
	assert.Equal(t, "Austin, TX", payload.Boundaries.Features[0].Properties["name"])
	assert.Contains(t, resp.SummaryText, "demo data")
	assert.True(t, recorder.calls[0].UsingMockData)
}

func TestAreaLookup_NoCandidates(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)

	resp, err := d.Call(context.Background(), AreaLookup, map[string]interface{}{"location": "Atlantis"})
	require.NoError(t, err)
	assert.False(t, resp.IsError)

	payload := resp.StructuredPayload.(*areaPayload)
	assert.Empty(t, payload.Areas)
	assert.Empty(t, payload.FeaturedProperties)
	assert.Equal(t, `No areas found matching "Atlantis".`, resp.SummaryText)
}

func TestAreaLookup_CentroidFromRecords(t *testing.T) {
	live := &MockClient{}
	live.On("ResolveLocation", mock.Anything, "Null Island").
		Return([]models.LocationCandidate{candidate("Null Island", 0, 0)}, nil)
	live.On("SearchByCoordinates", mock.Anything, mock.Anything).Return(&models.SearchResult{
		Records: []models.PropertyRecord{
			{ID: "1", Latitude: ptr(1.0), Longitude: ptr(2.0)},
			{ID: "2", Latitude: ptr(3.0), Longitude: ptr(4.0)},
		},
		TotalCount: 2,
	}, nil)

	d, _ := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), AreaLookup, map[string]interface{}{
		"location":       "Null Island",
		"propertyIntent": "for-sale",
	})
	require.NoError(t, err)

	area := resp.StructuredPayload.(*areaPayload).Areas[0]
	assert.InDelta(t, 2.0, area.Latitude, 1e-9)
	assert.InDelta(t, 3.0, area.Longitude, 1e-9)
	assert.Nil(t, area.AveragePrice)
}

func TestAffordabilityLookup_Defaults(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)

	resp, err := d.Call(context.Background(), AffordabilityLookup, map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, resp.IsError)

	payload := resp.StructuredPayload.(*affordabilityPayload)
	assert.Equal(t, 75000.0, payload.AnnualIncome)
	assert.Equal(t, 50000.0, payload.DownPayment)
	assert.Equal(t, 720, payload.CreditScore)
	assert.Equal(t, 500.0, payload.MonthlyDebts)
	assert.Equal(t, 6.5, payload.InterestRate)
	assert.Nil(t, payload.Location)
	assert.False(t, payload.UsingMockData)
	assert.InDelta(t, payload.EstimatedMonthlyPayment, payload.Breakdown.Total(), 1)
}

func TestAffordabilityLookup_LocationIsBestEffort(t *testing.T) {
	live := &MockClient{}
	live.On("ResolveLocation", mock.Anything, "Nowhere").
		Return(nil, fmt.Errorf("%w: bad location", provider.ErrInvalidQuery))

	d, _ := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), AffordabilityLookup, map[string]interface{}{
		"annual_income": "$95,000",
		"down_payment":  65000,
		"credit_score":  740,
		"monthly_debts": "450",
		"location":      "Nowhere",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsError)

	payload := resp.StructuredPayload.(*affordabilityPayload)
	assert.Equal(t, 95000.0, payload.AnnualIncome)
	assert.Equal(t, 740, payload.CreditScore)
	assert.Nil(t, payload.Location)
	assert.Greater(t, payload.MaxHomePrice, 65000)
}

func TestAffordabilityLookup_ResolvesLocationFromDemo(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)

	resp, err := d.Call(context.Background(), AffordabilityLookup, map[string]interface{}{"location": "Miami"})
	require.NoError(t, err)

	payload := resp.StructuredPayload.(*affordabilityPayload)
	require.NotNil(t, payload.Location)
	assert.Equal(t, "Miami, FL", payload.Location.DisplayName)
	assert.True(t, payload.UsingMockData)
	assert.Contains(t, resp.SummaryText, "in Miami, FL")
}

func TestAffordabilityLookup_InvalidIncome(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)

	_, err := d.Call(context.Background(), AffordabilityLookup, map[string]interface{}{"annualIncome": 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMortgageRateLookup_SelectsTerm(t *testing.T) {
	live := &MockClient{}
	live.On("MortgageRates", mock.Anything).Return([]models.MortgageRate{
		{LoanType: "15-year ARM", TermYears: 15, Rate: 5.5, APR: 5.9},
		{LoanType: "15-year fixed", TermYears: 15, Rate: 5.75, APR: 5.95},
		{LoanType: "30-year fixed", TermYears: 30, Rate: 6.4, APR: 6.6},
	}, nil)

	d, _ := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), MortgageRateLookup, map[string]interface{}{
		"homePrice":   400000,
		"downPayment": 80000,
		"loanTerm":    15,
	})
	require.NoError(t, err)

	payload := resp.StructuredPayload.(*mortgagePayload)
	assert.Equal(t, "15-year fixed", payload.SelectedRate.LoanType)
	assert.Equal(t, 5.75, payload.InterestRate)
	assert.Equal(t, 320000.0, payload.LoanAmount)
	assert.Equal(t, 5.95, payload.APR)
	assert.Len(t, payload.Rates, 3)
	assert.False(t, payload.UsingMockData)
}

func TestMortgageRateLookup_DemoRates(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)

	resp, err := d.Call(context.Background(), MortgageRateLookup, map[string]interface{}{
		"homePrice":   400000,
		"downPayment": 80000,
	})
	require.NoError(t, err)

	payload := resp.StructuredPayload.(*mortgagePayload)
	assert.Equal(t, "30-year fixed", payload.SelectedRate.LoanType)
	assert.Equal(t, 2022.62, payload.MonthlyPayment)
	assert.Equal(t, 6.7, payload.APR)
	assert.Len(t, payload.Rates, 4)
	assert.True(t, payload.UsingMockData)
	assert.Contains(t, resp.SummaryText, "$2,022.62")
}

func TestMortgageRateLookup_MissingTermUsesDemoRate(t *testing.T) {
	live := &MockClient{}
	live.On("MortgageRates", mock.Anything).Return([]models.MortgageRate{
		{LoanType: "30-year fixed", TermYears: 30, Rate: 6.4, APR: 6.6},
	}, nil)

	d, _ := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), MortgageRateLookup, map[string]interface{}{"loan_term": "15"})
	require.NoError(t, err)

	payload := resp.StructuredPayload.(*mortgagePayload)
	assert.Equal(t, 5.85, payload.SelectedRate.Rate)
	assert.True(t, payload.UsingMockData)
}

func TestMortgageRateLookup_ZeroRateIsAnErrorResponse(t *testing.T) {
	live := &MockClient{}
	live.On("MortgageRates", mock.Anything).Return([]models.MortgageRate{
		{LoanType: "30-year fixed", TermYears: 30, Rate: 0, APR: 0},
	}, nil)

	d, recorder := newTestDispatcher(t, live)
	resp, err := d.Call(context.Background(), MortgageRateLookup, map[string]interface{}{})
	require.NoError(t, err)

	assert.True(t, resp.IsError)
	assert.Nil(t, resp.StructuredPayload)
	assert.Contains(t, resp.SummaryText, "invalid interest rate")
	assert.Equal(t, "ui://widget/mortgage-rates.html", resp.PresentationHint.TemplateID)

	require.Len(t, recorder.calls, 1)
	assert.True(t, recorder.calls[0].IsError)
	assert.Contains(t, recorder.calls[0].ErrorMessage, "invalid interest rate")
}

func TestMortgageRateLookup_InvalidArguments(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)

	_, err := d.Call(context.Background(), MortgageRateLookup, map[string]interface{}{"loanTerm": 20})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	resp, err := d.Call(context.Background(), MortgageRateLookup, map[string]interface{}{
		"homePrice":   300000,
		"downPayment": 350000,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Contains(t, resp.SummaryText, "exceeds home price")
}

func TestPropertyDetails(t *testing.T) {
	live := &MockClient{}
	live.On("PropertyDetail", mock.Anything, "2056").Return(&models.PropertyDetail{
		PropertyRecord: models.PropertyRecord{ID: "2056", Address: "9 Hill Rd", Price: ptr(500000), ListingStatus: "for-sale"},
		YearBuilt:      ptr(1988),
	}, nil)
	live.On("ValuationEstimate", mock.Anything, "2056").Return(nil, unavailable)
	live.On("MortgageRates", mock.Anything).Return([]models.MortgageRate{
		{LoanType: "30-year fixed", TermYears: 30, Rate: 6.5, APR: 6.7},
	}, nil)
	live.On("PropertyDetail", mock.Anything, "404").Return(nil, fmt.Errorf("%w: 404", provider.ErrNotFound))

	d, _ := newTestDispatcher(t, live)

	resp, err := d.Call(context.Background(), PropertyDetails, map[string]interface{}{"property_id": 2056})
	require.NoError(t, err)
	require.False(t, resp.IsError)

	payload := resp.StructuredPayload.(*detailPayload)
	assert.Equal(t, "9 Hill Rd", payload.Address)
	assert.Nil(t, payload.Valuation)
	require.NotNil(t, payload.MortgageEstimate)
	assert.Equal(t, 400000.0, payload.MortgageEstimate.LoanAmount)
	assert.Equal(t, 2528.27, payload.MortgageEstimate.MonthlyPayment)
	assert.False(t, payload.UsingMockData)

	resp, err = d.Call(context.Background(), PropertyDetails, map[string]interface{}{"propertyId": "404"})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Nil(t, resp.StructuredPayload)

	_, err = d.Call(context.Background(), PropertyDetails, map[string]interface{}{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPropertyDetails_DemoListing(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)

	resp, err := d.Call(context.Background(), PropertyDetails, map[string]interface{}{"propertyId": "demo-aus-1"})
	require.NoError(t, err)

	payload := resp.StructuredPayload.(*detailPayload)
	assert.True(t, payload.UsingMockData)
	require.NotNil(t, payload.Valuation)
	assert.Equal(t, 495000, *payload.Valuation.Estimate)
	require.NotNil(t, payload.MortgageEstimate)
	assert.Equal(t, 6.5, payload.MortgageEstimate.InterestRate)
	assert.NotEmpty(t, payload.Schools)
}

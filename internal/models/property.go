package models

// ListingIntent says whether a search or record is about for-sale or for-rent inventory.
type ListingIntent string

const (
	ForSale ListingIntent = "for-sale"
	ForRent ListingIntent = "for-rent"
	// Both is only meaningful for area lookups.
	Both ListingIntent = "both"
)

// SearchFilters are the optional bounds applied to a property search.
// Location is the only required field; min > max is passed through untouched.
type SearchFilters struct {
	Location      string        `json:"location"`
	ListingIntent ListingIntent `json:"listing_intent"`
	MinPrice      *int          `json:"min_price,omitempty"`
	MaxPrice      *int          `json:"max_price,omitempty"`
	Bedrooms      *int          `json:"bedrooms,omitempty"`
	Bathrooms     *float64      `json:"bathrooms,omitempty"`
	SqftMin       *int          `json:"sqft_min,omitempty"`
	SqftMax       *int          `json:"sqft_max,omitempty"`
	PropertyType  string        `json:"property_type,omitempty"`
	Page          int           `json:"page,omitempty"`
}

// PropertyRecord is the canonical listing shape. Nil pointers mean the
// provider did not report the value; they are never filled with zero.
type PropertyRecord struct {
	ID            string   `json:"id"`
	Address       string   `json:"address"`
	Price         *int     `json:"price"`
	Bedrooms      *int     `json:"bedrooms"`
	Bathrooms     *float64 `json:"bathrooms"`
	LivingArea    *int     `json:"living_area"`
	PropertyType  string   `json:"property_type,omitempty"`
	ListingStatus string   `json:"listing_status,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Zestimate     *int     `json:"zestimate,omitempty"`
	RentZestimate *int     `json:"rent_zestimate,omitempty"`
}

// HasCoordinates is true when both latitude and longitude are known.
func (p *PropertyRecord) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// SearchResult is one page of normalized records.
type SearchResult struct {
	Records    []PropertyRecord `json:"records"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// LocationCandidate is a provider match for a free-text place name.
type LocationCandidate struct {
	DisplayName string  `json:"display_name"`
	RegionType  string  `json:"region_type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// AreaSummary describes one resolved area.
type AreaSummary struct {
	Name         string  `json:"name"`
	RegionType   string  `json:"region_type,omitempty"`
	ForSaleCount int     `json:"for_sale_count"`
	ForRentCount int     `json:"for_rent_count"`
	AveragePrice *int    `json:"average_price"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Description  string  `json:"description"`
}

type School struct {
	Name     string   `json:"name"`
	Rating   *int     `json:"rating,omitempty"`
	Level    string   `json:"level,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

type PriceEvent struct {
	Date  string `json:"date"`
	Event string `json:"event"`
	Price *int   `json:"price,omitempty"`
}

// PropertyDetail extends a record with the optional detail sections.
// Each section is independently absent-tolerant.
type PropertyDetail struct {
	PropertyRecord
	YearBuilt         *int             `json:"year_built,omitempty"`
	Description       *string          `json:"description,omitempty"`
	AnnualTax         *int             `json:"annual_tax,omitempty"`
	PropertyTaxRate   *float64         `json:"property_tax_rate,omitempty"`
	AnnualInsurance   *int             `json:"annual_insurance,omitempty"`
	Schools           []School         `json:"schools,omitempty"`
	PriceHistory      []PriceEvent     `json:"price_history,omitempty"`
	NearbyComparables []PropertyRecord `json:"nearby_comparables,omitempty"`
}

type ValueRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Valuation is the provider's automated estimate for one property.
type Valuation struct {
	Estimate       *int        `json:"estimate"`
	RentEstimate   *int        `json:"rent_estimate,omitempty"`
	ValuationRange *ValueRange `json:"valuation_range,omitempty"`
}

// MortgageRate is one row of the current rate table.
type MortgageRate struct {
	LoanType  string  `json:"loan_type"`
	TermYears int     `json:"term_years"`
	Rate      float64 `json:"rate"`
	APR       float64 `json:"apr"`
}

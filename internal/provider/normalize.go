package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"homefront/server/internal/models"
)

// fieldAliases maps each canonical field to the names providers use for it,
// in order of preference.
var fieldAliases = map[string][]string{
	"id":            {"zpid", "id", "propertyId", "property_id", "listingId"},
	"address":       {"address", "streetAddress", "formattedAddress", "fullAddress"},
	"price":         {"price", "unformattedPrice", "listPrice", "rentPrice"},
	"bedrooms":      {"bedrooms", "beds", "bedroomCount"},
	"bathrooms":     {"bathrooms", "baths", "bathroomCount"},
	"livingArea":    {"livingArea", "sqft", "livingAreaValue", "area"},
	"propertyType":  {"propertyType", "homeType", "home_type"},
	"listingStatus": {"listingStatus", "homeStatus", "statusType", "status"},
	"imageUrl":      {"imgSrc", "imageUrl", "image", "hiResImageLink"},
	"latitude":      {"latitude", "lat"},
	"longitude":     {"longitude", "lng", "lon", "long"},
	"zestimate":     {"zestimate", "valuation"},
	"rentZestimate": {"rentZestimate", "rentEstimate"},

	"yearBuilt":       {"yearBuilt", "year_built"},
	"description":     {"description"},
	"annualTax":       {"taxAnnualAmount", "annualTax"},
	"propertyTaxRate": {"propertyTaxRate"},
	"annualInsurance": {"annualHomeownersInsurance", "annualInsurance"},
	"schools":         {"schools"},
	"priceHistory":    {"priceHistory"},
	"comparables":     {"nearbyHomes", "comps", "comparables"},

	"totalCount": {"totalResultCount", "totalCount", "total"},
	"page":       {"currentPage", "page"},
	"totalPages": {"totalPages", "pages"},
	"results":    {"props", "results", "properties", "searchResults"},

	"loanType":  {"loanType", "program"},
	"termYears": {"termYears", "term", "loanTermYears"},
	"rate":      {"rate", "interestRate"},
}

type rawObject map[string]interface{}

func decodeJSON(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderMalformedResponse, err)
	}
	return v, nil
}

func asObject(v interface{}) (rawObject, bool) {
	m, ok := v.(map[string]interface{})
	return rawObject(m), ok
}

func (o rawObject) lookup(field string) (interface{}, bool) {
	aliases, ok := fieldAliases[field]
	if !ok {
		aliases = []string{field}
	}
	for _, name := range aliases {
		if v, ok := o[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (o rawObject) float(field string) *float64 {
	v, ok := o.lookup(field)
	if !ok {
		return nil
	}
	return toFloat(v)
}

func (o rawObject) integer(field string) *int {
	f := o.float(field)
	if f == nil {
		return nil
	}
	i := int(math.Round(*f))
	return &i
}

func (o rawObject) str(field string) string {
	v, ok := o.lookup(field)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

func (o rawObject) list(field string) ([]interface{}, bool) {
	v, ok := o.lookup(field)
	if !ok {
		return nil, false
	}
	l, ok := v.([]interface{})
	return l, ok
}

// toFloat accepts numbers and display strings such as "$1,250/mo" or "2.5".
func toFloat(v interface{}) *float64 {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		// "$2,400/mo" -> "2400"
		if i := strings.IndexRune(n, '/'); i >= 0 {
			n = n[:i]
		}
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, n)
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func normalizeStatus(s string) string {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	switch key {
	case "forsale", "sale":
		return string(models.ForSale)
	case "forrent", "rent", "rental":
		return string(models.ForRent)
	case "":
		return ""
	}
	return strings.ToLower(s)
}

func normalizeAddress(o rawObject) string {
	v, ok := o.lookup("address")
	if !ok {
		return ""
	}
	switch a := v.(type) {
	case string:
		return strings.TrimSpace(a)
	case map[string]interface{}:
		parts := rawObject(a)
		street := parts.str("streetAddress")
		city := parts.str("city")
		state := parts.str("state")
		zip := parts.str("zipcode")
		if zip == "" {
			zip = parts.str("zip")
		}
		var b strings.Builder
		b.WriteString(street)
		if city != "" {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			b.WriteString(city)
		}
		if state != "" || zip != "" {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strings.TrimSpace(state + " " + zip))
		}
		return b.String()
	}
	return ""
}

// unwrap handles list items nested as {"property": {...}}.
func unwrap(o rawObject) rawObject {
	if inner, ok := asObject(o["property"]); ok && len(inner) > 0 {
		return inner
	}
	return o
}

// normalizeRecord maps one provider object onto a PropertyRecord. ok is false
// for objects that carry neither an id nor an address.
func normalizeRecord(o rawObject) (models.PropertyRecord, bool) {
	o = unwrap(o)

	r := models.PropertyRecord{
		ID:            o.str("id"),
		Address:       normalizeAddress(o),
		Price:         o.integer("price"),
		Bedrooms:      o.integer("bedrooms"),
		Bathrooms:     o.float("bathrooms"),
		LivingArea:    o.integer("livingArea"),
		PropertyType:  o.str("propertyType"),
		ListingStatus: normalizeStatus(o.str("listingStatus")),
		Latitude:      o.float("latitude"),
		Longitude:     o.float("longitude"),
		Zestimate:     o.integer("zestimate"),
		RentZestimate: o.integer("rentZestimate"),
	}
	if img := o.str("imageUrl"); img != "" {
		r.ImageURL = &img
	}
	if r.Latitude != nil && r.Longitude != nil && !validCoordinate(*r.Latitude, *r.Longitude) {
		r.Latitude, r.Longitude = nil, nil
	}
	return r, r.ID != "" || r.Address != ""
}

func normalizeRecords(items []interface{}) []models.PropertyRecord {
	records := make([]models.PropertyRecord, 0, len(items))
	for _, item := range items {
		o, ok := asObject(item)
		if !ok {
			continue
		}
		if r, ok := normalizeRecord(o); ok {
			records = append(records, r)
		}
	}
	return records
}

// normalizeSearch accepts a paged object, a bare list, or a single exact-match property.
func normalizeSearch(v interface{}) (*models.SearchResult, error) {
	result := &models.SearchResult{Page: 1, TotalPages: 1}

	switch body := v.(type) {
	case []interface{}:
		result.Records = normalizeRecords(body)
		result.TotalCount = len(result.Records)
		return result, nil
	case map[string]interface{}:
		o := rawObject(body)
		if items, ok := o.list("results"); ok {
			result.Records = normalizeRecords(items)
			result.TotalCount = len(result.Records)
			if n := o.integer("totalCount"); n != nil {
				result.TotalCount = *n
			}
			if n := o.integer("page"); n != nil && *n > 0 {
				result.Page = *n
			}
			if n := o.integer("totalPages"); n != nil && *n > 0 {
				result.TotalPages = *n
			}
			return result, nil
		}
		if _, ok := o.lookup("id"); ok {
			if r, ok := normalizeRecord(o); ok {
				result.Records = []models.PropertyRecord{r}
				result.TotalCount = 1
				return result, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unexpected search response shape", ErrProviderMalformedResponse)
}

func normalizeCandidates(v interface{}) ([]models.LocationCandidate, error) {
	var items []interface{}
	switch body := v.(type) {
	case []interface{}:
		items = body
	case map[string]interface{}:
		list, ok := rawObject(body).list("results")
		if !ok {
			if _, hasResults := body["results"]; hasResults {
				return []models.LocationCandidate{}, nil
			}
			return nil, fmt.Errorf("%w: unexpected location response shape", ErrProviderMalformedResponse)
		}
		items = list
	default:
		return nil, fmt.Errorf("%w: unexpected location response shape", ErrProviderMalformedResponse)
	}

	candidates := make([]models.LocationCandidate, 0, len(items))
	for _, item := range items {
		o, ok := asObject(item)
		if !ok {
			continue
		}
		coords := o
		if meta, ok := asObject(o["metaData"]); ok {
			coords = meta
		}
		lat, lng := coords.float("latitude"), coords.float("longitude")
		if lat == nil || lng == nil || !validCoordinate(*lat, *lng) {
			continue
		}

		name := o.str("display")
		if name == "" {
			name = o.str("displayName")
		}
		regionType := coords.str("regionType")
		if regionType == "" {
			regionType = o.str("resultType")
		}
		candidates = append(candidates, models.LocationCandidate{
			DisplayName: name,
			RegionType:  strings.ToLower(regionType),
			Latitude:    *lat,
			Longitude:   *lng,
		})
	}
	return candidates, nil
}

func normalizeDetail(v interface{}) (*models.PropertyDetail, error) {
	o, ok := asObject(v)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected detail response shape", ErrProviderMalformedResponse)
	}
	record, ok := normalizeRecord(o)
	if !ok {
		return nil, fmt.Errorf("%w: detail response has no id or address", ErrProviderMalformedResponse)
	}
	o = unwrap(o)

	detail := &models.PropertyDetail{
		PropertyRecord:  record,
		YearBuilt:       o.integer("yearBuilt"),
		AnnualTax:       o.integer("annualTax"),
		PropertyTaxRate: o.float("propertyTaxRate"),
		AnnualInsurance: o.integer("annualInsurance"),
	}
	if desc := o.str("description"); desc != "" {
		detail.Description = &desc
	}

	if schools, ok := o.list("schools"); ok {
		for _, item := range schools {
			s, ok := asObject(item)
			if !ok || s.str("name") == "" {
				continue
			}
			detail.Schools = append(detail.Schools, models.School{
				Name:     s.str("name"),
				Rating:   s.integer("rating"),
				Level:    s.str("level"),
				Distance: s.float("distance"),
			})
		}
	}

	if history, ok := o.list("priceHistory"); ok {
		for _, item := range history {
			h, ok := asObject(item)
			if !ok {
				continue
			}
			detail.PriceHistory = append(detail.PriceHistory, models.PriceEvent{
				Date:  h.str("date"),
				Event: h.str("event"),
				Price: h.integer("price"),
			})
		}
	}

	if comps, ok := o.list("comparables"); ok {
		detail.NearbyComparables = normalizeRecords(comps)
	}
	return detail, nil
}

func normalizeValuation(v interface{}) (*models.Valuation, error) {
	if f := toFloat(v); f != nil {
		estimate := int(math.Round(*f))
		return &models.Valuation{Estimate: &estimate}, nil
	}

	o, ok := asObject(v)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected valuation response shape", ErrProviderMalformedResponse)
	}

	valuation := &models.Valuation{
		Estimate:     o.integer("zestimate"),
		RentEstimate: o.integer("rentZestimate"),
	}
	if valuation.Estimate == nil {
		valuation.Estimate = o.integer("value")
	}

	if rng, ok := asObject(o["valuationRange"]); ok {
		low, high := rng.integer("low"), rng.integer("high")
		if low != nil && high != nil {
			valuation.ValuationRange = &models.ValueRange{Low: *low, High: *high}
		}
	} else if valuation.Estimate != nil {
		lowPct, highPct := o.float("zestimateLowPercent"), o.float("zestimateHighPercent")
		if lowPct != nil && highPct != nil {
			est := float64(*valuation.Estimate)
			valuation.ValuationRange = &models.ValueRange{
				Low:  int(math.Round(est * (1 - *lowPct/100))),
				High: int(math.Round(est * (1 + *highPct/100))),
			}
		}
	}
	return valuation, nil
}

func normalizeRates(v interface{}) ([]models.MortgageRate, error) {
	var items []interface{}
	switch body := v.(type) {
	case []interface{}:
		items = body
	case map[string]interface{}:
		list, ok := body["rates"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: unexpected rate table shape", ErrProviderMalformedResponse)
		}
		items = list
	default:
		return nil, fmt.Errorf("%w: unexpected rate table shape", ErrProviderMalformedResponse)
	}

	rates := make([]models.MortgageRate, 0, len(items))
	for _, item := range items {
		o, ok := asObject(item)
		if !ok {
			continue
		}
		rate, term := o.float("rate"), o.integer("termYears")
		if rate == nil || term == nil || *rate <= 0 || *term <= 0 {
			continue
		}
		apr := o.float("apr")
		if apr == nil {
			apr = rate
		}
		rates = append(rates, models.MortgageRate{
			LoanType:  o.str("loanType"),
			TermYears: *term,
			Rate:      *rate,
			APR:       *apr,
		})
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: rate table is empty", ErrProviderMalformedResponse)
	}
	return rates, nil
}

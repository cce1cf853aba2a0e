package tools

import (
	"github.com/invopop/jsonschema"

	"homefront/server/internal/models"
)

const (
	AreaLookup          = "area_lookup"
	AffordabilityLookup = "affordability_lookup"
	MortgageRateLookup  = "mortgage_rate_lookup"
	PropertySearch      = "property_search"
	PropertyDetails     = "property_details"
)

// Input types below only describe the advertised schemas. Arguments are
// parsed leniently by the handlers, so extra properties are allowed.
var schemaReflector = jsonschema.Reflector{
	DoNotReference:             true,
	ExpandedStruct:             true,
	AllowAdditionalProperties:  true,
	RequiredFromJSONSchemaTags: true,
}

type filterInput struct {
	MinPrice     float64 `json:"minPrice,omitempty" jsonschema_description:"Minimum price"`
	MaxPrice     float64 `json:"maxPrice,omitempty" jsonschema_description:"Maximum price"`
	Bedrooms     float64 `json:"bedrooms,omitempty" jsonschema_description:"Minimum number of bedrooms"`
	Bathrooms    float64 `json:"bathrooms,omitempty" jsonschema_description:"Minimum number of bathrooms, may be fractional"`
	SqftMin      float64 `json:"sqftMin,omitempty" jsonschema_description:"Minimum living area in square feet"`
	SqftMax      float64 `json:"sqftMax,omitempty" jsonschema_description:"Maximum living area in square feet"`
	PropertyType string  `json:"propertyType,omitempty" jsonschema_description:"house, condo, apartment, townhouse, multi-family, land or manufactured"`
}

type areaLookupInput struct {
	Location       string      `json:"location" jsonschema:"required" jsonschema_description:"City, neighborhood or ZIP code"`
	PropertyIntent string      `json:"propertyIntent,omitempty" jsonschema:"enum=for-sale,enum=for-rent,enum=both,default=both"`
	Filters        filterInput `json:"filters,omitempty"`
}

type affordabilityInput struct {
	AnnualIncome float64 `json:"annualIncome,omitempty" jsonschema_description:"Gross annual income"`
	DownPayment  float64 `json:"downPayment,omitempty" jsonschema_description:"Cash available for the down payment"`
	CreditScore  float64 `json:"creditScore,omitempty" jsonschema_description:"FICO score, 300-850"`
	MonthlyDebts float64 `json:"monthlyDebts,omitempty" jsonschema_description:"Existing monthly debt payments"`
	Location     string  `json:"location,omitempty" jsonschema_description:"Optional place to show with the result"`
}

type mortgageRateInput struct {
	HomePrice   float64 `json:"homePrice,omitempty" jsonschema_description:"Purchase price"`
	DownPayment float64 `json:"downPayment,omitempty" jsonschema_description:"Down payment, 20% of the price when omitted"`
	CreditScore float64 `json:"creditScore,omitempty" jsonschema_description:"FICO score, 300-850"`
	Location    string  `json:"location,omitempty" jsonschema_description:"Optional place the home is in"`
	LoanTerm    float64 `json:"loanTerm,omitempty" jsonschema_description:"Loan term in years"`
}

type propertySearchInput struct {
	filterInput
	Location      string  `json:"location" jsonschema:"required" jsonschema_description:"City, neighborhood, address or ZIP code"`
	ListingIntent string  `json:"listingIntent,omitempty" jsonschema:"enum=for-sale,enum=for-rent,default=for-sale"`
	Page          float64 `json:"page,omitempty" jsonschema_description:"Result page"`
}

type propertyDetailsInput struct {
	PropertyID string `json:"propertyId" jsonschema:"required" jsonschema_description:"Listing id returned by a search"`
}

// inputSchema reflects an input type and sets numeric defaults from the
// handler constants so the two cannot drift.
func inputSchema(input interface{}, defaults map[string]interface{}) *jsonschema.Schema {
	schema := schemaReflector.Reflect(input)
	schema.Version = ""
	for name, value := range defaults {
		if prop, ok := schema.Properties.Get(name); ok {
			prop.Default = value
		}
	}
	return schema
}

var areaLookupDefinition = models.ToolDefinition{
	Name:        AreaLookup,
	Title:       "Area lookup",
	Description: "Summarize for-sale and for-rent inventory around a place and show featured listings on a map.",
	InputSchema: inputSchema(&areaLookupInput{}, nil),
	PresentationHint: models.PresentationHint{
		TemplateID:    "ui://widget/area-map.html",
		InvokingLabel: "Looking up the area",
		InvokedLabel:  "Area overview ready",
	},
}

var affordabilityDefinition = models.ToolDefinition{
	Name:        AffordabilityLookup,
	Title:       "Affordability",
	Description: "Estimate the most expensive home a buyer can afford from income, savings and debts.",
	InputSchema: inputSchema(&affordabilityInput{}, map[string]interface{}{
		"annualIncome": defaultAnnualIncome,
		"downPayment":  defaultDownPayment,
		"creditScore":  defaultCreditScore,
		"monthlyDebts": defaultMonthlyDebts,
	}),
	PresentationHint: models.PresentationHint{
		TemplateID:    "ui://widget/affordability.html",
		InvokingLabel: "Calculating affordability",
		InvokedLabel:  "Affordability calculated",
	},
}

var mortgageRateDefinition = models.ToolDefinition{
	Name:        MortgageRateLookup,
	Title:       "Mortgage rates",
	Description: "Show current mortgage rates and the monthly payment for a home price and down payment.",
	InputSchema: func() *jsonschema.Schema {
		schema := inputSchema(&mortgageRateInput{}, map[string]interface{}{
			"homePrice":   defaultHomePrice,
			"creditScore": defaultCreditScore,
			"loanTerm":    defaultLoanTerm,
		})
		if term, ok := schema.Properties.Get("loanTerm"); ok {
			term.Enum = []interface{}{15, 30}
		}
		return schema
	}(),
	PresentationHint: models.PresentationHint{
		TemplateID:    "ui://widget/mortgage-rates.html",
		InvokingLabel: "Fetching mortgage rates",
		InvokedLabel:  "Mortgage rates ready",
	},
}

var propertySearchDefinition = models.ToolDefinition{
	Name:        PropertySearch,
	Title:       "Property search",
	Description: "Search listings in a location with optional price, size and type filters.",
	InputSchema: inputSchema(&propertySearchInput{}, map[string]interface{}{"page": 1}),
	PresentationHint: models.PresentationHint{
		TemplateID:    "ui://widget/property-list.html",
		InvokingLabel: "Searching listings",
		InvokedLabel:  "Listings found",
	},
}

var propertyDetailsDefinition = models.ToolDefinition{
	Name:        PropertyDetails,
	Title:       "Property details",
	Description: "Show one listing with its valuation, schools, price history and an estimated mortgage payment.",
	InputSchema: inputSchema(&propertyDetailsInput{}, nil),
	PresentationHint: models.PresentationHint{
		TemplateID:    "ui://widget/property-detail.html",
		InvokingLabel: "Loading property",
		InvokedLabel:  "Property loaded",
	},
}

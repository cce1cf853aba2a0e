package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"homefront/server/internal/models"
)

// Arguments is the flat key-value argument set of one tool call. Keys may be
// camelCase or snake_case; unknown keys are ignored.
type Arguments map[string]interface{}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (a Arguments) lookup(key string) (interface{}, bool) {
	for _, k := range []string{key, snakeCase(key)} {
		if v, ok := a[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the trimmed string value of key, or "" when absent.
// Numbers are formatted so {"propertyId": 123} works.
func (a Arguments) String(key string) string {
	v, ok := a.lookup(key)
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
	case int:
		return strconv.Itoa(s)
	}
	return ""
}

// Float returns the numeric value of key, or nil when absent. Strings such as
// "95000" and "$95,000" are accepted.
func (a Arguments) Float(key string) (*float64, error) {
	v, ok := a.lookup(key)
	if !ok {
		return nil, nil
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidArgument, key)
		}
		f = parsed
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", "_", "", " ", "").Replace(n)
		if cleaned == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidArgument, key, n)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidArgument, key)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s must be a finite number", ErrInvalidArgument, key)
	}
	return &f, nil
}

// Int is Float rounded to the nearest integer.
func (a Arguments) Int(key string) (*int, error) {
	f, err := a.Float(key)
	if err != nil || f == nil {
		return nil, err
	}
	i := int(math.Round(*f))
	return &i, nil
}

// numberField binds an argument key to either a float or an int destination.
type numberField struct {
	key   string
	float **float64
	int   **int
}

func floatField(key string, dst **float64) numberField { return numberField{key: key, float: dst} }

func intField(key string, dst **int) numberField { return numberField{key: key, int: dst} }

// numbers reads numeric keys in order, stopping at the first bad one.
func (a Arguments) numbers(fields ...numberField) error {
	for _, field := range fields {
		if field.float != nil {
			v, err := a.Float(field.key)
			if err != nil {
				return err
			}
			*field.float = v
			continue
		}
		v, err := a.Int(field.key)
		if err != nil {
			return err
		}
		*field.int = v
	}
	return nil
}

var comparisons = map[string]string{
	"gt":  "greater than",
	"gte": "at least",
	"lt":  "less than",
	"lte": "at most",
}

// check runs the struct's validate tags and reports the first failure as
// ErrInvalidArgument.
func check(args interface{}) error {
	err := validate.Struct(args)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, fe.Field())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s], got %v", ErrInvalidArgument, fe.Field(), fe.Param(), fe.Value())
	case "gt", "gte", "lt", "lte":
		return fmt.Errorf("%w: %s must be %s %s, got %v", ErrInvalidArgument, fe.Field(), comparisons[fe.Tag()], fe.Param(), fe.Value())
	}
	return fmt.Errorf("%w: %s failed %s validation", ErrInvalidArgument, fe.Field(), fe.Tag())
}

type filterArgs struct {
	MinPrice     *int     `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice     *int     `json:"maxPrice" validate:"omitempty,gte=0"`
	Bedrooms     *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *float64 `json:"bathrooms" validate:"omitempty,gte=0"`
	SqftMin      *int     `json:"sqftMin" validate:"omitempty,gte=0"`
	SqftMax      *int     `json:"sqftMax" validate:"omitempty,gte=0"`
	PropertyType string   `json:"propertyType"`
}

func parseFilters(a Arguments) (filterArgs, error) {
	f := filterArgs{PropertyType: a.String("propertyType")}
	err := a.numbers(
		intField("minPrice", &f.MinPrice),
		intField("maxPrice", &f.MaxPrice),
		intField("bedrooms", &f.Bedrooms),
		floatField("bathrooms", &f.Bathrooms),
		intField("sqftMin", &f.SqftMin),
		intField("sqftMax", &f.SqftMax),
	)
	return f, err
}

// apply copies the bounds onto a provider filter set. min > max is passed through.
func (f filterArgs) apply(filters *models.SearchFilters) {
	filters.MinPrice = f.MinPrice
	filters.MaxPrice = f.MaxPrice
	filters.Bedrooms = f.Bedrooms
	filters.Bathrooms = f.Bathrooms
	filters.SqftMin = f.SqftMin
	filters.SqftMax = f.SqftMax
	filters.PropertyType = f.PropertyType
}

type areaArgs struct {
	Location       string               `json:"location" validate:"required"`
	PropertyIntent models.ListingIntent `json:"propertyIntent" validate:"oneof=for-sale for-rent both"`
	Filters        filterArgs           `json:"filters"`
}

func parseAreaArgs(a Arguments) (*areaArgs, error) {
	args := &areaArgs{
		Location:       a.String("location"),
		PropertyIntent: models.ListingIntent(strings.ToLower(a.String("propertyIntent"))),
	}
	if args.PropertyIntent == "" {
		args.PropertyIntent = models.Both
	}

	// Filters may arrive flat or nested under "filters".
	source := a
	if nested, ok := a.lookup("filters"); ok {
		if m, ok := nested.(map[string]interface{}); ok {
			source = Arguments(m)
		}
	}
	filters, err := parseFilters(source)
	if err != nil {
		return nil, err
	}
	args.Filters = filters

	if err := check(args); err != nil {
		return nil, err
	}
	return args, nil
}

type affordabilityArgs struct {
	AnnualIncome float64 `json:"annualIncome" validate:"gt=0"`
	DownPayment  float64 `json:"downPayment" validate:"gte=0"`
	CreditScore  int     `json:"creditScore" validate:"gte=300,lte=850"`
	MonthlyDebts float64 `json:"monthlyDebts" validate:"gte=0"`
	Location     string  `json:"location"`
}

func parseAffordabilityArgs(a Arguments) (*affordabilityArgs, error) {
	var income, down, debts *float64
	var score *int
	err := a.numbers(
		floatField("annualIncome", &income),
		floatField("downPayment", &down),
		intField("creditScore", &score),
		floatField("monthlyDebts", &debts),
	)
	if err != nil {
		return nil, err
	}

	args := &affordabilityArgs{
		AnnualIncome: valueOr(income, defaultAnnualIncome),
		DownPayment:  valueOr(down, defaultDownPayment),
		CreditScore:  valueOr(score, defaultCreditScore),
		MonthlyDebts: valueOr(debts, defaultMonthlyDebts),
		Location:     a.String("location"),
	}
	if err := check(args); err != nil {
		return nil, err
	}
	return args, nil
}

type mortgageArgs struct {
	HomePrice   float64 `json:"homePrice" validate:"gt=0"`
	DownPayment float64 `json:"downPayment" validate:"gte=0"`
	CreditScore int     `json:"creditScore" validate:"gte=300,lte=850"`
	Location    string  `json:"location"`
	LoanTerm    int     `json:"loanTerm" validate:"oneof=15 30"`
}

func parseMortgageArgs(a Arguments) (*mortgageArgs, error) {
	var price, down *float64
	var score, term *int
	err := a.numbers(
		floatField("homePrice", &price),
		floatField("downPayment", &down),
		intField("creditScore", &score),
		intField("loanTerm", &term),
	)
	if err != nil {
		return nil, err
	}

	args := &mortgageArgs{
		HomePrice:   valueOr(price, defaultHomePrice),
		CreditScore: valueOr(score, defaultCreditScore),
		LoanTerm:    valueOr(term, defaultLoanTerm),
		Location:    a.String("location"),
	}
	// Without an explicit down payment assume the conventional 20%.
	args.DownPayment = valueOr(down, args.HomePrice*0.2)

	if err := check(args); err != nil {
		return nil, err
	}
	return args, nil
}

type searchArgs struct {
	Location      string               `json:"location" validate:"required"`
	ListingIntent models.ListingIntent `json:"listingIntent" validate:"oneof=for-sale for-rent"`
	Page          int                  `json:"page" validate:"gte=1"`
	Filters       filterArgs           `json:"filters"`
}

func parseSearchArgs(a Arguments) (*searchArgs, error) {
	args := &searchArgs{
		Location:      a.String("location"),
		ListingIntent: models.ListingIntent(strings.ToLower(a.String("listingIntent"))),
	}
	if args.ListingIntent == "" {
		args.ListingIntent = models.ForSale
	}

	page, err := a.Int("page")
	if err != nil {
		return nil, err
	}
	args.Page = valueOr(page, 1)

	filters, err := parseFilters(a)
	if err != nil {
		return nil, err
	}
	args.Filters = filters

	if err := check(args); err != nil {
		return nil, err
	}
	return args, nil
}

type detailArgs struct {
	PropertyID string `json:"propertyId" validate:"required"`
}

func parseDetailArgs(a Arguments) (*detailArgs, error) {
	args := &detailArgs{PropertyID: a.String("propertyId")}
	if args.PropertyID == "" {
		args.PropertyID = a.String("zpid")
	}
	if err := check(args); err != nil {
		return nil, err
	}
	return args, nil
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

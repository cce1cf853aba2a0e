package tools

import (
	"context"
	"fmt"

	"homefront/server/internal/finance"
	"homefront/server/internal/models"
	"homefront/server/internal/provider"
)

// estimateDownShare is the down payment assumed for the detail page's payment estimate.
const estimateDownShare = 0.20

type detailPayload struct {
	*models.PropertyDetail
	Valuation        *models.Valuation             `json:"valuation,omitempty"`
	MortgageEstimate *models.MortgagePaymentResult `json:"mortgage_estimate,omitempty"`
	UsingMockData    bool                          `json:"usingMockData"`
}

type detailLookup struct {
	detail    *models.PropertyDetail
	valuation *models.Valuation
	rates     []models.MortgageRate
}

// lookupDetail fetches the listing from one client. Valuation and rates are
// optional; only the listing itself can fail the lookup.
func (d *Dispatcher) lookupDetail(ctx context.Context, client provider.Client, id string) (*detailLookup, error) {
	detail, err := client.PropertyDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	lookup := &detailLookup{detail: detail}

	if valuation, err := client.ValuationEstimate(ctx, id); err == nil {
		lookup.valuation = valuation
	} else {
		d.logger.WithError(err).WithField("property_id", id).Debug("No valuation for property")
	}
	if rates, err := client.MortgageRates(ctx); err == nil {
		lookup.rates = rates
	}
	return lookup, nil
}

func (d *Dispatcher) propertyDetails(ctx context.Context, raw Arguments) (*result, error) {
	args, err := parseDetailArgs(raw)
	if err != nil {
		return nil, err
	}

	lookup, usingMockData, err := withFallback(ctx, d, PropertyDetails, func(client provider.Client) (*detailLookup, error) {
		return d.lookupDetail(ctx, client, args.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	payload := &detailPayload{
		PropertyDetail: lookup.detail,
		Valuation:      lookup.valuation,
		UsingMockData:  usingMockData,
	}

	if price := lookup.detail.Price; price != nil && *price > 0 && lookup.detail.ListingStatus != string(models.ForRent) {
		rate, _, err := d.rateFor(ctx, lookup.rates, finance.DefaultTermYears)
		if err != nil {
			return nil, err
		}
		homePrice := float64(*price)
		payload.MortgageEstimate, err = finance.MortgagePayment(homePrice, homePrice*estimateDownShare, rate.Rate, finance.DefaultTermYears)
		if err != nil {
			return nil, err
		}
	}

	return &result{
		summary:       detailSummaryText(payload),
		payload:       payload,
		usingMockData: usingMockData,
	}, nil
}

func detailSummaryText(p *detailPayload) string {
	text := p.Address
	if text == "" {
		text = "Property " + p.ID
	}
	if p.Price != nil {
		text += fmt.Sprintf(", listed at %s", formatDollars(float64(*p.Price)))
	}
	if p.Valuation != nil && p.Valuation.Estimate != nil {
		text += fmt.Sprintf(", estimated value %s", formatDollars(float64(*p.Valuation.Estimate)))
	}
	if p.MortgageEstimate != nil {
		text += fmt.Sprintf(". With 20%% down the payment is about %s per month", formatCents(p.MortgageEstimate.MonthlyPayment))
	}
	return text + "."
}

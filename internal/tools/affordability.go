package tools

import (
	"context"
	"fmt"

	"homefront/server/internal/finance"
	"homefront/server/internal/models"
	"homefront/server/internal/provider"
)

const (
	defaultAnnualIncome = 75000
	defaultDownPayment  = 50000
	defaultCreditScore  = 720
	defaultMonthlyDebts = 500
)

type affordabilityPayload struct {
	*models.AffordabilityResult
	Location      *models.LocationCandidate `json:"location,omitempty"`
	UsingMockData bool                      `json:"usingMockData"`
}

func (d *Dispatcher) affordabilityLookup(ctx context.Context, raw Arguments) (*result, error) {
	args, err := parseAffordabilityArgs(raw)
	if err != nil {
		return nil, err
	}

	calc, err := finance.MaxAffordablePrice(finance.NewAffordabilityInput(
		args.AnnualIncome, args.DownPayment, args.CreditScore, args.MonthlyDebts))
	if err != nil {
		return nil, err
	}
	payload := &affordabilityPayload{AffordabilityResult: calc}

	if args.Location != "" {
		payload.Location, payload.UsingMockData = d.resolveForDisplay(ctx, args.Location)
	}

	return &result{
		summary:       affordabilitySummaryText(payload),
		payload:       payload,
		usingMockData: payload.UsingMockData,
	}, nil
}

// resolveForDisplay returns the first candidate for location, or nil. Failures
// are logged and otherwise ignored.
func (d *Dispatcher) resolveForDisplay(ctx context.Context, location string) (*models.LocationCandidate, bool) {
	candidates, usingMockData, err := withFallback(ctx, d, "resolve_location", func(client provider.Client) ([]models.LocationCandidate, error) {
		return client.ResolveLocation(ctx, location)
	})
	if err != nil {
		d.logger.WithError(err).WithField("location", location).Info("Could not resolve location")
		return nil, false
	}
	if len(candidates) == 0 {
		return nil, false
	}
	return &candidates[0], usingMockData
}

func affordabilitySummaryText(p *affordabilityPayload) string {
	text := fmt.Sprintf("With %s annual income, %s down and %s in monthly debts, you can afford a home up to %s",
		formatDollars(p.AnnualIncome), formatDollars(p.DownPayment), formatDollars(p.MonthlyDebts),
		formatDollars(float64(p.MaxHomePrice)))
	if p.Location != nil {
		text += " in " + p.Location.DisplayName
	}
	if p.EstimatedMonthlyPayment > 0 {
		text += fmt.Sprintf(", about %s per month", formatDollars(float64(p.EstimatedMonthlyPayment)))
	}
	return text + fmt.Sprintf(" (debt-to-income %.2f%%).", p.DTIRatio)
}

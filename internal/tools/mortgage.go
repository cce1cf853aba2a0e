package tools

import (
	"context"
	"fmt"
	"strings"

	"homefront/server/internal/finance"
	"homefront/server/internal/models"
	"homefront/server/internal/provider"
)

const (
	defaultHomePrice = 400000
	defaultLoanTerm  = 30
)

type mortgagePayload struct {
	*models.MortgagePaymentResult
	CreditScore   int                   `json:"credit_score"`
	Location      string                `json:"location,omitempty"`
	SelectedRate  models.MortgageRate   `json:"selected_rate"`
	Rates         []models.MortgageRate `json:"rates"`
	UsingMockData bool                  `json:"usingMockData"`
}

// selectRate prefers a fixed-rate product for the term, then any product for it.
func selectRate(rates []models.MortgageRate, termYears int) (models.MortgageRate, bool) {
	var match *models.MortgageRate
	for i := range rates {
		if rates[i].TermYears != termYears {
			continue
		}
		if strings.Contains(strings.ToLower(rates[i].LoanType), "fixed") {
			return rates[i], true
		}
		if match == nil {
			match = &rates[i]
		}
	}
	if match == nil {
		return models.MortgageRate{}, false
	}
	return *match, true
}

// rateFor picks the rate for termYears from rates, falling back to the demo
// table. The bool reports whether the demo table was used.
func (d *Dispatcher) rateFor(ctx context.Context, rates []models.MortgageRate, termYears int) (models.MortgageRate, bool, error) {
	if rate, ok := selectRate(rates, termYears); ok {
		return rate, false, nil
	}

	demoRates, err := d.demo.MortgageRates(ctx)
	if err != nil {
		return models.MortgageRate{}, false, err
	}
	if rate, ok := selectRate(demoRates, termYears); ok {
		return rate, true, nil
	}
	return models.MortgageRate{}, false, fmt.Errorf("no %d-year mortgage rate available", termYears)
}

func (d *Dispatcher) mortgageRateLookup(ctx context.Context, raw Arguments) (*result, error) {
	args, err := parseMortgageArgs(raw)
	if err != nil {
		return nil, err
	}

	rates, usingMockData, err := withFallback(ctx, d, MortgageRateLookup, func(client provider.Client) ([]models.MortgageRate, error) {
		return client.MortgageRates(ctx)
	})
	if err != nil {
		return nil, err
	}

	rate, demoRate, err := d.rateFor(ctx, rates, args.LoanTerm)
	if err != nil {
		return nil, err
	}
	usingMockData = usingMockData || demoRate

	payment, err := finance.MortgagePayment(args.HomePrice, args.DownPayment, rate.Rate, args.LoanTerm)
	if err != nil {
		return nil, err
	}

	payload := &mortgagePayload{
		MortgagePaymentResult: payment,
		CreditScore:           args.CreditScore,
		Location:              args.Location,
		SelectedRate:          rate,
		Rates:                 rates,
		UsingMockData:         usingMockData,
	}
	return &result{
		summary:       mortgageSummaryText(payload),
		payload:       payload,
		usingMockData: usingMockData,
	}, nil
}

func mortgageSummaryText(p *mortgagePayload) string {
	text := fmt.Sprintf("A %d-year %s at %.2f%% on a %s home with %s down costs %s per month",
		p.TermYears, p.SelectedRate.LoanType, p.InterestRate,
		formatDollars(p.HomePrice), formatDollars(p.DownPayment), formatCents(p.MonthlyPayment))
	text += fmt.Sprintf(", %s in interest over the life of the loan (estimated APR %.2f%%)", formatDollars(p.TotalInterest), p.APR)
	if p.UsingMockData {
		text += " using demo rates"
	}
	return text + "."
}

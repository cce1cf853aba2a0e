// Package finance holds the closed-form mortgage and affordability formulas.
// Every function is pure: identical inputs give bit-identical outputs.
package finance

import (
	"errors"
	"fmt"
	"math"

	"homefront/server/internal/models"
)

var (
	ErrInvalidRate  = errors.New("invalid interest rate")
	ErrInvalidInput = errors.New("invalid input")
)

// Policy constants. They are not inputs.
const (
	PropertyTaxRate  = 0.012
	InsuranceRate    = 0.004
	PMIRate          = 0.005
	PMIDownThreshold = 0.20
	APROffset        = 0.2

	DefaultInterestRate = 6.5
	DefaultTargetDTI    = 0.43
	DefaultTermYears    = 30
)

// AffordabilityInput is the input to MaxAffordablePrice.
// CreditScore is echoed in the result and does not change the rate.
type AffordabilityInput struct {
	AnnualIncome float64
	DownPayment  float64
	CreditScore  int
	MonthlyDebts float64
	InterestRate float64
	TargetDTI    float64
	TermYears    int
}

// NewAffordabilityInput fills the rate, DTI and term with their defaults.
func NewAffordabilityInput(annualIncome, downPayment float64, creditScore int, monthlyDebts float64) AffordabilityInput {
	return AffordabilityInput{
		AnnualIncome: annualIncome,
		DownPayment:  downPayment,
		CreditScore:  creditScore,
		MonthlyDebts: monthlyDebts,
		InterestRate: DefaultInterestRate,
		TargetDTI:    DefaultTargetDTI,
		TermYears:    DefaultTermYears,
	}
}

func validateRate(annualRatePercent float64) error {
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent <= 0 {
		return fmt.Errorf("%w: %v%% must be a positive number", ErrInvalidRate, annualRatePercent)
	}
	return nil
}

func validateTerm(termYears int) error {
	if termYears <= 0 {
		return fmt.Errorf("%w: loan term must be positive, got %d years", ErrInvalidInput, termYears)
	}
	return nil
}

func finiteNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidInput, name, v)
	}
	return nil
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is out of range", ErrInvalidInput, name)
	}
	return nil
}

// annuity returns the monthly rate r and 1-(1+r)^-n. (1+r)^n is never formed:
// it rounds to 1 for tiny rates and overflows for very long terms.
func annuity(annualRatePercent float64, termYears int) (r, discount float64) {
	r = annualRatePercent / 100 / 12
	n := float64(termYears) * 12
	discount = -math.Expm1(-n * math.Log1p(r))
	return r, discount
}

// AmortizedPayment is the fixed monthly payment that retires principal over termYears.
// A zero or negative rate is rejected with ErrInvalidRate.
func AmortizedPayment(principal, annualRatePercent float64, termYears int) (float64, error) {
	if err := validateRate(annualRatePercent); err != nil {
		return 0, err
	}
	if err := validateTerm(termYears); err != nil {
		return 0, err
	}
	if err := finiteNonNegative("principal", principal); err != nil {
		return 0, err
	}

	r, discount := annuity(annualRatePercent, termYears)
	payment := principal * r / discount
	if err := finite("monthly payment", payment); err != nil {
		return 0, err
	}
	return payment, nil
}

// LoanForPayment inverts AmortizedPayment: the principal a monthly payment retires.
func LoanForPayment(monthlyPayment, annualRatePercent float64, termYears int) (float64, error) {
	if err := validateRate(annualRatePercent); err != nil {
		return 0, err
	}
	if err := validateTerm(termYears); err != nil {
		return 0, err
	}
	if err := finiteNonNegative("monthly payment", monthlyPayment); err != nil {
		return 0, err
	}

	r, discount := annuity(annualRatePercent, termYears)
	loan := monthlyPayment * discount / r
	if err := finite("loan amount", loan); err != nil {
		return 0, err
	}
	return loan, nil
}

// MaxAffordablePrice finds the most expensive home whose principal and interest
// fit inside the DTI budget left after existing debts.
func MaxAffordablePrice(in AffordabilityInput) (*models.AffordabilityResult, error) {
	if err := validateRate(in.InterestRate); err != nil {
		return nil, err
	}
	if err := validateTerm(in.TermYears); err != nil {
		return nil, err
	}
	if math.IsNaN(in.AnnualIncome) || math.IsInf(in.AnnualIncome, 0) || in.AnnualIncome <= 0 {
		return nil, fmt.Errorf("%w: annual income must be positive, got %v", ErrInvalidInput, in.AnnualIncome)
	}
	if err := finiteNonNegative("down payment", in.DownPayment); err != nil {
		return nil, err
	}
	if err := finiteNonNegative("monthly debts", in.MonthlyDebts); err != nil {
		return nil, err
	}
	if in.TargetDTI <= 0 || in.TargetDTI > 1 {
		return nil, fmt.Errorf("%w: target DTI ratio must be in (0, 1], got %v", ErrInvalidInput, in.TargetDTI)
	}

	result := &models.AffordabilityResult{
		AnnualIncome: in.AnnualIncome,
		DownPayment:  in.DownPayment,
		CreditScore:  in.CreditScore,
		MonthlyDebts: in.MonthlyDebts,
		InterestRate: in.InterestRate,
		TermYears:    in.TermYears,
	}

	monthlyIncome := in.AnnualIncome / 12
	maxHousing := monthlyIncome*in.TargetDTI - in.MonthlyDebts

	// Debts already use the whole budget: only the cash on hand buys a home.
	if maxHousing <= 0 {
		result.MaxHomePrice = int(math.Round(in.DownPayment))
		result.DTIRatio = round2(in.MonthlyDebts / monthlyIncome * 100)
		return result, nil
	}

	maxLoan, err := LoanForPayment(maxHousing, in.InterestRate, in.TermYears)
	if err != nil {
		return nil, err
	}
	maxHomePrice := math.Round(maxLoan + in.DownPayment)

	principalAndInterest, err := AmortizedPayment(maxLoan, in.InterestRate, in.TermYears)
	if err != nil {
		return nil, err
	}

	breakdown := models.PaymentBreakdown{
		PrincipalAndInterest: int(math.Round(principalAndInterest)),
		PropertyTax:          int(math.Round(maxHomePrice * PropertyTaxRate / 12)),
		Insurance:            int(math.Round(maxHomePrice * InsuranceRate / 12)),
	}
	if in.DownPayment < maxHomePrice*PMIDownThreshold {
		breakdown.PMI = int(math.Round(maxLoan * PMIRate / 12))
	}

	result.MaxHomePrice = int(maxHomePrice)
	result.MaxLoanAmount = int(math.Round(maxLoan))
	result.Breakdown = breakdown
	result.EstimatedMonthlyPayment = breakdown.Total()
	result.DTIRatio = round2((float64(result.EstimatedMonthlyPayment) + in.MonthlyDebts) / monthlyIncome * 100)

	return result, nil
}

// MortgagePayment prices a fixed-rate loan for homePrice less downPayment.
func MortgagePayment(homePrice, downPayment, interestRate float64, termYears int) (*models.MortgagePaymentResult, error) {
	if err := validateRate(interestRate); err != nil {
		return nil, err
	}
	if err := validateTerm(termYears); err != nil {
		return nil, err
	}
	if math.IsNaN(homePrice) || math.IsInf(homePrice, 0) || homePrice <= 0 {
		return nil, fmt.Errorf("%w: home price must be positive, got %v", ErrInvalidInput, homePrice)
	}
	if err := finiteNonNegative("down payment", downPayment); err != nil {
		return nil, err
	}
	if downPayment > homePrice {
		return nil, fmt.Errorf("%w: down payment %v exceeds home price %v", ErrInvalidInput, downPayment, homePrice)
	}

	loanAmount := homePrice - downPayment
	monthly, err := AmortizedPayment(loanAmount, interestRate, termYears)
	if err != nil {
		return nil, err
	}
	totalPayment := monthly * float64(termYears) * 12
	if err := finite("total payment", totalPayment); err != nil {
		return nil, err
	}

	return &models.MortgagePaymentResult{
		HomePrice:      homePrice,
		DownPayment:    downPayment,
		InterestRate:   interestRate,
		TermYears:      termYears,
		LoanAmount:     round2(loanAmount),
		MonthlyPayment: round2(monthly),
		TotalPayment:   round2(totalPayment),
		TotalInterest:  round2(totalPayment - loanAmount),
		APR:            round2(interestRate + APROffset),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

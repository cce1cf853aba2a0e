package models

// PaymentBreakdown splits an estimated monthly housing payment.
type PaymentBreakdown struct {
	PrincipalAndInterest int `json:"principal_and_interest"`
	PropertyTax          int `json:"property_tax"`
	Insurance            int `json:"insurance"`
	PMI                  int `json:"pmi"`
}

// Total is the sum of the four components.
func (b PaymentBreakdown) Total() int {
	return b.PrincipalAndInterest + b.PropertyTax + b.Insurance + b.PMI
}

type AffordabilityResult struct {
	AnnualIncome            float64          `json:"annual_income"`
	DownPayment             float64          `json:"down_payment"`
	CreditScore             int              `json:"credit_score"`
	MonthlyDebts            float64          `json:"monthly_debts"`
	InterestRate            float64          `json:"interest_rate"`
	TermYears               int              `json:"term_years"`
	MaxHomePrice            int              `json:"max_home_price"`
	MaxLoanAmount           int              `json:"max_loan_amount"`
	EstimatedMonthlyPayment int              `json:"estimated_monthly_payment"`
	DTIRatio                float64          `json:"dti_ratio"`
	Breakdown               PaymentBreakdown `json:"breakdown"`
}

type MortgagePaymentResult struct {
	HomePrice      float64 `json:"home_price"`
	DownPayment    float64 `json:"down_payment"`
	InterestRate   float64 `json:"interest_rate"`
	TermYears      int     `json:"term_years"`
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
	// APR is InterestRate plus a fixed 0.2 point offset, not a computed APR.
	APR float64 `json:"apr"`
}

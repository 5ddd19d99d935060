package models

// EligibilityTier buckets an eligibility score.
type EligibilityTier string

const (
	TierHigh   EligibilityTier = "high"
	TierMedium EligibilityTier = "medium"
	TierLow    EligibilityTier = "low"
)

// Canonical loan type labels shared by the engine, the document checklist
// and the lender table.
const (
	LoanTypePersonal  = "Personal Loan"
	LoanTypeHome      = "Home Loan"
	LoanTypeCar       = "Car Loan"
	LoanTypeEducation = "Education Loan"
)

// LoanSuggestion is one product offered by the recommendation engine. EMI is
// always derived from Amount, TenureMonths and InterestRate.
type LoanSuggestion struct {
	Type            string          `json:"type"`
	Amount          float64         `json:"amount"`
	TenureMonths    int             `json:"tenureMonths"`
	InterestRate    float64         `json:"interestRate"`
	EMI             float64         `json:"emi"`
	EligibilityTier EligibilityTier `json:"eligibility"`
}

// Recommendation is the output of the engine for one profile.
type Recommendation struct {
	Score         float64          `json:"score"`
	Tier          EligibilityTier  `json:"tier"`
	MaxLoanAmount float64          `json:"maxLoanAmount"`
	Suggestions   []LoanSuggestion `json:"suggestions"`
}

// Lender is a bank entry shown next to a loan type.
type Lender struct {
	Name          string   `json:"name"`
	InterestRate  string   `json:"interestRate"`
	ProcessingFee string   `json:"processingFee"`
	Features      []string `json:"features"`
}

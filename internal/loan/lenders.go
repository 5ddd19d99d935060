package loan

import "loan-advisor/internal/models"

// LenderCatalog maps a loan type to its shortlisted lenders.
type LenderCatalog map[string][]models.Lender

var defaultCatalog = LenderCatalog{
	models.LoanTypePersonal: {
		{
			Name:          "HDFC Bank",
			InterestRate:  "10.5% - 21%",
			ProcessingFee: "2%",
			Features:      []string{"Instant approval", "No collateral", "Flexible tenure"},
		},
		{
			Name:          "ICICI Bank",
			InterestRate:  "10.75% - 19%",
			ProcessingFee: "2.25%",
			Features:      []string{"Quick disbursal", "Online process", "Low interest for high credit score"},
		},
		{
			Name:          "SBI",
			InterestRate:  "11.15% - 16%",
			ProcessingFee: "1.5%",
			Features:      []string{"Lowest processing fee", "Government bank", "Transparent charges"},
		},
	},
	models.LoanTypeHome: {
		{
			Name:          "SBI",
			InterestRate:  "8.4% - 9.65%",
			ProcessingFee: "0.4%",
			Features:      []string{"Lowest interest", "Long tenure (30 years)", "Balance transfer"},
		},
		{
			Name:          "HDFC",
			InterestRate:  "8.45% - 9.35%",
			ProcessingFee: "0.5%",
			Features:      []string{"Quick processing", "Online application", "Good customer service"},
		},
	},
}

// DefaultLenderCatalog returns the built-in lender table.
func DefaultLenderCatalog() LenderCatalog {
	return defaultCatalog
}

// BankRecommendations looks up loanType in the built-in table.
func BankRecommendations(loanType string) []models.Lender {
	return defaultCatalog.Lookup(loanType)
}

// Lookup returns a copy of the lenders for loanType, falling back to the
// Personal Loan entry for types the catalog does not list.
func (c LenderCatalog) Lookup(loanType string) []models.Lender {
	lenders, ok := c[loanType]
	if !ok {
		lenders = c[models.LoanTypePersonal]
	}

	out := make([]models.Lender, len(lenders))
	for i, l := range lenders {
		l.Features = append([]string(nil), l.Features...)
		out[i] = l
	}
	return out
}

// Merge overlays other on top of c; loan types present in other replace
// those in c entirely.
func (c LenderCatalog) Merge(other LenderCatalog) LenderCatalog {
	merged := make(LenderCatalog, len(c)+len(other))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range other {
		if len(v) > 0 {
			merged[k] = v
		}
	}
	return merged
}

package loan

import "loan-advisor/internal/models"

var commonDocuments = []string{
	"Aadhaar Card",
	"PAN Card",
	"Passport-size photographs",
	"Address proof (Aadhaar, utility bill, passport)",
}

var loanSpecificDocuments = map[string][]string{
	models.LoanTypePersonal: {
		"Salary slips (last 3 months)",
		"Bank statements (last 6 months)",
		"Employment certificate",
	},
	models.LoanTypeHome: {
		"Property documents",
		"Sale agreement",
		"NOC from builder",
		"ITR (last 2-3 years)",
		"Salary slips (last 6 months)",
	},
	models.LoanTypeCar: {
		"Car quotation",
		"Driver's license",
		"Salary slips (last 3 months)",
		"Bank statements (last 3 months)",
	},
	models.LoanTypeEducation: {
		"Admission letter",
		"Fee structure",
		"Academic records",
		"Co-borrower documents",
	},
}

// RequiredDocuments returns the common KYC documents followed by the
// documents specific to loanType. Unknown types get the common list only.
// The returned slice is a fresh copy.
func RequiredDocuments(loanType string) []string {
	specific := loanSpecificDocuments[loanType]
	docs := make([]string, 0, len(commonDocuments)+len(specific))
	docs = append(docs, commonDocuments...)
	return append(docs, specific...)
}

package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func intPtr(v int) *int { return &v }

func highProfile() models.UserProfile {
	return models.UserProfile{
		MonthlyIncome:  120000,
		Age:            35,
		EmploymentType: models.EmploymentSalaried,
		CityTier:       1,
		CreditScore:    intPtr(780),
	}
}

func mediumProfile() models.UserProfile {
	return models.UserProfile{
		MonthlyIncome:  30000,
		Age:            30,
		EmploymentType: models.EmploymentSelfEmployed,
		CityTier:       2,
		CreditScore:    intPtr(700),
	}
}

func lowProfile() models.UserProfile {
	return models.UserProfile{
		MonthlyIncome:  20000,
		Age:            60,
		EmploymentType: models.EmploymentUnemployed,
		CityTier:       3,
	}
}

// ==========================
// EMI
// ==========================

func TestCalculateEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		tenure    int
		want      float64
	}{
		{"five lakh at 11% for 5 years", 500000, 11, 60, 10871},
		{"one lakh at 12% for a year", 100000, 12, 12, 8885},
		{"zero rate splits evenly", 120000, 0, 12, 10000},
		{"zero rate rounds", 100000, 0, 7, 14286},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateEMI(tt.principal, tt.rate, tt.tenure)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateEMI_InvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		tenure    int
	}{
		{"zero principal", 0, 10, 12},
		{"negative principal", -1, 10, 12},
		{"zero tenure", 1000, 10, 0},
		{"negative tenure", 1000, 10, -5},
		{"negative rate", 1000, -1, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateEMI(tt.principal, tt.rate, tt.tenure)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidArgument))
		})
	}
}

func TestCalculateEMI_MonotonicInPrincipal(t *testing.T) {
	prev := 0.0
	for _, principal := range []float64{10000, 50000, 100000, 500000, 1000000} {
		emi, err := CalculateEMI(principal, 9.5, 36)
		require.NoError(t, err)
		assert.Greater(t, emi, 0.0)
		assert.GreaterOrEqual(t, emi, prev)
		prev = emi
	}
}

// ==========================
// Eligibility score
// ==========================

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		profile models.UserProfile
		want    float64
	}{
		{"high profile hits the ceiling", highProfile(), 100},
		{"medium profile", mediumProfile(), 20 + 25 + 10 + 20.0/3 + 3},
		{"low profile", lowProfile(), 10 + 15 + 5 + 10.0/3},
		{
			name: "business owner in tier 2 without credit score",
			profile: models.UserProfile{
				MonthlyIncome:  60000,
				Age:            26,
				EmploymentType: models.EmploymentBusiness,
				CityTier:       2,
			},
			want: 30 + 20 + 15 + 20.0/3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.profile)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestScore_AgeBands(t *testing.T) {
	tests := []struct {
		age  int
		want float64
	}{
		{21, 5},
		{22, 15},
		{24, 15},
		{25, 20},
		{27, 20},
		{28, 25},
		{45, 25},
		{46, 20},
		{50, 20},
		{51, 15},
		{60, 15},
		{61, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, agePoints(tt.age), "age %d", tt.age)
	}
}

func TestScore_CreditScoreBonus(t *testing.T) {
	assert.Equal(t, 0.0, creditPoints(nil))
	assert.Equal(t, 0.0, creditPoints(intPtr(600)))
	assert.Equal(t, 3.0, creditPoints(intPtr(650)))
	assert.Equal(t, 5.0, creditPoints(intPtr(750)))
}

func TestScore_IsDeterministic(t *testing.T) {
	first, err := Score(mediumProfile())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Score(mediumProfile())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScore_IncompleteProfile(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *models.UserProfile)
	}{
		{"missing age", func(p *models.UserProfile) { p.Age = 0 }},
		{"missing employment", func(p *models.UserProfile) { p.EmploymentType = "" }},
		{"unknown employment", func(p *models.UserProfile) { p.EmploymentType = "astronaut" }},
		{"city tier out of range", func(p *models.UserProfile) { p.CityTier = 4 }},
		{"negative income", func(p *models.UserProfile) { p.MonthlyIncome = -1 }},
		{"credit score out of range", func(p *models.UserProfile) { p.CreditScore = intPtr(950) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := highProfile()
			tt.mutate(&p)
			_, err := Score(p)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidArgument))
		})
	}
}

// ==========================
// Recommendation engine
// ==========================

func TestRecommend_HighProfile(t *testing.T) {
	rec, err := Recommend(highProfile())
	require.NoError(t, err)

	assert.Equal(t, 100.0, rec.Score)
	assert.Equal(t, models.TierHigh, rec.Tier)
	assert.Equal(t, 120000.0*24, rec.MaxLoanAmount)
	require.Len(t, rec.Suggestions, 3)

	want := []models.LoanSuggestion{
		{Type: models.LoanTypePersonal, Amount: 1440000, TenureMonths: 60, InterestRate: 10.5, EMI: 30951, EligibilityTier: models.TierHigh},
		{Type: models.LoanTypeCar, Amount: 2016000, TenureMonths: 84, InterestRate: 8.7, EMI: 32129, EligibilityTier: models.TierHigh},
		{Type: models.LoanTypeHome, Amount: 8640000, TenureMonths: 240, InterestRate: 8.4, EMI: 74434, EligibilityTier: models.TierHigh},
	}
	for i := range want {
		assert.Equal(t, want[i].Type, rec.Suggestions[i].Type)
		assert.InDelta(t, want[i].Amount, rec.Suggestions[i].Amount, 0.001)
		assert.Equal(t, want[i].TenureMonths, rec.Suggestions[i].TenureMonths)
		assert.Equal(t, want[i].InterestRate, rec.Suggestions[i].InterestRate)
		assert.Equal(t, want[i].EMI, rec.Suggestions[i].EMI)
		assert.Equal(t, want[i].EligibilityTier, rec.Suggestions[i].EligibilityTier)
	}
}

func TestRecommend_MediumProfile(t *testing.T) {
	rec, err := Recommend(mediumProfile())
	require.NoError(t, err)

	assert.Equal(t, models.TierMedium, rec.Tier)
	require.Len(t, rec.Suggestions, 2)

	personal, car := rec.Suggestions[0], rec.Suggestions[1]
	assert.Equal(t, models.LoanTypePersonal, personal.Type)
	assert.InDelta(t, 30000*18*0.5, personal.Amount, 0.001)
	assert.Equal(t, 14.5, personal.InterestRate)
	assert.Equal(t, models.TierMedium, personal.EligibilityTier)

	assert.Equal(t, models.LoanTypeCar, car.Type)
	assert.InDelta(t, 30000*18*0.7, car.Amount, 0.001)
	assert.Equal(t, 11.5, car.InterestRate)
}

func TestRecommend_LowProfileIsEmpty(t *testing.T) {
	rec, err := Recommend(lowProfile())
	require.NoError(t, err)

	assert.Less(t, rec.Score, 50.0)
	assert.Equal(t, models.TierLow, rec.Tier)
	assert.Empty(t, rec.Suggestions)
}

func TestRecommend_CapsAmounts(t *testing.T) {
	p := highProfile()
	p.MonthlyIncome = 5_000_000

	rec, err := Recommend(p)
	require.NoError(t, err)
	require.Len(t, rec.Suggestions, 3)

	assert.Equal(t, 2_000_000.0, rec.Suggestions[0].Amount)
	assert.Equal(t, 5_000_000.0, rec.Suggestions[1].Amount)
	assert.Equal(t, 20_000_000.0, rec.Suggestions[2].Amount)
}

func TestRecommend_EMIDerivedFromTerms(t *testing.T) {
	rec, err := Recommend(highProfile())
	require.NoError(t, err)

	for _, s := range rec.Suggestions {
		emi, err := CalculateEMI(s.Amount, s.InterestRate, s.TenureMonths)
		require.NoError(t, err)
		assert.Equal(t, emi, s.EMI, s.Type)
		assert.Greater(t, s.EMI, 0.0)
	}
}

func TestRecommend_IncompleteProfile(t *testing.T) {
	_, err := Recommend(models.UserProfile{MonthlyIncome: 50000})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidArgument))
}

// ==========================
// Documents and lenders
// ==========================

func TestRequiredDocuments(t *testing.T) {
	home := RequiredDocuments(models.LoanTypeHome)
	require.Len(t, home, 9)
	assert.Equal(t, "Aadhaar Card", home[0])
	assert.Contains(t, home, "NOC from builder")

	unknown := RequiredDocuments("Gold Loan")
	assert.Equal(t, commonDocuments, unknown)

	// callers may modify the result freely
	home[0] = "changed"
	assert.Equal(t, "Aadhaar Card", RequiredDocuments(models.LoanTypeHome)[0])
}

func TestBankRecommendations(t *testing.T) {
	home := BankRecommendations(models.LoanTypeHome)
	require.Len(t, home, 2)
	assert.Equal(t, "SBI", home[0].Name)
	assert.Equal(t, "8.4% - 9.65%", home[0].InterestRate)

	fallback := BankRecommendations("Spaceship Loan")
	assert.Equal(t, BankRecommendations(models.LoanTypePersonal), fallback)
	assert.Len(t, fallback, 3)
}

func TestLenderCatalog_Merge(t *testing.T) {
	override := LenderCatalog{
		models.LoanTypeCar: {{Name: "Axis Bank", InterestRate: "8.9% - 12%", ProcessingFee: "1%"}},
		models.LoanTypeHome: nil,
	}

	merged := DefaultLenderCatalog().Merge(override)
	assert.Equal(t, "Axis Bank", merged.Lookup(models.LoanTypeCar)[0].Name)
	assert.Len(t, merged.Lookup(models.LoanTypeHome), 2)
	assert.Len(t, DefaultLenderCatalog().Lookup(models.LoanTypeCar), 3)
}

// ==========================
// Currency
// ==========================

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{12500000, "₹1.25 Cr"},
		{10000000, "₹1.00 Cr"},
		{250000, "₹2.50 L"},
		{100000, "₹1.00 L"},
		{5000, "₹5,000"},
		{99999, "₹99,999"},
		{750, "₹750"},
		{100500, "₹1.00 L"},
		{10050000, "₹1.00 Cr"},
		{112500, "₹1.13 L"},
		{1234.567, "₹1,234.567"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.amount))
		})
	}
}

// ==========================
// Classifier
// ==========================

func TestClassify_Examples(t *testing.T) {
	tests := []struct {
		name       string
		purpose    string
		amount     float64
		collateral bool
		want       models.LoanTypeRecommendation
	}{
		{"home purchase", "home_purchase", 500000, true, models.LoanTypeRecommendation{LoanType: "Home Loan", Subtype: "Affordable housing loan"}},
		{"large home purchase", "Home Purchase", 8000000, false, models.LoanTypeRecommendation{LoanType: "Home Loan", Subtype: "Standard home loan"}},
		{"small education", "education", 400000, false, models.LoanTypeRecommendation{LoanType: "Education Loan", Subtype: "Unsecured education loan"}},
		{"secured education", "education", 2000000, true, models.LoanTypeRecommendation{LoanType: "Education Loan", Subtype: "Secured education loan"}},
		{"alias car", "car", 800000, false, models.LoanTypeRecommendation{LoanType: "Car Loan"}},
		{"two wheeler", "vehicle", 90000, false, models.LoanTypeRecommendation{LoanType: "Two-Wheeler Loan"}},
		{"secured business", "business", 3000000, true, models.LoanTypeRecommendation{LoanType: "Business Loan", Subtype: "Secured business loan"}},
		{"unknown purpose", "wedding", 300000, false, models.LoanTypeRecommendation{LoanType: "Personal Loan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.purpose, tt.amount, tt.collateral))
		})
	}
}

func TestClassify_IsTotal(t *testing.T) {
	amounts := []float64{1, 50000, 50001, 200000, 750000, 1000000, 3000000, 10000000, 1e9}
	purposes := append([]models.Purpose{"something else"}, models.Purposes...)

	for _, p := range purposes {
		for _, a := range amounts {
			for _, c := range []bool{true, false} {
				got := Classify(string(p), a, c)
				assert.NotEmpty(t, got.LoanType, "purpose=%s amount=%v collateral=%v", p, a, c)
			}
		}
	}
}

func TestClassifier_ResolvePurpose(t *testing.T) {
	c := DefaultClassifier()
	assert.Equal(t, models.PurposeHomePurchase, c.ResolvePurpose("  Home-Purchase "))
	assert.Equal(t, models.PurposeVehicle, c.ResolvePurpose("Bike"))
	assert.Equal(t, models.PurposeDebtConsolidation, c.ResolvePurpose("credit card debt"))
	assert.Equal(t, models.PurposeOther, c.ResolvePurpose("a trip to Goa"))
	assert.NotEmpty(t, c.Version())
}

func TestNewClassifier_RejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "version: x\nrules: []\n"},
		{"no catch-all", "rules:\n  - purpose: education\n    loan_type: Education Loan\n"},
		{"missing loan type", "rules:\n  - purpose: education\n  - loan_type: Personal Loan\n"},
		{"unknown purpose", "rules:\n  - purpose: yacht\n    loan_type: X\n  - loan_type: Personal Loan\n"},
		{"bad alias", "aliases:\n  boat: yacht\nrules:\n  - loan_type: Personal Loan\n"},
		{"not yaml", "rules: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestNewClassifier_CustomTable(t *testing.T) {
	c, err := NewClassifier([]byte(`
version: custom/v2
rules:
  - purpose: medical
    loan_type: Health Loan
  - loan_type: Personal Loan
`))
	require.NoError(t, err)

	assert.Equal(t, "custom/v2", c.Version())
	assert.Equal(t, "Health Loan", c.Classify("medical", 10000, false).LoanType)
	assert.Equal(t, "Personal Loan", c.Classify("education", 10000, false).LoanType)
}

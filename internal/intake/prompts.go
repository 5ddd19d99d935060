package intake

const (
	purposeQuestion = "First, what is the purpose of your loan?\n" +
		"Options: education, home_purchase, home_rent, business, vehicle, medical, debt_consolidation, other."

	loanTypeWelcome = "Welcome! Let's understand which loan fits you.\n\n" + purposeQuestion

	amountQuestion     = "Got it. Approximately how much loan amount do you need? (only numbers, in rupees)"
	invalidAmountReply = "Please enter a valid number for the amount."
	collateralQuestion = "Do you have any collateral (property/vehicle) to keep as security? (yes / no)"

	loanTypeRestartReply = "Loan flow restarted. Tell me your loan purpose again.\n\n" + purposeQuestion

	followStepsReply = `Please follow the steps or type "restart" to start over.`
	restartHint      = `If you want to try again with different details, type "restart".`

	resetReply = "Something went wrong with this conversation, so let's start over.\n\n"
)

const (
	incomeQuestion      = "What is your monthly income? (only numbers, in rupees)"
	eligibilityWelcome  = "Welcome! Let's check which loans you are eligible for.\n\n" + incomeQuestion
	invalidIncomeReply  = "Please enter a valid number for your monthly income."
	ageQuestion         = "How old are you? (in years)"
	invalidAgeReply     = "Please enter your age in years, between 18 and 100."
	employmentQuestion  = "What is your employment type?\nOptions: salaried, self-employed, business, unemployed."
	invalidEmployment   = "Please choose one of: salaried, self-employed, business, unemployed."
	cityTierQuestion    = "Which city tier do you live in? (1 = metro, 2 = mid-size city, 3 = small town)"
	invalidCityTier     = "Please answer 1, 2 or 3 for the city tier."
	creditScoreQuestion = `Do you know your credit score? Enter it (300-900) or type "skip".`
	invalidCreditScore  = `Please enter a credit score between 300 and 900, or type "skip".`
	emiQuestion         = "How much do you already pay in EMIs every month? (enter 0 if none)"
	invalidEMIReply     = "Please enter a valid number for your existing EMIs (0 if none)."

	eligibilityRestartReply = "Eligibility check restarted.\n\n" + incomeQuestion
)

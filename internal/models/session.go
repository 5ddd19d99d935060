package models

import "time"

// Flow selects which questionnaire a conversation runs.
type Flow string

const (
	FlowLoanType    Flow = "loan_type"
	FlowEligibility Flow = "eligibility"
)

func (f Flow) IsValid() bool {
	return f == FlowLoanType || f == FlowEligibility
}

// Step names the question a conversation is waiting on.
type Step string

// Loan-type flow.
const (
	StepAwaitingPurpose    Step = "awaiting_purpose"
	StepAwaitingAmount     Step = "awaiting_amount"
	StepAwaitingCollateral Step = "awaiting_collateral"
)

// Eligibility flow.
const (
	StepAwaitingIncome       Step = "awaiting_income"
	StepAwaitingAge          Step = "awaiting_age"
	StepAwaitingEmployment   Step = "awaiting_employment"
	StepAwaitingCityTier     Step = "awaiting_city_tier"
	StepAwaitingCreditScore  Step = "awaiting_credit_score"
	StepAwaitingExistingEMIs Step = "awaiting_existing_emis"
)

const StepComplete Step = "complete"

// ConversationState is everything the intake machine needs to process the
// next turn. It is a plain value; the machine never mutates a state it was
// given.
type ConversationState struct {
	Version string           `json:"version"`
	Flow    Flow             `json:"flow"`
	Step    Step             `json:"step"`
	Answer  LoanIntakeAnswer `json:"answer"`
	Profile UserProfile      `json:"profile"`
	Turns   int              `json:"turns"`
}

func (s ConversationState) IsComplete() bool {
	return s.Step == StepComplete
}

// Session wraps a conversation state with its storage identity.
type Session struct {
	ID        string            `json:"id"`
	State     ConversationState `json:"state"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Package intake runs the turn-based loan questionnaire. The Machine is a
// pure function of (state, text); Service adds session storage around it.
package intake

import (
	"strings"

	"loan-advisor/internal/loan"
	"loan-advisor/internal/models"
)

// StateVersion is stamped on every state the machine produces so stored
// sessions from an incompatible release can be detected.
const StateVersion = "intake/v1"

// Options configures a Machine.
type Options struct {
	// Flow is the questionnaire Start uses. Defaults to the loan-type flow.
	Flow      models.Flow
	MatchMode MatchMode
	// AffirmativeKeywords override the defaults for MatchMode.
	AffirmativeKeywords []string
	// Classifier defaults to the embedded rule table.
	Classifier *loan.Classifier
	// Lenders defaults to the built-in lender table.
	Lenders loan.LenderCatalog
}

// Machine holds the immutable configuration of the intake flows.
type Machine struct {
	flow        models.Flow
	affirmative keywordMatcher
	restart     keywordMatcher
	skip        keywordMatcher
	none        keywordMatcher
	classifier  *loan.Classifier
	lenders     loan.LenderCatalog
}

func NewMachine(opts Options) *Machine {
	mode := opts.MatchMode
	if mode != MatchSubstring {
		mode = MatchWord
	}

	keywords := opts.AffirmativeKeywords
	if len(keywords) == 0 {
		keywords = DefaultAffirmativeKeywords
		if mode == MatchSubstring {
			keywords = LegacyAffirmativeKeywords
		}
	}

	flow := opts.Flow
	if !flow.IsValid() {
		flow = models.FlowLoanType
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = loan.DefaultClassifier()
	}

	lenders := opts.Lenders
	if len(lenders) == 0 {
		lenders = loan.DefaultLenderCatalog()
	}

	return &Machine{
		flow:        flow,
		affirmative: newKeywordMatcher(mode, keywords),
		restart:     newKeywordMatcher(mode, restartKeywords),
		skip:        newKeywordMatcher(MatchWord, skipKeywords),
		none:        newKeywordMatcher(MatchWord, noneKeywords),
		classifier:  classifier,
		lenders:     lenders,
	}
}

// Flow returns the default flow of the machine.
func (m *Machine) Flow() models.Flow {
	return m.flow
}

// Start opens a conversation in the default flow.
func (m *Machine) Start() (models.ConversationState, string) {
	return m.StartFlow(m.flow)
}

// StartFlow opens a conversation in the given flow and returns the greeting.
func (m *Machine) StartFlow(flow models.Flow) (models.ConversationState, string) {
	if flow == models.FlowEligibility {
		return initialState(flow), eligibilityWelcome
	}
	return initialState(models.FlowLoanType), loanTypeWelcome
}

func initialState(flow models.Flow) models.ConversationState {
	step := models.StepAwaitingPurpose
	if flow == models.FlowEligibility {
		step = models.StepAwaitingIncome
	}
	return models.ConversationState{
		Version: StateVersion,
		Flow:    flow,
		Step:    step,
	}
}

// ProcessTurn consumes one user message and returns the next state and the
// reply. It never fails: invalid answers re-prompt, and a state the machine
// does not recognise is reset to the start of its flow.
func (m *Machine) ProcessTurn(state models.ConversationState, text string) (models.ConversationState, string) {
	if !m.isKnown(state) {
		flow := state.Flow
		if !flow.IsValid() {
			flow = m.flow
		}
		next, greeting := m.StartFlow(flow)
		return next, resetReply + greeting
	}

	next := state
	next.Turns++
	text = strings.TrimSpace(text)

	if next.Step == models.StepComplete {
		return m.completeTurn(next, text)
	}

	if text == "" {
		return next, Question(next)
	}

	if next.Flow == models.FlowEligibility {
		return m.eligibilityTurn(next, text)
	}
	return m.loanTypeTurn(next, text)
}

// completeTurn handles messages after the recommendation has been given.
func (m *Machine) completeTurn(state models.ConversationState, text string) (models.ConversationState, string) {
	if !m.restart.Match(text) {
		return state, followStepsReply
	}

	next := initialState(state.Flow)
	next.Turns = state.Turns
	if state.Flow == models.FlowEligibility {
		return next, eligibilityRestartReply
	}
	return next, loanTypeRestartReply
}

func (m *Machine) isKnown(state models.ConversationState) bool {
	if state.Version != StateVersion {
		return false
	}
	switch state.Flow {
	case models.FlowLoanType:
		switch state.Step {
		case models.StepAwaitingPurpose, models.StepAwaitingAmount, models.StepAwaitingCollateral, models.StepComplete:
			return true
		}
	case models.FlowEligibility:
		switch state.Step {
		case models.StepAwaitingIncome, models.StepAwaitingAge, models.StepAwaitingEmployment,
			models.StepAwaitingCityTier, models.StepAwaitingCreditScore, models.StepAwaitingExistingEMIs,
			models.StepComplete:
			return true
		}
	}
	return false
}

// Question returns the prompt for the step the state is waiting on.
func Question(state models.ConversationState) string {
	switch state.Step {
	case models.StepAwaitingPurpose:
		return purposeQuestion
	case models.StepAwaitingAmount:
		return amountQuestion
	case models.StepAwaitingCollateral:
		return collateralQuestion
	case models.StepAwaitingIncome:
		return incomeQuestion
	case models.StepAwaitingAge:
		return ageQuestion
	case models.StepAwaitingEmployment:
		return employmentQuestion
	case models.StepAwaitingCityTier:
		return cityTierQuestion
	case models.StepAwaitingCreditScore:
		return creditScoreQuestion
	case models.StepAwaitingExistingEMIs:
		return emiQuestion
	default:
		return followStepsReply
	}
}

// Package intelligence is the lead intelligence engine: pure decision logic
// that turns buyer behavior and chat utterances into personas, scores, and
// escalation signals. Every function is deterministic over its inputs; time
// is always an explicit parameter and no I/O happens here.
package intelligence

// Signal is an intent tag extracted from free-text buyer messages.
type Signal string

const (
	SignalPlanningVisit    Signal = "planning_visit"
	SignalPurchaseIntent   Signal = "purchase_intent"
	SignalCallRequest      Signal = "call_request"
	SignalBookingIntent    Signal = "booking_intent"
	SignalPropertyInterest Signal = "property_interest"
)

// Persona is a coarse buyer archetype used to tailor messaging.
type Persona string

const (
	PersonaYieldInvestor   Persona = "yield-investor"
	PersonaCapitalInvestor Persona = "capital-investor"
	PersonaLifestyle       Persona = "lifestyle"
	PersonaVisaDriven      Persona = "visa-driven"
	PersonaExplorer        Persona = "explorer"
)

// Goal is the buyer's declared objective from onboarding.
type Goal string

const (
	GoalInvestment Goal = "investment"
	GoalLifestyle  Goal = "lifestyle"
	GoalVisa       Goal = "visa"
	GoalExploring  Goal = "exploring"
)

// RiskTolerance is the buyer's declared risk appetite.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// BudgetBand buckets the buyer's declared budget.
type BudgetBand string

const (
	BudgetUnder500K BudgetBand = "under-500k"
	Budget500KTo1M  BudgetBand = "500k-1m"
	Budget1MTo2M    BudgetBand = "1m-2m"
	Budget2MTo5M    BudgetBand = "2m-5m"
	Budget5MPlus    BudgetBand = "5m-plus"
)

// Category is the discrete lead-score bucket summarizing purchase readiness.
type Category string

const (
	CategoryCold        Category = "cold"
	CategoryWarm        Category = "warm"
	CategoryHot         Category = "hot"
	CategoryReadyToCall Category = "ready-to-call"
)

// EscalationState is the per-conversation human-handoff state machine.
type EscalationState string

const (
	EscalationNormal    EscalationState = "normal"
	EscalationPending   EscalationState = "escalation-pending"
	EscalationEscalated EscalationState = "escalated"
)

// Stage is the position of a deal within the sales funnel.
type Stage string

const (
	StageNew        Stage = "new"
	StageQualified  Stage = "qualified"
	StageAdvisory   Stage = "advisory"
	StageSiteVisit  Stage = "site-visit"
	StageBooking    Stage = "booking"
	StageClosedWon  Stage = "closed-won"
	StageClosedLost Stage = "closed-lost"
)

// StageOrder lists the funnel stages in progression order. The closed
// stages are terminal: closed-won completes the funnel, closed-lost is the
// absorbing alternate.
var StageOrder = []Stage{StageNew, StageQualified, StageAdvisory, StageSiteVisit, StageBooking, StageClosedWon}

// Terminal reports whether a deal in this stage can no longer move.
func (s Stage) Terminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageQualified, StageAdvisory, StageSiteVisit, StageBooking, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// Risk is the heuristic likelihood a deal stalls without intervention.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Engine evaluates the intelligence rules under a given policy.
type Engine struct {
	policy Policy
}

// NewEngine builds an engine from a policy. Zero-valued policy fields fall
// back to the defaults, so a partially specified policy document is safe.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy.withDefaults()}
}

// Policy returns the effective policy the engine runs under.
func (e *Engine) Policy() Policy {
	return e.policy
}

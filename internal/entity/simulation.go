package entity

import "time"

// SimulationState tracks the engine's progress through a run.
type SimulationState string

const (
	StateIdle            SimulationState = "idle"
	StateValidating      SimulationState = "validating"
	StateFetchingHistory SimulationState = "fetching_history"
	StatePerDayLoop      SimulationState = "per_day_loop"
	StateFinalizing      SimulationState = "finalizing"
	StateCompleted       SimulationState = "completed"
	StateFailed          SimulationState = "failed"
)

// DayStep names the pipeline step a simulated day failed in. Trading and
// logging cannot fail and have no step.
type DayStep string

const (
	StepPlanningQueries  DayStep = "planning_queries"
	StepFetchingEvidence DayStep = "fetching_evidence"
	StepSynthesizing     DayStep = "synthesizing"
	StepGeneratingSignal DayStep = "generating_signal"
)

// StartLabel marks the synthetic entry seeded from the day before the window.
const StartLabel = "Start"

// NoPositionNote replaces the action label of a hold without shares.
const NoPositionNote = "no position to hold"

// SimulationDayEntry is one line of the simulation log. SharesTraded is
// negative for sells and positive for buys.
type SimulationDayEntry struct {
	Date           time.Time       `json:"date"`
	Price          float64         `json:"price"`
	Signal         SignalDirection `json:"signal,omitempty"`
	Confidence     *int            `json:"confidence,omitempty"`
	Action         string          `json:"action,omitempty"`
	SharesTraded   int64           `json:"shares_traded"`
	SharesHeld     int64           `json:"shares_held"`
	Cash           float64         `json:"cash"`
	PortfolioValue float64         `json:"portfolio_value"`
	Reason         string          `json:"reason,omitempty"`
	Note           string          `json:"note,omitempty"`
	Error          string          `json:"error,omitempty"`
	FailedStep     DayStep         `json:"failed_step,omitempty"`
}

// SimulationParams configures one run.
type SimulationParams struct {
	Ticker        string    `json:"ticker" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	InitialCash   float64   `json:"initial_cash" validate:"gte=0"`
	InitialShares int64     `json:"initial_shares" validate:"gte=0"`
	TradeSize     int64     `json:"trade_size" validate:"gt=0"`
}

// SimulationResult is the auditable output of a run.
type SimulationResult struct {
	RunID        string               `json:"run_id"`
	Ticker       string               `json:"ticker"`
	State        SimulationState      `json:"state"`
	Params       SimulationParams     `json:"params"`
	Entries      []SimulationDayEntry `json:"entries"`
	InitialValue float64              `json:"initial_value"`
	FinalValue   float64              `json:"final_value"`
	ReturnPct    float64              `json:"return_pct"`
	DaysErrored  int                  `json:"days_errored"`
	Error        string               `json:"error,omitempty"`
	StartedAt    time.Time            `json:"started_at"`
	CompletedAt  time.Time            `json:"completed_at"`
}

// Package phase defines the contract between the turn orchestrator and the
// resumable phase engines. A phase never blocks: when it needs a decision
// from a faction it returns a StepResult carrying pending requests, and the
// driver re-invokes ProcessStep with the collected responses.
package phase

import "arrakis/internal/domain"

// Handler is the resumable state machine every phase implements.
type Handler interface {
	// Name identifies the phase (used for labels and NextPhase chaining).
	Name() string
	// Initialize creates the phase-private context and returns the first
	// step result. The context is owned by the driver from here on.
	Initialize(state *domain.GameState) StepResult
	// ProcessStep advances the phase. ctx must be the Context from the
	// previous StepResult. Structural errors (a response from a faction
	// that is not in the game, a context of the wrong type) are returned;
	// expected game flow never errors.
	ProcessStep(state *domain.GameState, ctx any, responses []Response) (StepResult, error)
	// Cleanup releases phase-private state back into the game record once
	// the phase has completed.
	Cleanup(state *domain.GameState, ctx any) *domain.GameState
}

// StepResult is what one phase step hands back to the driver. Context is
// phase-private and must be re-supplied on the next ProcessStep call; it is
// never part of persisted game state.
type StepResult struct {
	State           *domain.GameState
	PhaseComplete   bool
	NextPhase       string
	PendingRequests []Request
	Events          []Event
	Context         any
}

// RequestType classifies a pending decision request.
type RequestType string

const (
	RequestProtectionDecision RequestType = "protection_decision"
	RequestWormRideDecision   RequestType = "worm_ride_decision"
	RequestAllianceDecision   RequestType = "alliance_decision"
)

// ActionType enumerates the actions a faction can answer with.
type ActionType string

const (
	ActionProtectAlly    ActionType = "PROTECT_ALLY"
	ActionAllowDevouring ActionType = "ALLOW_DEVOURING"
	ActionWormRide       ActionType = "WORM_RIDE"
	ActionWormDevour     ActionType = "WORM_DEVOUR"
	ActionFormAlliance   ActionType = "FORM_ALLIANCE"
	ActionBreakAlliance  ActionType = "BREAK_ALLIANCE"
	ActionPass           ActionType = "PASS"
)

// Request is one outward decision request addressed to a single faction.
type Request struct {
	Faction          domain.Faction `json:"faction"`
	Type             RequestType    `json:"type"`
	Prompt           string         `json:"prompt"`
	Context          map[string]any `json:"context,omitempty"`
	AvailableActions []ActionType   `json:"available_actions"`
}

// Response is a faction's answer to a pending request.
type Response struct {
	Faction domain.Faction `json:"faction"`
	Type    RequestType    `json:"type"`
	Action  ActionType     `json:"action"`
	Data    map[string]any `json:"data,omitempty"`
	Passed  bool           `json:"passed"`
}

// Logger is the narrow logging surface a phase handler needs. Nakama's
// runtime.Logger satisfies it.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopLogger discards everything. Useful default for tests.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

package nakama

import (
	"arrakis/internal/app"
	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// Wire messages exchanged with clients. All opcodes carry JSON payloads.

type ClaimFactionRequest struct {
	Faction string `json:"faction"`
}

type StartGameRequest struct {
	// AdvancedRules overrides the server default when present.
	AdvancedRules *bool `json:"advanced_rules,omitempty"`
}

type SubmitDecisionRequest struct {
	Type   string         `json:"type"`
	Action string         `json:"action"`
	Data   map[string]any `json:"data,omitempty"`
	Passed bool           `json:"passed,omitempty"`
}

type PlayerJoinedEvent struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Owner       bool   `json:"owner"`
}

type PlayerLeftEvent struct {
	UserID  string `json:"user_id"`
	Faction string `json:"faction,omitempty"`
}

type FactionClaimedEvent struct {
	UserID      string `json:"user_id"`
	Faction     string `json:"faction"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
}

type GameStartedEvent struct {
	Turn          int              `json:"turn"`
	StormSector   int              `json:"storm_sector"`
	AdvancedRules bool             `json:"advanced_rules"`
	Factions      []domain.Faction `json:"factions"`
}

type PhaseEventMessage struct {
	Phase   string `json:"phase"`
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

type DecisionRequestMessage struct {
	Faction          string         `json:"faction"`
	Type             string         `json:"type"`
	Prompt           string         `json:"prompt"`
	Context          map[string]any `json:"context,omitempty"`
	AvailableActions []string       `json:"available_actions"`
}

type PhaseCompleteMessage struct {
	Phase     string `json:"phase"`
	NextPhase string `json:"next_phase"`
	Turn      int    `json:"turn"`
}

type GameEndedEvent struct {
	Winner  string           `json:"winner"`
	Payouts map[string]int64 `json:"payouts,omitempty"` // solari per faction
}

type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SeatInfo is one faction seat in the snapshot.
type SeatInfo struct {
	Faction     string `json:"faction"`
	UserID      string `json:"user_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	IsBot       bool   `json:"is_bot,omitempty"`
	Balance     int64  `json:"balance,omitempty"`
	AvatarIndex int    `json:"avatar_index,omitempty"`
}

// MatchSnapshot is the full lobby/game view broadcast on joins and phase
// boundaries.
type MatchSnapshot struct {
	Phase       string             `json:"phase"`
	Turn        int                `json:"turn"`
	StormSector int                `json:"storm_sector"`
	OwnerID     string             `json:"owner_id"`
	Seats       []SeatInfo         `json:"seats"`
	Spice       []domain.SpicePile `json:"spice,omitempty"`
	Tick        int64              `json:"tick"`
}

// appEventToWire maps an app-level event to its opcode and wire payload.
func appEventToWire(ev app.Event) (int64, any, bool) {
	switch p := ev.Payload.(type) {
	case app.PlayerJoinedPayload:
		return OpPlayerJoined, PlayerJoinedEvent{UserID: p.UserID, DisplayName: p.DisplayName, Owner: p.Owner}, true
	case app.PlayerLeftPayload:
		return OpPlayerLeft, PlayerLeftEvent{UserID: p.UserID, Faction: string(p.Faction)}, true
	case app.FactionClaimedPayload:
		return OpFactionClaimed, FactionClaimedEvent{UserID: p.UserID, Faction: string(p.Faction), DisplayName: p.DisplayName, IsBot: p.IsBot}, true
	case app.GameStartedPayload:
		return OpGameStarted, GameStartedEvent{Turn: p.Turn, StormSector: p.StormSector, AdvancedRules: p.AdvancedRules, Factions: p.Factions}, true
	case app.PhaseStartedPayload:
		return OpPhaseEvent, PhaseEventMessage{Phase: p.Phase, Kind: string(app.EventPhaseStarted), Payload: p}, true
	case app.PhaseCompletedPayload:
		return OpPhaseComplete, PhaseCompleteMessage{Phase: p.Phase, NextPhase: p.NextPhase, Turn: p.Turn}, true
	case app.GameEndedPayload:
		payouts := make(map[string]int64, len(p.Payouts))
		for f, amount := range p.Payouts {
			payouts[string(f)] = amount
		}
		return OpGameEnded, GameEndedEvent{Winner: string(p.Winner), Payouts: payouts}, true
	}
	return 0, nil, false
}

func phaseEventToWire(phaseName string, ev phase.Event) PhaseEventMessage {
	return PhaseEventMessage{
		Phase:   phaseName,
		Kind:    string(ev.Kind),
		Payload: ev.Payload,
	}
}

func requestToWire(req phase.Request) DecisionRequestMessage {
	actions := make([]string, 0, len(req.AvailableActions))
	for _, a := range req.AvailableActions {
		actions = append(actions, string(a))
	}
	return DecisionRequestMessage{
		Faction:          string(req.Faction),
		Type:             string(req.Type),
		Prompt:           req.Prompt,
		Context:          req.Context,
		AvailableActions: actions,
	}
}

func responseFromWire(faction domain.Faction, req SubmitDecisionRequest) phase.Response {
	return phase.Response{
		Faction: faction,
		Type:    phase.RequestType(req.Type),
		Action:  phase.ActionType(req.Action),
		Data:    req.Data,
		Passed:  req.Passed || phase.ActionType(req.Action) == phase.ActionPass,
	}
}

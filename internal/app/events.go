package app

import "arrakis/internal/domain"

// EventKind identifies emitted app events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined   EventKind = "player_joined"
	EventPlayerLeft     EventKind = "player_left"
	EventFactionClaimed EventKind = "faction_claimed"
	EventGameStarted    EventKind = "game_started"
	EventPhaseStarted   EventKind = "phase_started"
	EventPhaseCompleted EventKind = "phase_completed"
	EventGameEnded      EventKind = "game_ended"
)

// Event is an app-level event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID      string
	DisplayName string
	Owner       bool
}

type PlayerLeftPayload struct {
	UserID  string
	Faction domain.Faction
}

type FactionClaimedPayload struct {
	UserID      string
	Faction     domain.Faction
	DisplayName string
	IsBot       bool
}

type GameStartedPayload struct {
	Turn          int
	StormSector   int
	AdvancedRules bool
	Factions      []domain.Faction
}

type PhaseStartedPayload struct {
	Phase string
	Turn  int
}

type PhaseCompletedPayload struct {
	Phase     string
	NextPhase string
	Turn      int
}

type GameEndedPayload struct {
	Winner  domain.Faction
	Payouts map[domain.Faction]int64 // solari granted per seated faction
}

package phase

import "arrakis/internal/domain"

// EventKind identifies emitted phase events for dispatch and telemetry.
type EventKind string

const (
	EventCardRevealed      EventKind = "card_revealed"
	EventSpicePlaced       EventKind = "spice_placed"
	EventSpiceNotPlaced    EventKind = "spice_not_placed"
	EventShaiHuludAppeared EventKind = "shai_hulud_appeared"
	EventNothingToDevour   EventKind = "nothing_to_devour"
	EventSpiceDestroyed    EventKind = "spice_destroyed"
	EventForcesDevoured    EventKind = "forces_devoured"
	EventWormImmunity      EventKind = "worm_immunity"
	EventAllyProtected     EventKind = "ally_protected"
	EventLeaderProtected   EventKind = "leader_protected"
	EventWormRideChosen    EventKind = "worm_ride_chosen"
	EventNexusStarted      EventKind = "nexus_started"
	EventNexusEnded        EventKind = "nexus_ended"
	EventAllianceFormed    EventKind = "alliance_formed"
	EventAllianceBroken    EventKind = "alliance_broken"
	EventGreatWormAwakened EventKind = "great_worm_awakened"
)

// Event is a single phase event with a typed payload.
type Event struct {
	Kind    EventKind
	Payload any
}

// NotPlacedReason explains why a territory card placed no spice.
type NotPlacedReason string

const (
	NotPlacedIneligible NotPlacedReason = "ineligible"
	NotPlacedOccluded   NotPlacedReason = "storm_occluded"
)

type CardRevealedPayload struct {
	Deck          domain.DeckType `json:"deck"`
	Card          domain.Card     `json:"card"`
	StormOccluded bool            `json:"storm_occluded"`
}

type SpicePlacedPayload struct {
	Deck     domain.DeckType `json:"deck"`
	Location domain.Location `json:"location"`
	Amount   int             `json:"amount"`
}

type SpiceNotPlacedPayload struct {
	Deck     domain.DeckType `json:"deck"`
	Card     domain.Card     `json:"card"`
	Reason   NotPlacedReason `json:"reason"`
	Location domain.Location `json:"location"`
}

type ShaiHuludAppearedPayload struct {
	Deck    domain.DeckType  `json:"deck"`
	Ignored bool             `json:"ignored"` // true on the first turn
	Devours *domain.Location `json:"devours,omitempty"`
}

type SpiceDestroyedPayload struct {
	Location domain.Location `json:"location"`
	Amount   int             `json:"amount"`
}

type ForcesDevouredPayload struct {
	Faction  domain.Faction  `json:"faction"`
	Count    int             `json:"count"`
	Location domain.Location `json:"location"`
}

type WormImmunityPayload struct {
	Faction domain.Faction `json:"faction"`
	Count   int            `json:"count"`
}

type AllyProtectedPayload struct {
	Faction domain.Faction `json:"faction"`
	Count   int            `json:"count"`
}

type LeaderProtectedPayload struct {
	Faction domain.Faction `json:"faction"`
	Leader  string         `json:"leader"`
}

type WormRideChosenPayload struct {
	Faction domain.Faction `json:"faction"`
	Ride    bool           `json:"ride"`
}

type NexusStartedPayload struct {
	Turn int `json:"turn"`
}

type NexusEndedPayload struct {
	Turn int `json:"turn"`
}

type AlliancePayload struct {
	Factions [2]domain.Faction `json:"factions"`
}

type GreatWormAwakenedPayload struct {
	WormCount int `json:"worm_count"`
}

// Package spiceblow implements the Spice Blow phase: it reveals cards from
// the two spice decks, places spice unless the storm blocks it, resolves
// Shai-Hulud appearances, and opens the Nexus when a worm chain ends. The
// handler suspends whenever a faction decision is required and resumes from
// exactly that point on the next step.
package spiceblow

import "arrakis/internal/domain"

// StepState names where the phase state machine is waiting.
type StepState string

const (
	StateInit                       StepState = "init"
	StateAwaitingProtectionDecision StepState = "awaiting_protection_decision"
	StateAwaitingNexusResponses     StepState = "awaiting_nexus_responses"
	StateAwaitingWormRideChoice     StepState = "awaiting_worm_ride_choice"
	StateDrawingDeckB               StepState = "drawing_deck_b"
	StateComplete                   StepState = "complete"
)

// WormChoice is the Fremen answer to a worm appearance.
type WormChoice string

const (
	WormChoiceDevour WormChoice = "devour"
	WormChoiceRide   WormChoice = "ride"
)

// ProtectionChoice is the Fremen answer to the ally-protection question.
type ProtectionChoice string

const (
	ProtectionProtect ProtectionChoice = "protect"
	ProtectionAllow   ProtectionChoice = "allow"
)

// Context is the phase-private record of in-progress Spice Blow state. It
// is created fresh by Initialize, carried inside every StepResult, and
// consumed by Cleanup. It never outlives the phase.
type Context struct {
	Step StepState

	CardARevealed bool
	CardBRevealed bool

	LastSpiceLocation *domain.Location

	ShaiHuludCount int

	NexusTriggered       bool
	NexusResolved        bool
	FactionsActedInNexus map[domain.Faction]bool

	FremenWormChoice         WormChoice
	FremenProtectionDecision ProtectionChoice

	TurnOneWormsSetAside []domain.Card

	PendingDevourLocation *domain.Location
	PendingDevourDeck     domain.DeckType

	// TerritoryCardsPlacedThisTurn records every territory card discarded
	// this turn per deck, whether or not spice actually landed. A worm may
	// never devour at a location named by one of these cards.
	TerritoryCardsPlacedThisTurn map[domain.DeckType][]domain.Card
}

// NewContext returns the fresh context Initialize hands to the driver.
func NewContext() *Context {
	return &Context{
		Step:                 StateInit,
		FactionsActedInNexus: make(map[domain.Faction]bool),
		TerritoryCardsPlacedThisTurn: map[domain.DeckType][]domain.Card{
			domain.DeckA: nil,
			domain.DeckB: nil,
		},
	}
}

// revealed reports whether the named deck already produced its card this phase.
func (c *Context) revealed(dt domain.DeckType) bool {
	if dt == domain.DeckB {
		return c.CardBRevealed
	}
	return c.CardARevealed
}

// markRevealed records that the named deck produced its card this phase.
func (c *Context) markRevealed(dt domain.DeckType) {
	if dt == domain.DeckB {
		c.CardBRevealed = true
		return
	}
	c.CardARevealed = true
}

// recordPlaced adds a discarded territory card to the per-deck exclusion list.
func (c *Context) recordPlaced(dt domain.DeckType, card domain.Card) {
	c.TerritoryCardsPlacedThisTurn[dt] = append(c.TerritoryCardsPlacedThisTurn[dt], card)
}

// placedThisTurn reports whether the card was discarded on the deck this turn.
func (c *Context) placedThisTurn(dt domain.DeckType, card domain.Card) bool {
	return domain.ContainsCard(c.TerritoryCardsPlacedThisTurn[dt], card)
}

// clearPendingDevour resets the suspended-devour bookkeeping after a worm
// resolution finishes. The protection answer is per-devour and is cleared
// with it; the recorded worm ride choice stands for the rest of the turn.
func (c *Context) clearPendingDevour() {
	c.PendingDevourLocation = nil
	c.PendingDevourDeck = ""
	c.FremenProtectionDecision = ""
}

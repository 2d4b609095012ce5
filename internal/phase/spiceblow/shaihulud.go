package spiceblow

import (
	"fmt"

	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// resolveShaiHulud dispatches a drawn worm card. On the game's first turn
// the card is set aside, out of both decks and both discards, until phase
// cleanup. On later turns the worm devours at the topmost prior-turn
// territory discard of the same deck, offering the Fremen their ride choice
// first when they are seated.
func (h *Handler) resolveShaiHulud(g *domain.GameState, ctx *Context, card domain.Card, dt domain.DeckType) ([]phase.Event, []phase.Request) {
	if g.Turn == 1 {
		ctx.TurnOneWormsSetAside = append(ctx.TurnOneWormsSetAside, card)
		return []phase.Event{{Kind: phase.EventShaiHuludAppeared, Payload: phase.ShaiHuludAppearedPayload{
			Deck: dt, Ignored: true,
		}}}, nil
	}

	var events []phase.Event

	g.ShaiHuludCounter++
	ctx.ShaiHuludCount++
	if h.opts.GreatWormVariant && !g.GreatWormAwakened && g.ShaiHuludCounter >= h.opts.GreatWormThreshold {
		g.GreatWormAwakened = true
		events = append(events, phase.Event{Kind: phase.EventGreatWormAwakened, Payload: phase.GreatWormAwakenedPayload{
			WormCount: g.ShaiHuludCounter,
		}})
	}

	loc := h.devourLocation(g, ctx, dt)
	g.DiscardCard(card, dt)
	events = append(events, phase.Event{Kind: phase.EventShaiHuludAppeared, Payload: phase.ShaiHuludAppearedPayload{
		Deck: dt, Devours: loc,
	}})

	if loc == nil {
		events = append(events, phase.Event{Kind: phase.EventNothingToDevour, Payload: phase.ShaiHuludAppearedPayload{Deck: dt}})
		return events, nil
	}

	if g.HasFaction(domain.FactionFremen) {
		ctx.PendingDevourLocation = loc
		ctx.PendingDevourDeck = dt
		ctx.Step = StateAwaitingWormRideChoice
		return events, []phase.Request{h.wormRideRequest(*loc)}
	}

	devourEvents, reqs := h.devourAt(g, ctx, *loc, dt)
	events = append(events, devourEvents...)
	if len(reqs) > 0 {
		return events, reqs
	}
	ctx.clearPendingDevour()
	return events, nil
}

// devourLocation derives where the worm strikes: the topmost card of the
// same deck's discard pile that is a territory card and was not discarded
// this turn. Returns nil when no prior-turn territory card exists.
func (h *Handler) devourLocation(g *domain.GameState, ctx *Context, dt domain.DeckType) *domain.Location {
	pile := g.Discard(dt)
	for i := len(pile) - 1; i >= 0; i-- {
		card := pile[i]
		if card.Kind != domain.CardTerritory {
			continue
		}
		if ctx.placedThisTurn(dt, card) {
			continue
		}
		def, ok := domain.LookupSpiceCard(card.DefinitionID)
		if !ok {
			continue
		}
		loc := def.Location()
		return &loc
	}
	return nil
}

// wormRideRequest is the Fremen's ride-or-devour decision.
func (h *Handler) wormRideRequest(loc domain.Location) phase.Request {
	return phase.Request{
		Faction: domain.FactionFremen,
		Type:    phase.RequestWormRideDecision,
		Prompt:  fmt.Sprintf("Shai-Hulud rises at %s: ride the worm or let it devour?", loc.Territory),
		Context: map[string]any{
			"territory": string(loc.Territory),
			"sector":    loc.Sector,
		},
		AvailableActions: []phase.ActionType{phase.ActionWormRide, phase.ActionWormDevour},
	}
}

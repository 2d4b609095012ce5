package spiceblow

import (
	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// reveal draws from the named deck until it has produced its one card for
// the turn: a territory card was discarded, the deck ran dry even after a
// reshuffle, or a decision suspended the chain (non-empty requests). Worm
// cards never conclude a reveal; they only postpone it.
func (h *Handler) reveal(g *domain.GameState, ctx *Context, dt domain.DeckType) ([]phase.Event, []phase.Request) {
	var events []phase.Event

	// Worms self-discard and reshuffle straight back in, so a pile holding
	// only worm cards would cycle forever. Two full passes see every card;
	// past that the deck is marked revealed and the phase keeps moving.
	maxDraws := 2 * (len(g.Deck(dt)) + len(g.Discard(dt)))
	draws := 0

	for {
		// Idempotency guard: repeated driver calls must not double-draw.
		if ctx.revealed(dt) {
			return events, nil
		}

		if maxDraws > 0 && draws >= maxDraws {
			ctx.markRevealed(dt)
			h.log.Error("spice blow: deck %s cycled %d draws without a territory card, marked revealed", dt, draws)
			return events, nil
		}

		if len(g.Deck(dt)) == 0 {
			g.ReshuffleOnEmpty(dt, h.rng)
		}
		card, ok := g.Draw(dt)
		if !ok {
			ctx.markRevealed(dt)
			h.log.Warn("spice blow: deck %s exhausted with nothing to reshuffle", dt)
			return events, nil
		}
		draws++

		switch card.Kind {
		case domain.CardTerritory:
			def, ok := domain.LookupSpiceCard(card.DefinitionID)
			if !ok {
				// Data-integrity problem: keep the phase moving. The card
				// is discarded so pile accounting stays whole, but nothing
				// is placed and nothing can be devoured because of it.
				g.DiscardCard(card, dt)
				ctx.markRevealed(dt)
				h.log.Error("spice blow: no definition for card %q, deck %s marked revealed", card.DefinitionID, dt)
				return events, nil
			}
			occluded := false
			if tdef, ok := domain.LookupTerritory(def.Territory); ok {
				occluded = domain.StormOccludes(tdef, def.Sector, g.StormSector)
			}
			events = append(events, phase.Event{Kind: phase.EventCardRevealed, Payload: phase.CardRevealedPayload{
				Deck: dt, Card: card, StormOccluded: occluded,
			}})

			events = append(events, h.resolvePlacement(g, ctx, card, def, dt)...)

			// A worm chain that finally concluded on a territory card opens
			// the Nexus, but never on the game's first turn.
			if ctx.ShaiHuludCount > 0 && g.Turn > 1 && !ctx.NexusTriggered {
				nexusEvents, reqs := h.openNexus(g, ctx)
				events = append(events, nexusEvents...)
				return events, reqs
			}
			return events, nil

		case domain.CardShaiHulud:
			events = append(events, phase.Event{Kind: phase.EventCardRevealed, Payload: phase.CardRevealedPayload{
				Deck: dt, Card: card,
			}})
			wormEvents, reqs := h.resolveShaiHulud(g, ctx, card, dt)
			events = append(events, wormEvents...)
			if len(reqs) > 0 {
				return events, reqs
			}
			// The chain keeps drawing on the same deck.

		default:
			g.DiscardCard(card, dt)
			ctx.markRevealed(dt)
			h.log.Error("spice blow: unknown card kind %q, deck %s marked revealed", card.Kind, dt)
			return events, nil
		}
	}
}

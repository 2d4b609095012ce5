package spiceblow

import (
	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// resolvePlacement decides whether a revealed territory card's spice lands
// on the board. Whatever the outcome, the card is discarded, recorded in
// the per-deck placed-this-turn list (a rejected card is still "the topmost
// territory card" for devour purposes) and the deck is marked revealed.
func (h *Handler) resolvePlacement(g *domain.GameState, ctx *Context, card domain.Card, def domain.SpiceCardDef, dt domain.DeckType) []phase.Event {
	loc := def.Location()

	settle := func() {
		g.DiscardCard(card, dt)
		ctx.recordPlaced(dt, card)
		ctx.markRevealed(dt)
	}

	tdef, ok := domain.LookupTerritory(def.Territory)
	if !ok || !tdef.SpiceEligible {
		settle()
		return []phase.Event{{Kind: phase.EventSpiceNotPlaced, Payload: phase.SpiceNotPlacedPayload{
			Deck: dt, Card: card, Reason: phase.NotPlacedIneligible, Location: loc,
		}}}
	}

	if domain.StormOccludes(tdef, def.Sector, g.StormSector) {
		settle()
		return []phase.Event{{Kind: phase.EventSpiceNotPlaced, Payload: phase.SpiceNotPlacedPayload{
			Deck: dt, Card: card, Reason: phase.NotPlacedOccluded, Location: loc,
		}}}
	}

	g.AddSpice(loc, def.Amount)
	ctx.LastSpiceLocation = &loc
	settle()
	return []phase.Event{{Kind: phase.EventSpicePlaced, Payload: phase.SpicePlacedPayload{
		Deck: dt, Location: loc, Amount: def.Amount,
	}}}
}

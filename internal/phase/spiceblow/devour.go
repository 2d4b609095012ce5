package spiceblow

import (
	"fmt"

	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// devourAt runs the Devour Executor at the location. Step A destroys the
// spice there (banking it). Step B suspends for the Fremen protection
// decision when their ally has forces at the location and no decision has
// been made yet. Step C removes forces, honoring the faction exceptions.
func (h *Handler) devourAt(g *domain.GameState, ctx *Context, loc domain.Location, dt domain.DeckType) ([]phase.Event, []phase.Request) {
	var events []phase.Event

	// Step A: destroy spice.
	if amount := g.RemoveSpiceAt(loc); amount > 0 {
		g.SpiceBank += amount
		events = append(events, phase.Event{Kind: phase.EventSpiceDestroyed, Payload: phase.SpiceDestroyedPayload{
			Location: loc, Amount: amount,
		}})
	}

	// Step B: the Fremen may shield an ally standing in the worm's path.
	if g.HasFaction(domain.FactionFremen) && ctx.FremenProtectionDecision == "" {
		ally := g.AllyOf(domain.FactionFremen)
		if ally != "" && g.ForcesAt(ally, loc) > 0 {
			ctx.PendingDevourLocation = &loc
			ctx.PendingDevourDeck = dt
			ctx.Step = StateAwaitingProtectionDecision
			return events, []phase.Request{h.protectionRequest(g, loc)}
		}
	}

	// Step C.
	events = append(events, h.executeDevour(g, ctx, loc)...)
	return events, nil
}

// executeDevour is step C: every faction's forces at the location go to its
// casualty pool, except Fremen forces (worm immunity), a protected ally,
// and leaders still committed to the territory after surviving combat.
func (h *Handler) executeDevour(g *domain.GameState, ctx *Context, loc domain.Location) []phase.Event {
	var events []phase.Event
	fremenAlly := g.AllyOf(domain.FactionFremen)

	for _, f := range g.Factions {
		fs, ok := g.Players[f]
		if !ok {
			continue
		}

		// Leaders that survived combat in this territory are spared,
		// regardless of any protection decision.
		for _, leader := range fs.Leaders {
			if leader.Alive && leader.UsedIn == loc.Territory {
				events = append(events, phase.Event{Kind: phase.EventLeaderProtected, Payload: phase.LeaderProtectedPayload{
					Faction: f, Leader: leader.Name,
				}})
			}
		}

		count := g.ForcesAt(f, loc)
		if count == 0 {
			continue
		}

		if f == domain.FactionFremen {
			events = append(events, phase.Event{Kind: phase.EventWormImmunity, Payload: phase.WormImmunityPayload{
				Faction: f, Count: count,
			}})
			continue
		}

		if f == fremenAlly && ctx.FremenProtectionDecision == ProtectionProtect {
			events = append(events, phase.Event{Kind: phase.EventAllyProtected, Payload: phase.AllyProtectedPayload{
				Faction: f, Count: count,
			}})
			continue
		}

		g.MoveToCasualties(f, loc)
		events = append(events, phase.Event{Kind: phase.EventForcesDevoured, Payload: phase.ForcesDevouredPayload{
			Faction: f, Count: count, Location: loc,
		}})
	}

	return events
}

// protectionRequest is the Fremen's protect-or-allow decision for an ally
// standing at the devour location.
func (h *Handler) protectionRequest(g *domain.GameState, loc domain.Location) phase.Request {
	ally := g.AllyOf(domain.FactionFremen)
	return phase.Request{
		Faction: domain.FactionFremen,
		Type:    phase.RequestProtectionDecision,
		Prompt:  fmt.Sprintf("Shai-Hulud devours at %s: protect your ally %s or allow the devouring?", loc.Territory, ally),
		Context: map[string]any{
			"territory": string(loc.Territory),
			"sector":    loc.Sector,
			"ally":      string(ally),
		},
		AvailableActions: []phase.ActionType{phase.ActionProtectAlly, phase.ActionAllowDevouring},
	}
}

package spiceblow

import (
	"fmt"

	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// openNexus starts the negotiation window: one alliance decision request
// per seated faction. Triggered only when a worm chain concluded with a
// territory card on a turn after the first.
func (h *Handler) openNexus(g *domain.GameState, ctx *Context) ([]phase.Event, []phase.Request) {
	ctx.NexusTriggered = true
	ctx.Step = StateAwaitingNexusResponses
	g.NexusOpen = true

	events := []phase.Event{{Kind: phase.EventNexusStarted, Payload: phase.NexusStartedPayload{Turn: g.Turn}}}
	return events, h.nexusRequests(g, ctx)
}

// nexusRequests builds requests for every seated faction that has not yet
// acted in this Nexus.
func (h *Handler) nexusRequests(g *domain.GameState, ctx *Context) []phase.Request {
	var reqs []phase.Request
	for _, f := range g.Factions {
		if ctx.FactionsActedInNexus[f] {
			continue
		}
		actions := []phase.ActionType{phase.ActionFormAlliance}
		if g.AllyOf(f) != "" {
			actions = append(actions, phase.ActionBreakAlliance)
		}
		actions = append(actions, phase.ActionPass)
		reqs = append(reqs, phase.Request{
			Faction:          f,
			Type:             phase.RequestAllianceDecision,
			Prompt:           "A Nexus has begun: form an alliance, break your alliance, or pass.",
			AvailableActions: actions,
		})
	}
	return reqs
}

// applyNexusResponses folds alliance answers into game state, one faction
// at a time. Forming sets both sides' ally reference, breaking clears both.
// The Nexus resolves once every seated faction has acted; until then the
// remaining factions' requests are re-issued.
func (h *Handler) applyNexusResponses(g *domain.GameState, ctx *Context, responses []phase.Response) ([]phase.Event, []phase.Request, error) {
	var events []phase.Event

	for _, resp := range responses {
		if resp.Type != phase.RequestAllianceDecision {
			continue
		}
		if !g.HasFaction(resp.Faction) {
			return events, nil, fmt.Errorf("%w: alliance decision from %q", ErrFactionNotInGame, resp.Faction)
		}
		if ctx.FactionsActedInNexus[resp.Faction] {
			continue
		}
		ctx.FactionsActedInNexus[resp.Faction] = true

		if resp.Passed || resp.Action == phase.ActionPass {
			continue
		}

		switch resp.Action {
		case phase.ActionFormAlliance:
			partnerName, _ := resp.Data["partner"].(string)
			partner := domain.Faction(partnerName)
			if partner == resp.Faction {
				return events, nil, fmt.Errorf("%w: %s cannot ally with itself", ErrInvalidDecision, resp.Faction)
			}
			if !g.HasFaction(partner) {
				return events, nil, fmt.Errorf("%w: alliance partner %q", ErrFactionNotInGame, partner)
			}
			g.FormAlliance(resp.Faction, partner)
			events = append(events, phase.Event{Kind: phase.EventAllianceFormed, Payload: phase.AlliancePayload{
				Factions: [2]domain.Faction{resp.Faction, partner},
			}})
		case phase.ActionBreakAlliance:
			ally := g.AllyOf(resp.Faction)
			if ally == "" {
				continue
			}
			g.BreakAlliance(resp.Faction)
			events = append(events, phase.Event{Kind: phase.EventAllianceBroken, Payload: phase.AlliancePayload{
				Factions: [2]domain.Faction{resp.Faction, ally},
			}})
		default:
			return events, nil, fmt.Errorf("%w: %q for alliance decision", ErrInvalidDecision, resp.Action)
		}
	}

	for _, f := range g.Factions {
		if !ctx.FactionsActedInNexus[f] {
			return events, h.nexusRequests(g, ctx), nil
		}
	}

	ctx.NexusResolved = true
	ctx.Step = StateInit
	g.NexusOpen = false
	events = append(events, phase.Event{Kind: phase.EventNexusEnded, Payload: phase.NexusEndedPayload{Turn: g.Turn}})
	return events, nil, nil
}

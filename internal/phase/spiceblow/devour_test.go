package spiceblow

import (
	"testing"

	"arrakis/internal/domain"
	"arrakis/internal/phase"
)

// wormGame sets up turn 2 with a prior-turn discard on deck A, a worm on
// top of deck A, and a territory card to conclude the chain.
func wormGame(factions ...domain.Faction) (*domain.GameState, domain.Location) {
	g := testGame(2, factions...)
	g.DiscardA = []domain.Card{territoryCard("cielago-south")}
	g.DeckA = []domain.Card{domain.ShaiHuludCard(), territoryCard("red-chasm")}
	return g, domain.Location{Territory: domain.TerritoryCielagoSouth, Sector: 1}
}

func fremenResponse(rt phase.RequestType, action phase.ActionType) []phase.Response {
	return []phase.Response{{Faction: domain.FactionFremen, Type: rt, Action: action}}
}

func TestScenarioCProtectAlly(t *testing.T) {
	h := testHandler(t)
	g, loc := wormGame(domain.FactionFremen, domain.FactionAtreides, domain.FactionHarkonnen)
	g.FormAlliance(domain.FactionFremen, domain.FactionAtreides)
	g.PlaceForces(domain.FactionFremen, loc, 3)
	g.PlaceForces(domain.FactionAtreides, loc, 4)
	g.PlaceForces(domain.FactionHarkonnen, loc, 2)

	init := h.Initialize(g)

	// With the Fremen seated, the worm first offers the ride choice.
	res := step(t, h, g, init.Context, nil)
	if len(res.PendingRequests) != 1 || res.PendingRequests[0].Type != phase.RequestWormRideDecision {
		t.Fatalf("expected worm ride request, got %+v", res.PendingRequests)
	}

	// Choosing to let it devour hits the ally-protection rule and suspends.
	res = step(t, h, g, res.Context, fremenResponse(phase.RequestWormRideDecision, phase.ActionWormDevour))
	if len(res.PendingRequests) != 1 || res.PendingRequests[0].Type != phase.RequestProtectionDecision {
		t.Fatalf("expected protection request, got %+v", res.PendingRequests)
	}
	if res.PendingRequests[0].Faction != domain.FactionFremen {
		t.Fatalf("protection request addressed to %s, want fremen", res.PendingRequests[0].Faction)
	}

	// Protecting spares the ally; everyone else at the location dies.
	res = step(t, h, g, res.Context, fremenResponse(phase.RequestProtectionDecision, phase.ActionProtectAlly))

	if got := g.Players[domain.FactionAtreides].Casualties; got != 0 {
		t.Fatalf("protected ally lost %d forces", got)
	}
	if g.ForcesAt(domain.FactionAtreides, loc) != 4 {
		t.Fatalf("protected ally's forces missing from the board")
	}
	if got := g.Players[domain.FactionHarkonnen].Casualties; got != 2 {
		t.Fatalf("harkonnen casualties = %d, want 2", got)
	}
	if got := g.Players[domain.FactionFremen].Casualties; got != 0 {
		t.Fatalf("worm-immune fremen lost %d forces", got)
	}
	if !hasEvent(res.Events, phase.EventAllyProtected) || !hasEvent(res.Events, phase.EventWormImmunity) {
		t.Fatalf("missing protection/immunity events: %v", eventKinds(res.Events))
	}

	// The chain concluded on a territory card, so the nexus is now open.
	if !hasEvent(res.Events, phase.EventNexusStarted) {
		t.Fatalf("nexus did not open after the chain concluded: %v", eventKinds(res.Events))
	}
	res = step(t, h, g, res.Context, passAll(g))
	if !res.PhaseComplete {
		t.Fatalf("phase should complete after the nexus resolves")
	}
}

func TestScenarioCAllowDevouring(t *testing.T) {
	h := testHandler(t)
	g, loc := wormGame(domain.FactionFremen, domain.FactionAtreides)
	g.FormAlliance(domain.FactionFremen, domain.FactionAtreides)
	g.PlaceForces(domain.FactionAtreides, loc, 4)

	init := h.Initialize(g)
	res := step(t, h, g, init.Context, nil)
	res = step(t, h, g, res.Context, fremenResponse(phase.RequestWormRideDecision, phase.ActionWormDevour))
	res = step(t, h, g, res.Context, fremenResponse(phase.RequestProtectionDecision, phase.ActionAllowDevouring))

	if got := g.Players[domain.FactionAtreides].Casualties; got != 4 {
		t.Fatalf("ally casualties = %d after allow, want 4", got)
	}
	if !hasEvent(res.Events, phase.EventForcesDevoured) {
		t.Fatalf("missing forces_devoured event: %v", eventKinds(res.Events))
	}
}

func TestWormRideSkipsDevour(t *testing.T) {
	h := testHandler(t)
	g, loc := wormGame(domain.FactionFremen, domain.FactionAtreides)
	g.PlaceForces(domain.FactionAtreides, loc, 4)
	g.AddSpice(loc, 6)

	init := h.Initialize(g)
	res := step(t, h, g, init.Context, nil)
	res = step(t, h, g, res.Context, fremenResponse(phase.RequestWormRideDecision, phase.ActionWormRide))

	if g.Players[domain.FactionAtreides].Casualties != 0 {
		t.Fatalf("ride choice should skip the devour entirely")
	}
	if g.SpiceAt(loc) != 6 {
		t.Fatalf("ride choice destroyed spice")
	}
	if !g.FremenRideBonus {
		t.Fatalf("ride bonus flag not set")
	}
	if !hasEvent(res.Events, phase.EventWormRideChosen) {
		t.Fatalf("missing worm_ride_chosen event: %v", eventKinds(res.Events))
	}
	// The nexus still opens once the chain concludes.
	if !hasEvent(res.Events, phase.EventNexusStarted) {
		t.Fatalf("nexus should open after a ride choice settles: %v", eventKinds(res.Events))
	}
}

func TestFremenImmunityWithoutAlly(t *testing.T) {
	h := testHandler(t)
	g, loc := wormGame(domain.FactionFremen, domain.FactionHarkonnen)
	g.PlaceForces(domain.FactionFremen, loc, 5)
	g.PlaceForces(domain.FactionHarkonnen, loc, 3)

	init := h.Initialize(g)
	res := step(t, h, g, init.Context, nil)
	// No ally at the location: the devour runs without a protection request.
	res = step(t, h, g, res.Context, fremenResponse(phase.RequestWormRideDecision, phase.ActionWormDevour))

	for _, req := range res.PendingRequests {
		if req.Type == phase.RequestProtectionDecision {
			t.Fatalf("protection requested with no ally at the location")
		}
	}
	if g.Players[domain.FactionFremen].Casualties != 0 {
		t.Fatalf("fremen forces devoured despite immunity")
	}
	if g.Players[domain.FactionHarkonnen].Casualties != 3 {
		t.Fatalf("harkonnen casualties = %d, want 3", g.Players[domain.FactionHarkonnen].Casualties)
	}
}

func TestLeaderCommittedToTerritoryIsSpared(t *testing.T) {
	h := testHandler(t)
	g, loc := wormGame(domain.FactionAtreides, domain.FactionHarkonnen)
	g.PlaceForces(domain.FactionHarkonnen, loc, 3)
	g.Players[domain.FactionHarkonnen].Leaders = []domain.Leader{
		{Name: "Feyd-Rautha", Strength: 6, Alive: true, UsedIn: domain.TerritoryCielagoSouth},
		{Name: "Beast Rabban", Strength: 4, Alive: true},
	}

	init := h.Initialize(g)
	res := step(t, h, g, init.Context, nil)

	spared := 0
	for _, ev := range res.Events {
		if ev.Kind != phase.EventLeaderProtected {
			continue
		}
		payload := ev.Payload.(phase.LeaderProtectedPayload)
		if payload.Leader != "Feyd-Rautha" {
			t.Fatalf("wrong leader spared: %s", payload.Leader)
		}
		spared++
	}
	if spared != 1 {
		t.Fatalf("leader_protected events = %d, want 1", spared)
	}
	// Leader protection is independent of force removal.
	if g.Players[domain.FactionHarkonnen].Casualties != 3 {
		t.Fatalf("forces should still be devoured alongside a spared leader")
	}
}

func TestInvalidProtectionActionIsStructuralError(t *testing.T) {
	h := testHandler(t)
	g, loc := wormGame(domain.FactionFremen, domain.FactionAtreides)
	g.FormAlliance(domain.FactionFremen, domain.FactionAtreides)
	g.PlaceForces(domain.FactionAtreides, loc, 1)

	init := h.Initialize(g)
	res := step(t, h, g, init.Context, nil)
	res = step(t, h, g, res.Context, fremenResponse(phase.RequestWormRideDecision, phase.ActionWormDevour))

	_, err := h.ProcessStep(g, res.Context, fremenResponse(phase.RequestProtectionDecision, phase.ActionFormAlliance))
	if err == nil {
		t.Fatalf("expected structural error for invalid protection action")
	}
}

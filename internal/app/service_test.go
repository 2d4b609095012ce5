package app

import (
	"errors"
	"math/rand"
	"testing"

	"arrakis/internal/domain"
)

func TestStartGameSeatsFactionsInCanonicalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	svc := NewService(rng)

	game, evs, err := svc.StartGame([]domain.Faction{domain.FactionFremen, domain.FactionAtreides}, true)
	if err != nil {
		t.Fatalf("start game error: %v", err)
	}

	want := []domain.Faction{domain.FactionAtreides, domain.FactionFremen}
	if len(game.Factions) != len(want) {
		t.Fatalf("factions = %v, want %v", game.Factions, want)
	}
	for i, f := range want {
		if game.Factions[i] != f {
			t.Fatalf("factions = %v, want %v", game.Factions, want)
		}
	}

	if game.Turn != 1 {
		t.Errorf("turn = %d, want 1", game.Turn)
	}
	if !game.AdvancedRules {
		t.Errorf("advanced rules flag not carried")
	}
	if game.StormSector < 0 || game.StormSector >= domain.StormSectors {
		t.Errorf("storm sector = %d, out of range", game.StormSector)
	}

	started := false
	for _, ev := range evs {
		if ev.Kind == EventGameStarted {
			started = true
		}
	}
	if !started {
		t.Errorf("no game started event emitted")
	}
}

func TestStartGameDealsStartingAllotments(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	svc := NewService(rng)

	game, _, err := svc.StartGame([]domain.Faction{
		domain.FactionAtreides, domain.FactionFremen, domain.FactionEmperor,
	}, false)
	if err != nil {
		t.Fatalf("start game error: %v", err)
	}

	atreides := game.Players[domain.FactionAtreides]
	if atreides.Spice != 10 || atreides.Reserves != 10 {
		t.Errorf("atreides allotment = %d spice / %d reserves, want 10/10", atreides.Spice, atreides.Reserves)
	}
	if got := game.ForcesAt(domain.FactionAtreides, domain.Location{Territory: domain.TerritoryArrakeen, Sector: 9}); got != 10 {
		t.Errorf("atreides forces in arrakeen = %d, want 10", got)
	}
	if len(atreides.Leaders) != 5 {
		t.Errorf("atreides leaders = %d, want 5", len(atreides.Leaders))
	}

	fremen := game.Players[domain.FactionFremen]
	if fremen.Spice != 3 {
		t.Errorf("fremen spice = %d, want 3", fremen.Spice)
	}
	if got := game.ForcesAt(domain.FactionFremen, domain.Location{Territory: domain.TerritorySietchTabr, Sector: 13}); got != 10 {
		t.Errorf("fremen forces in sietch tabr = %d, want 10", got)
	}

	emperor := game.Players[domain.FactionEmperor]
	if emperor.Reserves != 20 || len(emperor.OnBoard) != 0 {
		t.Errorf("emperor starts with %d reserves and %d stacks, want 20 and none", emperor.Reserves, len(emperor.OnBoard))
	}
}

func TestStartGameShufflesDecksIndependently(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	svc := NewService(rng)

	game, _, err := svc.StartGame([]domain.Faction{domain.FactionAtreides, domain.FactionHarkonnen}, true)
	if err != nil {
		t.Fatalf("start game error: %v", err)
	}

	if len(game.DeckA) != len(game.DeckB) {
		t.Fatalf("deck sizes differ: %d vs %d", len(game.DeckA), len(game.DeckB))
	}
	same := true
	for i := range game.DeckA {
		if game.DeckA[i] != game.DeckB[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("deck A and deck B share an identical order")
	}
	if len(game.DiscardA) != 0 || len(game.DiscardB) != 0 {
		t.Errorf("discards not empty at start")
	}
}

func TestStartGameValidation(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))

	if _, _, err := svc.StartGame([]domain.Faction{domain.FactionAtreides}, false); !errors.Is(err, ErrTooFewFactions) {
		t.Errorf("single faction: err = %v, want ErrTooFewFactions", err)
	}
	if _, _, err := svc.StartGame([]domain.Faction{domain.FactionAtreides, "zensunni"}, false); !errors.Is(err, ErrUnknownFaction) {
		t.Errorf("unknown faction: err = %v, want ErrUnknownFaction", err)
	}
	// A duplicated claim is one seat, not two.
	if _, _, err := svc.StartGame([]domain.Faction{domain.FactionAtreides, domain.FactionAtreides}, false); !errors.Is(err, ErrTooFewFactions) {
		t.Errorf("duplicate faction: err = %v, want ErrTooFewFactions", err)
	}
}

package domain

import "testing"

func newTwoFactionState() *GameState {
	g := &GameState{
		Factions: []Faction{FactionFremen, FactionAtreides},
		Players: map[Faction]*FactionState{
			FactionFremen:   {Faction: FactionFremen, Reserves: 10},
			FactionAtreides: {Faction: FactionAtreides, Reserves: 10},
		},
	}
	return g
}

func TestFormAndBreakAllianceSymmetric(t *testing.T) {
	g := newTwoFactionState()

	g.FormAlliance(FactionFremen, FactionAtreides)
	if g.AllyOf(FactionFremen) != FactionAtreides || g.AllyOf(FactionAtreides) != FactionFremen {
		t.Fatalf("alliance not symmetric: %s / %s", g.AllyOf(FactionFremen), g.AllyOf(FactionAtreides))
	}

	g.BreakAlliance(FactionAtreides)
	if g.AllyOf(FactionFremen) != "" || g.AllyOf(FactionAtreides) != "" {
		t.Fatalf("break did not clear both sides")
	}
}

func TestFormAllianceReplacesExisting(t *testing.T) {
	g := newTwoFactionState()
	g.Factions = append(g.Factions, FactionEmperor)
	g.Players[FactionEmperor] = &FactionState{Faction: FactionEmperor}

	g.FormAlliance(FactionFremen, FactionAtreides)
	g.FormAlliance(FactionFremen, FactionEmperor)

	if g.AllyOf(FactionAtreides) != "" {
		t.Fatalf("old partner still allied after re-pairing")
	}
	if g.AllyOf(FactionFremen) != FactionEmperor || g.AllyOf(FactionEmperor) != FactionFremen {
		t.Fatalf("new alliance not set on both sides")
	}
}

func TestMoveToCasualties(t *testing.T) {
	g := newTwoFactionState()
	loc := Location{Territory: TerritoryRedChasm, Sector: 6}
	other := Location{Territory: TerritoryOldGap, Sector: 9}
	g.PlaceForces(FactionAtreides, loc, 4)
	g.PlaceForces(FactionAtreides, other, 3)

	moved := g.MoveToCasualties(FactionAtreides, loc)
	if moved != 4 {
		t.Fatalf("moved %d forces, want 4", moved)
	}
	if g.Players[FactionAtreides].Casualties != 4 {
		t.Fatalf("casualties = %d, want 4", g.Players[FactionAtreides].Casualties)
	}
	if g.ForcesAt(FactionAtreides, other) != 3 {
		t.Fatalf("forces elsewhere were disturbed")
	}
}

func TestSpicePlacementAndRemoval(t *testing.T) {
	g := &GameState{}
	loc := Location{Territory: TerritoryCielagoSouth, Sector: 1}

	g.AddSpice(loc, 12)
	g.AddSpice(loc, 6)
	if got := g.SpiceAt(loc); got != 18 {
		t.Fatalf("spice at location = %d, want 18", got)
	}

	removed := g.RemoveSpiceAt(loc)
	if removed != 18 {
		t.Fatalf("removed %d spice, want 18", removed)
	}
	if g.SpiceAt(loc) != 0 {
		t.Fatalf("spice left on board after removal")
	}
}

func TestStormOccludes(t *testing.T) {
	redChasm, _ := LookupTerritory(TerritoryRedChasm)
	minorErg, _ := LookupTerritory(TerritoryTheMinorErg)
	imperial, _ := LookupTerritory(TerritoryImperialBasin)

	tests := []struct {
		name        string
		def         TerritoryDef
		sector      int
		stormSector int
		want        bool
	}{
		{"exact match", redChasm, 6, 6, true},
		{"storm elsewhere", redChasm, 6, 3, false},
		{"multi-sector, storm in another sector", minorErg, 7, 5, true},
		{"multi-sector, storm outside", minorErg, 7, 10, false},
		{"protected territory, exact match", imperial, 9, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StormOccludes(tt.def, tt.sector, tt.stormSector); got != tt.want {
				t.Errorf("StormOccludes() = %v, want %v", got, tt.want)
			}
		})
	}
}

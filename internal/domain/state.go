package domain

// Faction identifies one of the six great powers in the game.
type Faction string

const (
	FactionAtreides     Faction = "atreides"
	FactionHarkonnen    Faction = "harkonnen"
	FactionFremen       Faction = "fremen"
	FactionEmperor      Faction = "emperor"
	FactionGuild        Faction = "guild"
	FactionBeneGesserit Faction = "bene_gesserit"
)

// AllFactions returns every playable faction in canonical seating order.
func AllFactions() []Faction {
	return []Faction{
		FactionAtreides,
		FactionHarkonnen,
		FactionFremen,
		FactionEmperor,
		FactionGuild,
		FactionBeneGesserit,
	}
}

// Location is a territory/sector pair on the map.
type Location struct {
	Territory TerritoryID `json:"territory"`
	Sector    int         `json:"sector"`
}

// ForceStack is a group of one faction's forces standing in a single location.
type ForceStack struct {
	Location Location `json:"location"`
	Count    int      `json:"count"`
}

// Leader is a named leader disc. UsedIn is the territory where the leader
// fought this turn ("" if unused); leaders still committed to a territory
// after surviving combat are immune to Shai-Hulud.
type Leader struct {
	Name     string      `json:"name"`
	Strength int         `json:"strength"`
	Alive    bool        `json:"alive"`
	UsedIn   TerritoryID `json:"used_in"`
}

// FactionState holds one faction's board presence.
type FactionState struct {
	Faction    Faction      `json:"faction"`
	Ally       Faction      `json:"ally"` // "" when unallied
	Spice      int          `json:"spice"`
	Reserves   int          `json:"reserves"`
	Casualties int          `json:"casualties"`
	OnBoard    []ForceStack `json:"on_board"`
	Leaders    []Leader     `json:"leaders"`
}

// SpicePile is spice sitting on the board.
type SpicePile struct {
	Location Location `json:"location"`
	Amount   int      `json:"amount"`
}

// GameState is the authoritative game record shared by every phase.
type GameState struct {
	Turn          int  `json:"turn"`
	AdvancedRules bool `json:"advanced_rules"`
	StormSector   int  `json:"storm_sector"`

	Factions []Faction                 `json:"factions"`
	Players  map[Faction]*FactionState `json:"players"`

	DeckA    []Card `json:"deck_a"`
	DeckB    []Card `json:"deck_b"`
	DiscardA []Card `json:"discard_a"`
	DiscardB []Card `json:"discard_b"`

	SpiceOnBoard []SpicePile `json:"spice_on_board"`
	SpiceBank    int         `json:"spice_bank"`

	ShaiHuludCounter  int  `json:"shai_hulud_counter"`
	GreatWormAwakened bool `json:"great_worm_awakened"`
	NexusOpen         bool `json:"nexus_open"`
	FremenRideBonus   bool `json:"fremen_ride_bonus"`
}

// HasFaction reports whether the faction is seated in this game.
func (g *GameState) HasFaction(f Faction) bool {
	for _, seated := range g.Factions {
		if seated == f {
			return true
		}
	}
	return false
}

// AllyOf returns the ally of the given faction, or "" if unallied or unseated.
func (g *GameState) AllyOf(f Faction) Faction {
	if fs, ok := g.Players[f]; ok {
		return fs.Ally
	}
	return ""
}

// FormAlliance sets the symmetric ally references between a and b, clearing
// any alliance either side already had.
func (g *GameState) FormAlliance(a, b Faction) {
	g.BreakAlliance(a)
	g.BreakAlliance(b)
	if fa, ok := g.Players[a]; ok {
		fa.Ally = b
	}
	if fb, ok := g.Players[b]; ok {
		fb.Ally = a
	}
}

// BreakAlliance clears both sides of the faction's alliance, if any.
func (g *GameState) BreakAlliance(f Faction) {
	fs, ok := g.Players[f]
	if !ok || fs.Ally == "" {
		return
	}
	if partner, ok := g.Players[fs.Ally]; ok && partner.Ally == f {
		partner.Ally = ""
	}
	fs.Ally = ""
}

// ForcesAt returns the number of the faction's forces at the exact location.
func (g *GameState) ForcesAt(f Faction, loc Location) int {
	fs, ok := g.Players[f]
	if !ok {
		return 0
	}
	total := 0
	for _, stack := range fs.OnBoard {
		if stack.Location == loc {
			total += stack.Count
		}
	}
	return total
}

// MoveToCasualties removes all of the faction's forces at the location and
// adds them to its casualty pool. Returns the number moved.
func (g *GameState) MoveToCasualties(f Faction, loc Location) int {
	fs, ok := g.Players[f]
	if !ok {
		return 0
	}
	moved := 0
	kept := fs.OnBoard[:0]
	for _, stack := range fs.OnBoard {
		if stack.Location == loc {
			moved += stack.Count
			continue
		}
		kept = append(kept, stack)
	}
	fs.OnBoard = kept
	fs.Casualties += moved
	return moved
}

// PlaceForces puts forces from the faction's reserves onto the board.
func (g *GameState) PlaceForces(f Faction, loc Location, count int) {
	fs, ok := g.Players[f]
	if !ok || count <= 0 {
		return
	}
	if count > fs.Reserves {
		count = fs.Reserves
	}
	fs.Reserves -= count
	for i := range fs.OnBoard {
		if fs.OnBoard[i].Location == loc {
			fs.OnBoard[i].Count += count
			return
		}
	}
	fs.OnBoard = append(fs.OnBoard, ForceStack{Location: loc, Count: count})
}

// SpiceAt returns the spice amount at the exact location.
func (g *GameState) SpiceAt(loc Location) int {
	for _, pile := range g.SpiceOnBoard {
		if pile.Location == loc {
			return pile.Amount
		}
	}
	return 0
}

// AddSpice places spice on the board, merging with an existing pile.
func (g *GameState) AddSpice(loc Location, amount int) {
	if amount <= 0 {
		return
	}
	for i := range g.SpiceOnBoard {
		if g.SpiceOnBoard[i].Location == loc {
			g.SpiceOnBoard[i].Amount += amount
			return
		}
	}
	g.SpiceOnBoard = append(g.SpiceOnBoard, SpicePile{Location: loc, Amount: amount})
}

// RemoveSpiceAt takes all spice off the board at the location and returns
// the amount removed. The caller decides where it goes (usually the bank).
func (g *GameState) RemoveSpiceAt(loc Location) int {
	removed := 0
	kept := g.SpiceOnBoard[:0]
	for _, pile := range g.SpiceOnBoard {
		if pile.Location == loc {
			removed += pile.Amount
			continue
		}
		kept = append(kept, pile)
	}
	g.SpiceOnBoard = kept
	return removed
}

package domain

// CardKind distinguishes the two kinds of spice deck cards.
type CardKind string

const (
	// CardTerritory places spice at a fixed map location when revealed.
	CardTerritory CardKind = "territory"
	// CardShaiHulud summons the worm when revealed.
	CardShaiHulud CardKind = "shai_hulud"
)

// DeckType names one of the two independent spice decks.
type DeckType string

const (
	DeckA DeckType = "A"
	DeckB DeckType = "B"
)

// Card is a single spice deck card. Territory cards resolve to a
// SpiceCardDef via LookupSpiceCard; Shai-Hulud cards carry no data.
type Card struct {
	DefinitionID string   `json:"definition_id"`
	Kind         CardKind `json:"kind"`
}

// ShaiHuludCard returns a worm card. Multiple copies of the same definition
// may sit in a deck; they compare equal, which is fine for pile bookkeeping.
func ShaiHuludCard() Card {
	return Card{DefinitionID: "shai-hulud", Kind: CardShaiHulud}
}

// SpiceCardDef is the static definition a territory card resolves to.
type SpiceCardDef struct {
	Territory TerritoryID
	Sector    int
	Amount    int
}

// Location returns the map location the card's spice blow lands on.
func (d SpiceCardDef) Location() Location {
	return Location{Territory: d.Territory, Sector: d.Sector}
}

// spiceCardDefs maps card definition IDs to their spice blow data. Amounts
// and sectors follow the printed spice deck.
var spiceCardDefs = map[string]SpiceCardDef{
	"cielago-north":       {Territory: TerritoryCielagoNorth, Sector: 2, Amount: 8},
	"cielago-south":       {Territory: TerritoryCielagoSouth, Sector: 1, Amount: 12},
	"broken-land":         {Territory: TerritoryBrokenLand, Sector: 11, Amount: 8},
	"hagga-basin":         {Territory: TerritoryHaggaBasin, Sector: 12, Amount: 6},
	"old-gap":             {Territory: TerritoryOldGap, Sector: 9, Amount: 6},
	"red-chasm":           {Territory: TerritoryRedChasm, Sector: 6, Amount: 8},
	"rock-outcroppings":   {Territory: TerritoryRockOutcroppings, Sector: 13, Amount: 6},
	"sihaya-ridge":        {Territory: TerritorySihayaRidge, Sector: 8, Amount: 6},
	"south-mesa":          {Territory: TerritorySouthMesa, Sector: 4, Amount: 10},
	"the-great-flat":      {Territory: TerritoryTheGreatFlat, Sector: 14, Amount: 10},
	"funeral-plain":       {Territory: TerritoryFuneralPlain, Sector: 14, Amount: 6},
	"the-minor-erg":       {Territory: TerritoryTheMinorErg, Sector: 7, Amount: 8},
	"wind-pass-north":     {Territory: TerritoryWindPassNorth, Sector: 16, Amount: 6},
	"habbanya-erg":        {Territory: TerritoryHabbanyaErg, Sector: 15, Amount: 8},
	"habbanya-ridge-flat": {Territory: TerritoryHabbanyaRidgeFlat, Sector: 17, Amount: 10},
	"polar-sink":          {Territory: TerritoryPolarSink, Sector: 0, Amount: 6},
	"imperial-basin":      {Territory: TerritoryImperialBasin, Sector: 9, Amount: 6},
}

// LookupSpiceCard resolves a territory card definition ID.
func LookupSpiceCard(definitionID string) (SpiceCardDef, bool) {
	def, ok := spiceCardDefs[definitionID]
	return def, ok
}

// wormCardsPerDeck is the number of Shai-Hulud cards shuffled into each deck.
const wormCardsPerDeck = 6

// standardDeckDefs lists the territory card definition IDs that make up a
// standard spice deck. Polar Sink and Imperial Basin cards exist only in
// promotional deck variants and are not dealt here.
var standardDeckDefs = []string{
	"cielago-north",
	"cielago-south",
	"broken-land",
	"hagga-basin",
	"old-gap",
	"red-chasm",
	"rock-outcroppings",
	"sihaya-ridge",
	"south-mesa",
	"the-great-flat",
	"funeral-plain",
	"the-minor-erg",
	"wind-pass-north",
	"habbanya-erg",
	"habbanya-ridge-flat",
}

// NewSpiceDeck returns an ordered, unshuffled spice deck: every standard
// territory card plus the deck's worm cards.
func NewSpiceDeck() []Card {
	deck := make([]Card, 0, len(standardDeckDefs)+wormCardsPerDeck)
	for _, id := range standardDeckDefs {
		deck = append(deck, Card{DefinitionID: id, Kind: CardTerritory})
	}
	for i := 0; i < wormCardsPerDeck; i++ {
		deck = append(deck, ShaiHuludCard())
	}
	return deck
}

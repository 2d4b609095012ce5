package domain

// TerritoryID names a map territory.
type TerritoryID string

const (
	TerritoryCielagoNorth      TerritoryID = "cielago_north"
	TerritoryCielagoSouth      TerritoryID = "cielago_south"
	TerritoryBrokenLand        TerritoryID = "broken_land"
	TerritoryHaggaBasin        TerritoryID = "hagga_basin"
	TerritoryOldGap            TerritoryID = "old_gap"
	TerritoryRedChasm          TerritoryID = "red_chasm"
	TerritoryRockOutcroppings  TerritoryID = "rock_outcroppings"
	TerritorySihayaRidge       TerritoryID = "sihaya_ridge"
	TerritorySouthMesa         TerritoryID = "south_mesa"
	TerritoryTheGreatFlat      TerritoryID = "the_great_flat"
	TerritoryFuneralPlain      TerritoryID = "funeral_plain"
	TerritoryTheMinorErg       TerritoryID = "the_minor_erg"
	TerritoryWindPassNorth     TerritoryID = "wind_pass_north"
	TerritoryHabbanyaErg       TerritoryID = "habbanya_erg"
	TerritoryHabbanyaRidgeFlat TerritoryID = "habbanya_ridge_flat"
	TerritoryPolarSink         TerritoryID = "polar_sink"
	TerritoryImperialBasin     TerritoryID = "imperial_basin"
	TerritoryArrakeen          TerritoryID = "arrakeen"
	TerritoryCarthag           TerritoryID = "carthag"
	TerritorySietchTabr        TerritoryID = "sietch_tabr"
	TerritoryTueksSietch       TerritoryID = "tueks_sietch"
)

// StormSectors is the number of sectors the storm cycles through.
const StormSectors = 18

// TerritoryDef is the static map data for a territory.
//
// Sectors lists every sector the territory occupies. SpiceEligible marks
// sand territories that can receive a spice blow; cities, sietches and the
// polar sink cannot. StormProtected territories sit behind the Shield Wall
// and ignore the storm entirely.
type TerritoryDef struct {
	ID             TerritoryID
	Sectors        []int
	SpiceEligible  bool
	StormProtected bool
}

var territoryDefs = map[TerritoryID]TerritoryDef{
	TerritoryCielagoNorth:      {ID: TerritoryCielagoNorth, Sectors: []int{0, 1, 2}, SpiceEligible: true},
	TerritoryCielagoSouth:      {ID: TerritoryCielagoSouth, Sectors: []int{1, 2}, SpiceEligible: true},
	TerritoryBrokenLand:        {ID: TerritoryBrokenLand, Sectors: []int{10, 11}, SpiceEligible: true},
	TerritoryHaggaBasin:        {ID: TerritoryHaggaBasin, Sectors: []int{11, 12}, SpiceEligible: true},
	TerritoryOldGap:            {ID: TerritoryOldGap, Sectors: []int{8, 9, 10}, SpiceEligible: true},
	TerritoryRedChasm:          {ID: TerritoryRedChasm, Sectors: []int{6}, SpiceEligible: true},
	TerritoryRockOutcroppings:  {ID: TerritoryRockOutcroppings, Sectors: []int{12, 13}, SpiceEligible: true},
	TerritorySihayaRidge:       {ID: TerritorySihayaRidge, Sectors: []int{8}, SpiceEligible: true},
	TerritorySouthMesa:         {ID: TerritorySouthMesa, Sectors: []int{3, 4, 5}, SpiceEligible: true},
	TerritoryTheGreatFlat:      {ID: TerritoryTheGreatFlat, Sectors: []int{14}, SpiceEligible: true},
	TerritoryFuneralPlain:      {ID: TerritoryFuneralPlain, Sectors: []int{14}, SpiceEligible: true},
	TerritoryTheMinorErg:       {ID: TerritoryTheMinorErg, Sectors: []int{4, 5, 6, 7}, SpiceEligible: true},
	TerritoryWindPassNorth:     {ID: TerritoryWindPassNorth, Sectors: []int{16, 17}, SpiceEligible: true},
	TerritoryHabbanyaErg:       {ID: TerritoryHabbanyaErg, Sectors: []int{15, 16}, SpiceEligible: true},
	TerritoryHabbanyaRidgeFlat: {ID: TerritoryHabbanyaRidgeFlat, Sectors: []int{16, 17}, SpiceEligible: true},
	TerritoryPolarSink:         {ID: TerritoryPolarSink, Sectors: []int{0}, SpiceEligible: false, StormProtected: true},
	TerritoryImperialBasin:     {ID: TerritoryImperialBasin, Sectors: []int{8, 9, 10}, SpiceEligible: true, StormProtected: true},
	TerritoryArrakeen:          {ID: TerritoryArrakeen, Sectors: []int{9}, SpiceEligible: false, StormProtected: true},
	TerritoryCarthag:           {ID: TerritoryCarthag, Sectors: []int{10}, SpiceEligible: false, StormProtected: true},
	TerritorySietchTabr:        {ID: TerritorySietchTabr, Sectors: []int{13}, SpiceEligible: false},
	TerritoryTueksSietch:       {ID: TerritoryTueksSietch, Sectors: []int{4}, SpiceEligible: false},
}

// LookupTerritory resolves a territory ID to its static definition.
func LookupTerritory(id TerritoryID) (TerritoryDef, bool) {
	def, ok := territoryDefs[id]
	return def, ok
}

// StormOccludes reports whether the storm blocks spice placement at the
// given sector of the territory. Storm-protected territories are never
// occluded. Otherwise the storm occludes on an exact sector match, or, for
// territories spanning several sectors, when it sits in any of them.
func StormOccludes(def TerritoryDef, sector, stormSector int) bool {
	if def.StormProtected {
		return false
	}
	if sector == stormSector {
		return true
	}
	if len(def.Sectors) > 1 {
		for _, s := range def.Sectors {
			if s == stormSector {
				return true
			}
		}
	}
	return false
}

package brain

import (
	"testing"

	"arrakis/internal/domain"
)

func TestMemoryTracksWorms(t *testing.T) {
	m := NewMemory()
	if m.WormSightings != 0 {
		t.Fatalf("fresh memory has %d sightings", m.WormSightings)
	}

	m.RecordWorm(nil)
	loc := domain.Location{Territory: domain.TerritoryRedChasm, Sector: 6}
	m.RecordWorm(&loc)

	if m.WormSightings != 2 {
		t.Errorf("sightings = %d, want 2", m.WormSightings)
	}
	if m.LastDevourLocation == nil || *m.LastDevourLocation != loc {
		t.Errorf("last devour = %+v, want %+v", m.LastDevourLocation, loc)
	}

	// The stored location is a copy, not an alias.
	loc.Sector = 1
	if m.LastDevourLocation.Sector != 6 {
		t.Errorf("stored location aliased caller's value")
	}
}

func TestMemoryAllianceBookkeeping(t *testing.T) {
	m := NewMemory()
	m.RecordAllianceFormed(domain.FactionAtreides, domain.FactionFremen)

	if m.AlliedWith[domain.FactionAtreides] != domain.FactionFremen {
		t.Errorf("atreides ally = %q", m.AlliedWith[domain.FactionAtreides])
	}
	if m.AlliedWith[domain.FactionFremen] != domain.FactionAtreides {
		t.Errorf("fremen ally = %q", m.AlliedWith[domain.FactionFremen])
	}
	if !m.Trustworthy(domain.FactionAtreides) {
		t.Errorf("atreides marked untrustworthy before any break")
	}

	m.RecordAllianceBroken(domain.FactionAtreides, domain.FactionFremen)
	if _, ok := m.AlliedWith[domain.FactionAtreides]; ok {
		t.Errorf("atreides still allied after break")
	}
	if _, ok := m.AlliedWith[domain.FactionFremen]; ok {
		t.Errorf("fremen still allied after break")
	}
	if m.Trustworthy(domain.FactionAtreides) {
		t.Errorf("alliance breaker still trustworthy")
	}
	if !m.Trustworthy(domain.FactionFremen) {
		t.Errorf("abandoned partner charged for the break")
	}
}

func TestMemoryReset(t *testing.T) {
	m := NewMemory()
	m.RecordWorm(&domain.Location{Territory: domain.TerritoryCielagoSouth, Sector: 2})
	m.RecordAllianceBroken(domain.FactionGuild, domain.FactionEmperor)

	m.Reset()

	if m.WormSightings != 0 || m.LastDevourLocation != nil {
		t.Errorf("worm history survived reset")
	}
	if len(m.BrokenBy) != 0 || len(m.AlliedWith) != 0 {
		t.Errorf("alliance history survived reset")
	}
	if !m.Trustworthy(domain.FactionGuild) {
		t.Errorf("guild untrustworthy after reset")
	}
}

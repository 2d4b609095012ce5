// Package brain holds the private knowledge a bot accumulates over a game.
package brain

import "arrakis/internal/domain"

// GameMemory stores the bot's private view of the game: who has proven an
// unreliable ally, and how dangerous the desert has been so far.
type GameMemory struct {
	// BrokenBy counts how often each faction broke an alliance.
	BrokenBy map[domain.Faction]int
	// WormSightings counts Shai-Hulud appearances observed this game.
	WormSightings int
	// LastDevourLocation is where the worm last struck, if anywhere.
	LastDevourLocation *domain.Location
	// AlliedWith tracks current alliances as observed from events.
	AlliedWith map[domain.Faction]domain.Faction
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{
		BrokenBy:   make(map[domain.Faction]int),
		AlliedWith: make(map[domain.Faction]domain.Faction),
	}
}

// Reset clears the memory for a new game.
func (m *GameMemory) Reset() {
	m.BrokenBy = make(map[domain.Faction]int)
	m.AlliedWith = make(map[domain.Faction]domain.Faction)
	m.WormSightings = 0
	m.LastDevourLocation = nil
}

// RecordWorm notes a worm appearance and, when it devoured, the location.
func (m *GameMemory) RecordWorm(devours *domain.Location) {
	m.WormSightings++
	if devours != nil {
		loc := *devours
		m.LastDevourLocation = &loc
	}
}

// RecordAllianceFormed updates the observed alliance map.
func (m *GameMemory) RecordAllianceFormed(a, b domain.Faction) {
	m.AlliedWith[a] = b
	m.AlliedWith[b] = a
}

// RecordAllianceBroken updates the observed alliance map and charges the
// breaking faction an untrustworthiness mark.
func (m *GameMemory) RecordAllianceBroken(breaker, partner domain.Faction) {
	delete(m.AlliedWith, breaker)
	delete(m.AlliedWith, partner)
	m.BrokenBy[breaker]++
}

// Trustworthy reports whether a faction has never broken an alliance.
func (m *GameMemory) Trustworthy(f domain.Faction) bool {
	return m.BrokenBy[f] == 0
}

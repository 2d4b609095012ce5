package app

import (
	"errors"
	"math/rand"
	"time"

	"arrakis/internal/domain"
)

// Service contains game-setup use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNotOwner       = errors.New("actor is not match owner")
	ErrNotInLobby     = errors.New("match not in lobby")
	ErrTooFewFactions = errors.New("not enough factions to start")
	ErrUnknownFaction = errors.New("faction not found")
	ErrFactionTaken   = errors.New("faction already claimed")
)

// factionSetup is the fixed at-start allotment for one faction.
type factionSetup struct {
	reserves int
	spice    int
	onBoard  []domain.ForceStack
	leaders  []domain.Leader
}

func leader(name string, strength int) domain.Leader {
	return domain.Leader{Name: name, Strength: strength, Alive: true}
}

var startingSetups = map[domain.Faction]factionSetup{
	domain.FactionAtreides: {
		reserves: 10, spice: 10,
		onBoard: []domain.ForceStack{{Location: domain.Location{Territory: domain.TerritoryArrakeen, Sector: 9}, Count: 10}},
		leaders: []domain.Leader{
			leader("Duncan Idaho", 2), leader("Dr. Wellington Yueh", 1), leader("Gurney Halleck", 4),
			leader("Lady Jessica", 5), leader("Thufir Hawat", 5),
		},
	},
	domain.FactionHarkonnen: {
		reserves: 10, spice: 10,
		onBoard: []domain.ForceStack{{Location: domain.Location{Territory: domain.TerritoryCarthag, Sector: 10}, Count: 10}},
		leaders: []domain.Leader{
			leader("Beast Rabban", 4), leader("Captain Iakin Nefud", 2), leader("Feyd-Rautha", 6),
			leader("Piter de Vries", 3), leader("Umman Kudu", 1),
		},
	},
	domain.FactionFremen: {
		reserves: 10, spice: 3,
		onBoard: []domain.ForceStack{{Location: domain.Location{Territory: domain.TerritorySietchTabr, Sector: 13}, Count: 10}},
		leaders: []domain.Leader{
			leader("Chani", 6), leader("Jamis", 2), leader("Otheym", 5),
			leader("Shadout Mapes", 3), leader("Stilgar", 7),
		},
	},
	domain.FactionEmperor: {
		reserves: 20, spice: 10,
		leaders: []domain.Leader{
			leader("Bashar", 2), leader("Burseg", 3), leader("Caid", 3),
			leader("Captain Aramsham", 5), leader("Hasimir Fenring", 6),
		},
	},
	domain.FactionGuild: {
		reserves: 15, spice: 5,
		onBoard: []domain.ForceStack{{Location: domain.Location{Territory: domain.TerritoryTueksSietch, Sector: 4}, Count: 5}},
		leaders: []domain.Leader{
			leader("Esmar Tuek", 3), leader("Guild Representative", 1), leader("Master Bewt", 3),
			leader("Soo-Soo Sook", 2), leader("Staban Tuek", 5),
		},
	},
	domain.FactionBeneGesserit: {
		reserves: 19, spice: 5,
		onBoard: []domain.ForceStack{{Location: domain.Location{Territory: domain.TerritoryPolarSink, Sector: 0}, Count: 1}},
		leaders: []domain.Leader{
			leader("Alia", 5), leader("Lady Margot Fenring", 5), leader("Mother Ramallo", 5),
			leader("Princess Irulan", 5), leader("Wanna Yueh", 5),
		},
	},
}

// StartGame builds the authoritative game state for the claimed factions:
// both spice decks shuffled independently, starting forces, leaders, spice,
// and a random storm sector. Factions are seated in canonical order
// regardless of claim order.
func (s *Service) StartGame(claimed []domain.Faction, advancedRules bool) (*domain.GameState, []Event, error) {
	seated := make(map[domain.Faction]bool, len(claimed))
	for _, f := range claimed {
		if _, ok := startingSetups[f]; !ok {
			return nil, nil, ErrUnknownFaction
		}
		seated[f] = true
	}
	if len(seated) < MinFactionsToStartGame {
		return nil, nil, ErrTooFewFactions
	}

	game := &domain.GameState{
		Turn:          1,
		AdvancedRules: advancedRules,
		StormSector:   s.rng.Intn(domain.StormSectors),
		Players:       make(map[domain.Faction]*domain.FactionState, len(seated)),
		DeckA:         domain.ShuffleDeck(domain.NewSpiceDeck(), s.rng),
		DeckB:         domain.ShuffleDeck(domain.NewSpiceDeck(), s.rng),
	}

	for _, f := range domain.AllFactions() {
		if !seated[f] {
			continue
		}
		setup := startingSetups[f]
		game.Factions = append(game.Factions, f)
		game.Players[f] = &domain.FactionState{
			Faction:  f,
			Spice:    setup.spice,
			Reserves: setup.reserves,
			OnBoard:  append([]domain.ForceStack(nil), setup.onBoard...),
			Leaders:  append([]domain.Leader(nil), setup.leaders...),
		}
	}

	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Turn:          game.Turn,
			StormSector:   game.StormSector,
			AdvancedRules: game.AdvancedRules,
			Factions:      game.Factions,
		},
	}}

	return game, events, nil
}

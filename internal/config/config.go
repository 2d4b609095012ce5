package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds the server-side rule and pacing knobs.
type GameConfig struct {
	// AdvancedRules enables the second spice deck and the richer rule set.
	AdvancedRules bool `json:"advanced_rules"`
	// GreatWormVariant enables the one-shot world-state flip when enough
	// worms have surfaced.
	GreatWormVariant bool `json:"great_worm_variant"`
	// GreatWormThreshold is the worm count that triggers the variant.
	GreatWormThreshold int `json:"great_worm_threshold"`

	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before seating
	// agents at unclaimed factions in a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// BotMinDelayTicks/BotMaxDelayTicks bound the tick delay before an agent
	// answers a pending decision, so bot play reads at a human pace.
	BotMinDelayTicks int `json:"bot_min_delay_ticks"`
	BotMaxDelayTicks int `json:"bot_max_delay_ticks"`
	// DefaultBotDifficulty is used for agents outside the identity pool.
	DefaultBotDifficulty string `json:"default_bot_difficulty"`

	// ReplayTokenIssuer/ReplayTokenSecret configure replay token signing.
	// The secret may also come from the RUNTIME env table.
	ReplayTokenIssuer string `json:"replay_token_issuer"`
	ReplayTokenSecret string `json:"replay_token_secret"`
	// BotIdentitiesPath points at the agent identity pool JSON; empty selects
	// the built-in pool.
	BotIdentitiesPath string `json:"bot_identities_path"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

func defaults() *GameConfig {
	return &GameConfig{
		AdvancedRules:           true,
		GreatWormVariant:        false,
		GreatWormThreshold:      3,
		TurnDurationSeconds:     45,
		BotAutoFillDelaySeconds: 15,
		BotMinDelayTicks:        2,
		BotMaxDelayTicks:        6,
		DefaultBotDifficulty:    "easy",
		ReplayTokenIssuer:       "arrakis",
	}
}

// LoadGameConfig loads the game configuration from the given path. Missing
// fields keep their defaults; an empty path keeps all defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c := defaults()
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("failed to read game config: %w", err)
				return
			}
			if err := json.Unmarshal(data, c); err != nil {
				loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
				return
			}
		}
		if c.GreatWormThreshold <= 0 {
			c.GreatWormThreshold = 3
		}
		if c.BotMaxDelayTicks < c.BotMinDelayTicks {
			c.BotMaxDelayTicks = c.BotMinDelayTicks
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration. Callers before a
// successful load get the defaults.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return defaults()
	}
	return cfg
}

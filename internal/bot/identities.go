package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the bot account pool. The pool is loaded from
// a JSON file at startup; when no file is configured a built-in pool of
// desert-flavored names is used instead.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

var fallbackIdentities = []BotIdentity{
	{UserID: "bot-stilgar", Username: "naib_stilgar", DisplayName: "Stilgar", Difficulty: "hard"},
	{UserID: "bot-tuek", Username: "smuggler_tuek", DisplayName: "Esmar Tuek", Difficulty: "medium"},
	{UserID: "bot-piter", Username: "mentat_piter", DisplayName: "Piter", Difficulty: "medium"},
	{UserID: "bot-bashar", Username: "sardaukar_bashar", DisplayName: "The Bashar", Difficulty: "easy"},
	{UserID: "bot-edric", Username: "guild_agent", DisplayName: "Edric", Difficulty: "easy"},
	{UserID: "bot-ramallo", Username: "reverend_ramallo", DisplayName: "Ramallo", Difficulty: "hard"},
}

var (
	identityMu    sync.RWMutex
	botIdentities []BotIdentity
	botIDMap      map[string]bool
	botDisplayMap map[string]string
	botConfigMap  map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path. An empty path
// selects the built-in pool.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		if path == "" {
			botIdentities = fallbackIdentities
		} else {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("failed to read bot identities: %w", err)
				return
			}
			if err := json.Unmarshal(data, &botIdentities); err != nil {
				loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
				return
			}
		}

		identityMu.Lock()
		defer identityMu.Unlock()
		botIDMap = make(map[string]bool)
		botDisplayMap = make(map[string]string)
		botConfigMap = make(map[string]BotIdentity)
		for _, identity := range botIdentities {
			if identity.UserID != "" {
				mapIdentity(identity)
			}
		}
	})
	return loadErr
}

// mapIdentity records an identity in the lookup maps. Callers hold identityMu.
func mapIdentity(identity BotIdentity) {
	botIDMap[identity.UserID] = true
	botDisplayMap[identity.UserID] = identity.DisplayName
	botConfigMap[identity.UserID] = identity
}

// RegisterIdentity adds an identity to the lookup maps at runtime. The match
// handler registers synthesized agents through it so IsBot and LevelFor
// recognize seats filled outside the provisioned pool.
func RegisterIdentity(identity BotIdentity) {
	if identity.UserID == "" {
		return
	}
	identityMu.Lock()
	defer identityMu.Unlock()
	if botIDMap == nil {
		botIDMap = make(map[string]bool)
		botDisplayMap = make(map[string]string)
		botConfigMap = make(map[string]BotIdentity)
	}
	mapIdentity(identity)
}

// ProvisionBots ensures the bot accounts exist in the Nakama database and
// carry the is_bot metadata so clients can render them distinctly.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	provisionOnce.Do(func() {
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, authErr := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if authErr != nil {
				logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, authErr)
				continue
			}

			identityMu.Lock()
			identity.UserID = userID
			identity.Username = username
			mapIdentity(*identity)
			identityMu.Unlock()

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			if authErr = nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); authErr != nil {
				logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, authErr)
			}

			logger.Info("ProvisionBots: bot %s (%s) is ready, difficulty %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
	return nil
}

// GetBotConfig returns the full identity configuration for a bot user ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identityMu.RLock()
	defer identityMu.RUnlock()
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotDisplayName returns the display name for a bot ID, or an empty
// string if the ID is not a bot.
func GetBotDisplayName(userID string) string {
	identityMu.RLock()
	defer identityMu.RUnlock()
	if botDisplayMap == nil {
		return ""
	}
	return botDisplayMap[userID]
}

// GetBotIdentity returns an identity by index (mod pool size). Pool entries
// that have not been provisioned carry an empty UserID; callers synthesize
// and register their own ID in that case.
func GetBotIdentity(index int) BotIdentity {
	identityMu.RLock()
	defer identityMu.RUnlock()
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("Agent %d", index),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// LevelFor maps a bot user ID to its configured strategy level. Unknown
// IDs default to the passive tier.
func LevelFor(userID string) BotLevel {
	identityMu.RLock()
	defer identityMu.RUnlock()
	if config, ok := botConfigMap[userID]; ok {
		return ParseBotLevel(config.Difficulty)
	}
	return BotLevelPassive
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	identityMu.RLock()
	defer identityMu.RUnlock()
	if botIDMap == nil {
		return false
	}
	return botIDMap[userID]
}

// AllBotIDs returns every provisioned bot user ID.
func AllBotIDs() []string {
	identityMu.RLock()
	defer identityMu.RUnlock()
	ids := make([]string, 0, len(botIDMap))
	for id := range botIDMap {
		ids = append(ids, id)
	}
	return ids
}

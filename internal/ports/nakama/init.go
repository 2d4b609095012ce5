package nakama

import (
	"context"
	"database/sql"

	"arrakis/internal/bot"
	"arrakis/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and match handlers for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("InitModule: could not load game config, using defaults: %v", err)
	}

	// Bot accounts must exist before any match seats an agent: a pool entry
	// without a user ID is invisible to IsBot, and its seat would never act.
	cfg := config.GetGameConfig()
	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		logger.Warn("InitModule: could not load bot identities: %v", err)
	}
	if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: could not provision bot accounts: %v", err)
	} else {
		logger.Info("InitModule: %d bot accounts ready", len(bot.AllBotIDs()))
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameArrakis, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("Arrakis Go module loaded.")
	return nil
}

package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"arrakis/internal/app"
	"arrakis/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// replayTokenService is set lazily from runtime env and config; tests may
// inject their own instance.
var replayTokenService *app.ReplayTokenService

// RpcGetReplayToken handles the RPC call from the client to obtain a signed
// replay token for a finished match.
// Payload: {"match_id": "...", "participant": true|false}
func RpcGetReplayToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("unauthenticated", 16) // UNAUTHENTICATED
	}

	var req struct {
		MatchID     string `json:"match_id"`
		Participant bool   `json:"participant"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
	}
	if req.MatchID == "" {
		return "", runtime.NewError("match_id required", 3)
	}

	if replayTokenService == nil {
		cfg := config.GetGameConfig()
		secret := cfg.ReplayTokenSecret
		if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
			if s := env["replay_token_secret"]; s != "" {
				secret = s
			}
		}
		if secret == "" {
			logger.Error("RpcGetReplayToken: no replay token secret configured")
			return "", runtime.NewError("replay tokens unavailable", 13) // INTERNAL
		}
		replayTokenService = app.NewReplayTokenService(secret, cfg.ReplayTokenIssuer, 0)
	}

	role := app.ReplayRoleViewer
	if req.Participant {
		role = app.ReplayRolePlayer
	}

	token, err := replayTokenService.GenerateToken(userID, req.MatchID, role)
	if err != nil {
		logger.Error("RpcGetReplayToken: failed to generate token: %v", err)
		return "", runtime.NewError("internal error", 13)
	}

	res := map[string]string{"token": token}
	resBytes, _ := json.Marshal(res)
	return string(resBytes), nil
}

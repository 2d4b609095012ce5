package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"arrakis/internal/app"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/runtime"
)

type replayTokenResponse struct {
	Token string `json:"token"`
}

func TestRpcGetReplayToken_GeneratesValidClaims(t *testing.T) {
	t.Cleanup(func() { replayTokenService = nil })

	replayTokenService = app.NewReplayTokenService("test-secret", "issuer", 0)

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user123")
	payload := `{"match_id":"match-42","participant":true}`

	raw1, err := RpcGetReplayToken(ctx, noopLogger{}, nil, nil, payload)
	if err != nil {
		t.Fatalf("RpcGetReplayToken error: %v", err)
	}
	token1 := parseTokenResponse(t, raw1)

	raw2, err := RpcGetReplayToken(ctx, noopLogger{}, nil, nil, payload)
	if err != nil {
		t.Fatalf("RpcGetReplayToken error: %v", err)
	}
	token2 := parseTokenResponse(t, raw2)

	claims1 := parseReplayTokenClaims(t, token1, "test-secret")
	claims2 := parseReplayTokenClaims(t, token2, "test-secret")

	assertClaim(t, claims1, "iss", "issuer")
	assertClaim(t, claims1, "sub", "user123")
	assertClaim(t, claims1, "mid", "match-42")
	assertClaim(t, claims1, "role", app.ReplayRolePlayer)

	// The jti nonce must differ between tokens.
	jti1, ok1 := claims1["jti"]
	jti2, ok2 := claims2["jti"]
	if !ok1 || !ok2 {
		t.Fatal("jti claim missing")
	}
	if jti1 == jti2 {
		t.Fatalf("jti not unique across tokens: %v", jti1)
	}
}

func TestRpcGetReplayToken_DefaultsToViewerRole(t *testing.T) {
	t.Cleanup(func() { replayTokenService = nil })

	replayTokenService = app.NewReplayTokenService("test-secret", "issuer", 0)

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user123")
	raw, err := RpcGetReplayToken(ctx, noopLogger{}, nil, nil, `{"match_id":"match-42"}`)
	if err != nil {
		t.Fatalf("RpcGetReplayToken error: %v", err)
	}

	claims := parseReplayTokenClaims(t, parseTokenResponse(t, raw), "test-secret")
	assertClaim(t, claims, "role", app.ReplayRoleViewer)
}

func TestRpcGetReplayToken_RequiresMatchID(t *testing.T) {
	t.Cleanup(func() { replayTokenService = nil })
	replayTokenService = app.NewReplayTokenService("test-secret", "issuer", 0)

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user123")
	if _, err := RpcGetReplayToken(ctx, noopLogger{}, nil, nil, `{}`); err == nil {
		t.Fatal("expected error for missing match_id")
	}
}

func TestRpcGetReplayToken_RequiresAuthentication(t *testing.T) {
	t.Cleanup(func() { replayTokenService = nil })
	replayTokenService = app.NewReplayTokenService("test-secret", "issuer", 0)

	if _, err := RpcGetReplayToken(context.Background(), noopLogger{}, nil, nil, `{"match_id":"m"}`); err == nil {
		t.Fatal("expected error for missing user id")
	}
}

func parseTokenResponse(t *testing.T, raw string) string {
	t.Helper()
	var resp replayTokenResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("failed to unmarshal RPC response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("RPC response missing token")
	}
	return resp.Token
}

func parseReplayTokenClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func assertClaim(t *testing.T, claims jwt.MapClaims, name, want string) {
	t.Helper()
	value, ok := claims[name]
	if !ok {
		t.Fatalf("missing %s claim", name)
	}
	got, ok := value.(string)
	if !ok {
		t.Fatalf("%s claim is not a string", name)
	}
	if got != want {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

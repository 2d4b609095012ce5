package bot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"
)

// resetIdentityPool clears the package-level pool so each test can load its
// own fixture, restoring the prior state afterwards.
func resetIdentityPool(t *testing.T) {
	t.Helper()
	identityMu.Lock()
	prevIdentities, prevIDs, prevNames, prevConfigs := botIdentities, botIDMap, botDisplayMap, botConfigMap
	botIdentities, botIDMap, botDisplayMap, botConfigMap = nil, nil, nil, nil
	identityMu.Unlock()
	loadOnce = sync.Once{}
	provisionOnce = sync.Once{}
	loadErr = nil

	t.Cleanup(func() {
		identityMu.Lock()
		botIdentities, botIDMap, botDisplayMap, botConfigMap = prevIdentities, prevIDs, prevNames, prevConfigs
		identityMu.Unlock()
		loadOnce = sync.Once{}
		provisionOnce = sync.Once{}
		loadErr = nil
	})
}

func writePoolFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "identities.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write pool file: %v", err)
	}
	return path
}

// quietLogger satisfies runtime.Logger for provisioning calls under test.
type quietLogger struct{}

func (quietLogger) Debug(string, ...interface{})                 {}
func (quietLogger) Info(string, ...interface{})                  {}
func (quietLogger) Warn(string, ...interface{})                  {}
func (quietLogger) Error(string, ...interface{})                 {}
func (quietLogger) WithField(string, interface{}) runtime.Logger { return quietLogger{} }
func (quietLogger) WithFields(map[string]interface{}) runtime.Logger {
	return quietLogger{}
}
func (quietLogger) Fields() map[string]interface{} { return nil }

// fakeNakama stubs the two account calls provisioning makes. Everything
// else panics through the embedded nil interface, which no test reaches.
type fakeNakama struct {
	runtime.NakamaModule
	authenticated []string
	updated       []string
}

func (f *fakeNakama) AuthenticateDevice(ctx context.Context, id, username string, create bool) (string, string, bool, error) {
	f.authenticated = append(f.authenticated, id)
	return "uid-" + id, username, true, nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarURL string) error {
	f.updated = append(f.updated, userID)
	return nil
}

func TestProvisionBotsRegistersDevicePool(t *testing.T) {
	resetIdentityPool(t)
	path := writePoolFile(t, `[
		{"device_id": "d-stilgar", "username": "naib_stilgar", "display_name": "Stilgar", "difficulty": "hard", "avatar_index": 3},
		{"device_id": "d-tuek", "username": "smuggler_tuek", "display_name": "Esmar Tuek", "difficulty": "medium"}
	]`)
	if err := LoadIdentities(path); err != nil {
		t.Fatalf("load identities: %v", err)
	}

	// Before provisioning no entry carries a user ID, so nothing is a bot yet.
	if got := GetBotIdentity(0).UserID; got != "" {
		t.Fatalf("unprovisioned pool entry has user ID %q", got)
	}
	if len(AllBotIDs()) != 0 {
		t.Fatalf("bot IDs registered before provisioning: %v", AllBotIDs())
	}

	nk := &fakeNakama{}
	if err := ProvisionBots(context.Background(), nk, quietLogger{}); err != nil {
		t.Fatalf("provision bots: %v", err)
	}

	if len(nk.authenticated) != 2 {
		t.Fatalf("authenticated %d devices, want 2", len(nk.authenticated))
	}
	if !IsBot("uid-d-stilgar") || !IsBot("uid-d-tuek") {
		t.Fatalf("provisioned accounts not recognized as bots: %v", AllBotIDs())
	}
	if got := GetBotIdentity(0).UserID; got != "uid-d-stilgar" {
		t.Errorf("pool entry user ID = %q, want uid-d-stilgar", got)
	}
	if got := LevelFor("uid-d-stilgar"); got != BotLevelOpportunist {
		t.Errorf("level = %d, want opportunist for a hard bot", got)
	}
	cfg, ok := GetBotConfig("uid-d-stilgar")
	if !ok || cfg.AvatarIndex != 3 {
		t.Errorf("bot config = %+v, ok = %v", cfg, ok)
	}

	// Provisioning is once-only.
	if err := ProvisionBots(context.Background(), nk, quietLogger{}); err != nil {
		t.Fatalf("second provision: %v", err)
	}
	if len(nk.authenticated) != 2 {
		t.Errorf("re-provisioning authenticated again: %v", nk.authenticated)
	}
}

func TestRegisterIdentityRecognizesSynthesizedAgents(t *testing.T) {
	resetIdentityPool(t)
	path := writePoolFile(t, `[]`)
	if err := LoadIdentities(path); err != nil {
		t.Fatalf("load identities: %v", err)
	}

	if IsBot("agent-fremen") {
		t.Fatalf("unregistered agent recognized as bot")
	}

	RegisterIdentity(BotIdentity{UserID: "agent-fremen", DisplayName: "Agent fremen", Difficulty: "medium"})

	if !IsBot("agent-fremen") {
		t.Fatalf("registered agent not recognized as bot")
	}
	if got := LevelFor("agent-fremen"); got != BotLevelCautious {
		t.Errorf("level = %d, want cautious", got)
	}
	if got := GetBotDisplayName("agent-fremen"); got != "Agent fremen" {
		t.Errorf("display name = %q", got)
	}

	// A blank user ID is never registered.
	RegisterIdentity(BotIdentity{DisplayName: "nameless"})
	if IsBot("") {
		t.Errorf("blank user ID registered as bot")
	}
}

func TestLoadIdentitiesBuiltinPool(t *testing.T) {
	resetIdentityPool(t)
	if err := LoadIdentities(""); err != nil {
		t.Fatalf("load builtin pool: %v", err)
	}

	if len(AllBotIDs()) != len(fallbackIdentities) {
		t.Fatalf("builtin pool registered %d IDs, want %d", len(AllBotIDs()), len(fallbackIdentities))
	}
	for _, identity := range fallbackIdentities {
		if !IsBot(identity.UserID) {
			t.Errorf("builtin identity %s not recognized as bot", identity.UserID)
		}
	}
}

package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"arrakis/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const walletCurrencySolari = "solari"

// NakamaEconomyAdapter implements ports.EconomyPort using Nakama's wallet system.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaEconomyAdapter creates a new economy adapter.
func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{
		nk: nk,
	}
}

// GetBalance retrieves the current solari balance for a user.
func (a *NakamaEconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	var wallet map[string]int64
	if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return wallet[walletCurrencySolari], nil
}

// UpdateBalances applies a spice settlement as one atomic wallets write, so
// a mid-batch failure cannot pay out some factions and not others.
func (a *NakamaEconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.SolariUpdate) error {
	batch := make([]*runtime.WalletUpdate, 0, len(updates))
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}
		batch = append(batch, &runtime.WalletUpdate{
			UserID:    update.UserID,
			Changeset: map[string]int64{walletCurrencySolari: update.Amount},
			Metadata:  update.Metadata,
		})
	}
	if len(batch) == 0 {
		return nil
	}

	if _, err := a.nk.WalletsUpdate(ctx, batch, true); err != nil {
		return fmt.Errorf("failed to settle %d wallets: %w", len(batch), err)
	}
	return nil
}

var _ ports.EconomyPort = (*NakamaEconomyAdapter)(nil)

package ports

import "context"

// SolariUpdate represents a single currency change for a user.
type SolariUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for managing the solari currency.
type EconomyPort interface {
	// GetBalance retrieves the current solari balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes atomically.
	// Used when a game settles to pay out spice holdings.
	UpdateBalances(ctx context.Context, updates []SolariUpdate) error
}

package ports

import (
	"context"

	"account-ledger/internal/core/domain"
)

// AccountStore persists the complete account table.
type AccountStore interface {
	// Load reconstructs the table from durable storage. A store that
	// does not exist yet is an empty table, not an error.
	Load(ctx context.Context) (map[string]*domain.Account, error)

	// Save rewrites the durable store from the complete table. There is
	// no partial or append write; every save replaces the whole store.
	Save(ctx context.Context, accounts map[string]*domain.Account) error
}

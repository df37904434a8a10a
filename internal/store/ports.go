package store

import (
	"context"
	"errors"

	"movimenti/internal/core"
)

// ErrNotFound reports that no document with the requested id exists.
var ErrNotFound = errors.New("not found")

// TransactionQuery holds the predicates the store applies itself: equality on
// type, membership on category, and a fixed descending sort on date.
// The free-text filter is deliberately not here; it runs in memory afterwards.
type TransactionQuery struct {
	Type        string
	CategoryIDs []string
}

// Ports for outbound persistence adapters.
type (
	TransactionStore interface {
		// ListTransactions returns matching transactions sorted by date
		// descending. Documents with equal dates keep whatever relative
		// order the store produced.
		ListTransactions(ctx context.Context, q TransactionQuery) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// CreateTransaction assigns the id and timestamps and returns the
		// stored document.
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// UpdateTransaction applies only the given fields, leaving absent
		// ones untouched, and refreshes updatedAt.
		UpdateTransaction(ctx context.Context, id string, fields map[string]any) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id string) (core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		UpdateCategory(ctx context.Context, id string, fields map[string]any) (core.Category, error)
		DeleteCategory(ctx context.Context, id string) error
	}
)

// TransactionFields enumerates the transaction fields a partial update may
// touch. Keys not listed here are ignored by the adapters.
var TransactionFields = map[string]bool{
	"amount":   true,
	"category": true,
	"type":     true,
	"date":     true,
	"note":     true,
	"photoUrl": true,
}

// CategoryFields enumerates the category fields a partial update may touch.
var CategoryFields = map[string]bool{
	"name":  true,
	"color": true,
	"icon":  true,
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"movimenti/internal/blob"
	"movimenti/internal/core"
	"movimenti/internal/store"
)

// Publisher emits mirror messages for downstream consumers. A nil Publisher
// disables publishing.
type Publisher interface {
	PublishSync(ctx context.Context, id string) error
	PublishDelete(ctx context.Context, id string) error
}

// TransactionService orchestrates transaction operations across the document
// store, the blob store and the optional mirror publisher.
type TransactionService struct {
	store store.TransactionStore
	blobs blob.Store
	pub   Publisher
}

func NewTransactionService(st store.TransactionStore, blobs blob.Store, pub Publisher) *TransactionService {
	return &TransactionService{store: st, blobs: blobs, pub: pub}
}

// List runs the two-stage filter pipeline: type and category membership are
// pushed down to the store with the descending date sort, then the free-text
// filter scans the narrowed set in memory.
func (s *TransactionService) List(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	// A categoryIds parameter that trims down to zero entries is a
	// membership test against the empty set: nothing matches.
	if f.HasCategoryIDs && len(f.CategoryIDs) == 0 {
		return []core.Transaction{}, nil
	}

	items, err := s.store.ListTransactions(ctx, store.TransactionQuery{
		Type:        f.Type,
		CategoryIDs: f.CategoryIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	items = core.FilterByText(items, f.Text)
	if items == nil {
		items = []core.Transaction{}
	}
	return items, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.publishSync(ctx, created.ID)
	return created, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, fields map[string]any) (core.Transaction, error) {
	updated, err := s.store.UpdateTransaction(ctx, id, fields)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publishSync(ctx, updated.ID)
	return updated, nil
}

// Delete removes the transaction and best-effort deletes its receipt blob.
// A failed blob delete is logged and swallowed: the parent delete stands.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	if t.PhotoURL != "" && s.blobs != nil {
		objectName := blob.ObjectName(t.PhotoURL)
		if err := s.blobs.Delete(ctx, objectName); err != nil {
			slog.ErrorContext(ctx, "Failed to delete receipt blob",
				"error", err,
				"transaction_id", id,
				"object", objectName)
		}
	}

	s.publishDelete(ctx, id)
	return nil
}

// Totals scans the full, unfiltered transaction set.
func (s *TransactionService) Totals(ctx context.Context) (core.Totals, error) {
	items, err := s.store.ListTransactions(ctx, store.TransactionQuery{})
	if err != nil {
		return core.Totals{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.Totalize(items), nil
}

func (s *TransactionService) publishSync(ctx context.Context, id string) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
		// Don't fail the request - the document is saved.
	}
}

func (s *TransactionService) publishDelete(ctx context.Context, id string) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"movimenti/internal/core"
	"movimenti/internal/store"
)

func TestTransactionCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTransaction(ctx, core.Transaction{
		Amount:   -12.5,
		Category: "cat-1",
		Type:     core.TypeExpense,
		Date:     "2024-06-01",
		Note:     "lunch",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected an assigned id")
	}
	if created.CreatedAt == "" || created.UpdatedAt != created.CreatedAt {
		t.Errorf("timestamps not set: createdAt=%q updatedAt=%q", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if got != created {
		t.Errorf("GetTransaction = %+v, want %+v", got, created)
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := s.GetTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetTransaction(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListTransactionsFilterAndSort(t *testing.T) {
	s := New()
	ctx := context.Background()

	seed := []core.Transaction{
		{Amount: 100, Category: "cat-1", Type: core.TypeIncome, Date: "2024-01-10"},
		{Amount: -20, Category: "cat-2", Type: core.TypeExpense, Date: "2024-03-05"},
		{Amount: -30, Category: "cat-1", Type: core.TypeExpense, Date: "2024-02-14"},
	}
	for _, tx := range seed {
		if _, err := s.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	tests := []struct {
		name      string
		query     store.TransactionQuery
		wantDates []string
	}{
		{
			name:      "no filters returns everything date-descending",
			query:     store.TransactionQuery{},
			wantDates: []string{"2024-03-05", "2024-02-14", "2024-01-10"},
		},
		{
			name:      "type filter",
			query:     store.TransactionQuery{Type: core.TypeExpense},
			wantDates: []string{"2024-03-05", "2024-02-14"},
		},
		{
			name:      "category membership",
			query:     store.TransactionQuery{CategoryIDs: []string{"cat-1"}},
			wantDates: []string{"2024-02-14", "2024-01-10"},
		},
		{
			name:      "type and category combined",
			query:     store.TransactionQuery{Type: core.TypeExpense, CategoryIDs: []string{"cat-1"}},
			wantDates: []string{"2024-02-14"},
		},
		{
			name:      "unmatched type matches nothing",
			query:     store.TransactionQuery{Type: "OTHER"},
			wantDates: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := s.ListTransactions(ctx, tt.query)
			if err != nil {
				t.Fatalf("ListTransactions failed: %v", err)
			}
			gotDates := make([]string, 0, len(items))
			for _, item := range items {
				gotDates = append(gotDates, item.Date)
			}
			if len(gotDates) != len(tt.wantDates) {
				t.Fatalf("got %v, want %v", gotDates, tt.wantDates)
			}
			for i := range gotDates {
				if gotDates[i] != tt.wantDates[i] {
					t.Errorf("got %v, want %v", gotDates, tt.wantDates)
					break
				}
			}
		})
	}
}

func TestUpdateTransactionPartialFields(t *testing.T) {
	s := New()
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	created, err := s.CreateTransaction(ctx, core.Transaction{
		Amount:   50,
		Category: "cat-1",
		Type:     core.TypeIncome,
		Date:     "2024-05-01",
		Note:     "initial",
		PhotoURL: "https://example.com/receipts/a.jpg",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	s.now = func() time.Time { return time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC) }
	updated, err := s.UpdateTransaction(ctx, created.ID, map[string]any{
		"note":     "",
		"category": "cat-2",
	})
	if err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}

	if updated.Note != "" {
		t.Errorf("explicit empty note not applied: %q", updated.Note)
	}
	if updated.Category != "cat-2" {
		t.Errorf("category = %q, want cat-2", updated.Category)
	}
	// Absent fields stay untouched.
	if updated.Amount != 50 || updated.Date != "2024-05-01" || updated.PhotoURL != created.PhotoURL {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.UpdatedAt == created.UpdatedAt {
		t.Error("updatedAt not refreshed")
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Error("createdAt must not change on update")
	}
}

func TestUpdateTransactionNotFound(t *testing.T) {
	s := New()
	if _, err := s.UpdateTransaction(context.Background(), "missing", map[string]any{"note": "x"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateCategory(ctx, core.Category{Name: "Groceries", Color: "#4CAF50", Icon: "cart"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected an assigned id")
	}

	updated, err := s.UpdateCategory(ctx, created.ID, map[string]any{"color": "#FFFFFF"})
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if updated.Color != "#FFFFFF" || updated.Name != "Groceries" {
		t.Errorf("partial update wrong: %+v", updated)
	}

	list, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 category, got %d", len(list))
	}

	if err := s.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if err := s.DeleteCategory(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

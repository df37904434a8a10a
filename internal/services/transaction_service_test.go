package services

import (
	"context"
	"errors"
	"testing"

	"movimenti/internal/blob"
	blobmem "movimenti/internal/blob/memory"
	"movimenti/internal/core"
	"movimenti/internal/store"
	storemem "movimenti/internal/store/memory"
)

type recordingPublisher struct {
	syncs   []string
	deletes []string
	fail    bool
}

func (p *recordingPublisher) PublishSync(_ context.Context, id string) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.syncs = append(p.syncs, id)
	return nil
}

func (p *recordingPublisher) PublishDelete(_ context.Context, id string) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.deletes = append(p.deletes, id)
	return nil
}

func newTestService(t *testing.T) (*TransactionService, *storemem.Store, *blobmem.Store, *recordingPublisher) {
	t.Helper()
	st := storemem.New()
	blobs := blobmem.New()
	pub := &recordingPublisher{}
	return NewTransactionService(st, blobs, pub), st, blobs, pub
}

func TestListTwoStageFilter(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()

	seed := []core.Transaction{
		{Amount: -10, Category: "food", Type: core.TypeExpense, Date: "2024-01-01", Note: "market"},
		{Amount: -20, Category: "food", Type: core.TypeExpense, Date: "2024-01-02", Note: "restaurant"},
		{Amount: 500, Category: "salary", Type: core.TypeIncome, Date: "2024-01-03", Note: "january pay"},
	}
	for _, tx := range seed {
		if _, err := st.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	// Type pushed to the store, text applied afterwards.
	items, err := svc.List(ctx, core.Filter{Type: core.TypeExpense, Text: "market"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Note != "market" {
		t.Errorf("expected the market expense, got %+v", items)
	}

	// Text alone matches category names too.
	items, err = svc.List(ctx, core.Filter{Text: "SALARY"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Type != core.TypeIncome {
		t.Errorf("expected the salary income, got %+v", items)
	}
}

func TestListEmptyCategoryIDsMatchesNothing(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := st.CreateTransaction(ctx, core.Transaction{Amount: 1, Category: "food", Type: core.TypeExpense, Date: "2024-01-01"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	items, err := svc.List(ctx, core.Filter{HasCategoryIDs: true, CategoryIDs: nil})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if items == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(items) != 0 {
		t.Errorf("expected no results, got %+v", items)
	}
}

func TestListNeverReturnsNil(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	items, err := svc.List(context.Background(), core.Filter{Text: "no such thing"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if items == nil {
		t.Fatal("expected an empty slice, got nil")
	}
}

func TestCreateAndUpdatePublishSync(t *testing.T) {
	svc, _, _, pub := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.Transaction{Amount: 5, Category: "food", Type: core.TypeExpense, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Update(ctx, created.ID, map[string]any{"note": "updated"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(pub.syncs) != 2 || pub.syncs[0] != created.ID || pub.syncs[1] != created.ID {
		t.Errorf("expected two sync messages for %s, got %v", created.ID, pub.syncs)
	}
}

func TestCreateSucceedsWhenPublishFails(t *testing.T) {
	svc, _, _, pub := newTestService(t)
	pub.fail = true

	created, err := svc.Create(context.Background(), core.Transaction{Amount: 5, Category: "food", Type: core.TypeExpense, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected the document to be stored anyway")
	}
}

func TestDeleteRemovesReceiptBlob(t *testing.T) {
	svc, st, blobs, pub := newTestService(t)
	ctx := context.Background()

	url, err := blobs.Upload(ctx, "r1.jpg", []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	created, err := st.CreateTransaction(ctx, core.Transaction{
		Amount: -9, Category: "food", Type: core.TypeExpense, Date: "2024-01-01", PhotoURL: url,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if blobs.Has(blob.Folder + "r1.jpg") {
		t.Error("receipt blob should have been deleted")
	}
	if _, err := st.GetTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("transaction should be gone, got %v", err)
	}
	if len(pub.deletes) != 1 || pub.deletes[0] != created.ID {
		t.Errorf("expected one delete message, got %v", pub.deletes)
	}
}

func TestDeleteSucceedsWhenBlobDeleteFails(t *testing.T) {
	svc, st, blobs, _ := newTestService(t)
	ctx := context.Background()

	url, err := blobs.Upload(ctx, "r2.jpg", []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	created, err := st.CreateTransaction(ctx, core.Transaction{
		Amount: -9, Category: "food", Type: core.TypeExpense, Date: "2024-01-01", PhotoURL: url,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	blobs.FailDelete = true
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete should swallow blob errors, got %v", err)
	}
	if _, err := st.GetTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("transaction should be gone, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTotalsIgnoreFilters(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()

	seed := []core.Transaction{
		{Amount: 100, Type: core.TypeIncome, Category: "salary", Date: "2024-01-01"},
		{Amount: -40, Type: core.TypeExpense, Category: "food", Date: "2024-01-02"},
		{Amount: 10, Type: "OTHER", Category: "misc", Date: "2024-01-03"},
	}
	for _, tx := range seed {
		if _, err := st.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	totals, err := svc.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	want := core.Totals{Income: 100, Expense: 40, Balance: 60}
	if totals != want {
		t.Errorf("Totals = %+v, want %+v", totals, want)
	}
}

func TestNilPublisherIsDisabled(t *testing.T) {
	st := storemem.New()
	svc := NewTransactionService(st, blobmem.New(), nil)

	if _, err := svc.Create(context.Background(), core.Transaction{Amount: 1, Category: "c", Type: core.TypeExpense, Date: "2024-01-01"}); err != nil {
		t.Fatalf("Create with nil publisher failed: %v", err)
	}
}

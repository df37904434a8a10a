package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"movimenti/internal/core"
	"movimenti/internal/store"
)

// Store is a mutex-guarded in-memory document store. It is the default dev
// backend and the test fake; it mirrors the ordering and partial-update
// semantics of the real adapters.
type Store struct {
	mu           sync.Mutex
	transactions map[string]core.Transaction
	categories   map[string]core.Category
	seq          int

	now func() time.Time
}

func New() *Store {
	return &Store{
		transactions: make(map[string]core.Transaction),
		categories:   make(map[string]core.Category),
		now:          time.Now,
	}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *Store) ListTransactions(_ context.Context, q store.TransactionQuery) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make(map[string]struct{}, len(q.CategoryIDs))
	for _, id := range q.CategoryIDs {
		members[id] = struct{}{}
	}

	out := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		if len(q.CategoryIDs) > 0 {
			if _, ok := members[t.Category]; !ok {
				continue
			}
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID("txn")
	t.CreatedAt = s.timestamp()
	t.UpdatedAt = t.CreatedAt
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, fields map[string]any) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	applyTransactionFields(&t, fields)
	t.UpdatedAt = s.timestamp()
	s.transactions[id] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID("cat")
	c.CreatedAt = s.timestamp()
	c.UpdatedAt = c.CreatedAt
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, id string, fields map[string]any) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, store.ErrNotFound
	}
	applyCategoryFields(&c, fields)
	c.UpdatedAt = s.timestamp()
	s.categories[id] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func applyTransactionFields(t *core.Transaction, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "amount":
			if v, ok := value.(float64); ok {
				t.Amount = v
			}
		case "category":
			t.Category = asString(value)
		case "type":
			t.Type = asString(value)
		case "date":
			t.Date = asString(value)
		case "note":
			t.Note = asString(value)
		case "photoUrl":
			t.PhotoURL = asString(value)
		}
	}
}

func applyCategoryFields(c *core.Category, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "name":
			c.Name = asString(value)
		case "color":
			c.Color = asString(value)
		case "icon":
			c.Icon = asString(value)
		}
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

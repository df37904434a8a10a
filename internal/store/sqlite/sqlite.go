package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"movimenti/internal/core"
	"movimenti/internal/store"

	_ "modernc.org/sqlite"
)

// Repository is the local SQLite backend. It is the write-fast store the
// mirror worker replays into Firestore.
type Repository struct {
	db *sql.DB
}

// Ensure interface conformance
var (
	_ store.TransactionStore = (*Repository)(nil)
	_ store.CategoryStore    = (*Repository)(nil)
)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

const transactionColumns = "id, amount, category, type, date, note, photo_url, created_at, updated_at"

func (r *Repository) ListTransactions(ctx context.Context, q store.TransactionQuery) ([]core.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions"
	var conds []string
	var args []any
	if q.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, q.Type)
	}
	if len(q.CategoryIDs) > 0 {
		placeholders := strings.Repeat("?,", len(q.CategoryIDs))
		conds = append(conds, "category IN ("+placeholders[:len(placeholders)-1]+")")
		for _, id := range q.CategoryIDs {
			args = append(args, id)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := timestamp()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (amount, category, type, date, note, photo_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Amount, t.Category, t.Type, t.Date, t.Note, t.PhotoURL, now, now)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	t.ID = strconv.FormatInt(id, 10)
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

var transactionColumnFor = map[string]string{
	"amount":   "amount",
	"category": "category",
	"type":     "type",
	"date":     "date",
	"note":     "note",
	"photoUrl": "photo_url",
}

func (r *Repository) UpdateTransaction(ctx context.Context, id string, fields map[string]any) (core.Transaction, error) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for key, value := range fields {
		column, ok := transactionColumnFor[key]
		if !ok {
			continue
		}
		sets = append(sets, column+" = ?")
		args = append(args, normalizeValue(column, value))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, timestamp(), id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}
	if affected == 0 {
		return core.Transaction{}, store.ErrNotFound
	}
	return r.GetTransaction(ctx, id)
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

const categoryColumns = "id, name, color, icon, created_at, updated_at"

func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return core.Category{}, store.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	now := timestamp()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, color, icon, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Color, c.Icon, now, now)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	c.ID = strconv.FormatInt(id, 10)
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

var categoryColumnFor = map[string]string{
	"name":  "name",
	"color": "color",
	"icon":  "icon",
}

func (r *Repository) UpdateCategory(ctx context.Context, id string, fields map[string]any) (core.Category, error) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for key, value := range fields {
		column, ok := categoryColumnFor[key]
		if !ok {
			continue
		}
		sets = append(sets, column+" = ?")
		args = append(args, normalizeValue(column, value))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, timestamp(), id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Category{}, fmt.Errorf("update category %s: %w", id, err)
	}
	if affected == 0 {
		return core.Category{}, store.ErrNotFound
	}
	return r.GetCategory(ctx, id)
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// normalizeValue maps an explicit null update onto the column's zero value;
// every column is NOT NULL.
func normalizeValue(column string, value any) any {
	if value != nil {
		return value
	}
	if column == "amount" {
		return 0.0
	}
	return ""
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var t core.Transaction
	var id int64
	err := s.Scan(&id, &t.Amount, &t.Category, &t.Type, &t.Date, &t.Note, &t.PhotoURL, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.ID = strconv.FormatInt(id, 10)
	return t, nil
}

func scanCategory(s scanner) (core.Category, error) {
	var c core.Category
	var id int64
	err := s.Scan(&id, &c.Name, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return core.Category{}, err
	}
	c.ID = strconv.FormatInt(id, 10)
	return c, nil
}

package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	cfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	goption "google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"movimenti/internal/core"
	"movimenti/internal/store"
)

const (
	defaultTransactionsCollection = "transactions"
	defaultCategoriesCollection   = "categories"
)

// Client is the Cloud Firestore adapter. Type and category predicates are
// pushed into the query together with the descending date sort; everything
// else happens per document.
type Client struct {
	cli          *cfs.Client
	transactions string
	categories   string
}

// Ensure interface conformance
var (
	_ store.TransactionStore = (*Client)(nil)
	_ store.CategoryStore    = (*Client)(nil)
)

// NewFromEnv creates a Firestore client using environment variables.
// Required: FIRESTORE_PROJECT_ID
// Optional: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS for auth (ADC is used when none is set).
// Optional collection names: FIRESTORE_TRANSACTIONS_COLLECTION and
// FIRESTORE_CATEGORIES_COLLECTION.
func NewFromEnv(ctx context.Context) (*Client, error) {
	projectID := strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID"))
	if projectID == "" {
		return nil, errors.New("missing FIRESTORE_PROJECT_ID")
	}

	opts, err := credentialOptions()
	if err != nil {
		return nil, err
	}

	cli, err := cfs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	transactions := strings.TrimSpace(os.Getenv("FIRESTORE_TRANSACTIONS_COLLECTION"))
	if transactions == "" {
		transactions = defaultTransactionsCollection
	}
	categories := strings.TrimSpace(os.Getenv("FIRESTORE_CATEGORIES_COLLECTION"))
	if categories == "" {
		categories = defaultCategoriesCollection
	}

	return &Client{cli: cli, transactions: transactions, categories: categories}, nil
}

// credentialOptions resolves service account credentials the same way across
// all Google clients: inline JSON first, then a file path, then ADC.
func credentialOptions() ([]goption.ClientOption, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []goption.ClientOption{goption.WithCredentialsJSON([]byte(inline))}, nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("service account file: %w", err)
		}
		return []goption.ClientOption{goption.WithCredentialsFile(file)}, nil
	}
	// Fall back to Application Default Credentials.
	return nil, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

func (c *Client) ListTransactions(ctx context.Context, q store.TransactionQuery) ([]core.Transaction, error) {
	query := c.cli.Collection(c.transactions).Query
	if q.Type != "" {
		query = query.Where("type", "==", q.Type)
	}
	if len(q.CategoryIDs) > 0 {
		query = query.Where("category", "in", q.CategoryIDs)
	}
	query = query.OrderBy("date", cfs.Desc)

	it := query.Documents(ctx)
	defer it.Stop()

	var out []core.Transaction
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate transactions: %w", err)
		}
		out = append(out, docToTransaction(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	doc, err := c.cli.Collection(c.transactions).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return core.Transaction{}, store.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return docToTransaction(doc.Ref.ID, doc.Data()), nil
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	ref := c.cli.Collection(c.transactions).NewDoc()
	now := time.Now().UTC().Format(time.RFC3339)
	t.ID = ref.ID
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := ref.Create(ctx, transactionData(t)); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, fields map[string]any) (core.Transaction, error) {
	updates := make([]cfs.Update, 0, len(fields)+1)
	for key, value := range fields {
		if !store.TransactionFields[key] {
			continue
		}
		updates = append(updates, cfs.Update{Path: key, Value: value})
	}
	updates = append(updates, cfs.Update{Path: "updatedAt", Value: time.Now().UTC().Format(time.RFC3339)})

	ref := c.cli.Collection(c.transactions).Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return core.Transaction{}, store.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}
	return c.GetTransaction(ctx, id)
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	// Firestore deletes are no-ops on missing documents, so check existence
	// first to keep the not-found contract.
	ref := c.cli.Collection(c.transactions).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("get transaction %s: %w", id, err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// PutTransaction writes a document under a known id, overwriting any previous
// content. Used by the mirror worker to replay local documents.
func (c *Client) PutTransaction(ctx context.Context, t core.Transaction) error {
	if _, err := c.cli.Collection(c.transactions).Doc(t.ID).Set(ctx, transactionData(t)); err != nil {
		return fmt.Errorf("put transaction %s: %w", t.ID, err)
	}
	return nil
}

// RemoveTransaction deletes a document without an existence check; missing
// documents are fine when replaying deletes.
func (c *Client) RemoveTransaction(ctx context.Context, id string) error {
	if _, err := c.cli.Collection(c.transactions).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("remove transaction %s: %w", id, err)
	}
	return nil
}

func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	it := c.cli.Collection(c.categories).OrderBy("name", cfs.Asc).Documents(ctx)
	defer it.Stop()

	var out []core.Category
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate categories: %w", err)
		}
		out = append(out, docToCategory(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (core.Category, error) {
	doc, err := c.cli.Collection(c.categories).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return core.Category{}, store.ErrNotFound
		}
		return core.Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return docToCategory(doc.Ref.ID, doc.Data()), nil
}

func (c *Client) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	ref := c.cli.Collection(c.categories).NewDoc()
	now := time.Now().UTC().Format(time.RFC3339)
	cat.ID = ref.ID
	cat.CreatedAt = now
	cat.UpdatedAt = now
	if _, err := ref.Create(ctx, categoryData(cat)); err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, fields map[string]any) (core.Category, error) {
	updates := make([]cfs.Update, 0, len(fields)+1)
	for key, value := range fields {
		if !store.CategoryFields[key] {
			continue
		}
		updates = append(updates, cfs.Update{Path: key, Value: value})
	}
	updates = append(updates, cfs.Update{Path: "updatedAt", Value: time.Now().UTC().Format(time.RFC3339)})

	ref := c.cli.Collection(c.categories).Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return core.Category{}, store.ErrNotFound
		}
		return core.Category{}, fmt.Errorf("update category %s: %w", id, err)
	}
	return c.GetCategory(ctx, id)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	ref := c.cli.Collection(c.categories).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("get category %s: %w", id, err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

func transactionData(t core.Transaction) map[string]any {
	return map[string]any{
		"amount":    t.Amount,
		"category":  t.Category,
		"type":      t.Type,
		"date":      t.Date,
		"note":      t.Note,
		"photoUrl":  t.PhotoURL,
		"createdAt": t.CreatedAt,
		"updatedAt": t.UpdatedAt,
	}
}

func categoryData(c core.Category) map[string]any {
	return map[string]any{
		"name":      c.Name,
		"color":     c.Color,
		"icon":      c.Icon,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

func docToTransaction(id string, data map[string]any) core.Transaction {
	return core.Transaction{
		ID:        id,
		Amount:    asFloat(data["amount"]),
		Category:  asString(data["category"]),
		Type:      asString(data["type"]),
		Date:      asString(data["date"]),
		Note:      asString(data["note"]),
		PhotoURL:  asString(data["photoUrl"]),
		CreatedAt: asString(data["createdAt"]),
		UpdatedAt: asString(data["updatedAt"]),
	}
}

func docToCategory(id string, data map[string]any) core.Category {
	return core.Category{
		ID:        id,
		Name:      asString(data["name"]),
		Color:     asString(data["color"]),
		Icon:      asString(data["icon"]),
		CreatedAt: asString(data["createdAt"]),
		UpdatedAt: asString(data["updatedAt"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

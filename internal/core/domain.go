package core

import (
	"errors"
	"strings"
)

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

type (
	// Transaction is a single money movement. Amount keeps whatever sign the
	// caller sent; totals use the absolute value. Date is an opaque value
	// ordered by plain string comparison, never parsed.
	Transaction struct {
		ID        string  `json:"id"`
		Amount    float64 `json:"amount"`
		Category  string  `json:"category"`
		Type      string  `json:"type"`
		Date      string  `json:"date"`
		Note      string  `json:"note"`
		PhotoURL  string  `json:"photoUrl,omitempty"`
		CreatedAt string  `json:"createdAt,omitempty"`
		UpdatedAt string  `json:"updatedAt,omitempty"`
	}

	Category struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Color     string `json:"color,omitempty"`
		Icon      string `json:"icon,omitempty"`
		CreatedAt string `json:"createdAt,omitempty"`
		UpdatedAt string `json:"updatedAt,omitempty"`
	}
)

var (
	ErrEmptyName = errors.New("name must not be empty")
)

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

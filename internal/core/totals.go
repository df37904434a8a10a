package core

import "math"

// Totals is the global income/expense/balance aggregate.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// Totalize reduces a snapshot of the full transaction set. The stored sign of
// Amount is not authoritative: the absolute value is added to the bucket named
// by Type. Transactions with any other type are skipped.
func Totalize(items []Transaction) Totals {
	var t Totals
	for _, item := range items {
		amount := math.Abs(item.Amount)
		switch item.Type {
		case TypeIncome:
			t.Income += amount
		case TypeExpense:
			t.Expense += amount
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

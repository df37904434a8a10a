package core

import "testing"

func TestTotalize(t *testing.T) {
	tests := []struct {
		name  string
		items []Transaction
		want  Totals
	}{
		{
			name:  "empty set",
			items: nil,
			want:  Totals{},
		},
		{
			name: "absolute values regardless of sign",
			items: []Transaction{
				{Amount: 100, Type: TypeIncome},
				{Amount: -40, Type: TypeExpense},
				{Amount: 10, Type: "OTHER"},
			},
			want: Totals{Income: 100, Expense: 40, Balance: 60},
		},
		{
			name: "negative income still counts as income",
			items: []Transaction{
				{Amount: -250, Type: TypeIncome},
			},
			want: Totals{Income: 250, Expense: 0, Balance: 250},
		},
		{
			name: "unknown types are skipped",
			items: []Transaction{
				{Amount: 10, Type: "income"},
				{Amount: 10, Type: ""},
				{Amount: 10, Type: "TRANSFER"},
			},
			want: Totals{},
		},
		{
			name: "expense exceeding income yields negative balance",
			items: []Transaction{
				{Amount: 30, Type: TypeIncome},
				{Amount: 80, Type: TypeExpense},
			},
			want: Totals{Income: 30, Expense: 80, Balance: -50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Totalize(tt.items)
			if got != tt.want {
				t.Errorf("Totalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

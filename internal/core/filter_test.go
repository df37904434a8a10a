package core

import (
	"reflect"
	"testing"
)

func TestParseCategoryIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "single id",
			raw:  "cat-1",
			want: []string{"cat-1"},
		},
		{
			name: "multiple ids with whitespace",
			raw:  " cat-1, cat-2 ,cat-3",
			want: []string{"cat-1", "cat-2", "cat-3"},
		},
		{
			name: "empty entries are dropped",
			raw:  "cat-1,,  ,cat-2",
			want: []string{"cat-1", "cat-2"},
		},
		{
			name: "only separators yields nothing",
			raw:  " , ,",
			want: nil,
		},
		{
			name: "empty string yields nothing",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCategoryIDs(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCategoryIDs(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFilterByText(t *testing.T) {
	items := []Transaction{
		{ID: "1", Note: "Weekly groceries", Category: "food"},
		{ID: "2", Note: "", Category: "transport"},
		{ID: "3", Note: "GROCERY run", Category: "food"},
		{ID: "4", Note: "cinema", Category: "entertainment"},
	}

	tests := []struct {
		name    string
		text    string
		wantIDs []string
	}{
		{
			name:    "empty needle keeps everything",
			text:    "",
			wantIDs: []string{"1", "2", "3", "4"},
		},
		{
			name:    "case-insensitive match on note",
			text:    "grocer",
			wantIDs: []string{"1", "3"},
		},
		{
			name:    "match on category",
			text:    "TRANSPORT",
			wantIDs: []string{"2"},
		},
		{
			name:    "note or category",
			text:    "food",
			wantIDs: []string{"1", "3"},
		},
		{
			name:    "no match",
			text:    "rent",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByText(items, tt.text)
			gotIDs := make([]string, 0, len(got))
			for _, item := range got {
				gotIDs = append(gotIDs, item.ID)
			}
			if !reflect.DeepEqual(gotIDs, tt.wantIDs) {
				t.Errorf("FilterByText(%q) kept %v, want %v", tt.text, gotIDs, tt.wantIDs)
			}
		})
	}
}

func TestFilterByTextPreservesOrder(t *testing.T) {
	items := []Transaction{
		{ID: "b", Note: "rent march", Date: "2024-03-01"},
		{ID: "a", Note: "rent february", Date: "2024-02-01"},
	}
	got := FilterByText(items, "rent")
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("order not preserved: %v", got)
	}
}

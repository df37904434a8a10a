package core

import "strings"

// Filter narrows a transaction listing. Type and CategoryIDs are pushed down
// to the store; Text is applied afterwards in memory so the scan only touches
// the already-narrowed set.
type Filter struct {
	Type string
	// CategoryIDs holds the parsed, trimmed id list. HasCategoryIDs records
	// that the caller supplied the parameter at all, so that a value which
	// trims down to nothing still means "match nothing" instead of
	// "no filter".
	CategoryIDs    []string
	HasCategoryIDs bool
	Text           string
}

// ParseCategoryIDs splits a comma-separated id list, trimming whitespace per
// entry and dropping entries that are empty after trimming.
func ParseCategoryIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ids = append(ids, part)
	}
	return ids
}

// FilterByText keeps the transactions whose note or category contains text as
// a case-insensitive substring. An empty needle keeps everything. Relative
// order of the input is preserved.
func FilterByText(items []Transaction, text string) []Transaction {
	if text == "" {
		return items
	}
	needle := strings.ToLower(text)
	out := make([]Transaction, 0, len(items))
	for _, t := range items {
		if strings.Contains(strings.ToLower(t.Note), needle) ||
			strings.Contains(strings.ToLower(t.Category), needle) {
			out = append(out, t)
		}
	}
	return out
}

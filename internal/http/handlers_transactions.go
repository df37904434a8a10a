package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"movimenti/internal/core"
	"movimenti/internal/store"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := core.Filter{
		Type: strings.TrimSpace(q.Get("type")),
		Text: q.Get("text"),
	}
	if q.Has("categoryIds") {
		f.HasCategoryIDs = true
		f.CategoryIDs = core.ParseCategoryIDs(q.Get("categoryIds"))
	}

	items, err := s.txns.List(r.Context(), f)
	if err != nil {
		respondError(w, r, err, "transaction not found")
		return
	}
	respondOK(w, items, "")
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.txns.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "transaction not found")
		return
	}
	respondOK(w, t, "")
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	if missing := missingFields(raw, "amount", "category", "type", "date"); len(missing) > 0 {
		respondBadRequest(w, fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
		return
	}

	var t core.Transaction
	if err := json.Unmarshal(body, &t); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	created, err := s.txns.Create(r.Context(), t)
	if err != nil {
		respondError(w, r, err, "transaction not found")
		return
	}
	respondCreated(w, created, "Transaction created")
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r.Body, store.TransactionFields)
	if err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.txns.Update(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		respondError(w, r, err, "transaction not found")
		return
	}
	respondOK(w, updated, "Transaction updated")
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.txns.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err, "transaction not found")
		return
	}
	respondOK(w, nil, "Transaction deleted")
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.txns.Totals(r.Context())
	if err != nil {
		respondError(w, r, err, "transaction not found")
		return
	}
	respondOK(w, totals, "")
}

// missingFields returns the required keys absent from the decoded body.
func missingFields(raw map[string]json.RawMessage, required ...string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// decodeFields decodes a partial-update body into the set of fields actually
// present in it. Presence is what matters: an explicit null, zero or empty
// string is still an update. Keys outside the allowed set are dropped.
func decodeFields(body io.Reader, allowed map[string]bool) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(raw))
	for key, value := range raw {
		if !allowed[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, err
		}
		fields[key] = v
	}
	return fields, nil
}

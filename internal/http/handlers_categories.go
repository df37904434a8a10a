package http

import (
	"encoding/json"
	"io"
	"net/http"

	"movimenti/internal/core"
	"movimenti/internal/store"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.categories.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err, "category not found")
		return
	}
	if items == nil {
		items = []core.Category{}
	}
	respondOK(w, items, "")
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.categories.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "category not found")
		return
	}
	respondOK(w, c, "")
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
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
	if missing := missingFields(raw, "name"); len(missing) > 0 {
		respondBadRequest(w, "missing required fields: name")
		return
	}

	var c core.Category
	if err := json.Unmarshal(body, &c); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	if err := c.Validate(); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	created, err := s.categories.CreateCategory(r.Context(), c)
	if err != nil {
		respondError(w, r, err, "category not found")
		return
	}
	respondCreated(w, created, "Category created")
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r.Body, store.CategoryFields)
	if err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.categories.UpdateCategory(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		respondError(w, r, err, "category not found")
		return
	}
	respondOK(w, updated, "Category updated")
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err, "category not found")
		return
	}
	respondOK(w, nil, "Category deleted")
}

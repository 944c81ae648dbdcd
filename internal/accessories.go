package internal

import (
	"encoding/json"
	"net/http"

	"radio-fleet-console/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listAccessories(w http.ResponseWriter, r *http.Request) {
	accessories, err := s.Accessories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	q := searchQuery(r)
	filtered := []models.Accessory{}
	for _, acc := range accessories {
		serial := ""
		if acc.Serienummer != nil {
			serial = *acc.Serienummer
		}
		alias := ""
		if acc.Alias != nil {
			alias = *acc.Alias
		}
		if matchesSearch(q, acc.Merk, acc.Model, serial, alias) {
			filtered = append(filtered, acc)
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) getAccessory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	acc, err := s.Accessories.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if acc == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (s *Server) createAccessory(w http.ResponseWriter, r *http.Request) {
	var in models.AccessoryFormData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Merk == "" || in.Model == "" {
		http.Error(w, "merk and model are required", http.StatusBadRequest)
		return
	}
	created, err := s.Accessories.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateAccessory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(patch) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}
	updated, err := s.Accessories.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAccessory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Accessories.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

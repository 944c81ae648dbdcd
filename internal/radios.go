package internal

import (
	"encoding/json"
	"net/http"
	"regexp"

	"radio-fleet-console/internal/models"

	"github.com/go-chi/chi/v5"
)

var radioIDPattern = regexp.MustCompile(`^[0-9]{4}$`)

// listRadios returns every radio, optionally narrowed by the q search filter
// the radios page applies over the fetched result set.
func (s *Server) listRadios(w http.ResponseWriter, r *http.Request) {
	radios, err := s.Radios.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	q := searchQuery(r)
	filtered := []models.Radio{}
	for _, radio := range radios {
		if matchesSearch(q, radio.ID, radio.Merk, radio.Model, radio.Serienummer, radio.Alias, radio.Afdeling) {
			filtered = append(filtered, radio)
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) getRadio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	radio, err := s.Radios.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if radio == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, radio)
}

func (s *Server) getRadioStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Radios.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) getRadioHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	history, err := s.Radios.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) createRadio(w http.ResponseWriter, r *http.Request) {
	var in models.RadioFormData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !radioIDPattern.MatchString(in.ID) {
		http.Error(w, "id must be exactly 4 digits", http.StatusBadRequest)
		return
	}
	if in.Merk == "" || in.Model == "" || in.Serienummer == "" {
		http.Error(w, "merk, model and serienummer are required", http.StatusBadRequest)
		return
	}
	switch in.Type {
	case models.RadioTypePortable, models.RadioTypeMobile, models.RadioTypeBase:
	default:
		http.Error(w, "type must be Portable, Mobile or Base", http.StatusBadRequest)
		return
	}

	created, err := s.Radios.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// updateRadio applies a partial update. The ID is immutable here: the
// explicit change-id workflow is the only path that may alter it.
func (s *Server) updateRadio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if _, ok := patch["id"]; ok {
		http.Error(w, "id cannot be changed here, use the change-id workflow", http.StatusBadRequest)
		return
	}
	if len(patch) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	updated, err := s.Radios.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteRadio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Radios.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// maintenanceRequest is the shared body of the history-appending workflows.
type maintenanceRequest struct {
	ServiceDate string `json:"service_date"`
	Notes       string `json:"notes"`
}

func (s *Server) recordBatteryReplaced(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in maintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry, err := s.Radios.RecordBatteryReplaced(r.Context(), id, in.ServiceDate, in.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) recordServiced(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in maintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry, err := s.Radios.RecordServiced(r.Context(), id, in.ServiceDate, in.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

type changeFieldRequest struct {
	NewValue    string `json:"new_value"`
	ServiceDate string `json:"service_date"`
	Notes       string `json:"notes"`
}

func (s *Server) changeRadioID(w http.ResponseWriter, r *http.Request) {
	oldID := chi.URLParam(r, "id")
	var in changeFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !radioIDPattern.MatchString(in.NewValue) {
		http.Error(w, "new id must be exactly 4 digits", http.StatusBadRequest)
		return
	}

	updated, err := s.Radios.ChangeID(r.Context(), oldID, in.NewValue, in.ServiceDate, in.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) changeRadioAlias(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in changeFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	radio, err := s.Radios.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if radio == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	updated, err := s.Radios.ChangeAlias(r.Context(), id, radio.Alias, in.NewValue, in.ServiceDate, in.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) changeRadioDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in changeFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	radio, err := s.Radios.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if radio == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	updated, err := s.Radios.ChangeDepartment(r.Context(), id, radio.Afdeling, in.NewValue, in.ServiceDate, in.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

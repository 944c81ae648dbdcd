package internal

import (
	"encoding/json"
	"net/http"

	"radio-fleet-console/internal/models"

	"github.com/go-chi/chi/v5"
)

// installationView mirrors issueView for the installations page.
type installationView struct {
	models.Installation
	ItemLabel string `json:"item_label"`
}

func (s *Server) listInstallations(w http.ResponseWriter, r *http.Request) {
	installations, err := s.Installations.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	label, err := s.Resolver.Labels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	q := searchQuery(r)
	views := []installationView{}
	for _, inst := range installations {
		v := installationView{Installation: inst, ItemLabel: label(inst.ItemType, inst.ItemID)}
		if matchesSearch(q, v.ItemLabel, inst.ItemID, inst.VehicleMerk, inst.VehicleModel, inst.VehicleAfdeling) {
			views = append(views, v)
		}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getInstallation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inst, err := s.Installations.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if inst == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (s *Server) createInstallation(w http.ResponseWriter, r *http.Request) {
	var in models.InstallationFormData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.ItemType != models.ItemTypeRadio && in.ItemType != models.ItemTypeAccessory {
		http.Error(w, "item_type must be radio or accessory", http.StatusBadRequest)
		return
	}
	if in.ItemID == "" || in.VehicleMerk == "" || in.VehicleModel == "" {
		http.Error(w, "item_id, vehicle_merk and vehicle_model are required", http.StatusBadRequest)
		return
	}
	created, err := s.Installations.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateInstallation(w http.ResponseWriter, r *http.Request) {
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
	updated, err := s.Installations.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteInstallation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Installations.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

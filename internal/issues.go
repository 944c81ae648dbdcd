package internal

import (
	"encoding/json"
	"net/http"

	"radio-fleet-console/internal/models"

	"github.com/go-chi/chi/v5"
)

// issueView is the issue list row: the stored record plus the resolved item
// label, so the page never has to join the item lists itself.
type issueView struct {
	models.Issue
	ItemLabel string `json:"item_label"`
}

func (s *Server) listIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := s.Issues.List(r.Context())
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
	views := []issueView{}
	for _, issue := range issues {
		v := issueView{Issue: issue, ItemLabel: label(issue.ItemType, issue.ItemID)}
		if matchesSearch(q, v.ItemLabel, issue.ItemID, issue.Afdeling, issue.IssuedTo) {
			views = append(views, v)
		}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getIssue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	issue, err := s.Issues.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if issue == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request) {
	var in models.IssueFormData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.ItemType != models.ItemTypeRadio && in.ItemType != models.ItemTypeAccessory {
		http.Error(w, "item_type must be radio or accessory", http.StatusBadRequest)
		return
	}
	if in.ItemID == "" || in.IssuedTo == "" {
		http.Error(w, "item_id and issued_to are required", http.StatusBadRequest)
		return
	}
	created, err := s.Issues.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateIssue(w http.ResponseWriter, r *http.Request) {
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
	updated, err := s.Issues.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteIssue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Issues.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

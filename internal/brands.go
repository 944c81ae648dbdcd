package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"radio-fleet-console/internal/inventory"
	"radio-fleet-console/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.Catalog.Brands(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	q := searchQuery(r)
	filtered := []models.Brand{}
	for _, b := range brands {
		if matchesSearch(q, b.Name) {
			filtered = append(filtered, b)
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) getBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	brand, err := s.Catalog.GetBrand(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if brand == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

func (s *Server) getCatalogStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Catalog.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// listRadioBrands serves the radio form's brand dropdown: only brands with at
// least one radio category.
func (s *Server) listRadioBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.Catalog.BrandsWithRadioCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (s *Server) listCategoriesByBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	categories, err := s.Catalog.CategoriesByBrand(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) listRadioModelsByBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mdls, err := s.Catalog.RadioModelsByBrand(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mdls)
}

func (s *Server) createBrand(w http.ResponseWriter, r *http.Request) {
	var in models.BrandFormData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	created, err := s.Catalog.CreateBrand(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateBrand(w http.ResponseWriter, r *http.Request) {
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
	updated, err := s.Catalog.UpdateBrand(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteBrand tears the whole sub-tree down by default. cascade=false limits
// the call to the brand row itself.
func (s *Server) deleteBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cascade := true
	if v := r.URL.Query().Get("cascade"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "cascade must be a boolean", http.StatusBadRequest)
			return
		}
		cascade = parsed
	}

	if !cascade {
		if err := s.Catalog.DeleteBrand(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	result, err := s.Catalog.DeleteBrandCascade(r.Context(), id)
	if err != nil {
		var cascadeErr *inventory.CascadeError
		if errors.As(err, &cascadeErr) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":  cascadeErr.Error(),
				"step":   cascadeErr.Step,
				"result": cascadeErr.Result,
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listModelsByCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mdls, err := s.Catalog.ModelsByCategory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mdls)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryFormData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.BrandID == "" || in.Name == "" {
		http.Error(w, "brand_id and name are required", http.StatusBadRequest)
		return
	}
	created, err := s.Catalog.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
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
	updated, err := s.Catalog.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Catalog.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createModel(w http.ResponseWriter, r *http.Request) {
	var in models.ModelFormData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.CategoryID == "" || in.Name == "" {
		http.Error(w, "category_id and name are required", http.StatusBadRequest)
		return
	}
	created, err := s.Catalog.CreateModel(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateModel(w http.ResponseWriter, r *http.Request) {
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
	updated, err := s.Catalog.UpdateModel(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Catalog.DeleteModel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

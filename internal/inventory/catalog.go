package inventory

import (
	"context"
	"fmt"
	"strings"

	"radio-fleet-console/internal/cache"
	"radio-fleet-console/internal/models"
	"radio-fleet-console/internal/repo"
	"radio-fleet-console/internal/store"
)

// radioTokens mark a category as radio equipment. The filter is a
// case-insensitive substring match applied client-side after an unfiltered
// fetch; the store has no predicate for "radio-ish" categories.
var radioTokens = []string{"radio", "portable", "mobile", "base"}

func isRadioCategory(name string) bool {
	lower := strings.ToLower(name)
	for _, tok := range radioTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// CatalogService manages the brand → category → model hierarchy. Sub-trees
// load lazily: categories are fetched per brand and models per category, each
// under its own parameterized cache key, so collapsing and re-expanding a row
// within the fresh window does not re-fetch.
type CatalogService struct {
	brands     *repo.Repository[models.Brand]
	categories *repo.Repository[models.Category]
	mdls       *repo.Repository[models.Model]
	store      *store.Client
	cache      *cache.Cache
}

func NewCatalogService(st *store.Client, c *cache.Cache) *CatalogService {
	// Catalog invalidation is family-wide: a category rename must become
	// visible under every brand-scoped categories query that includes it,
	// so the parameterized keys are cleared regardless of parameter.
	return &CatalogService{
		brands: repo.New[models.Brand](st, c, repo.Config{
			Resource: "brands",
			Family:   FamilyBrands,
			OrderBy:  "name",
			Invalidates: []string{
				FamilyBrands, FamilyBrandStats, FamilyCategories,
				FamilyModels, FamilyRadioBrands, FamilyRadioModels,
			},
		}),
		categories: repo.New[models.Category](st, c, repo.Config{
			Resource: "categories",
			Family:   FamilyCategories,
			OrderBy:  "name",
			Invalidates: []string{
				FamilyCategories, FamilyBrandStats,
				FamilyRadioBrands, FamilyRadioModels,
			},
		}),
		mdls: repo.New[models.Model](st, c, repo.Config{
			Resource: "models",
			Family:   FamilyModels,
			OrderBy:  "name",
			Invalidates: []string{
				FamilyModels, FamilyBrandStats, FamilyRadioModels,
			},
		}),
		store: st,
		cache: c,
	}
}

// Brands

func (s *CatalogService) Brands(ctx context.Context) ([]models.Brand, error) {
	return s.brands.ListAll(ctx)
}

func (s *CatalogService) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	return s.brands.Get(ctx, id)
}

func (s *CatalogService) CreateBrand(ctx context.Context, form models.BrandFormData) (*models.Brand, error) {
	return s.brands.Create(ctx, form)
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id string, patch map[string]any) (*models.Brand, error) {
	return s.brands.Update(ctx, id, patch)
}

// DeleteBrand removes only the brand row. Children are the caller's problem;
// DeleteBrandCascade sequences the full teardown.
func (s *CatalogService) DeleteBrand(ctx context.Context, id string) error {
	return s.brands.Delete(ctx, id)
}

// Categories

// CategoriesByBrand returns the categories of one brand, fetched on first
// expansion and cached under a brand-scoped key.
func (s *CatalogService) CategoriesByBrand(ctx context.Context, brandID string) ([]models.Category, error) {
	return s.categories.ListWhere(ctx, "brand_id", brandID)
}

func (s *CatalogService) CreateCategory(ctx context.Context, form models.CategoryFormData) (*models.Category, error) {
	return s.categories.Create(ctx, form)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, patch map[string]any) (*models.Category, error) {
	return s.categories.Update(ctx, id, patch)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

// Models

// ModelsByCategory returns the models of one category, fetched on first
// expansion and cached under a category-scoped key.
func (s *CatalogService) ModelsByCategory(ctx context.Context, categoryID string) ([]models.Model, error) {
	return s.mdls.ListWhere(ctx, "category_id", categoryID)
}

func (s *CatalogService) CreateModel(ctx context.Context, form models.ModelFormData) (*models.Model, error) {
	return s.mdls.Create(ctx, form)
}

func (s *CatalogService) UpdateModel(ctx context.Context, id string, patch map[string]any) (*models.Model, error) {
	return s.mdls.Update(ctx, id, patch)
}

func (s *CatalogService) DeleteModel(ctx context.Context, id string) error {
	return s.mdls.Delete(ctx, id)
}

// Derived radio-form choices

// BrandsWithRadioCategories returns the brands offering radio equipment: a
// brand qualifies when at least one of its categories passes the radio token
// filter.
func (s *CatalogService) BrandsWithRadioCategories(ctx context.Context) ([]models.Brand, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Family: FamilyRadioBrands}, func(ctx context.Context) ([]models.Brand, error) {
		brands, err := s.brands.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		qualified := []models.Brand{}
		for _, b := range brands {
			categories, err := s.CategoriesByBrand(ctx, b.ID)
			if err != nil {
				return nil, err
			}
			for _, cat := range categories {
				if isRadioCategory(cat.Name) {
					qualified = append(qualified, b)
					break
				}
			}
		}
		return qualified, nil
	})
}

// RadioModelsByBrand returns the models of a brand's radio categories only.
func (s *CatalogService) RadioModelsByBrand(ctx context.Context, brandID string) ([]models.Model, error) {
	key := cache.Key{Family: FamilyRadioModels, Param: brandID}
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]models.Model, error) {
		categories, err := s.CategoriesByBrand(ctx, brandID)
		if err != nil {
			return nil, err
		}
		all := []models.Model{}
		for _, cat := range categories {
			if !isRadioCategory(cat.Name) {
				continue
			}
			mdls, err := s.ModelsByCategory(ctx, cat.ID)
			if err != nil {
				return nil, err
			}
			all = append(all, mdls...)
		}
		return all, nil
	})
}

// Stats returns the catalog totals via the store's count directive.
func (s *CatalogService) Stats(ctx context.Context) (models.CatalogStats, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Family: FamilyBrandStats}, func(ctx context.Context) (models.CatalogStats, error) {
		var stats models.CatalogStats
		var err error
		if stats.TotalBrands, err = s.store.Count(ctx, "brands"); err != nil {
			return stats, err
		}
		if stats.TotalCategories, err = s.store.Count(ctx, "categories"); err != nil {
			return stats, err
		}
		if stats.TotalModels, err = s.store.Count(ctx, "models"); err != nil {
			return stats, err
		}
		return stats, nil
	})
}

// CascadeResult reports how far a brand teardown got.
type CascadeResult struct {
	DeletedModels     int  `json:"deleted_models"`
	DeletedCategories int  `json:"deleted_categories"`
	BrandDeleted      bool `json:"brand_deleted"`
}

// CascadeError is a partial cascade failure: some children were deleted,
// some were not, and the store is left in that state. The console reports it;
// it cannot auto-repair.
type CascadeError struct {
	Step   string
	Result CascadeResult
	Err    error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete stopped at %s (models deleted: %d, categories deleted: %d): %v",
		e.Step, e.Result.DeletedModels, e.Result.DeletedCategories, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// DeleteBrandCascade deletes a brand's models, then its categories, then the
// brand itself, as independent calls. There is no transaction and no
// rollback: a failure partway through returns a CascadeError describing the
// partially-deleted state.
func (s *CatalogService) DeleteBrandCascade(ctx context.Context, brandID string) (CascadeResult, error) {
	var result CascadeResult

	categories, err := s.CategoriesByBrand(ctx, brandID)
	if err != nil {
		return result, &CascadeError{Step: "listing categories", Result: result, Err: err}
	}

	for _, cat := range categories {
		mdls, err := s.ModelsByCategory(ctx, cat.ID)
		if err != nil {
			return result, &CascadeError{Step: "listing models of category " + cat.ID, Result: result, Err: err}
		}
		for _, m := range mdls {
			if err := s.mdls.Delete(ctx, m.ID); err != nil {
				return result, &CascadeError{Step: "deleting model " + m.ID, Result: result, Err: err}
			}
			result.DeletedModels++
		}
		if err := s.categories.Delete(ctx, cat.ID); err != nil {
			return result, &CascadeError{Step: "deleting category " + cat.ID, Result: result, Err: err}
		}
		result.DeletedCategories++
	}

	if err := s.brands.Delete(ctx, brandID); err != nil {
		return result, &CascadeError{Step: "deleting brand " + brandID, Result: result, Err: err}
	}
	result.BrandDeleted = true
	return result, nil
}

package inventory

import (
	"context"
	"time"

	"radio-fleet-console/internal/cache"
	"radio-fleet-console/internal/models"
	"radio-fleet-console/internal/repo"
	"radio-fleet-console/internal/store"
)

// InstallationService records items fitted into vehicles.
type InstallationService struct {
	installations *repo.Repository[models.Installation]

	now func() time.Time
}

func NewInstallationService(st *store.Client, c *cache.Cache) *InstallationService {
	return &InstallationService{
		installations: repo.New[models.Installation](st, c, repo.Config{
			Resource:    "installations",
			Family:      FamilyInstallations,
			OrderBy:     "installed_at",
			Desc:        true,
			Invalidates: []string{FamilyInstallations, FamilyDashboard},
		}),
		now: time.Now,
	}
}

func (s *InstallationService) List(ctx context.Context) ([]models.Installation, error) {
	return s.installations.ListAll(ctx)
}

func (s *InstallationService) Get(ctx context.Context, id string) (*models.Installation, error) {
	return s.installations.Get(ctx, id)
}

// Create records an installation, stamping installed_at with the current
// time.
func (s *InstallationService) Create(ctx context.Context, form models.InstallationFormData) (*models.Installation, error) {
	payload := map[string]any{
		"item_type":        form.ItemType,
		"item_id":          form.ItemID,
		"vehicle_merk":     form.VehicleMerk,
		"vehicle_model":    form.VehicleModel,
		"vehicle_afdeling": form.VehicleAfdeling,
		"installed_at":     s.now().UTC().Format(time.RFC3339),
	}
	if form.Notes != nil {
		payload["notes"] = *form.Notes
	}
	return s.installations.Create(ctx, payload)
}

func (s *InstallationService) Update(ctx context.Context, id string, patch map[string]any) (*models.Installation, error) {
	return s.installations.Update(ctx, id, patch)
}

func (s *InstallationService) Delete(ctx context.Context, id string) error {
	return s.installations.Delete(ctx, id)
}

func (s *InstallationService) Recent(ctx context.Context, n int) ([]models.Installation, error) {
	return s.installations.ListRecent(ctx, n)
}

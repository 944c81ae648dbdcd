package inventory

import (
	"context"

	"radio-fleet-console/internal/cache"
	"radio-fleet-console/internal/models"
	"radio-fleet-console/internal/repo"
	"radio-fleet-console/internal/store"
)

// AccessoryService manages accessories. Unlike radios there is no
// client-side uniqueness constraint on the serial number.
type AccessoryService struct {
	accessories *repo.Repository[models.Accessory]
}

func NewAccessoryService(st *store.Client, c *cache.Cache) *AccessoryService {
	return &AccessoryService{
		accessories: repo.New[models.Accessory](st, c, repo.Config{
			Resource:    "accessories",
			Family:      FamilyAccessories,
			OrderBy:     "created_at",
			Desc:        true,
			Invalidates: []string{FamilyAccessories, FamilyDashboard},
		}),
	}
}

func (s *AccessoryService) List(ctx context.Context) ([]models.Accessory, error) {
	return s.accessories.ListAll(ctx)
}

func (s *AccessoryService) Get(ctx context.Context, id string) (*models.Accessory, error) {
	return s.accessories.Get(ctx, id)
}

func (s *AccessoryService) Create(ctx context.Context, form models.AccessoryFormData) (*models.Accessory, error) {
	return s.accessories.Create(ctx, form)
}

func (s *AccessoryService) Update(ctx context.Context, id string, patch map[string]any) (*models.Accessory, error) {
	return s.accessories.Update(ctx, id, patch)
}

func (s *AccessoryService) Delete(ctx context.Context, id string) error {
	return s.accessories.Delete(ctx, id)
}

func (s *AccessoryService) Count(ctx context.Context) (int, error) {
	return s.accessories.Count(ctx)
}

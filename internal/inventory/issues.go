package inventory

import (
	"context"
	"time"

	"radio-fleet-console/internal/cache"
	"radio-fleet-console/internal/models"
	"radio-fleet-console/internal/repo"
	"radio-fleet-console/internal/store"
)

// IssueService records items handed out to people or departments.
type IssueService struct {
	issues *repo.Repository[models.Issue]

	now func() time.Time
}

func NewIssueService(st *store.Client, c *cache.Cache) *IssueService {
	return &IssueService{
		issues: repo.New[models.Issue](st, c, repo.Config{
			Resource:    "issues",
			Family:      FamilyIssues,
			OrderBy:     "issued_at",
			Desc:        true,
			Invalidates: []string{FamilyIssues, FamilyDashboard},
		}),
		now: time.Now,
	}
}

func (s *IssueService) List(ctx context.Context) ([]models.Issue, error) {
	return s.issues.ListAll(ctx)
}

func (s *IssueService) Get(ctx context.Context, id string) (*models.Issue, error) {
	return s.issues.Get(ctx, id)
}

// Create records an issue, stamping issued_at with the current time.
func (s *IssueService) Create(ctx context.Context, form models.IssueFormData) (*models.Issue, error) {
	payload := map[string]any{
		"item_type": form.ItemType,
		"item_id":   form.ItemID,
		"afdeling":  form.Afdeling,
		"issued_to": form.IssuedTo,
		"issued_at": s.now().UTC().Format(time.RFC3339),
	}
	if form.Notes != nil {
		payload["notes"] = *form.Notes
	}
	return s.issues.Create(ctx, payload)
}

func (s *IssueService) Update(ctx context.Context, id string, patch map[string]any) (*models.Issue, error) {
	return s.issues.Update(ctx, id, patch)
}

func (s *IssueService) Delete(ctx context.Context, id string) error {
	return s.issues.Delete(ctx, id)
}

func (s *IssueService) Recent(ctx context.Context, n int) ([]models.Issue, error) {
	return s.issues.ListRecent(ctx, n)
}

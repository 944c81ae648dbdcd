package inventory

import (
	"context"

	"radio-fleet-console/internal/cache"
	"radio-fleet-console/internal/models"
)

const recentLimit = 5

// DashboardService aggregates the landing-page numbers: radio counts by
// type, the accessory total, and the five most recent installations, issues,
// and registrations.
type DashboardService struct {
	radios        *RadioService
	accessories   *AccessoryService
	issues        *IssueService
	installations *InstallationService
	cache         *cache.Cache
}

func NewDashboardService(radios *RadioService, accessories *AccessoryService, issues *IssueService, installations *InstallationService, c *cache.Cache) *DashboardService {
	return &DashboardService{
		radios:        radios,
		accessories:   accessories,
		issues:        issues,
		installations: installations,
		cache:         c,
	}
}

// Stats builds the dashboard aggregate. The result is cached under its own
// family and invalidated by every mutation to the underlying entities.
func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Family: FamilyDashboard}, func(ctx context.Context) (models.DashboardStats, error) {
		var stats models.DashboardStats

		radioStats, err := s.radios.Stats(ctx)
		if err != nil {
			return stats, err
		}
		stats.TotalRadios = radioStats.Total
		stats.PortableRadios = radioStats.Portable
		stats.MobileRadios = radioStats.Mobile
		stats.BaseRadios = radioStats.Base

		if stats.TotalAccessories, err = s.accessories.Count(ctx); err != nil {
			return stats, err
		}
		if stats.RecentInstallations, err = s.installations.Recent(ctx, recentLimit); err != nil {
			return stats, err
		}
		if stats.RecentIssues, err = s.issues.Recent(ctx, recentLimit); err != nil {
			return stats, err
		}
		if stats.RecentRegistrations, err = s.radios.Recent(ctx, recentLimit); err != nil {
			return stats, err
		}
		if stats.RecentInstallations == nil {
			stats.RecentInstallations = []models.Installation{}
		}
		if stats.RecentIssues == nil {
			stats.RecentIssues = []models.Issue{}
		}
		if stats.RecentRegistrations == nil {
			stats.RecentRegistrations = []models.Radio{}
		}
		return stats, nil
	})
}

// Package inventory holds the console's entity services: typed wrappers over
// the generic repository that add the domain workflows (history appends,
// uniqueness lookups, catalog derivations, dashboard aggregation).
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"radio-fleet-console/internal/cache"
	"radio-fleet-console/internal/models"
	"radio-fleet-console/internal/repo"
	"radio-fleet-console/internal/store"
)

// RadioService manages radios and their append-only history.
type RadioService struct {
	radios  *repo.Repository[models.Radio]
	history *repo.Repository[models.RadioHistory]
	store   *store.Client
	cache   *cache.Cache

	now func() time.Time
}

func NewRadioService(st *store.Client, c *cache.Cache) *RadioService {
	return &RadioService{
		radios: repo.New[models.Radio](st, c, repo.Config{
			Resource:    "radios",
			Family:      FamilyRadios,
			OrderBy:     "created_at",
			Desc:        true,
			Invalidates: []string{FamilyRadios, FamilyRadioStats, FamilyDashboard},
		}),
		history: repo.New[models.RadioHistory](st, c, repo.Config{
			Resource:    "radio_history",
			Family:      FamilyRadioHistory,
			OrderBy:     "timestamp",
			Desc:        true,
			Invalidates: []string{FamilyRadioHistory},
		}),
		store: st,
		cache: c,
		now:   time.Now,
	}
}

// List returns every radio, newest registration first.
func (s *RadioService) List(ctx context.Context) ([]models.Radio, error) {
	return s.radios.ListAll(ctx)
}

// Get looks up a radio by its four-digit ID; nil when absent.
func (s *RadioService) Get(ctx context.Context, id string) (*models.Radio, error) {
	return s.radios.Get(ctx, id)
}

// GetBySerial looks up a radio by serial number. Serials are stored
// uppercased, so the lookup is performed against the normalized form.
func (s *RadioService) GetBySerial(ctx context.Context, serienummer string) (*models.Radio, error) {
	return s.radios.GetBy(ctx, "serienummer", strings.ToUpper(serienummer))
}

// Create registers a new radio. The serial number is case-normalized before
// the insert; ID and serial uniqueness is left to the store's constraints,
// whose rejection surfaces verbatim as a TransportError.
func (s *RadioService) Create(ctx context.Context, form models.RadioFormData) (*models.Radio, error) {
	form.Serienummer = strings.ToUpper(form.Serienummer)
	if form.Registratiedatum == "" {
		form.Registratiedatum = s.now().Format("2006-01-02")
	}
	return s.radios.Create(ctx, form)
}

// Update applies a partial update. Uniqueness is not re-validated here; the
// explicit change-ID workflow is the only sanctioned path that alters the ID.
func (s *RadioService) Update(ctx context.Context, id string, patch map[string]any) (*models.Radio, error) {
	return s.radios.Update(ctx, id, patch)
}

func (s *RadioService) Delete(ctx context.Context, id string) error {
	return s.radios.Delete(ctx, id)
}

// Stats counts radios by type. The store only shapes columns, so the type
// rows are fetched and counted here.
func (s *RadioService) Stats(ctx context.Context) (models.RadioStats, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Family: FamilyRadioStats}, func(ctx context.Context) (models.RadioStats, error) {
		var rows []struct {
			Type string `json:"type"`
		}
		if err := s.store.Select(ctx, "radios", store.Options{Select: "type"}, &rows); err != nil {
			return models.RadioStats{}, err
		}
		stats := models.RadioStats{Total: len(rows)}
		for _, r := range rows {
			switch r.Type {
			case models.RadioTypePortable:
				stats.Portable++
			case models.RadioTypeMobile:
				stats.Mobile++
			case models.RadioTypeBase:
				stats.Base++
			}
		}
		return stats, nil
	})
}

// History returns a radio's audit log, newest first.
func (s *RadioService) History(ctx context.Context, radioID string) ([]models.RadioHistory, error) {
	return s.history.ListWhere(ctx, "radio_id", radioID)
}

// AddHistory appends an audit entry for a radio. Entries are immutable once
// created.
func (s *RadioService) AddHistory(ctx context.Context, radioID, action, description string, details *models.HistoryDetails) (*models.RadioHistory, error) {
	payload := map[string]any{
		"radio_id":    radioID,
		"action":      action,
		"description": description,
		"timestamp":   s.now().UTC().Format(time.RFC3339),
	}
	if details != nil {
		payload["details"] = details
	}
	return s.history.Create(ctx, payload)
}

// RecordBatteryReplaced appends a battery replacement to the history.
func (s *RadioService) RecordBatteryReplaced(ctx context.Context, radioID, serviceDate, notes string) (*models.RadioHistory, error) {
	return s.AddHistory(ctx, radioID, models.ActionBatteryReplaced, "Batterij vervangen", &models.HistoryDetails{
		ServiceDate: serviceDate,
		Notes:       notes,
	})
}

// RecordServiced appends a service event to the history.
func (s *RadioService) RecordServiced(ctx context.Context, radioID, serviceDate, notes string) (*models.RadioHistory, error) {
	return s.AddHistory(ctx, radioID, models.ActionServiced, "Radio geserviced", &models.HistoryDetails{
		ServiceDate: serviceDate,
		Notes:       notes,
	})
}

// ChangeID is the only path that may alter a radio's ID after creation. It
// patches the record, then appends an id_changed history entry carrying the
// old and new value. The two writes are independent calls; a history failure
// after a successful patch is surfaced, not rolled back.
func (s *RadioService) ChangeID(ctx context.Context, oldID, newID, serviceDate, notes string) (*models.Radio, error) {
	updated, err := s.radios.Update(ctx, oldID, map[string]any{"id": newID})
	if err != nil {
		return nil, err
	}
	_, err = s.AddHistory(ctx, newID, models.ActionIDChanged,
		fmt.Sprintf("ID gewijzigd van %s naar %s", oldID, newID),
		&models.HistoryDetails{OldValue: oldID, NewValue: newID, ServiceDate: serviceDate, Notes: notes})
	if err != nil {
		return updated, err
	}
	return updated, nil
}

// ChangeAlias patches the alias and appends the matching history entry.
func (s *RadioService) ChangeAlias(ctx context.Context, id, oldAlias, newAlias, serviceDate, notes string) (*models.Radio, error) {
	updated, err := s.radios.Update(ctx, id, map[string]any{"alias": newAlias})
	if err != nil {
		return nil, err
	}
	_, err = s.AddHistory(ctx, id, models.ActionAliasChanged,
		fmt.Sprintf("Alias gewijzigd van %s naar %s", oldAlias, newAlias),
		&models.HistoryDetails{OldValue: oldAlias, NewValue: newAlias, ServiceDate: serviceDate, Notes: notes})
	if err != nil {
		return updated, err
	}
	return updated, nil
}

// ChangeDepartment patches the afdeling and appends the matching history
// entry.
func (s *RadioService) ChangeDepartment(ctx context.Context, id, oldAfdeling, newAfdeling, serviceDate, notes string) (*models.Radio, error) {
	updated, err := s.radios.Update(ctx, id, map[string]any{"afdeling": newAfdeling})
	if err != nil {
		return nil, err
	}
	_, err = s.AddHistory(ctx, id, models.ActionDepartmentChanged,
		fmt.Sprintf("Afdeling gewijzigd van %s naar %s", oldAfdeling, newAfdeling),
		&models.HistoryDetails{OldValue: oldAfdeling, NewValue: newAfdeling, ServiceDate: serviceDate, Notes: notes})
	if err != nil {
		return updated, err
	}
	return updated, nil
}

// Recent returns the n most recently registered radios.
func (s *RadioService) Recent(ctx context.Context, n int) ([]models.Radio, error) {
	return s.radios.ListRecent(ctx, n)
}

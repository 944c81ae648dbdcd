package models

import "time"

// RadioHistory actions.
const (
	ActionBatteryReplaced   = "battery_replaced"
	ActionServiced          = "serviced"
	ActionDepartmentChanged = "department_changed"
	ActionAliasChanged      = "alias_changed"
	ActionIDChanged         = "id_changed"
	ActionIssued            = "issued"
	ActionInstalled         = "installed"
)

// HistoryDetails carries the action-specific payload of a history entry:
// old/new value for field changes, service date and notes for maintenance,
// vehicle info for installations.
type HistoryDetails struct {
	OldValue    string       `json:"old_value,omitempty"`
	NewValue    string       `json:"new_value,omitempty"`
	ServiceDate string       `json:"service_date,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	VehicleInfo *VehicleInfo `json:"vehicle_info,omitempty"`
}

type VehicleInfo struct {
	Merk     string `json:"merk"`
	Model    string `json:"model"`
	Afdeling string `json:"afdeling"`
}

// RadioHistory is an append-only audit entry for a radio. Entries are never
// mutated or deleted by the console.
type RadioHistory struct {
	ID          string          `json:"id"`
	RadioID     string          `json:"radio_id"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	Details     *HistoryDetails `json:"details,omitempty"`
}

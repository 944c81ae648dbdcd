package models

import "time"

// Installation records that an item was physically fitted into a vehicle.
// ItemID follows the same weak-reference policy as Issue.
type Installation struct {
	ID              string    `json:"id"`
	ItemType        string    `json:"item_type"`
	ItemID          string    `json:"item_id"`
	VehicleMerk     string    `json:"vehicle_merk"`
	VehicleModel    string    `json:"vehicle_model"`
	VehicleAfdeling string    `json:"vehicle_afdeling"`
	InstalledAt     time.Time `json:"installed_at"`
	Notes           *string   `json:"notes,omitempty"`
}

type InstallationFormData struct {
	ItemType        string  `json:"item_type"`
	ItemID          string  `json:"item_id"`
	VehicleMerk     string  `json:"vehicle_merk"`
	VehicleModel    string  `json:"vehicle_model"`
	VehicleAfdeling string  `json:"vehicle_afdeling"`
	Notes           *string `json:"notes,omitempty"`
}

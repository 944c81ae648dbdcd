package models

import "time"

// Accessory is a non-radio piece of equipment (microphones, chargers,
// antennas). No uniqueness constraint is enforced on the serial number.
type Accessory struct {
	ID          string    `json:"id"`
	Merk        string    `json:"merk"`
	Model       string    `json:"model"`
	Serienummer *string   `json:"serienummer,omitempty"`
	Alias       *string   `json:"alias,omitempty"`
	Opmerking   *string   `json:"opmerking,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AccessoryFormData struct {
	Merk        string  `json:"merk"`
	Model       string  `json:"model"`
	Serienummer *string `json:"serienummer,omitempty"`
	Opmerking   *string `json:"opmerking,omitempty"`
}

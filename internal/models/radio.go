package models

import "time"

// Radio type values as stored by the remote store.
const (
	RadioTypePortable = "Portable"
	RadioTypeMobile   = "Mobile"
	RadioTypeBase     = "Base"
)

// Radio is a registered two-way radio. The ID is user-chosen (exactly four
// digits) rather than store-assigned, and both ID and Serienummer are unique
// across the fleet.
type Radio struct {
	ID               string    `json:"id"`
	Merk             string    `json:"merk"`
	Model            string    `json:"model"`
	Type             string    `json:"type"`
	Serienummer      string    `json:"serienummer"`
	Alias            string    `json:"alias"`
	Afdeling         string    `json:"afdeling"`
	Opmerking        string    `json:"opmerking,omitempty"`
	Registratiedatum string    `json:"registratiedatum"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RadioFormData is the client-supplied payload for creating a radio.
type RadioFormData struct {
	ID               string `json:"id"`
	Merk             string `json:"merk"`
	Model            string `json:"model"`
	Type             string `json:"type"`
	Serienummer      string `json:"serienummer"`
	Alias            string `json:"alias"`
	Afdeling         string `json:"afdeling"`
	Opmerking        string `json:"opmerking,omitempty"`
	Registratiedatum string `json:"registratiedatum"`
}

// RadioStats are the per-type radio counts shown on the radios page.
type RadioStats struct {
	Total    int `json:"total"`
	Portable int `json:"portable"`
	Mobile   int `json:"mobile"`
	Base     int `json:"base"`
}

package models

import "time"

// Item type values for the weak item references on issues and installations.
const (
	ItemTypeRadio     = "radio"
	ItemTypeAccessory = "accessory"
)

// Issue records that an item was handed out to a person or department.
// ItemID is a weak reference: the target radio or accessory may have been
// deleted since the issue was recorded and the console must tolerate that.
type Issue struct {
	ID       string    `json:"id"`
	ItemType string    `json:"item_type"`
	ItemID   string    `json:"item_id"`
	Afdeling string    `json:"afdeling"`
	IssuedTo string    `json:"issued_to"`
	IssuedAt time.Time `json:"issued_at"`
	Notes    *string   `json:"notes,omitempty"`
}

type IssueFormData struct {
	ItemType string  `json:"item_type"`
	ItemID   string  `json:"item_id"`
	Afdeling string  `json:"afdeling"`
	IssuedTo string  `json:"issued_to"`
	Notes    *string `json:"notes,omitempty"`
}

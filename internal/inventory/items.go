package inventory

import (
	"context"

	"radio-fleet-console/internal/models"
)

// UnknownItemLabel is rendered when a weak item reference no longer resolves
// to an existing radio or accessory.
const UnknownItemLabel = "Onbekend item"

// ItemResolver joins weak item references (entity-family tag plus lookup key)
// against the radio and accessory lists in application code. The store does
// not enforce these references; a missing target is a valid, expected
// outcome.
type ItemResolver struct {
	radios      *RadioService
	accessories *AccessoryService
}

func NewItemResolver(radios *RadioService, accessories *AccessoryService) *ItemResolver {
	return &ItemResolver{radios: radios, accessories: accessories}
}

// Labels builds a label per (item_type, item_id) pair from the current radio
// and accessory lists. Dangling references map to UnknownItemLabel.
func (r *ItemResolver) Labels(ctx context.Context) (func(itemType, itemID string) string, error) {
	radios, err := r.radios.List(ctx)
	if err != nil {
		return nil, err
	}
	accessories, err := r.accessories.List(ctx)
	if err != nil {
		return nil, err
	}

	radioByID := make(map[string]models.Radio, len(radios))
	for _, rad := range radios {
		radioByID[rad.ID] = rad
	}
	accessoryByID := make(map[string]models.Accessory, len(accessories))
	for _, acc := range accessories {
		accessoryByID[acc.ID] = acc
	}

	return func(itemType, itemID string) string {
		switch itemType {
		case models.ItemTypeRadio:
			if rad, ok := radioByID[itemID]; ok {
				return rad.Merk + " " + rad.Model
			}
		case models.ItemTypeAccessory:
			if acc, ok := accessoryByID[itemID]; ok {
				return acc.Merk + " " + acc.Model
			}
		}
		return UnknownItemLabel
	}, nil
}

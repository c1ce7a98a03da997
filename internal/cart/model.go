package cart

import "github.com/opencafe/menu-client-go/internal/catalog"

type Line struct {
	ProductID  string              `json:"product_id"`
	Name       string              `json:"name"`
	Price      float64             `json:"price"`
	Qty        int                 `json:"qty"`
	IsCombo    bool                `json:"is_combo"`
	ComboItems []catalog.ComboItem `json:"combo_items,omitempty"`
}

// EffectiveID namespaces combo ids away from regular product ids so a
// standalone product and a combo wrapping it never collide on one line.
func EffectiveID(p catalog.Product) string {
	if p.IsCombo() {
		return "combo_" + p.ID
	}
	return p.ID
}

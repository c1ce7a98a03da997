package catalog

const (
	ItemTypeProduct = "product"
	ItemTypeCombo   = "combo"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Price       float64     `json:"price"`
	CategoryID  string      `json:"category_id"`
	ItemType    string      `json:"item_type"`
	ComboPrice  float64     `json:"combo_price,omitempty"`
	Items       []ComboItem `json:"items,omitempty"`
}

type ComboItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
}

func (p Product) IsCombo() bool {
	return p.ItemType == ItemTypeCombo
}

// EffectivePrice is the price a cart line is created with: combos sell at
// their discounted combo price, everything else at the list price.
func (p Product) EffectivePrice() float64 {
	if p.IsCombo() {
		return p.ComboPrice
	}
	return p.Price
}

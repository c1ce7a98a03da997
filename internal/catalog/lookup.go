package catalog

// ProductByID finds a product by its raw catalog id.
func (c *Catalog) ProductByID(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

package catalog

import "strings"

// Catalog holds the category and product lists injected at startup. The
// data is borrowed read-only; nothing in this package mutates it.
type Catalog struct {
	Categories []Category
	Products   []Product
}

func New(categories []Category, products []Product) *Catalog {
	return &Catalog{Categories: categories, Products: products}
}

// Filter returns the products visible for the given search query and
// selected category. A non-blank query matches name or description
// case-insensitively and skips the category filter entirely; otherwise the
// selected category applies, and with neither set every product is visible.
func (c *Catalog) Filter(query, categoryID string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))

	if q != "" {
		var out []Product
		for _, p := range c.Products {
			if strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description), q) {
				out = append(out, p)
			}
		}
		return out
	}

	if categoryID == "" {
		return c.Products
	}

	var out []Product
	for _, p := range c.Products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// FirstCategoryID is the default selection at startup.
func (c *Catalog) FirstCategoryID() string {
	if len(c.Categories) == 0 {
		return ""
	}
	return c.Categories[0].ID
}

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type payload struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

// Load reads the externally supplied catalog injection: a JSON document
// with "categories" and "products" arrays.
func Load(r io.Reader) (*Catalog, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(p.Categories, p.Products), nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

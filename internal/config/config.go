package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"8085"`
	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	StorePath      string        `envconfig:"STORE_PATH" default:"menu-client.db"`
	CatalogPath    string        `envconfig:"CATALOG_PATH" default:"catalog.json"`
	// PageURL mirrors the page address the menu was opened from; its
	// optional "table" query parameter selects the table number.
	PageURL string `envconfig:"PAGE_URL" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

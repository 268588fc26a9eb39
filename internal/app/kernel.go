package app

import (
	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/in"
)

// Kernel gives CLI commands the loaded configuration and route catalog
// without touching Docker or opening a listener.
type Kernel struct {
	Config  Config
	Catalog in.RouteCatalog
}

// NewKernel loads configuration and routes the same way Run does.
func NewKernel(configPath string, log zerowrap.Logger) (*Kernel, error) {
	v, cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	table, err := loadRoutes(v, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Kernel{Config: cfg, Catalog: table}, nil
}

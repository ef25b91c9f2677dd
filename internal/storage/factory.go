package storage

import (
	"fmt"

	"shelf-go/internal/config"
	"shelf-go/internal/shelf"
)

// NewFromConfig creates a Storage implementation based on the collection
// config layout.
func NewFromConfig(cfg config.CollectionConfig) (shelf.Storage, error) {
	switch cfg.Layout {
	case "memory":
		return NewMemory(), nil
	case "flat":
		if cfg.Root == "" {
			return nil, fmt.Errorf("flat storage requires root to be set")
		}
		return NewFlat(cfg.Root)
	case "nested":
		if cfg.Root == "" {
			return nil, fmt.Errorf("nested storage requires root to be set")
		}
		return NewNested(cfg.Root)
	default:
		return nil, fmt.Errorf("unknown storage layout: %s", cfg.Layout)
	}
}

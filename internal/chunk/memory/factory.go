package memory

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gastrolog/internal/chunk"
)

// Factory parameter keys.
const (
	ParamMaxRecords    = "maxRecords"
	ParamMaxChunkBytes = "maxChunkBytes"
	ParamMaxChunkAge   = "maxChunkAge"
)

// Default values.
const (
	DefaultMaxRecords = 10000 // 10k records per chunk
)

// NewFactory returns a factory function that creates in-memory ChunkManagers.
func NewFactory() chunk.ManagerFactory {
	return func(params map[string]string, logger *slog.Logger) (chunk.ChunkManager, error) {
		cfg := Config{
			Logger: logger,
		}

		// Build rotation policy from params
		var policies []chunk.RotationPolicy

		maxRecords := int64(DefaultMaxRecords)
		if v, ok := params[ParamMaxRecords]; ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", ParamMaxRecords, err)
			}
			if n <= 0 {
				return nil, fmt.Errorf("invalid %s: must be positive", ParamMaxRecords)
			}
			maxRecords = n
		}
		policies = append(policies, chunk.NewRecordCountPolicy(uint64(maxRecords)))

		// Add size policy if specified
		if v, ok := params[ParamMaxChunkBytes]; ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", ParamMaxChunkBytes, err)
			}
			if n <= 0 {
				return nil, fmt.Errorf("invalid %s: must be positive", ParamMaxChunkBytes)
			}
			policies = append(policies, chunk.NewSizePolicy(uint64(n)))
		}

		// Add age policy if specified
		if v, ok := params[ParamMaxChunkAge]; ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", ParamMaxChunkAge, err)
			}
			if d <= 0 {
				return nil, fmt.Errorf("invalid %s: must be positive", ParamMaxChunkAge)
			}
			policies = append(policies, chunk.NewAgePolicy(d, nil))
		}

		cfg.RotationPolicy = chunk.NewCompositePolicy(policies...)

		return NewManager(cfg)
	}
}

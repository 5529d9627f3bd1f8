package postprocessors

import (
	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys, one pair per document type:
//   - specifications_target / specifications_max (tokens)
//   - drawing_schedules_target / drawing_schedules_max (tokens)
//   - reports_target / reports_max (tokens)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		budgetKeys := map[domain.DocumentType]string{
			domain.DocTypeSpecifications:   "specifications",
			domain.DocTypeDrawingSchedules: "drawing_schedules",
			domain.DocTypeReports:          "reports",
		}
		for typ, prefix := range budgetKeys {
			target := getIntFromConfig(cfg, prefix+"_target")
			max := getIntFromConfig(cfg, prefix+"_max")
			if target > 0 && max >= target {
				opts = append(opts, chunker.WithBudget(typ, domain.ChunkBudget{Target: target, Max: max}))
			}
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

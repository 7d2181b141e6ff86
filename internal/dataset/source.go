package dataset

import (
	"context"

	"github.com/reliastack/relia-engine/internal/models"
)

// Source yields the component records one analysis run operates on.
// Implementations own parsing and column mapping; the engine only ever sees
// ComponentRecords.
type Source interface {
	Load(ctx context.Context) ([]models.ComponentRecord, error)
}

// BlockPaths lists the distinct block paths in record order.
func BlockPaths(records []models.ComponentRecord) []string {
	seen := make(map[string]struct{}, len(records))
	paths := make([]string, 0)
	for _, rec := range records {
		if _, ok := seen[rec.BlockPath]; ok {
			continue
		}
		seen[rec.BlockPath] = struct{}{}
		paths = append(paths, rec.BlockPath)
	}
	return paths
}

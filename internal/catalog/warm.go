package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/HerbHall/powerparts/internal/metrics"
	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
	"github.com/HerbHall/powerparts/pkg/models"
)

// CatalogSummary describes one loaded snapshot.
type CatalogSummary struct {
	Family     models.Family `json:"family"`
	Dataset    string        `json:"dataset"`
	SnapshotID string        `json:"snapshot_id"`
	Parts      int           `json:"parts"`
	Warnings   int           `json:"warnings"`
}

// Warm loads every configured family once, logging and counting row
// warnings. With a caching loader this primes the cache so the first
// request is served from memory.
func Warm(ctx context.Context, loader Loader, ds Datasets, logger *zap.Logger) ([]CatalogSummary, error) {
	summaries := make([]CatalogSummary, 0, len(models.Families))

	mos, err := loader.Mosfets(ctx, ds.Mosfets)
	if err != nil {
		return nil, fmt.Errorf("warm mosfets: %w", err)
	}
	summaries = append(summaries, summarize(mos, logger))

	ind, err := loader.Inductors(ctx, ds.Inductors)
	if err != nil {
		return nil, fmt.Errorf("warm inductors: %w", err)
	}
	summaries = append(summaries, summarize(ind, logger))

	caps, err := loader.Capacitors(ctx, ds.Capacitors)
	if err != nil {
		return nil, fmt.Errorf("warm capacitors: %w", err)
	}
	summaries = append(summaries, summarize(caps, logger))

	return summaries, nil
}

func summarize[T any](snap *pkgcatalog.Snapshot[T], logger *zap.Logger) CatalogSummary {
	warnings := snap.Warnings()
	logWarnings(logger, snap.Family, snap.Dataset, warnings)
	metrics.CatalogRowWarnings.WithLabelValues(string(snap.Family)).Add(float64(len(warnings)))

	logger.Info("catalog loaded",
		zap.String("family", string(snap.Family)),
		zap.String("dataset", snap.Dataset),
		zap.String("snapshot", snap.ID),
		zap.Int("parts", snap.Len()),
		zap.Int("warnings", len(warnings)),
	)
	return CatalogSummary{
		Family:     snap.Family,
		Dataset:    snap.Dataset,
		SnapshotID: snap.ID,
		Parts:      snap.Len(),
		Warnings:   len(warnings),
	}
}

func logWarnings(logger *zap.Logger, family models.Family, dataset string, warnings []pkgcatalog.RowParseWarning) {
	for _, w := range warnings {
		logger.Warn("catalog row not fully normalized",
			zap.String("family", string(family)),
			zap.String("dataset", dataset),
			zap.Int("row", w.Row),
			zap.String("field", w.Field),
			zap.String("raw", w.Raw),
			zap.Error(w.Err),
		)
	}
}

// Package store provides order blotter persistence.
package store

import (
	"context"
	"io"

	"options-pricer/internal/models"
)

// OrderStore defines the interface for the order blotter. Records are
// keyed by an opaque string id; Save replaces the whole blotter
// atomically (last write wins).
type OrderStore interface {
	Load(ctx context.Context) ([]models.OrderRecord, error)
	Save(ctx context.Context, records []models.OrderRecord) error
	Add(ctx context.Context, record models.OrderRecord) (models.OrderRecord, error)
	Update(ctx context.Context, id string, record models.OrderRecord) error
	Remove(ctx context.Context, id string) error
	ExportCSV(ctx context.Context, w io.Writer) error
	Close() error
}

// Package repository stores the latest collected samples.
//
// Update callbacks write samples from the monitoring loop while the exposition
// server reads them concurrently, so every implementation must be safe for
// concurrent use.
package repository

import (
	"context"

	models "github.com/Schera-ole/monitor/internal/model"
)

// Repository is the sample store shared by collectors and HTTP handlers.
type Repository interface {
	SetMetrics(ctx context.Context, metrics []models.Metric) error
	GetMetric(ctx context.Context, metrics models.MetricsDTO) (models.MetricsDTO, error)
	GetMetricByName(ctx context.Context, name string) (any, error)
	ListMetrics(ctx context.Context) ([]models.Metric, error)
	Ping(ctx context.Context) error
	Close() error
}

// Package service provides the sample access layer used by collectors and handlers.
package service

import (
	"context"
	"fmt"

	internalerrors "github.com/Schera-ole/monitor/internal/errors"
	models "github.com/Schera-ole/monitor/internal/model"
	"github.com/Schera-ole/monitor/internal/repository"
)

// MetricsService provides methods for storing and reading collected samples.
//
// It delegates operations to an underlying repository implementation.
type MetricsService struct {
	// repository is the underlying data storage implementation
	repository repository.Repository
}

// NewMetricsService creates a new MetricsService with the specified repository.
func NewMetricsService(repo repository.Repository) *MetricsService {
	return &MetricsService{repository: repo}
}

// SetMetrics stores a batch of samples produced by one collector update.
func (ms *MetricsService) SetMetrics(ctx context.Context, metrics []models.Metric) error {
	if len(metrics) == 0 {
		return nil
	}
	return ms.repository.SetMetrics(ctx, metrics)
}

// GetMetric retrieves a single sample by its DTO.
func (ms *MetricsService) GetMetric(ctx context.Context, metrics models.MetricsDTO) (models.MetricsDTO, error) {
	return ms.repository.GetMetric(ctx, metrics)
}

// GetMetricByName retrieves a single sample value by name.
func (ms *MetricsService) GetMetricByName(ctx context.Context, name string) (any, error) {
	return ms.repository.GetMetricByName(ctx, name)
}

// ListMetrics retrieves all stored samples.
func (ms *MetricsService) ListMetrics(ctx context.Context) ([]models.Metric, error) {
	return ms.repository.ListMetrics(ctx)
}

// Ping checks the repository connection. Failures wrap ErrStorageUnavailable.
func (ms *MetricsService) Ping(ctx context.Context) error {
	if err := ms.repository.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", internalerrors.ErrStorageUnavailable, err)
	}
	return nil
}

// IsMemStorage checks if the underlying repository is a MemStorage implementation.
func (ms *MetricsService) IsMemStorage() bool {
	_, isMemStorage := ms.repository.(*repository.MemStorage)
	return isMemStorage
}

// Close releases the underlying repository.
func (ms *MetricsService) Close() error {
	return ms.repository.Close()
}

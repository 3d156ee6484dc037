package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Schera-ole/monitor/internal/config"
	internalerrors "github.com/Schera-ole/monitor/internal/errors"
	models "github.com/Schera-ole/monitor/internal/model"
)

// MemStorage implements the Repository interface using in-memory storage.
type MemStorage struct {
	// mu guards the maps below: one writer (the loop), many readers (HTTP)
	mu sync.RWMutex

	// gauges stores gauge samples as name -> value pairs
	gauges map[string]float64

	// counters stores cumulative counter samples as name -> value pairs
	counters map[string]int64

	// types stores the sample type for each name
	types map[string]string
}

// NewMemStorage creates a new in-memory storage instance.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		gauges:   make(map[string]float64),
		counters: make(map[string]int64),
		types:    make(map[string]string),
	}
}

// SetMetrics stores a batch of samples atomically with respect to readers,
// replacing previous values.
//
// Counters hold cumulative values observed from the system, so they are
// overwritten rather than incremented.
func (ms *MemStorage) SetMetrics(ctx context.Context, metrics []models.Metric) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, metric := range metrics {
		if err := ms.set(metric.Name, metric.Value, metric.Type); err != nil {
			return err
		}
	}
	return nil
}

func (ms *MemStorage) set(name string, value any, typ string) error {
	switch typ {
	case config.CounterType:
		val, ok := value.(int64)
		if !ok {
			return fmt.Errorf("%w: counter %s got %T", internalerrors.ErrInvalidMetricValue, name, value)
		}
		ms.counters[name] = val
	case config.GaugeType:
		val, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%w: gauge %s got %T", internalerrors.ErrInvalidMetricValue, name, value)
		}
		ms.gauges[name] = val
	default:
		return fmt.Errorf("%w: %s", internalerrors.ErrUnknownMetricType, typ)
	}
	ms.types[name] = typ
	return nil
}

// ListMetrics returns all stored samples sorted by name.
func (ms *MemStorage) ListMetrics(ctx context.Context) ([]models.Metric, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]models.Metric, 0, len(ms.types))
	for name, typ := range ms.types {
		var value any
		switch typ {
		case config.GaugeType:
			value = ms.gauges[name]
		case config.CounterType:
			value = ms.counters[name]
		default:
			continue
		}
		result = append(result, models.Metric{Name: name, Type: typ, Value: value})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetMetric retrieves a single sample by its DTO.
func (ms *MemStorage) GetMetric(ctx context.Context, metrics models.MetricsDTO) (models.MetricsDTO, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	metricType, exists := ms.types[metrics.ID]
	if !exists {
		return models.MetricsDTO{}, internalerrors.ErrMetricNotFound
	}

	responseMetrics := models.MetricsDTO{
		ID:    metrics.ID,
		MType: metricType,
	}
	switch metricType {
	case config.GaugeType:
		val := ms.gauges[metrics.ID]
		responseMetrics.Value = &val
	case config.CounterType:
		val := ms.counters[metrics.ID]
		responseMetrics.Delta = &val
	default:
		return models.MetricsDTO{}, internalerrors.ErrUnknownMetricType
	}
	return responseMetrics, nil
}

// GetMetricByName returns the raw value of a sample (float64 for gauges, int64 for counters).
func (ms *MemStorage) GetMetricByName(ctx context.Context, name string) (any, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	switch ms.types[name] {
	case config.GaugeType:
		return ms.gauges[name], nil
	case config.CounterType:
		return ms.counters[name], nil
	case "":
		return nil, internalerrors.ErrMetricNotFound
	default:
		return nil, internalerrors.ErrUnknownMetricType
	}
}

// Close releases any resources held by the memory storage.
func (ms *MemStorage) Close() error {
	return nil
}

// Ping always succeeds: there is nothing external to reach.
func (ms *MemStorage) Ping(ctx context.Context) error {
	return nil
}

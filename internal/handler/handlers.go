// Package handler serves the exposition HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	internalerrors "github.com/Schera-ole/monitor/internal/errors"
	middlewareinternal "github.com/Schera-ole/monitor/internal/middleware"
	models "github.com/Schera-ole/monitor/internal/model"
	"github.com/Schera-ole/monitor/internal/service"
)

const (
	storageMemory   = "memory"
	storagePostgres = "postgres"
)

// NameLister lists the registered metric names.
type NameLister interface {
	Names() []string
}

// StatusReader reads the agent's current status line.
type StatusReader interface {
	Read() (string, error)
}

func Router(
	metricService *service.MetricsService,
	names NameLister,
	statusReader StatusReader,
	gatherer prometheus.Gatherer,
	logger *zap.SugaredLogger,
) chi.Router {
	router := chi.NewRouter()
	router.Use(middlewareinternal.LoggingMiddleware(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(15 * time.Second))

	// promhttp negotiates its own compression.
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:      zap.NewStdLog(logger.Desugar()),
		ErrorHandling: promhttp.ContinueOnError,
	}))

	router.Group(func(r chi.Router) {
		r.Use(middlewareinternal.GzipMiddleware)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			GetListHandler(w, r, metricService, logger)
		})
		r.Get("/value/{name}", func(w http.ResponseWriter, r *http.Request) {
			GetHandler(w, r, metricService)
		})
		r.Get("/value/{name}/raw", func(w http.ResponseWriter, r *http.Request) {
			GetValue(w, r, metricService, logger)
		})
		r.Get("/registry", func(w http.ResponseWriter, r *http.Request) {
			RegistryHandler(w, r, names)
		})
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			StatusHandler(w, r, statusReader, logger)
		})
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			PingHandler(w, r, metricService, logger)
		})
	})
	return router
}

// GetListHandler writes every stored sample as "name: value" lines.
func GetListHandler(w http.ResponseWriter, r *http.Request, metricService *service.MetricsService, logger *zap.SugaredLogger) {
	metrics, err := metricService.ListMetrics(r.Context())
	if err != nil {
		logger.Errorf("error listing samples: %v", err)
		http.Error(w, "Failed to list metrics", http.StatusInternalServerError)
		return
	}

	var sb strings.Builder
	for _, m := range metrics {
		fmt.Fprintf(&sb, "%s: %v\n", m.Name, m.Value)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, sb.String())
}

// GetHandler writes one stored sample as JSON.
func GetHandler(w http.ResponseWriter, r *http.Request, metricService *service.MetricsService) {
	metricName := chi.URLParam(r, "name")
	sample, err := metricService.GetMetric(r.Context(), models.MetricsDTO{ID: metricName})
	if err != nil {
		if errors.Is(err, internalerrors.ErrMetricNotFound) {
			http.Error(w, "Metric name not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(sample)
}

// GetValue writes the bare value of one stored sample as plain text.
func GetValue(w http.ResponseWriter, r *http.Request, metricService *service.MetricsService, logger *zap.SugaredLogger) {
	metricName := chi.URLParam(r, "name")
	value, err := metricService.GetMetricByName(r.Context(), metricName)
	if err != nil {
		if errors.Is(err, internalerrors.ErrMetricNotFound) {
			http.Error(w, "Metric name not found", http.StatusNotFound)
			return
		}
		logger.Errorf("error reading sample %s: %v", metricName, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%v", value)
}

// RegistryHandler writes the registered metric names as a JSON array.
func RegistryHandler(w http.ResponseWriter, r *http.Request, names NameLister) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(names.Names())
}

// StatusHandler writes the agent's current status line.
func StatusHandler(w http.ResponseWriter, r *http.Request, statusReader StatusReader, logger *zap.SugaredLogger) {
	current, err := statusReader.Read()
	if err != nil {
		logger.Warnf("status unavailable: %v", err)
		http.Error(w, "Status unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, current+"\n")
}

// PingHandler checks the sample store and names its kind.
func PingHandler(w http.ResponseWriter, r *http.Request, metricService *service.MetricsService, logger *zap.SugaredLogger) {
	if err := metricService.Ping(r.Context()); err != nil {
		logger.Errorf("storage ping failed: %v", err)
		if errors.Is(err, internalerrors.ErrStorageUnavailable) {
			http.Error(w, "Failed to reach storage: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	kind := storagePostgres
	if metricService.IsMemStorage() {
		kind = storageMemory
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, kind+"\n")
}

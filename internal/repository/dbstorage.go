package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Schera-ole/monitor/internal/config"
	internalerrors "github.com/Schera-ole/monitor/internal/errors"
	models "github.com/Schera-ole/monitor/internal/model"
)

const (
	upsertSampleQuery = `INSERT INTO samples (name, type, value, delta, updated_at) VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (name) DO UPDATE SET type = EXCLUDED.type, value = EXCLUDED.value, delta = EXCLUDED.delta, updated_at = NOW()`
	selectSampleQuery  = "SELECT type, value, delta FROM samples WHERE name = $1"
	selectSamplesQuery = "SELECT name, type, value, delta FROM samples ORDER BY name"
)

// DBStorage keeps the latest samples in PostgreSQL.
//
// Gauges live in the DOUBLE PRECISION value column and counters in the BIGINT
// delta column, so cumulative counters keep full int64 precision.
type DBStorage struct {
	db *sql.DB
}

func NewDBStorage(dsn string) (*DBStorage, error) {
	dbConnect, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerrors.ErrDatabaseConnection, err)
	}
	return &DBStorage{db: dbConnect}, nil
}

func (storage *DBStorage) Close() error {
	return storage.db.Close()
}

func (storage *DBStorage) SetMetrics(ctx context.Context, metrics []models.Metric) error {
	tx, err := storage.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError(fmt.Errorf("%w: %w", internalerrors.ErrTransactionFailed, err))
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSampleQuery)
	if err != nil {
		return classifyError(fmt.Errorf("error preparing upsert: %w", err))
	}
	defer stmt.Close()

	for _, metric := range metrics {
		value, delta, err := toColumns(metric.Value, metric.Type)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, metric.Name, metric.Type, value, delta); err != nil {
			return classifyError(fmt.Errorf("error saving sample %s: %w", metric.Name, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return classifyError(fmt.Errorf("%w: %w", internalerrors.ErrTransactionFailed, err))
	}
	return nil
}

func (storage *DBStorage) GetMetric(ctx context.Context, metrics models.MetricsDTO) (models.MetricsDTO, error) {
	metricType, value, err := storage.get(ctx, metrics.ID)
	if err != nil {
		return models.MetricsDTO{}, err
	}

	responseMetrics := models.MetricsDTO{
		ID:    metrics.ID,
		MType: metricType,
	}
	switch v := value.(type) {
	case float64:
		responseMetrics.Value = &v
	case int64:
		responseMetrics.Delta = &v
	}
	return responseMetrics, nil
}

func (storage *DBStorage) GetMetricByName(ctx context.Context, name string) (any, error) {
	_, value, err := storage.get(ctx, name)
	return value, err
}

func (storage *DBStorage) get(ctx context.Context, name string) (string, any, error) {
	var (
		metricType string
		value      sql.NullFloat64
		delta      sql.NullInt64
	)

	err := storage.db.QueryRowContext(ctx, selectSampleQuery, name).Scan(&metricType, &value, &delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, internalerrors.ErrMetricNotFound
		}
		return "", nil, classifyError(fmt.Errorf("%w: %w", internalerrors.ErrQueryExecution, err))
	}
	sample, err := fromColumns(metricType, value, delta)
	if err != nil {
		return "", nil, err
	}
	return metricType, sample, nil
}

func (storage *DBStorage) ListMetrics(ctx context.Context) ([]models.Metric, error) {
	rows, err := storage.db.QueryContext(ctx, selectSamplesQuery)
	if err != nil {
		return nil, classifyError(fmt.Errorf("error retrieving samples: %w", err))
	}
	defer rows.Close()

	var samples []models.Metric
	for rows.Next() {
		var (
			name, metricType string
			value            sql.NullFloat64
			delta            sql.NullInt64
		)
		if err := rows.Scan(&name, &metricType, &value, &delta); err != nil {
			return nil, fmt.Errorf("error scanning sample: %w", err)
		}
		metricValue, err := fromColumns(metricType, value, delta)
		if err != nil {
			return nil, err
		}
		samples = append(samples, models.Metric{Name: name, Type: metricType, Value: metricValue})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over samples: %w", err)
	}
	return samples, nil
}

func (storage *DBStorage) Ping(ctx context.Context) error {
	if err := storage.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", internalerrors.ErrDatabaseConnection, err)
	}
	return nil
}

// toColumns maps a sample onto the value (gauge) or delta (counter) column.
func toColumns(sample any, typ string) (sql.NullFloat64, sql.NullInt64, error) {
	switch typ {
	case config.GaugeType:
		if v, ok := sample.(float64); ok {
			return sql.NullFloat64{Float64: v, Valid: true}, sql.NullInt64{}, nil
		}
	case config.CounterType:
		if v, ok := sample.(int64); ok {
			return sql.NullFloat64{}, sql.NullInt64{Int64: v, Valid: true}, nil
		}
	default:
		return sql.NullFloat64{}, sql.NullInt64{}, fmt.Errorf("%w: %s", internalerrors.ErrUnknownMetricType, typ)
	}
	return sql.NullFloat64{}, sql.NullInt64{}, fmt.Errorf("%w: %s got %T", internalerrors.ErrInvalidMetricValue, typ, sample)
}

func fromColumns(typ string, value sql.NullFloat64, delta sql.NullInt64) (any, error) {
	switch typ {
	case config.GaugeType:
		if value.Valid {
			return value.Float64, nil
		}
	case config.CounterType:
		if delta.Valid {
			return delta.Int64, nil
		}
	default:
		return nil, internalerrors.ErrUnknownMetricType
	}
	return nil, fmt.Errorf("%w: %s column is null", internalerrors.ErrInvalidMetricValue, typ)
}

// classifyError tags connection-level PostgreSQL failures with ErrDatabaseConnection
// so callers can tell an unreachable database from a bad statement.
func classifyError(err error) error {
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", internalerrors.ErrDatabaseConnection, err)
	}
	return err
}

func isConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.AdminShutdown ||
			pgErr.Code == pgerrcode.CannotConnectNow
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}

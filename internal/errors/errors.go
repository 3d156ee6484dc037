package errors

import "errors"

var (
	// Common errors
	ErrMetricNotFound     = errors.New("metric not found")
	ErrUnknownMetricType  = errors.New("unknown metric type")
	ErrInvalidMetricValue = errors.New("invalid metric value")

	// Control channel errors
	ErrChannelCreate = errors.New("control channel creation failed")
	ErrChannelOpen   = errors.New("control channel open failed")
	ErrChannelRead   = errors.New("control channel read failed")

	// Process and server errors
	ErrLaunchFailed    = errors.New("external server launch failed")
	ErrExpositionStart = errors.New("exposition server start failed")

	// Database errors
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrTransactionFailed  = errors.New("transaction failed")
	ErrQueryExecution     = errors.New("query execution failed")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

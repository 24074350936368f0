// Package log defines standard attribute keys for forecasting operations.
//
// Using these standard keys enables consistent log analysis, monitoring, and
// debugging across the library. Keys follow a hierarchical naming convention
// (e.g., "model.name", "data.samples") to enable structured filtering.
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "Forecaster", "lgbm.Model"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "save", "load", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "predictor", "lgbm", "dataset"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in a design matrix.
	FeaturesKey = "data.features"

	// SeriesCountKey indicates the number of distinct series being processed.
	SeriesCountKey = "data.series"

	// SeriesIDKey identifies a single series within a multi-series dataset.
	SeriesIDKey = "data.series_id"

	// TargetsKey indicates the number of target columns per series.
	TargetsKey = "data.targets"
)

// Forecasting Context
const (
	// HorizonKey records the forecast horizon (steps predicted per series).
	HorizonKey = "forecast.horizon"

	// ChunkLengthKey records the output chunk length of the wrapped model.
	ChunkLengthKey = "forecast.chunk_length"

	// LikelihoodKey records the probabilistic likelihood in use, if any.
	LikelihoodKey = "forecast.likelihood"

	// HistoryLengthKey records the trailing-window truncation applied at fit time.
	HistoryLengthKey = "forecast.history_length"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// RMSEKey records root mean squared error for evaluation operations.
	RMSEKey = "metrics.rmse"

	// R2ScoreKey records R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "NOT_FITTED", "DIMENSION_MISMATCH", "MISSING_COLUMN"
	ErrorCodeKey = "error.code"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated by the error logging functions.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants for common operations.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationSave     = "save"
	OperationLoad     = "load"
	OperationEvaluate = "evaluate"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorMissingColumn     = "MISSING_COLUMN"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
)

// Package predictor adapts the lag-based boosted forecasting model to the
// tabular contract of a forecasting harness: grouped multi-series frames in,
// a prediction column out, and a single opaque artifact on disk.
package predictor

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo/metrics"

	"github.com/YuminosukeSato/scigo-forecast/dataset"
	"github.com/YuminosukeSato/scigo-forecast/lgbm"
	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
	"github.com/YuminosukeSato/scigo-forecast/pkg/log"
	"github.com/YuminosukeSato/scigo-forecast/schema"
	"github.com/YuminosukeSato/scigo-forecast/timeseries"
)

// PredictorFileName is the artifact name the serving harness looks for
// inside the model directory.
const PredictorFileName = "predictor.joblib"

// ModelName identifies this forecaster in errors and logs.
const ModelName = "LightGBM Forecaster"

// Forecaster wraps the boosted forecasting model behind the harness
// interface. Exported fields exist for gob encoding; construct instances
// with New and restore them with Load.
type Forecaster struct {
	Schema        *schema.Forecasting
	Config        lgbm.Config
	HistoryLength int

	Model *lgbm.Model

	// Retained from Fit so that Predict can forecast the training series.
	IDs     []string
	Targets []*timeseries.Series
	Past    []*timeseries.Series
	Future  []*timeseries.Series

	Trained bool
}

// New builds an unfitted Forecaster from a schema and the harness
// hyperparameter bag. Covariate lag settings are dropped when the schema
// declares no matching covariates, whatever the hyperparameters say.
func New(dataSchema *schema.Forecasting, hyperparameters Hyperparameters) (*Forecaster, error) {
	if dataSchema == nil {
		return nil, scigoErrors.NewValueError("predictor.New", "a data schema is required")
	}
	if err := dataSchema.Validate(); err != nil {
		return nil, err
	}

	cfg, historyLength, err := buildConfig(hyperparameters)
	if err != nil {
		return nil, err
	}
	if !dataSchema.HasPastCovariates() {
		cfg.PastLags = nil
	}
	if !dataSchema.HasFutureCovariates() {
		cfg.FutureLags = nil
	}
	if len(cfg.Lags) == 0 && len(cfg.PastLags) == 0 && len(cfg.FutureLags) == 0 {
		// No lag specification survived: fall back to one forecast window
		// of target history.
		cfg.Lags = lgbm.LagRange(dataSchema.ForecastLength)
	}

	model, err := lgbm.NewModel(cfg)
	if err != nil {
		return nil, err
	}

	return &Forecaster{
		Schema:        dataSchema,
		Config:        cfg,
		HistoryLength: historyLength,
		Model:         model,
	}, nil
}

// IsTrained reports whether Fit has completed successfully.
func (f *Forecaster) IsTrained() bool {
	return f.Trained
}

// Fit trains the forecaster on the history frame. historyLength <= 0 keeps
// every row; otherwise each series is truncated to its trailing
// historyLength rows. testData is required when the schema declares future
// covariates, since forecasting then needs covariate values beyond the
// training range.
func (f *Forecaster) Fit(history *dataset.Table, dataSchema *schema.Forecasting, historyLength int, testData *dataset.Table) (err error) {
	defer scigoErrors.Recover(&err, "predictor.Forecaster.Fit")
	start := time.Now()

	if dataSchema != nil {
		f.Schema = dataSchema
	}
	if historyLength <= 0 {
		historyLength = f.HistoryLength
	}

	targets, past, future, ids, err := f.prepareData(history, historyLength, testData)
	if err != nil {
		return err
	}

	logger := log.GetLoggerWithName("predictor")
	logger.Info("Fitting forecaster",
		log.ModelNameKey, ModelName,
		log.OperationKey, log.OperationFit,
		log.SeriesCountKey, len(targets),
		log.HistoryLengthKey, historyLength,
	)

	if err := f.Model.Fit(targets, past, future); err != nil {
		return err
	}

	f.IDs = ids
	f.Targets = targets
	f.Past = past
	f.Future = future
	f.Trained = true

	logger.Info("Forecaster fitted",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// prepareData groups the history by the id column, truncates each series to
// the trailing window, and assembles the target and covariate sequences.
// Future covariates concatenate the training rows with the test rows so that
// they cover the forecast horizon.
func (f *Forecaster) prepareData(history *dataset.Table, historyLength int, testData *dataset.Table) (targets, past, future []*timeseries.Series, ids []string, err error) {
	if history == nil || history.NumRows() == 0 {
		return nil, nil, nil, nil, scigoErrors.WithStack(scigoErrors.ErrEmptyData)
	}

	ids, groups, err := history.GroupByID(f.Schema.IDCol)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var testGroups map[string]*dataset.Table
	if f.Schema.HasFutureCovariates() {
		if testData == nil {
			return nil, nil, nil, nil, scigoErrors.NewValidationError("test_data",
				"the schema declares future covariates, so fitting requires the test frame", nil)
		}
		testIDs, tg, err := testData.GroupByID(f.Schema.IDCol)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if missing := missingIDs(ids, testIDs); len(missing) > 0 {
			return nil, nil, nil, nil, scigoErrors.NewSeriesMismatchError("Fit", missing)
		}
		testGroups = tg
	}

	for _, id := range ids {
		group := groups[id].Tail(historyLength)

		target, err := timeseries.FromTable(id, group, f.Schema.Targets)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if f.Config.UseStaticCovariates && len(f.Schema.StaticCovariates) > 0 {
			static, err := staticValues(group, f.Schema.StaticCovariates)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			target.Static = static
		}
		targets = append(targets, target)

		if f.Schema.HasPastCovariates() {
			p, err := timeseries.FromTable(id, group, f.Schema.PastCovariates)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			past = append(past, p)
		}

		if f.Schema.HasFutureCovariates() {
			trainPart, err := timeseries.FromTable(id, group, f.Schema.FutureCovariates)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			testPart, err := timeseries.FromTable(id, testGroups[id], f.Schema.FutureCovariates)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			combined, err := trainPart.AppendSteps(testPart)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			future = append(future, combined)
		}
	}
	return targets, past, future, ids, nil
}

// staticValues reads the per-series constant covariate columns from the
// first row of a series group.
func staticValues(group *dataset.Table, columns []string) ([]float64, error) {
	out := make([]float64, len(columns))
	for i, col := range columns {
		vals, err := group.Float64Column(col)
		if err != nil {
			return nil, err
		}
		out[i] = vals[0]
	}
	return out, nil
}

func missingIDs(want, have []string) []string {
	seen := make(map[string]bool, len(have))
	for _, id := range have {
		seen[id] = true
	}
	var missing []string
	for _, id := range want {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// Predict forecasts schema.ForecastLength steps for every training series
// and writes the flattened values into testData under outputColumnName. The
// frame must hold exactly one row per series per forecast step, ordered the
// way the training ids were ordered.
func (f *Forecaster) Predict(testData *dataset.Table, outputColumnName string) (*dataset.Table, error) {
	if !f.Trained {
		return nil, scigoErrors.NewNotFittedError(ModelName, "Predict")
	}
	if testData == nil {
		return nil, scigoErrors.WithStack(scigoErrors.ErrEmptyData)
	}

	horizon := f.Schema.ForecastLength
	predictions, err := f.Model.Predict(horizon, f.Targets, f.Past, f.Future)
	if err != nil {
		return nil, err
	}

	values := make([]any, 0, len(predictions)*horizon)
	for _, p := range predictions {
		for step := 0; step < p.Len(); step++ {
			for col := 0; col < p.Width(); col++ {
				values = append(values, p.At(step, col))
			}
		}
	}

	if len(values) != testData.NumRows() {
		return nil, scigoErrors.NewDimensionError("Predict", len(values), testData.NumRows(), 0)
	}
	if err := testData.SetColumn(outputColumnName, values); err != nil {
		return nil, err
	}

	log.GetLoggerWithName("predictor").Info("Forecast written",
		log.OperationKey, log.OperationPredict,
		log.SeriesCountKey, len(predictions),
		log.HorizonKey, horizon,
	)
	return testData, nil
}

// Evaluate forecasts len(yTest)/N steps ahead and returns the RMSE of the
// flattened forecast against yTest.
func (f *Forecaster) Evaluate(xTest *dataset.Table, yTest []float64) (float64, error) {
	if !f.Trained {
		return 0, scigoErrors.NewNotFittedError(ModelName, "Evaluate")
	}
	if len(yTest) == 0 {
		return 0, scigoErrors.WithStack(scigoErrors.ErrEmptyData)
	}
	// One truth value per series per step per target component.
	valuesPerStep := 0
	if len(f.Targets) > 0 {
		valuesPerStep = len(f.Targets) * f.Targets[0].Width()
	}
	if valuesPerStep == 0 || len(yTest)%valuesPerStep != 0 {
		return 0, scigoErrors.NewDimensionError("Evaluate", valuesPerStep, len(yTest), 0)
	}

	horizon := len(yTest) / valuesPerStep
	predictions, err := f.Model.Predict(horizon, f.Targets, f.Past, f.Future)
	if err != nil {
		return 0, err
	}

	flat := make([]float64, 0, len(yTest))
	for _, p := range predictions {
		for step := 0; step < p.Len(); step++ {
			for col := 0; col < p.Width(); col++ {
				flat = append(flat, p.At(step, col))
			}
		}
	}

	yTrue := mat.NewVecDense(len(yTest), yTest)
	yPred := mat.NewVecDense(len(flat), flat)
	return metrics.RMSE(yTrue, yPred)
}

// Save writes the fitted forecaster as a single gob blob named
// predictor.joblib inside dirPath, creating the directory when needed.
func (f *Forecaster) Save(dirPath string) error {
	if !f.Trained {
		return scigoErrors.NewNotFittedError(ModelName, "Save")
	}
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return scigoErrors.Wrap(err, "predictor.Save: creating model directory")
	}

	path := filepath.Join(dirPath, PredictorFileName)
	file, err := os.Create(path)
	if err != nil {
		return scigoErrors.Wrap(err, "predictor.Save: creating artifact")
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(f); err != nil {
		return scigoErrors.Wrap(err, "predictor.Save: encoding forecaster")
	}

	log.GetLoggerWithName("predictor").Info("Forecaster saved",
		log.OperationKey, log.OperationSave,
		"path", path,
	)
	return nil
}

// Load restores a Forecaster previously written by Save. The restored
// instance predicts bit-identically to the one that was saved.
func Load(dirPath string) (*Forecaster, error) {
	path := filepath.Join(dirPath, PredictorFileName)
	file, err := os.Open(path)
	if err != nil {
		return nil, scigoErrors.Wrap(err, "predictor.Load: opening artifact")
	}
	defer file.Close()

	var f Forecaster
	if err := gob.NewDecoder(file).Decode(&f); err != nil {
		return nil, scigoErrors.Wrap(err, "predictor.Load: decoding forecaster")
	}

	log.GetLoggerWithName("predictor").Info("Forecaster loaded",
		log.OperationKey, log.OperationLoad,
		"path", path,
	)
	return &f, nil
}

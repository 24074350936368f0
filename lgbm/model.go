package lgbm

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
	"github.com/YuminosukeSato/scigo-forecast/pkg/log"
	"github.com/YuminosukeSato/scigo-forecast/timeseries"
)

// Model is a lag-based gradient-boosted forecaster over one or more series.
// All exported fields exist for gob encoding; construct instances with
// NewModel and treat them as opaque.
type Model struct {
	Config    Config
	Quantiles []float64 // resolved quantile slots ([0] for non-quantile likelihoods)
	MedianIdx int

	// Widths observed at fit time.
	TargetWidth int
	PastWidth   int
	FutureWidth int
	StaticWidth int
	NumFeatures int

	// Boosters indexed as [chunk step][quantile][target component]. The
	// step dimension has length 1 when MultiModels is false.
	Boosters [][][]*Booster

	Fitted bool
}

// NewModel validates cfg and returns an unfitted model.
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	qs := cfg.resolvedQuantiles()
	return &Model{
		Config:    cfg,
		Quantiles: qs,
		MedianIdx: medianIndex(qs),
	}, nil
}

// IsFitted reports whether Fit has completed successfully.
func (m *Model) IsFitted() bool {
	return m.Fitted
}

// Fit trains the model on one or more target series with optional aligned
// covariates. past and future must be nil or have one entry per target
// series; a single design matrix is built across all series.
func (m *Model) Fit(targets, past, future []*timeseries.Series) (err error) {
	defer scigoErrors.Recover(&err, "lgbm.Model.Fit")
	start := time.Now()

	windows, err := m.buildWindows(targets, past, future)
	if err != nil {
		return err
	}

	logger := log.GetLoggerWithName("lgbm")
	logger.Info("Training boosted forecaster",
		log.OperationKey, log.OperationFit,
		log.SeriesCountKey, len(targets),
		log.ChunkLengthKey, m.Config.OutputChunkLength,
		log.LikelihoodKey, m.Config.Likelihood,
	)

	steps := m.Config.OutputChunkLength
	if !m.Config.MultiModels {
		steps = 1
	}

	m.Boosters = make([][][]*Booster, steps)
	for stepIdx := 0; stepIdx < steps; stepIdx++ {
		labelOffset := stepIdx
		if !m.Config.MultiModels {
			labelOffset = m.Config.OutputChunkLength - 1
		}

		X, labels, err := m.designMatrix(windows, labelOffset)
		if err != nil {
			return err
		}

		m.Boosters[stepIdx] = make([][]*Booster, len(m.Quantiles))
		for qIdx, q := range m.Quantiles {
			params := m.Config.trainingParams(q)
			m.Boosters[stepIdx][qIdx] = make([]*Booster, m.TargetWidth)
			for comp := 0; comp < m.TargetWidth; comp++ {
				b := &Booster{}
				if err := b.fit(X, labels[comp], params); err != nil {
					return err
				}
				m.Boosters[stepIdx][qIdx][comp] = b
			}
		}
	}

	m.Fitted = true
	logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.FeaturesKey, m.NumFeatures,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict forecasts n steps for every fitted-compatible series, using the
// median quantile as the point forecast for probabilistic models.
func (m *Model) Predict(n int, targets, past, future []*timeseries.Series) ([]*timeseries.Series, error) {
	return m.predictWith(m.MedianIdx, n, targets, past, future)
}

// PredictQuantile forecasts n steps at a specific fitted quantile. Only
// valid for the quantile likelihood.
func (m *Model) PredictQuantile(n int, q float64, targets, past, future []*timeseries.Series) ([]*timeseries.Series, error) {
	if m.Config.Likelihood != LikelihoodQuantile {
		return nil, scigoErrors.NewValidationError("likelihood",
			"PredictQuantile requires the quantile likelihood", m.Config.Likelihood)
	}
	for i, fitted := range m.Quantiles {
		if math.Abs(fitted-q) < 1e-9 {
			return m.predictWith(i, n, targets, past, future)
		}
	}
	return nil, scigoErrors.NewValidationError("quantile", "quantile was not fitted", q)
}

func (m *Model) predictWith(qIdx, n int, targets, past, future []*timeseries.Series) (out []*timeseries.Series, err error) {
	defer scigoErrors.Recover(&err, "lgbm.Model.Predict")

	if !m.Fitted {
		return nil, scigoErrors.NewNotFittedError("lgbm.Model", "Predict")
	}
	if n <= 0 {
		return nil, scigoErrors.NewValueError("Predict", "forecast length must be positive")
	}
	if err := m.checkAlignment(targets, past, future); err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("lgbm")
	logger.Debug("Forecasting",
		log.OperationKey, log.OperationPredict,
		log.SeriesCountKey, len(targets),
		log.HorizonKey, n,
	)

	chunk := m.Config.OutputChunkLength
	out = make([]*timeseries.Series, len(targets))

	for i, target := range targets {
		ext := target.Clone()
		w := window{target: ext, static: m.staticOf(target)}
		if past != nil {
			w.past = past[i]
		}
		if future != nil {
			w.future = future[i]
		}

		forecast := make([]float64, 0, n*m.TargetWidth)
		for produced := 0; produced < n; {
			baseT := ext.Len()
			for s := 0; s < chunk && produced < n; s++ {
				stepIdx, base := s, baseT
				if !m.Config.MultiModels {
					// The single booster predicts at the last chunk step;
					// earlier steps reuse it with a shifted base.
					stepIdx = 0
					base = baseT + s - (chunk - 1)
				}

				feats, err := m.featuresAt(w, base)
				if err != nil {
					return nil, err
				}

				row := make([]float64, m.TargetWidth)
				for comp := 0; comp < m.TargetWidth; comp++ {
					v, err := m.Boosters[stepIdx][qIdx][comp].predictRow(feats)
					if err != nil {
						return nil, err
					}
					row[comp] = v
				}

				forecast = append(forecast, row...)
				if err := ext.AppendValues(row); err != nil {
					return nil, err
				}
				produced++
			}
		}

		s, err := timeseries.New(target.ID, target.Columns, forecast)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// buildWindows validates the fit inputs, records the observed widths, and
// assembles one window per series.
func (m *Model) buildWindows(targets, past, future []*timeseries.Series) ([]window, error) {
	if len(targets) == 0 {
		return nil, scigoErrors.WithStack(scigoErrors.ErrEmptyData)
	}
	if len(m.Config.PastLags) > 0 && past == nil {
		return nil, scigoErrors.NewValidationError("past_covariates",
			"past covariate lags are configured but no past covariates were supplied", nil)
	}
	if len(m.Config.FutureLags) > 0 && future == nil {
		return nil, scigoErrors.NewValidationError("future_covariates",
			"future covariate lags are configured but no future covariates were supplied", nil)
	}
	if len(m.Config.PastLags) == 0 {
		past = nil
	}
	if len(m.Config.FutureLags) == 0 {
		future = nil
	}
	if past != nil && len(past) != len(targets) {
		return nil, scigoErrors.NewDimensionError("Fit", len(targets), len(past), 0)
	}
	if future != nil && len(future) != len(targets) {
		return nil, scigoErrors.NewDimensionError("Fit", len(targets), len(future), 0)
	}

	m.TargetWidth = targets[0].Width()
	m.PastWidth = 0
	m.FutureWidth = 0
	if past != nil {
		m.PastWidth = past[0].Width()
	}
	if future != nil {
		m.FutureWidth = future[0].Width()
	}

	m.StaticWidth = 0
	if m.Config.UseStaticCovariates {
		m.StaticWidth = len(targets[0].Static)
		for _, t := range targets {
			if len(t.Static) != m.StaticWidth {
				return nil, scigoErrors.NewValidationError("static_covariates",
					"all series must share the same static covariate dimensionality", len(t.Static))
			}
		}
	}

	windows := make([]window, len(targets))
	for i, target := range targets {
		if target.Width() != m.TargetWidth {
			return nil, scigoErrors.NewDimensionError("Fit", m.TargetWidth, target.Width(), 1)
		}
		w := window{target: target, static: m.staticOf(target)}
		if past != nil {
			if past[i].Len() != target.Len() {
				return nil, scigoErrors.NewDimensionError("Fit", target.Len(), past[i].Len(), 0)
			}
			if past[i].Width() != m.PastWidth {
				return nil, scigoErrors.NewDimensionError("Fit", m.PastWidth, past[i].Width(), 1)
			}
			w.past = past[i]
		}
		if future != nil {
			if future[i].Width() != m.FutureWidth {
				return nil, scigoErrors.NewDimensionError("Fit", m.FutureWidth, future[i].Width(), 1)
			}
			w.future = future[i]
		}
		windows[i] = w
	}

	m.NumFeatures = m.featureCount()
	return windows, nil
}

// designMatrix builds the pooled feature matrix and one label vector per
// target component for the given label offset.
func (m *Model) designMatrix(windows []window, labelOffset int) (*mat.Dense, []*mat.Dense, error) {
	var rows [][]float64
	labels := make([][]float64, m.TargetWidth)

	for _, w := range windows {
		minBase, maxBase := m.trainingRange(w, labelOffset)
		for base := minBase; base <= maxBase; base++ {
			feats, err := m.featuresAt(w, base)
			if err != nil {
				return nil, nil, err
			}
			rows = append(rows, feats)
			for comp := 0; comp < m.TargetWidth; comp++ {
				labels[comp] = append(labels[comp], w.target.At(base+labelOffset, comp))
			}
		}
	}

	if len(rows) == 0 {
		return nil, nil, scigoErrors.NewValueError("Fit",
			"no training samples: every series is shorter than the configured lags plus the output chunk")
	}

	X := mat.NewDense(len(rows), m.NumFeatures, nil)
	for i, r := range rows {
		X.SetRow(i, r)
	}
	ys := make([]*mat.Dense, m.TargetWidth)
	for comp := 0; comp < m.TargetWidth; comp++ {
		ys[comp] = mat.NewDense(len(labels[comp]), 1, labels[comp])
	}
	return X, ys, nil
}

// checkAlignment verifies predict inputs against the widths seen at fit time.
func (m *Model) checkAlignment(targets, past, future []*timeseries.Series) error {
	if len(targets) == 0 {
		return scigoErrors.WithStack(scigoErrors.ErrEmptyData)
	}
	if len(m.Config.PastLags) > 0 && (past == nil || len(past) != len(targets)) {
		return scigoErrors.NewValidationError("past_covariates",
			"prediction requires the past covariates the model was fitted with", nil)
	}
	if len(m.Config.FutureLags) > 0 && (future == nil || len(future) != len(targets)) {
		return scigoErrors.NewValidationError("future_covariates",
			"prediction requires the future covariates the model was fitted with", nil)
	}
	for _, t := range targets {
		if t.Width() != m.TargetWidth {
			return scigoErrors.NewDimensionError("Predict", m.TargetWidth, t.Width(), 1)
		}
	}
	return nil
}

// staticOf returns the static covariate vector used as features, or nil when
// static covariates are disabled or absent.
func (m *Model) staticOf(target *timeseries.Series) []float64 {
	if m.StaticWidth == 0 {
		return nil
	}
	return target.Static
}

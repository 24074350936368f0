// Package lgbm implements a lag-based gradient-boosted forecasting model.
//
// The model turns per-series sequences into a lag-feature design matrix and
// forecasts by chunk-wise autoregression. All tree construction, split
// selection and probabilistic objectives are delegated to the LightGBM
// implementation in github.com/YuminosukeSato/scigo; this package owns only
// the windowing and the fit/predict orchestration around it.
package lgbm

import (
	"sort"

	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

// Supported likelihoods. A non-empty likelihood makes the model
// probabilistic: quantile fits one booster per quantile, poisson switches
// the boosting objective. Gaussian falls back to squared error since the
// wrapped library has no mean-variance loss.
const (
	LikelihoodNone     = ""
	LikelihoodQuantile = "quantile"
	LikelihoodPoisson  = "poisson"
	LikelihoodGaussian = "gaussian"
)

// DefaultQuantiles is the quantile set fitted when the likelihood is
// "quantile" and no explicit quantiles are configured.
var DefaultQuantiles = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99}

// BoosterParams carries the LightGBM hyperparameters forwarded to every
// fitted booster. Field names mirror the wrapped library's regressor.
type BoosterParams struct {
	NumIterations   int
	LearningRate    float64
	NumLeaves       int
	MaxDepth        int
	MinChildSamples int
	Subsample       float64
	SubsampleFreq   int
	ColsampleBytree float64
	RegAlpha        float64
	RegLambda       float64
	EarlyStopping   int
}

// DefaultBoosterParams returns the LightGBM defaults used when a parameter
// is not overridden by the caller's hyperparameters.
func DefaultBoosterParams() BoosterParams {
	return BoosterParams{
		NumIterations:   100,
		LearningRate:    0.1,
		NumLeaves:       31,
		MaxDepth:        -1,
		MinChildSamples: 20,
		Subsample:       1.0,
		SubsampleFreq:   0,
		ColsampleBytree: 1.0,
		RegAlpha:        0.0,
		RegLambda:       0.0,
		EarlyStopping:   0,
	}
}

// Config holds the forecasting-model configuration.
type Config struct {
	// Lags are negative offsets into the target history used as features.
	Lags []int
	// PastLags are negative offsets into the past covariates.
	PastLags []int
	// FutureLags are offsets into the future covariates; negative offsets
	// look back, offsets >= 0 reach into the forecast horizon.
	FutureLags []int

	// OutputChunkLength is the number of steps predicted per model pass.
	// Horizons longer than this are covered autoregressively.
	OutputChunkLength int

	Likelihood string
	Quantiles  []float64

	// MultiModels fits one booster per chunk step when true; otherwise a
	// single booster trained at the last chunk step serves every step with
	// shifted lags.
	MultiModels bool

	// UseStaticCovariates appends per-series static covariate values as
	// features when every series carries them.
	UseStaticCovariates bool

	RandomState int
	Booster     BoosterParams
}

// DefaultConfig mirrors the upstream wrapper defaults: one-step chunks,
// multi-model mode, static covariates enabled.
func DefaultConfig() Config {
	return Config{
		OutputChunkLength:   1,
		MultiModels:         true,
		UseStaticCovariates: true,
		Booster:             DefaultBoosterParams(),
	}
}

// LagRange expands the integer shorthand n into the lag list -n..-1.
func LagRange(n int) []int {
	if n <= 0 {
		return nil
	}
	lags := make([]int, n)
	for i := 0; i < n; i++ {
		lags[i] = -n + i
	}
	return lags
}

// FutureLagRange expands the (past, future) tuple shorthand into the lag
// list -past..-1, 0..future-1.
func FutureLagRange(past, future int) []int {
	lags := LagRange(past)
	for i := 0; i < future; i++ {
		lags = append(lags, i)
	}
	return lags
}

func (c *Config) validate() error {
	if len(c.Lags) == 0 && len(c.PastLags) == 0 && len(c.FutureLags) == 0 {
		return scigoErrors.NewValidationError("lags",
			"at least one of lags, lags_past_covariates or lags_future_covariates is required", nil)
	}
	for _, l := range c.Lags {
		if l >= 0 {
			return scigoErrors.NewValidationError("lags", "target lags must be negative", l)
		}
	}
	for _, l := range c.PastLags {
		if l >= 0 {
			return scigoErrors.NewValidationError("lags_past_covariates", "past covariate lags must be negative", l)
		}
	}
	if c.OutputChunkLength <= 0 {
		return scigoErrors.NewValidationError("output_chunk_length", "must be positive", c.OutputChunkLength)
	}

	switch c.Likelihood {
	case LikelihoodNone, LikelihoodQuantile, LikelihoodPoisson, LikelihoodGaussian:
	default:
		return scigoErrors.NewValidationError("likelihood",
			"must be one of '', 'quantile', 'poisson', 'gaussian'", c.Likelihood)
	}

	for _, q := range c.Quantiles {
		if q <= 0 || q >= 1 {
			return scigoErrors.NewValidationError("quantiles", "quantiles must lie in (0, 1)", q)
		}
	}
	return nil
}

// resolvedQuantiles returns the sorted quantile set the model fits, or a
// single pseudo-quantile slot for non-quantile likelihoods.
func (c *Config) resolvedQuantiles() []float64 {
	if c.Likelihood != LikelihoodQuantile {
		return []float64{0}
	}
	qs := c.Quantiles
	if len(qs) == 0 {
		qs = DefaultQuantiles
	}
	out := append([]float64(nil), qs...)
	sort.Float64s(out)
	return out
}

// medianIndex picks the quantile used as the point forecast: 0.5 when
// present, otherwise the quantile closest to it.
func medianIndex(quantiles []float64) int {
	best, bestDist := 0, 2.0
	for i, q := range quantiles {
		d := q - 0.5
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// objective maps the likelihood onto a LightGBM objective name.
func (c *Config) objective() string {
	switch c.Likelihood {
	case LikelihoodQuantile:
		return "quantile"
	case LikelihoodPoisson:
		return "poisson"
	default:
		// Gaussian likelihood degrades to squared error: the wrapped
		// library has no mean+variance objective.
		return "regression"
	}
}

// maxLookback returns the deepest lag the configuration reaches into the past.
func (c *Config) maxLookback() int {
	depth := 0
	for _, group := range [][]int{c.Lags, c.PastLags, c.FutureLags} {
		for _, l := range group {
			if -l > depth {
				depth = -l
			}
		}
	}
	return depth
}

// maxFutureReach returns the furthest future covariate offset, or -1 when
// future lags never reach the horizon.
func (c *Config) maxFutureReach() int {
	reach := -1
	for _, l := range c.FutureLags {
		if l > reach {
			reach = l
		}
	}
	return reach
}

package predictor

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/YuminosukeSato/scigo-forecast/lgbm"
	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
	"github.com/YuminosukeSato/scigo-forecast/pkg/log"
)

// Hyperparameters is the raw key/value bag a training harness hands to New.
// Keys follow the upstream wrapper's spelling; unknown keys are forwarded to
// the booster when recognized there and warned about otherwise.
type Hyperparameters map[string]any

// HyperparametersFromJSON parses a hyperparameter document into the bag
// consumed by New.
func HyperparametersFromJSON(data []byte) (Hyperparameters, error) {
	if len(data) == 0 {
		return Hyperparameters{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, scigoErrors.NewValueError("predictor.HyperparametersFromJSON", "invalid JSON document")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, scigoErrors.NewValueError("predictor.HyperparametersFromJSON", "hyperparameters must be a JSON object")
	}

	hp := Hyperparameters{}
	doc.ForEach(func(key, value gjson.Result) bool {
		hp[key.String()] = value.Value()
		return true
	})
	return hp, nil
}

// buildConfig translates the hyperparameter bag into a model configuration
// plus the trailing-window length, consuming keys as it recognizes them.
func buildConfig(hp Hyperparameters) (lgbm.Config, int, error) {
	cfg := lgbm.DefaultConfig()
	historyLength := 0
	consumed := map[string]bool{}

	take := func(key string) (any, bool) {
		v, ok := hp[key]
		if ok {
			consumed[key] = true
		}
		return v, ok
	}

	if v, ok := take("lags"); ok {
		lags, err := parseLags("lags", v)
		if err != nil {
			return cfg, 0, err
		}
		cfg.Lags = lags
	}
	if v, ok := take("lags_past_covariates"); ok {
		lags, err := parseLags("lags_past_covariates", v)
		if err != nil {
			return cfg, 0, err
		}
		cfg.PastLags = lags
	}
	if v, ok := take("lags_future_covariates"); ok {
		lags, err := parseFutureLags(v)
		if err != nil {
			return cfg, 0, err
		}
		cfg.FutureLags = lags
	} else {
		// Matches the upstream default of the (5, 1) tuple. New drops it
		// again when the schema declares no future covariates.
		cfg.FutureLags = lgbm.FutureLagRange(5, 1)
	}

	if v, ok := take("output_chunk_length"); ok {
		n, err := asInt("output_chunk_length", v)
		if err != nil {
			return cfg, 0, err
		}
		cfg.OutputChunkLength = n
	}
	if v, ok := take("likelihood"); ok {
		s, ok := v.(string)
		if !ok {
			return cfg, 0, scigoErrors.NewValidationError("likelihood", "must be a string", v)
		}
		cfg.Likelihood = s
	}
	if v, ok := take("quantiles"); ok {
		qs, err := asFloatList("quantiles", v)
		if err != nil {
			return cfg, 0, err
		}
		cfg.Quantiles = qs
	}
	if v, ok := take("multi_models"); ok {
		b, ok := v.(bool)
		if !ok {
			return cfg, 0, scigoErrors.NewValidationError("multi_models", "must be a boolean", v)
		}
		cfg.MultiModels = b
	}
	if v, ok := take("use_static_covariates"); ok {
		b, ok := v.(bool)
		if !ok {
			return cfg, 0, scigoErrors.NewValidationError("use_static_covariates", "must be a boolean", v)
		}
		cfg.UseStaticCovariates = b
	}
	if v, ok := take("random_state"); ok {
		n, err := asInt("random_state", v)
		if err != nil {
			return cfg, 0, err
		}
		cfg.RandomState = n
	}
	if v, ok := take("history_length"); ok {
		n, err := asInt("history_length", v)
		if err != nil {
			return cfg, 0, err
		}
		if n <= 0 {
			return cfg, 0, scigoErrors.NewValidationError("history_length", "must be positive", n)
		}
		historyLength = n
	}

	logger := log.GetLoggerWithName("predictor")
	for key, v := range hp {
		if consumed[key] {
			continue
		}
		if applyBoosterParam(&cfg.Booster, key, v) {
			continue
		}
		logger.Warn("Ignoring unknown hyperparameter",
			"param", key, "value", fmt.Sprint(v))
	}

	return cfg, historyLength, nil
}

// applyBoosterParam maps one leftover hyperparameter onto the LightGBM
// booster parameters, reporting whether the key was recognized.
func applyBoosterParam(p *lgbm.BoosterParams, key string, v any) bool {
	switch key {
	case "n_estimators", "num_iterations":
		if n, err := asInt(key, v); err == nil {
			p.NumIterations = n
		}
	case "learning_rate":
		if f, ok := asFloat(v); ok {
			p.LearningRate = f
		}
	case "num_leaves":
		if n, err := asInt(key, v); err == nil {
			p.NumLeaves = n
		}
	case "max_depth":
		if n, err := asInt(key, v); err == nil {
			p.MaxDepth = n
		}
	case "min_child_samples", "min_data_in_leaf":
		if n, err := asInt(key, v); err == nil {
			p.MinChildSamples = n
		}
	case "subsample", "bagging_fraction":
		if f, ok := asFloat(v); ok {
			p.Subsample = f
		}
	case "subsample_freq", "bagging_freq":
		if n, err := asInt(key, v); err == nil {
			p.SubsampleFreq = n
		}
	case "colsample_bytree", "feature_fraction":
		if f, ok := asFloat(v); ok {
			p.ColsampleBytree = f
		}
	case "reg_alpha", "lambda_l1":
		if f, ok := asFloat(v); ok {
			p.RegAlpha = f
		}
	case "reg_lambda", "lambda_l2":
		if f, ok := asFloat(v); ok {
			p.RegLambda = f
		}
	case "early_stopping_rounds":
		if n, err := asInt(key, v); err == nil {
			p.EarlyStopping = n
		}
	default:
		return false
	}
	return true
}

// parseLags accepts the integer shorthand n (expanded to -n..-1) or an
// explicit list of negative lags.
func parseLags(param string, v any) ([]int, error) {
	if n, err := asInt(param, v); err == nil {
		if n <= 0 {
			return nil, scigoErrors.NewValidationError(param, "shorthand lag count must be positive", n)
		}
		return lgbm.LagRange(n), nil
	}
	list, err := asIntList(param, v)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// parseFutureLags accepts the (past, future) pair shorthand or an explicit
// list of offsets.
func parseFutureLags(v any) ([]int, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, scigoErrors.NewValidationError("lags_future_covariates",
			"must be a [past, future] pair or a list of offsets", v)
	}
	// A two-element pair of non-negative ints is the (past, future) tuple.
	if len(list) == 2 {
		past, err1 := asInt("lags_future_covariates", list[0])
		future, err2 := asInt("lags_future_covariates", list[1])
		if err1 == nil && err2 == nil && past >= 0 && future >= 0 {
			return lgbm.FutureLagRange(past, future), nil
		}
	}
	return asIntList("lags_future_covariates", v)
}

func asInt(param string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, scigoErrors.NewValidationError(param, "must be an integer", v)
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case int:
		return float64(f), true
	case int64:
		return float64(f), true
	}
	return 0, false
}

func asIntList(param string, v any) ([]int, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, scigoErrors.NewValidationError(param, "must be a non-empty list of integers", v)
	}
	out := make([]int, len(list))
	for i, item := range list {
		n, err := asInt(param, item)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func asFloatList(param string, v any) ([]float64, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, scigoErrors.NewValidationError(param, "must be a non-empty list of numbers", v)
	}
	out := make([]float64, len(list))
	for i, item := range list {
		f, ok := asFloat(item)
		if !ok {
			return nil, scigoErrors.NewValidationError(param, "must be a non-empty list of numbers", item)
		}
		out[i] = f
	}
	return out, nil
}

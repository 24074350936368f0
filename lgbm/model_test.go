package lgbm

import (
	"bytes"
	"encoding/gob"
	"math"
	"testing"

	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
	"github.com/YuminosukeSato/scigo-forecast/timeseries"
)

// testConfig keeps training cheap: few trees, tiny leaves.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Lags = LagRange(4)
	cfg.Booster.NumIterations = 10
	cfg.Booster.MinChildSamples = 2
	cfg.Booster.NumLeaves = 7
	return cfg
}

// trendSeries builds a noiseless series following level + slope*t.
func trendSeries(id string, n int, level, slope float64) *timeseries.Series {
	data := make([]float64, n)
	for i := range data {
		data[i] = level + slope*float64(i)
	}
	s, err := timeseries.New(id, []string{"y"}, data)
	if err != nil {
		panic(err)
	}
	return s
}

func TestFitPredictSingleSeries(t *testing.T) {
	m, err := NewModel(testConfig())
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	targets := []*timeseries.Series{trendSeries("a", 60, 10, 0.5)}
	if err := m.Fit(targets, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if !m.IsFitted() {
		t.Fatal("model should be fitted")
	}

	preds, err := m.Predict(5, targets, nil, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(preds) != 1 {
		t.Fatalf("prediction series = %d, want 1", len(preds))
	}
	if preds[0].Len() != 5 {
		t.Fatalf("forecast steps = %d, want 5", preds[0].Len())
	}
	for i := 0; i < preds[0].Len(); i++ {
		v := preds[0].At(i, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("forecast[%d] = %v, want finite", i, v)
		}
	}
}

func TestPredictBeforeFit(t *testing.T) {
	m, err := NewModel(testConfig())
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	_, err = m.Predict(3, []*timeseries.Series{trendSeries("a", 30, 0, 1)}, nil, nil)
	var nfErr *scigoErrors.NotFittedError
	if !scigoErrors.As(err, &nfErr) {
		t.Fatalf("expected *NotFittedError, got %v", err)
	}
}

func TestFitPredictMultiSeries(t *testing.T) {
	cfg := testConfig()
	cfg.OutputChunkLength = 2
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	targets := []*timeseries.Series{
		trendSeries("a", 50, 100, 1),
		trendSeries("b", 50, -20, 0.2),
	}
	if err := m.Fit(targets, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Horizon 5 with chunk 2 forces autoregression across chunks.
	preds, err := m.Predict(5, targets, nil, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("prediction series = %d, want 2", len(preds))
	}
	for i, p := range preds {
		if p.Len() != 5 {
			t.Errorf("series %d forecast steps = %d, want 5", i, p.Len())
		}
		if p.ID != targets[i].ID {
			t.Errorf("series %d id = %q, want %q", i, p.ID, targets[i].ID)
		}
	}
}

func TestSingleModelMode(t *testing.T) {
	cfg := testConfig()
	cfg.OutputChunkLength = 3
	cfg.MultiModels = false
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	targets := []*timeseries.Series{trendSeries("a", 60, 5, 0.3)}
	if err := m.Fit(targets, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if len(m.Boosters) != 1 {
		t.Fatalf("booster steps = %d, want 1 in single-model mode", len(m.Boosters))
	}

	preds, err := m.Predict(4, targets, nil, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if preds[0].Len() != 4 {
		t.Errorf("forecast steps = %d, want 4", preds[0].Len())
	}
}

func TestPastCovariates(t *testing.T) {
	cfg := testConfig()
	cfg.PastLags = LagRange(2)
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	targets := []*timeseries.Series{trendSeries("a", 40, 0, 1)}
	past := []*timeseries.Series{trendSeries("a", 40, 1, -0.1)}
	if err := m.Fit(targets, past, nil); err != nil {
		t.Fatalf("Fit with past covariates failed: %v", err)
	}

	// One-step horizon stays inside the covariate coverage.
	preds, err := m.Predict(1, targets, past, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if preds[0].Len() != 1 {
		t.Errorf("forecast steps = %d, want 1", preds[0].Len())
	}

	// Missing covariates at fit time must be rejected.
	m2, _ := NewModel(cfg)
	err = m2.Fit(targets, nil, nil)
	var valErr *scigoErrors.ValidationError
	if !scigoErrors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestFutureCovariates(t *testing.T) {
	cfg := testConfig()
	cfg.FutureLags = FutureLagRange(2, 1)
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	targets := []*timeseries.Series{trendSeries("a", 40, 0, 1)}
	// Future covariates extend 5 steps beyond the training end.
	future := []*timeseries.Series{trendSeries("a", 45, 0, 0.5)}
	if err := m.Fit(targets, nil, future); err != nil {
		t.Fatalf("Fit with future covariates failed: %v", err)
	}

	preds, err := m.Predict(5, targets, nil, future)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if preds[0].Len() != 5 {
		t.Errorf("forecast steps = %d, want 5", preds[0].Len())
	}

	// Forecasting past the covariate coverage must fail.
	if _, err := m.Predict(20, targets, nil, future); err == nil {
		t.Error("expected error when future covariates run out")
	}
}

func TestQuantileLikelihood(t *testing.T) {
	cfg := testConfig()
	cfg.Likelihood = LikelihoodQuantile
	cfg.Quantiles = []float64{0.1, 0.5, 0.9}
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	targets := []*timeseries.Series{trendSeries("a", 60, 10, 1)}
	if err := m.Fit(targets, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// One booster set per quantile.
	if len(m.Boosters[0]) != 3 {
		t.Fatalf("quantile boosters = %d, want 3", len(m.Boosters[0]))
	}

	point, err := m.Predict(3, targets, nil, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if point[0].Len() != 3 {
		t.Errorf("point forecast steps = %d", point[0].Len())
	}

	lo, err := m.PredictQuantile(3, 0.1, targets, nil, nil)
	if err != nil {
		t.Fatalf("PredictQuantile(0.1) failed: %v", err)
	}
	if lo[0].Len() != 3 {
		t.Errorf("quantile forecast steps = %d", lo[0].Len())
	}

	// Unfitted quantile rejected.
	if _, err := m.PredictQuantile(3, 0.25, targets, nil, nil); err == nil {
		t.Error("expected error for unfitted quantile")
	}

	// Non-quantile model rejects PredictQuantile.
	plain, _ := NewModel(testConfig())
	_ = plain.Fit(targets, nil, nil)
	if _, err := plain.PredictQuantile(3, 0.5, targets, nil, nil); err == nil {
		t.Error("expected error for PredictQuantile on non-quantile model")
	}
}

func TestSeriesTooShort(t *testing.T) {
	cfg := testConfig()
	cfg.Lags = LagRange(30)
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	err = m.Fit([]*timeseries.Series{trendSeries("a", 10, 0, 1)}, nil, nil)
	if err == nil {
		t.Fatal("expected error for series shorter than the lags")
	}
}

func TestStaticCovariateDimensionality(t *testing.T) {
	cfg := testConfig()
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	a := trendSeries("a", 40, 0, 1)
	a.Static = []float64{1, 0}
	b := trendSeries("b", 40, 5, 1)
	b.Static = []float64{0} // wrong dimensionality

	err = m.Fit([]*timeseries.Series{a, b}, nil, nil)
	var valErr *scigoErrors.ValidationError
	if !scigoErrors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestGobRoundTrip(t *testing.T) {
	m, err := NewModel(testConfig())
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	targets := []*timeseries.Series{trendSeries("a", 60, 10, 0.5)}
	if err := m.Fit(targets, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	want, err := m.Predict(4, targets, nil, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		t.Fatalf("gob encode failed: %v", err)
	}
	var restored Model
	if err := gob.NewDecoder(&buf).Decode(&restored); err != nil {
		t.Fatalf("gob decode failed: %v", err)
	}

	got, err := restored.Predict(4, targets, nil, nil)
	if err != nil {
		t.Fatalf("Predict after decode failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if got[0].At(i, 0) != want[0].At(i, 0) {
			t.Errorf("forecast[%d]: restored %v != original %v", i, got[0].At(i, 0), want[0].At(i, 0))
		}
	}
}

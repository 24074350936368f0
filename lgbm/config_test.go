package lgbm

import (
	"testing"

	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

func TestLagRange(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"three lags", 3, []int{-3, -2, -1}},
		{"single lag", 1, []int{-1}},
		{"zero", 0, nil},
		{"negative", -2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LagRange(tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("LagRange(%d) = %v, want %v", tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("LagRange(%d)[%d] = %d, want %d", tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFutureLagRange(t *testing.T) {
	// The (5, 1) default tuple of the upstream wrapper.
	got := FutureLagRange(5, 1)
	want := []int{-5, -4, -3, -2, -1, 0}
	if len(got) != len(want) {
		t.Fatalf("FutureLagRange(5,1) = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FutureLagRange(5,1)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Lags = LagRange(3)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no lags at all", func(c *Config) { c.Lags = nil }},
		{"non-negative target lag", func(c *Config) { c.Lags = []int{-1, 0} }},
		{"non-negative past lag", func(c *Config) { c.PastLags = []int{1} }},
		{"zero chunk length", func(c *Config) { c.OutputChunkLength = 0 }},
		{"unknown likelihood", func(c *Config) { c.Likelihood = "laplace" }},
		{"quantile out of range", func(c *Config) {
			c.Likelihood = LikelihoodQuantile
			c.Quantiles = []float64{0.5, 1.0}
		}},
	}

	if err := valid.validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.validate()
			var valErr *scigoErrors.ValidationError
			if !scigoErrors.As(err, &valErr) {
				t.Errorf("expected *ValidationError, got %v", err)
			}
		})
	}
}

func TestResolvedQuantiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lags = LagRange(2)

	// Non-quantile likelihoods get a single pseudo slot.
	if qs := cfg.resolvedQuantiles(); len(qs) != 1 {
		t.Errorf("non-quantile slots = %v, want one", qs)
	}

	cfg.Likelihood = LikelihoodQuantile
	qs := cfg.resolvedQuantiles()
	if len(qs) != len(DefaultQuantiles) {
		t.Errorf("default quantiles = %v", qs)
	}
	if qs[medianIndex(qs)] != 0.5 {
		t.Errorf("median quantile = %v, want 0.5", qs[medianIndex(qs)])
	}

	cfg.Quantiles = []float64{0.9, 0.1, 0.4}
	qs = cfg.resolvedQuantiles()
	if qs[0] != 0.1 || qs[2] != 0.9 {
		t.Errorf("quantiles not sorted: %v", qs)
	}
	if qs[medianIndex(qs)] != 0.4 {
		t.Errorf("median pick = %v, want 0.4 (closest to 0.5)", qs[medianIndex(qs)])
	}
}

func TestObjectiveMapping(t *testing.T) {
	tests := []struct {
		likelihood string
		want       string
	}{
		{LikelihoodNone, "regression"},
		{LikelihoodGaussian, "regression"},
		{LikelihoodPoisson, "poisson"},
		{LikelihoodQuantile, "quantile"},
	}

	for _, tt := range tests {
		cfg := Config{Likelihood: tt.likelihood}
		if got := cfg.objective(); got != tt.want {
			t.Errorf("objective(%q) = %q, want %q", tt.likelihood, got, tt.want)
		}
	}
}

func TestMaxLookbackAndFutureReach(t *testing.T) {
	cfg := Config{
		Lags:       []int{-7, -1},
		PastLags:   []int{-3},
		FutureLags: []int{-2, 0, 1},
	}
	if got := cfg.maxLookback(); got != 7 {
		t.Errorf("maxLookback = %d, want 7", got)
	}
	if got := cfg.maxFutureReach(); got != 1 {
		t.Errorf("maxFutureReach = %d, want 1", got)
	}

	noFuture := Config{Lags: []int{-1}}
	if got := noFuture.maxFutureReach(); got != -1 {
		t.Errorf("maxFutureReach without future lags = %d, want -1", got)
	}
}

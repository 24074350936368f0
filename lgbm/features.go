package lgbm

import (
	"fmt"

	"github.com/YuminosukeSato/scigo-forecast/timeseries"
	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

// window bundles one series' inputs for lag-feature extraction.
type window struct {
	target *timeseries.Series
	past   *timeseries.Series // nil when no past covariates
	future *timeseries.Series // nil when no future covariates
	static []float64          // nil when static covariates unused
}

// featureCount returns the width of the design matrix for the fitted widths.
func (m *Model) featureCount() int {
	n := m.TargetWidth * len(m.Config.Lags)
	n += m.PastWidth * len(m.Config.PastLags)
	n += m.FutureWidth * len(m.Config.FutureLags)
	n += m.StaticWidth
	return n
}

// featuresAt extracts the feature vector for a forecast whose chunk starts at
// index base of the target series. All lags are offsets from base.
func (m *Model) featuresAt(w window, base int) ([]float64, error) {
	feats := make([]float64, 0, m.NumFeatures)

	for _, lag := range m.Config.Lags {
		idx := base + lag
		if idx < 0 || idx >= w.target.Len() {
			return nil, scigoErrors.NewValueError("featuresAt",
				fmt.Sprintf("target lag %d out of range at base %d for series '%s'", lag, base, w.target.ID))
		}
		for c := 0; c < m.TargetWidth; c++ {
			feats = append(feats, w.target.At(idx, c))
		}
	}

	for _, lag := range m.Config.PastLags {
		idx := base + lag
		if idx < 0 || idx >= w.past.Len() {
			return nil, scigoErrors.NewValueError("featuresAt",
				fmt.Sprintf("past covariates of series '%s' do not cover lag %d at base %d", w.target.ID, lag, base))
		}
		for c := 0; c < m.PastWidth; c++ {
			feats = append(feats, w.past.At(idx, c))
		}
	}

	for _, lag := range m.Config.FutureLags {
		idx := base + lag
		if idx < 0 || idx >= w.future.Len() {
			return nil, scigoErrors.NewValueError("featuresAt",
				fmt.Sprintf("future covariates of series '%s' do not cover offset %d at base %d", w.target.ID, lag, base))
		}
		for c := 0; c < m.FutureWidth; c++ {
			feats = append(feats, w.future.At(idx, c))
		}
	}

	if m.StaticWidth > 0 {
		feats = append(feats, w.static...)
	}
	return feats, nil
}

// trainingRange returns the inclusive base-index range [min, max] yielding
// valid training rows for a label labelOffset steps after the chunk start.
// max < min means the series contributes no rows.
func (m *Model) trainingRange(w window, labelOffset int) (int, int) {
	minBase := m.Config.maxLookback()
	maxBase := w.target.Len() - 1 - labelOffset

	if w.future != nil {
		reach := m.Config.maxFutureReach()
		if limit := w.future.Len() - 1 - reach; limit < maxBase {
			maxBase = limit
		}
	}
	if w.past != nil {
		// Past lags are all negative, so base may be at most past length.
		if limit := w.past.Len(); limit < maxBase {
			maxBase = limit
		}
	}
	return minBase, maxBase
}

// Package schema describes the layout of a multi-series forecasting dataset:
// which columns hold the series id, the timestamps, the forecast targets and
// the optional covariates, plus the forecast horizon.
package schema

import (
	"github.com/tidwall/gjson"

	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

// Forecasting is the schema contract shared between the training harness and
// the adapter. Fields are exported for gob encoding.
type Forecasting struct {
	IDCol            string
	TimeCol          string
	Targets          []string
	PastCovariates   []string
	FutureCovariates []string
	StaticCovariates []string
	ForecastLength   int
}

// Validate checks the schema for the fields every operation relies on.
func (s *Forecasting) Validate() error {
	if s.IDCol == "" {
		return scigoErrors.NewValidationError("id_col", "must not be empty", s.IDCol)
	}
	if s.TimeCol == "" {
		return scigoErrors.NewValidationError("time_col", "must not be empty", s.TimeCol)
	}
	if len(s.Targets) == 0 {
		return scigoErrors.NewValidationError("target", "at least one target column is required", s.Targets)
	}
	if s.ForecastLength <= 0 {
		return scigoErrors.NewValidationError("forecast_length", "must be positive", s.ForecastLength)
	}
	return nil
}

// HasPastCovariates reports whether the schema declares past covariates.
func (s *Forecasting) HasPastCovariates() bool {
	return len(s.PastCovariates) > 0
}

// HasFutureCovariates reports whether the schema declares future covariates.
func (s *Forecasting) HasFutureCovariates() bool {
	return len(s.FutureCovariates) > 0
}

// FromJSON parses a schema document. Harness exports vary between snake_case
// and camelCase key spellings and between scalar and array target fields, so
// parsing is deliberately lenient.
func FromJSON(data []byte) (*Forecasting, error) {
	if !gjson.ValidBytes(data) {
		return nil, scigoErrors.NewValueError("schema.FromJSON", "invalid JSON document")
	}
	doc := gjson.ParseBytes(data)

	s := &Forecasting{
		IDCol:            firstString(doc, "id_col", "idField", "id"),
		TimeCol:          firstString(doc, "time_col", "timeField", "time"),
		Targets:          stringList(doc, "target", "targets", "targetField"),
		PastCovariates:   stringList(doc, "past_covariates", "pastCovariates"),
		FutureCovariates: stringList(doc, "future_covariates", "futureCovariates"),
		StaticCovariates: stringList(doc, "static_covariates", "staticCovariates"),
		ForecastLength:   int(firstResult(doc, "forecast_length", "forecastLength").Int()),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func firstResult(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func firstString(doc gjson.Result, paths ...string) string {
	return firstResult(doc, paths...).String()
}

// stringList reads a field that may be a scalar string or an array of strings.
func stringList(doc gjson.Result, paths ...string) []string {
	r := firstResult(doc, paths...)
	if !r.Exists() {
		return nil
	}
	if r.IsArray() {
		var out []string
		for _, item := range r.Array() {
			if s := item.String(); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := r.String(); s != "" {
		return []string{s}
	}
	return nil
}

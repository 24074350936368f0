// Package timeseries provides the per-series sequence format consumed by the
// wrapped forecasting model: one id's ordered observations, possibly with
// several value columns (multiple targets or several covariates).
package timeseries

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-forecast/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

// Series holds the values of a single series in row-major order.
// Fields are exported for gob encoding.
type Series struct {
	ID      string
	Columns []string
	Data    []float64 // row-major, Steps x len(Columns)
	Steps   int

	// Static holds per-series constant covariate values, if any.
	Static []float64
}

// New creates a series from row-major data.
func New(id string, columns []string, data []float64) (*Series, error) {
	if len(columns) == 0 {
		return nil, scigoErrors.NewValueError("timeseries.New", "at least one value column is required")
	}
	if len(data)%len(columns) != 0 {
		return nil, scigoErrors.NewDimensionError("timeseries.New", len(data)/len(columns)*len(columns), len(data), 0)
	}
	steps := len(data) / len(columns)
	if steps == 0 {
		return nil, scigoErrors.WithStack(scigoErrors.ErrEmptySeries)
	}
	return &Series{ID: id, Columns: append([]string(nil), columns...), Data: data, Steps: steps}, nil
}

// FromTable extracts the named value columns of a table into a series.
// Row order in the table defines step order.
func FromTable(id string, t *dataset.Table, valueCols []string) (*Series, error) {
	if t.NumRows() == 0 {
		return nil, scigoErrors.WithStack(scigoErrors.ErrEmptySeries)
	}

	width := len(valueCols)
	data := make([]float64, t.NumRows()*width)
	for j, col := range valueCols {
		values, err := t.Float64Column(col)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			data[i*width+j] = v
		}
	}
	return New(id, valueCols, data)
}

// Len returns the number of steps in the series.
func (s *Series) Len() int {
	return s.Steps
}

// Width returns the number of value columns.
func (s *Series) Width() int {
	return len(s.Columns)
}

// At returns the value at the given step and column index.
func (s *Series) At(step, col int) float64 {
	return s.Data[step*len(s.Columns)+col]
}

// Column copies out a single value column.
func (s *Series) Column(col int) []float64 {
	out := make([]float64, s.Steps)
	for i := 0; i < s.Steps; i++ {
		out[i] = s.At(i, col)
	}
	return out
}

// Matrix returns the series values as a Steps x Width dense matrix.
func (s *Series) Matrix() *mat.Dense {
	return mat.NewDense(s.Steps, len(s.Columns), append([]float64(nil), s.Data...))
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	return &Series{
		ID:      s.ID,
		Columns: append([]string(nil), s.Columns...),
		Data:    append([]float64(nil), s.Data...),
		Steps:   s.Steps,
		Static:  append([]float64(nil), s.Static...),
	}
}

// Tail returns a new series holding the last n steps (the whole series when
// it is shorter than n, or when n <= 0).
func (s *Series) Tail(n int) *Series {
	if n <= 0 || n >= s.Steps {
		return s.Clone()
	}
	width := len(s.Columns)
	start := (s.Steps - n) * width
	return &Series{
		ID:      s.ID,
		Columns: append([]string(nil), s.Columns...),
		Data:    append([]float64(nil), s.Data[start:]...),
		Steps:   n,
		Static:  append([]float64(nil), s.Static...),
	}
}

// AppendSteps concatenates another series of the same width after this one.
// Used to join the training and test portions of future covariates.
func (s *Series) AppendSteps(other *Series) (*Series, error) {
	if other.Width() != s.Width() {
		return nil, scigoErrors.NewDimensionError("AppendSteps", s.Width(), other.Width(), 1)
	}
	data := make([]float64, 0, len(s.Data)+len(other.Data))
	data = append(data, s.Data...)
	data = append(data, other.Data...)
	return &Series{
		ID:      s.ID,
		Columns: append([]string(nil), s.Columns...),
		Data:    data,
		Steps:   s.Steps + other.Steps,
		Static:  append([]float64(nil), s.Static...),
	}, nil
}

// AppendValues appends one step of values in place. Used during
// autoregressive prediction to extend a series with its own forecasts.
func (s *Series) AppendValues(row []float64) error {
	if len(row) != len(s.Columns) {
		return scigoErrors.NewDimensionError("AppendValues", len(s.Columns), len(row), 1)
	}
	s.Data = append(s.Data, row...)
	s.Steps++
	return nil
}


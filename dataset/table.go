// Package dataset provides the tabular multi-series data format consumed by
// the forecasting adapter: one row per (series id, timestamp) with the target
// and optional covariate columns declared by a schema.
package dataset

import (
	"fmt"

	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

// Row represents a single tabular observation keyed by column name.
type Row map[string]any

// Table is a lightweight ordered tabular dataset. Column order is preserved
// so predictions can be appended as new columns without disturbing the
// caller's layout.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// FromRows creates a table from pre-built rows.
func FromRows(columns []string, rows []Row) *Table {
	return &Table{Columns: append([]string(nil), columns...), Rows: rows}
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Float64Column extracts a column as float64 values. Integer cells are
// converted with a DataConversionWarning; any other type is an error.
func (t *Table) Float64Column(name string) ([]float64, error) {
	if !t.HasColumn(name) {
		return nil, scigoErrors.NewMissingColumnError("Float64Column", name)
	}

	values := make([]float64, len(t.Rows))
	warned := false
	for i, row := range t.Rows {
		v, ok := row[name]
		if !ok {
			return nil, scigoErrors.NewValueError("Float64Column",
				fmt.Sprintf("row %d has no value for column '%s'", i, name))
		}
		switch x := v.(type) {
		case float64:
			values[i] = x
		case float32:
			values[i] = float64(x)
		case int:
			values[i] = float64(x)
			warned = warnConversion(warned, name, "int")
		case int64:
			values[i] = float64(x)
			warned = warnConversion(warned, name, "int64")
		default:
			return nil, scigoErrors.NewValueError("Float64Column",
				fmt.Sprintf("column '%s' holds non-numeric value %v (%T) at row %d", name, v, v, i))
		}
	}
	return values, nil
}

func warnConversion(already bool, column, from string) bool {
	if !already {
		scigoErrors.Warn(scigoErrors.NewDataConversionWarning(column, from, "float64"))
	}
	return true
}

// StringColumn extracts a column as strings. Non-string cells are formatted.
func (t *Table) StringColumn(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, scigoErrors.NewMissingColumnError("StringColumn", name)
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		v, ok := row[name]
		if !ok {
			return nil, scigoErrors.NewValueError("StringColumn",
				fmt.Sprintf("row %d has no value for column '%s'", i, name))
		}
		if s, ok := v.(string); ok {
			values[i] = s
		} else {
			values[i] = fmt.Sprint(v)
		}
	}
	return values, nil
}

// SetColumn writes a column into the table, appending it to the column order
// when it is new. The value count must match the row count.
func (t *Table) SetColumn(name string, values []any) error {
	if len(values) != len(t.Rows) {
		return scigoErrors.NewDimensionError("SetColumn", len(t.Rows), len(values), 0)
	}
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for i := range t.Rows {
		if t.Rows[i] == nil {
			t.Rows[i] = Row{}
		}
		t.Rows[i][name] = values[i]
	}
	return nil
}

// Tail returns a view-like copy holding the last n rows (all rows when the
// table is shorter than n).
func (t *Table) Tail(n int) *Table {
	if n <= 0 || n >= len(t.Rows) {
		return &Table{Columns: append([]string(nil), t.Columns...), Rows: t.Rows}
	}
	return &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    t.Rows[len(t.Rows)-n:],
	}
}

// Select returns a table restricted to the named columns. The rows still
// reference the original row maps; Select only narrows the declared columns.
func (t *Table) Select(cols ...string) (*Table, error) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return nil, scigoErrors.NewMissingColumnError("Select", c)
		}
	}
	return &Table{Columns: append([]string(nil), cols...), Rows: t.Rows}, nil
}

// GroupByID partitions the table by the values of idCol. The returned ids
// are ordered by first appearance, which defines the series order used
// throughout fitting and prediction.
func (t *Table) GroupByID(idCol string) ([]string, map[string]*Table, error) {
	if !t.HasColumn(idCol) {
		return nil, nil, scigoErrors.NewMissingColumnError("GroupByID", idCol)
	}

	ids, err := t.StringColumn(idCol)
	if err != nil {
		return nil, nil, err
	}

	order := make([]string, 0)
	groups := make(map[string]*Table)
	for i, id := range ids {
		g, ok := groups[id]
		if !ok {
			order = append(order, id)
			g = New(t.Columns...)
			groups[id] = g
		}
		g.Append(t.Rows[i])
	}
	return order, groups, nil
}

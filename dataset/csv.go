package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

// ReadCSV parses CSV data into a Table. The first record is the header.
// Cells that parse as numbers become float64; everything else stays a string.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, scigoErrors.Wrap(err, "forecast: ReadCSV: malformed CSV input")
	}
	if len(records) == 0 {
		return nil, scigoErrors.WithStack(scigoErrors.ErrEmptyData)
	}

	table := New(records[0]...)
	for _, record := range records[1:] {
		if len(record) != len(table.Columns) {
			return nil, scigoErrors.NewDimensionError("ReadCSV", len(table.Columns), len(record), 1)
		}
		row := make(Row, len(record))
		for j, cell := range record {
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				row[table.Columns[j]] = f
			} else {
				row[table.Columns[j]] = cell
			}
		}
		table.Append(row)
	}
	return table, nil
}

// ReadCSVFile reads a CSV file from disk into a Table.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, scigoErrors.Wrapf(err, "forecast: ReadCSVFile: cannot open %s", path)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// WriteCSV writes the table as CSV, header first, in declared column order.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return scigoErrors.Wrap(err, "forecast: WriteCSV: header write failed")
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for j, col := range t.Columns {
			record[j] = formatCell(row[col])
		}
		if err := writer.Write(record); err != nil {
			return scigoErrors.Wrap(err, "forecast: WriteCSV: row write failed")
		}
	}
	writer.Flush()
	return scigoErrors.Wrap(writer.Error(), "forecast: WriteCSV: flush failed")
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

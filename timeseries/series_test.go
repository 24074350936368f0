package timeseries

import (
	"testing"

	"github.com/YuminosukeSato/scigo-forecast/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

func TestNewValidatesShape(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		data    []float64
		wantErr bool
	}{
		{"valid single column", []string{"y"}, []float64{1, 2, 3}, false},
		{"valid two columns", []string{"a", "b"}, []float64{1, 2, 3, 4}, false},
		{"no columns", nil, []float64{1, 2}, true},
		{"ragged data", []string{"a", "b"}, []float64{1, 2, 3}, true},
		{"empty", []string{"y"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("s1", tt.columns, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromTable(t *testing.T) {
	table := dataset.New("id", "sales", "promo")
	table.Append(dataset.Row{"id": "x", "sales": 10.0, "promo": 0.0})
	table.Append(dataset.Row{"id": "x", "sales": 11.0, "promo": 1.0})
	table.Append(dataset.Row{"id": "x", "sales": 12.0, "promo": 0.0})

	s, err := FromTable("x", table, []string{"sales", "promo"})
	if err != nil {
		t.Fatalf("FromTable failed: %v", err)
	}
	if s.Len() != 3 || s.Width() != 2 {
		t.Fatalf("shape = (%d, %d), want (3, 2)", s.Len(), s.Width())
	}
	if s.At(1, 0) != 11.0 || s.At(1, 1) != 1.0 {
		t.Errorf("row 1 = (%v, %v), want (11, 1)", s.At(1, 0), s.At(1, 1))
	}

	m := s.Matrix()
	if r, c := m.Dims(); r != 3 || c != 2 {
		t.Errorf("matrix dims = (%d, %d)", r, c)
	}
	if m.At(2, 0) != 12.0 {
		t.Errorf("matrix At(2,0) = %v, want 12", m.At(2, 0))
	}
}

func TestTail(t *testing.T) {
	s, err := New("x", []string{"y"}, []float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	last := s.Tail(2)
	if last.Len() != 2 {
		t.Fatalf("Tail(2) len = %d", last.Len())
	}
	if last.At(0, 0) != 4 || last.At(1, 0) != 5 {
		t.Errorf("Tail(2) values = %v", last.Data)
	}

	// Longer than the series keeps everything, as a copy.
	all := s.Tail(10)
	if all.Len() != 5 {
		t.Errorf("Tail(10) len = %d, want 5", all.Len())
	}
	all.Data[0] = 99
	if s.Data[0] == 99 {
		t.Error("Tail must not share storage with the original")
	}
}

func TestAppendSteps(t *testing.T) {
	train, _ := New("x", []string{"temp"}, []float64{1, 2, 3})
	test, _ := New("x", []string{"temp"}, []float64{4, 5})

	joined, err := train.AppendSteps(test)
	if err != nil {
		t.Fatalf("AppendSteps failed: %v", err)
	}
	if joined.Len() != 5 {
		t.Fatalf("joined len = %d, want 5", joined.Len())
	}
	if joined.At(3, 0) != 4 || joined.At(4, 0) != 5 {
		t.Errorf("joined tail = (%v, %v)", joined.At(3, 0), joined.At(4, 0))
	}

	wide, _ := New("x", []string{"a", "b"}, []float64{1, 2})
	_, err = train.AppendSteps(wide)
	var dimErr *scigoErrors.DimensionError
	if !scigoErrors.As(err, &dimErr) {
		t.Fatalf("expected *DimensionError for width mismatch, got %v", err)
	}
}

func TestAppendValues(t *testing.T) {
	s, _ := New("x", []string{"y"}, []float64{1, 2})
	if err := s.AppendValues([]float64{3}); err != nil {
		t.Fatalf("AppendValues failed: %v", err)
	}
	if s.Len() != 3 || s.At(2, 0) != 3 {
		t.Errorf("series after append = %v", s.Data)
	}

	if err := s.AppendValues([]float64{1, 2}); err == nil {
		t.Error("expected error for wrong width row")
	}
}

package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Forecaster", "Predict")

	// 基本的なエラーメッセージの確認
	want := "forecast: Forecaster: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}

	// NotFittedError型にキャスト可能か確認
	var nfErr *NotFittedError
	if !As(err, &nfErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
	if nfErr.ModelName != "Forecaster" || nfErr.Method != "Predict" {
		t.Errorf("unexpected fields: %+v", nfErr)
	}
}

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "training failed",
			err:     fmt.Errorf("test error"),
			wantMsg: "forecast: Fit: training failed: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "forecast: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// ModelError型にキャスト可能か確認
			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 7, 0)

	want := "forecast: Predict: dimension mismatch on axis 0 (rows). Expected 10, got 7"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewMissingColumnError(t *testing.T) {
	err := NewMissingColumnError("Fit", "temperature")

	want := "forecast: Fit: column 'temperature' declared by the schema is missing from the data"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var colErr *MissingColumnError
	if !As(err, &colErr) {
		t.Error("Error should be castable to *MissingColumnError")
	}
}

func TestNewSeriesMismatchError(t *testing.T) {
	err := NewSeriesMismatchError("Fit", []string{"store_2", "store_7"})

	want := "forecast: Fit: series missing from the supplied data: [store_2, store_7]"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var smErr *SeriesMismatchError
	if !As(err, &smErr) {
		t.Error("Error should be castable to *SeriesMismatchError")
	}
	if len(smErr.Missing) != 2 {
		t.Errorf("Missing = %v, want 2 entries", smErr.Missing)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewDataConversionWarning("sales", "int", "float64")
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "sales") {
		t.Errorf("unexpected warning message: %v", captured)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "TestOp")
		panic("boom")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("expected *PanicError, got %T", err)
	}
	if panicErr.Operation != "TestOp" {
		t.Errorf("Operation = %v, want TestOp", panicErr.Operation)
	}
	if !strings.HasPrefix(err.Error(), "forecast: panic in TestOp") {
		t.Errorf("unexpected message: %v", err)
	}
	if panicErr.StackTrace == "" {
		t.Error("stack trace missing from recovered panic")
	}
}

func TestRecoverWrapsExistingError(t *testing.T) {
	base := New("already failing")
	fn := func() (err error) {
		defer Recover(&err, "TestOp")
		err = base
		panic("boom")
	}

	err := fn()
	if !Is(err, base) {
		t.Fatalf("original error lost: %v", err)
	}
	if !strings.Contains(err.Error(), "panic in TestOp") {
		t.Errorf("panic context missing: %v", err)
	}
}

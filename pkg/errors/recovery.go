package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError は回復されたパニックから生成されたエラーです。
// パニック時の値とスタックトレースを保持します。
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("forecast: panic in %s: %v", e.Operation, e.PanicValue)
}

// String はスタックトレースを含む詳細情報を返します。
func (e *PanicError) String() string {
	return fmt.Sprintf("forecast: panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// Recover はdeferと共に使い、パニックをエラーに変換します。
// フィッティングや予測のエントリポイントで名前付きエラー戻り値へのポインタと共に呼び出します。
//
//	func (m *Model) Fit(...) (err error) {
//	    defer errors.Recover(&err, "lgbm.Model.Fit")
//	    ...
//	}
//
// 既にエラーが設定されている場合、パニック情報でラップされます。
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		if *err != nil {
			*err = fmt.Errorf("forecast: panic in %s: %v (original error: %w)",
				operation, r, *err)
			return
		}
		*err = &PanicError{
			PanicValue: r,
			StackTrace: string(debug.Stack()),
			Operation:  operation,
		}
	}
}

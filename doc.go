// Package forecast provides a gradient-boosted time-series forecasting
// adapter for Go, designed for batch training and inference pipelines.
//
// The library wraps a LightGBM-style boosted tree model behind the tabular
// contract most forecasting harnesses expect: grouped multi-series frames go
// in, a prediction column comes out, and the fitted model round-trips
// through a single artifact on disk.
//
// # Features
//
// - Multi-series: one model trained jointly across every series in the data
// - Covariates: past, future and per-series static covariates as features
// - Probabilistic: quantile and poisson likelihoods on top of the boosters
// - Deterministic persistence: a reloaded model predicts bit-identically
//
// # Installation
//
// Install using go get:
//
//	go get github.com/YuminosukeSato/scigo-forecast
//
// # Quick Start
//
// Training and forecasting from a stacked frame:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scigo-forecast/dataset"
//	    "github.com/YuminosukeSato/scigo-forecast/predictor"
//	    "github.com/YuminosukeSato/scigo-forecast/schema"
//	)
//
//	func main() {
//	    history, err := dataset.ReadCSVFile("train.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    sch := &schema.Forecasting{
//	        IDCol:          "series_id",
//	        TimeCol:        "date",
//	        Targets:        []string{"sales"},
//	        ForecastLength: 14,
//	    }
//
//	    model, err := predictor.Train(history, sch, predictor.Hyperparameters{
//	        "lags": 28,
//	    }, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    testFrame, err := dataset.ReadCSVFile("test.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    out, err := model.Predict(testFrame, "prediction")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out.NumRows(), "forecast rows")
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - predictor: the harness-facing Forecaster (train, predict, save, load)
//   - lgbm: the lag-based boosted forecasting model
//   - timeseries: per-series sequences and lag windows
//   - dataset: row-oriented tables and CSV I/O
//   - schema: the forecasting dataset schema
//   - pkg/errors: structured errors with stack traces
//   - pkg/log: structured logging
//
// # Performance
//
// Fitting and prediction are synchronous and single-threaded; a Forecaster
// is not safe for concurrent mutation. Tree construction is delegated to
// github.com/YuminosukeSato/scigo's LightGBM implementation.
package forecast

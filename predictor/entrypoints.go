package predictor

import (
	"github.com/YuminosukeSato/scigo-forecast/dataset"
	"github.com/YuminosukeSato/scigo-forecast/schema"
)

// Train instantiates a Forecaster from the schema and hyperparameters and
// fits it on the history frame. testData may be nil unless the schema
// declares future covariates.
func Train(history *dataset.Table, dataSchema *schema.Forecasting, hyperparameters Hyperparameters, testData *dataset.Table) (*Forecaster, error) {
	model, err := New(dataSchema, hyperparameters)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(history, dataSchema, model.HistoryLength, testData); err != nil {
		return nil, err
	}
	return model, nil
}

// PredictWithModel forecasts with a fitted model and returns the test frame
// with the prediction column filled in.
func PredictWithModel(model *Forecaster, testData *dataset.Table, predictionColName string) (*dataset.Table, error) {
	return model.Predict(testData, predictionColName)
}

// SavePredictor persists the fitted model under predictorDirPath.
func SavePredictor(model *Forecaster, predictorDirPath string) error {
	return model.Save(predictorDirPath)
}

// LoadPredictor restores a model previously written by SavePredictor.
func LoadPredictor(predictorDirPath string) (*Forecaster, error) {
	return Load(predictorDirPath)
}

// EvaluatePredictor scores a fitted model against held-out target values.
func EvaluatePredictor(model *Forecaster, xTest *dataset.Table, yTest []float64) (float64, error) {
	return model.Evaluate(xTest, yTest)
}

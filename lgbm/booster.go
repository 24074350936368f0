package lgbm

import (
	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/YuminosukeSato/scigo-forecast/pkg/errors"
)

// Booster wraps one fitted LightGBM ensemble. The tree model is exported for
// gob encoding; the predictor holds unexported state and is rebuilt lazily
// after decoding.
type Booster struct {
	Model *lightgbm.Model

	pred *lightgbm.Predictor
}

// trainingParams assembles the wrapped trainer's parameter set for one
// booster. Deterministic mode is always on so that a reloaded model predicts
// bit-identically to the instance that was saved.
func (c *Config) trainingParams(quantileAlpha float64) lightgbm.TrainingParams {
	return lightgbm.TrainingParams{
		NumIterations:   c.Booster.NumIterations,
		LearningRate:    c.Booster.LearningRate,
		NumLeaves:       c.Booster.NumLeaves,
		MaxDepth:        c.Booster.MaxDepth,
		MinDataInLeaf:   c.Booster.MinChildSamples,
		Lambda:          c.Booster.RegLambda,
		Alpha:           c.Booster.RegAlpha,
		MinGainToSplit:  1e-7,
		BaggingFraction: c.Booster.Subsample,
		BaggingFreq:     c.Booster.SubsampleFreq,
		FeatureFraction: c.Booster.ColsampleBytree,
		MaxBin:          255,
		MinDataInBin:    3,
		Objective:       c.objective(),
		NumClass:        1,
		QuantileAlpha:   quantileAlpha,
		Seed:            c.RandomState,
		Deterministic:   true,
		Verbosity:       -1,
		EarlyStopping:   c.Booster.EarlyStopping,
	}
}

// fit trains the wrapped ensemble on a design matrix.
func (b *Booster) fit(X, y *mat.Dense, params lightgbm.TrainingParams) error {
	trainer := lightgbm.NewTrainer(params)
	if err := trainer.Fit(X, y); err != nil {
		return scigoErrors.NewModelError("Booster.fit", "training failed", err)
	}
	b.Model = trainer.GetModel()
	b.pred = nil
	return nil
}

// predictRow scores a single feature vector.
func (b *Booster) predictRow(features []float64) (float64, error) {
	if b.Model == nil {
		return 0, scigoErrors.NewNotFittedError("Booster", "predictRow")
	}
	if b.pred == nil {
		b.pred = lightgbm.NewPredictor(b.Model)
		b.pred.SetDeterministic(true)
	}
	X := mat.NewDense(1, len(features), features)
	out, err := b.pred.Predict(X)
	if err != nil {
		return 0, scigoErrors.NewModelError("Booster.predictRow", "prediction failed", err)
	}
	return out.At(0, 0), nil
}

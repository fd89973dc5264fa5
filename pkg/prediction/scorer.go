package prediction

import (
	"fmt"

	"github.com/carelens-ai/platform/pkg/ml/linear"
)

// PredictionResult maps classifier names to probabilities in [0,1]. Keys are
// the names exactly as declared in the risk models artifact, unprefixed; the
// service layer maps them to response field names.
type PredictionResult map[string]float64

// Score projects the feature vector onto the bundle's declared column order,
// applies the preprocessing transform once and evaluates every classifier.
// Extraneous features are dropped silently; a declared column missing from
// the vector is an error (the normalizer guarantees presence).
//
// Deterministic: a fixed bundle and input always produce the same result.
func Score(bundle *Bundle, features FeatureVector) (PredictionResult, error) {
	if !bundle.Loaded() {
		return nil, ErrNotLoaded
	}

	sample := make([]float64, len(bundle.featureColumns))
	for i, column := range bundle.featureColumns {
		value, ok := features[column]
		if !ok {
			return nil, fmt.Errorf("missing feature %s", column)
		}
		sample[i] = value
	}

	scaled, err := bundle.scaler.Transform(sample)
	if err != nil {
		return nil, err
	}

	result := make(PredictionResult, len(bundle.classifiers))
	for name, weights := range bundle.classifiers {
		result[name] = linear.PositiveProbability(weights, scaled)
	}
	return result, nil
}

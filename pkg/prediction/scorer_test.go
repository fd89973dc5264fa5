package prediction

import (
	"math"
	"testing"

	"github.com/carelens-ai/platform/pkg/ml/linear"
	"github.com/carelens-ai/platform/pkg/ml/preprocess"
)

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// testBundle builds a loaded bundle with an identity scaler and bias-only
// classifiers that emit fixed probabilities.
func testBundle(probabilities map[string]float64) *Bundle {
	columns := []string{"AGE", "SP_CHF"}
	classifiers := make(map[string]linear.Weights, len(probabilities))
	for name, p := range probabilities {
		classifiers[name] = linear.Weights{Bias: logit(p), Coefficients: make([]float64, len(columns))}
	}
	return &Bundle{
		scaler: preprocess.StandardScaler{
			Mean:  make([]float64, len(columns)),
			Scale: []float64{1, 1},
		},
		classifiers:    classifiers,
		featureColumns: columns,
		loaded:         true,
	}
}

func TestScoreEvaluatesEveryClassifier(t *testing.T) {
	bundle := testBundle(map[string]float64{
		"hospitalization_30d": 0.7,
		"mortality":           0.2,
	})
	features := FeatureVector{"AGE": 70, "SP_CHF": 1}

	result, err := Score(bundle, features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 probabilities, got %d", len(result))
	}
	if math.Abs(result["hospitalization_30d"]-0.7) > 1e-9 {
		t.Fatalf("expected 0.7, got %v", result["hospitalization_30d"])
	}
	if math.Abs(result["mortality"]-0.2) > 1e-9 {
		t.Fatalf("expected 0.2, got %v", result["mortality"])
	}
}

func TestScoreUsesScaledFeatures(t *testing.T) {
	bundle := &Bundle{
		scaler: preprocess.StandardScaler{
			Mean:  []float64{50},
			Scale: []float64{10},
		},
		classifiers: map[string]linear.Weights{
			"hospitalization_30d": {Bias: 0, Coefficients: []float64{1}},
		},
		featureColumns: []string{"AGE"},
		loaded:         true,
	}

	// AGE 60 standardizes to 1.0, so the score is sigmoid(1).
	result, err := Score(bundle, FeatureVector{"AGE": 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 1 / (1 + math.Exp(-1))
	if math.Abs(result["hospitalization_30d"]-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, result["hospitalization_30d"])
	}
}

func TestScoreFailsWhenBundleUnloaded(t *testing.T) {
	if _, err := Score(&Bundle{}, FeatureVector{"AGE": 50}); err != ErrNotLoaded {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := Score(nil, FeatureVector{"AGE": 50}); err != ErrNotLoaded {
		t.Fatalf("expected ErrNotLoaded for nil bundle, got %v", err)
	}
}

func TestScoreDropsExtraneousFeatures(t *testing.T) {
	bundle := testBundle(map[string]float64{"hospitalization_30d": 0.5})
	features := FeatureVector{"AGE": 70, "SP_CHF": 0, "UNDECLARED": 42}

	result, err := Score(bundle, features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result["UNDECLARED"]; ok {
		t.Fatal("extraneous feature leaked into result")
	}
}

func TestScoreRequiresDeclaredColumns(t *testing.T) {
	bundle := testBundle(map[string]float64{"hospitalization_30d": 0.5})
	if _, err := Score(bundle, FeatureVector{"AGE": 70}); err == nil {
		t.Fatal("expected error for missing declared column")
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	bundle := testBundle(map[string]float64{"hospitalization_30d": 0.42})
	features := FeatureVector{"AGE": 66, "SP_CHF": 1}

	first, err := Score(bundle, features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Score(bundle, features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name := range first {
		if first[name] != second[name] {
			t.Fatalf("non-deterministic score for %s", name)
		}
	}
}

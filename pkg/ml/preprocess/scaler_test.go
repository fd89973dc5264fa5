package preprocess

import (
	"math"
	"testing"
)

func TestTransformStandardizes(t *testing.T) {
	scaler := StandardScaler{
		Mean:  []float64{50, 0.5},
		Scale: []float64{10, 0.5},
	}

	out, err := scaler.Transform([]float64{60, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(out[0]-1) > 1e-12 || math.Abs(out[1]-1) > 1e-12 {
		t.Fatalf("unexpected transform: %v", out)
	}
}

func TestTransformZeroScalePassesCenteredValue(t *testing.T) {
	scaler := StandardScaler{
		Mean:  []float64{5},
		Scale: []float64{0},
	}

	out, err := scaler.Transform([]float64{7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] != 2 {
		t.Fatalf("expected centered value 2, got %v", out[0])
	}
}

func TestTransformRejectsWidthMismatch(t *testing.T) {
	scaler := StandardScaler{
		Mean:  []float64{1, 2},
		Scale: []float64{1, 1},
	}

	if _, err := scaler.Transform([]float64{1}); err == nil {
		t.Fatal("expected error for sample width mismatch")
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	scaler := StandardScaler{
		Mean:  []float64{10},
		Scale: []float64{2},
	}
	sample := []float64{14}

	if _, err := scaler.Transform(sample); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample[0] != 14 {
		t.Fatalf("input mutated to %v", sample[0])
	}
}

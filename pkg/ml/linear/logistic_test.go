package linear

import (
	"math"
	"testing"
)

func TestPositiveProbabilityBiasOnly(t *testing.T) {
	cases := []struct {
		bias float64
		want float64
	}{
		{0, 0.5},
		{math.Log(0.9 / 0.1), 0.9},
		{math.Log(0.25 / 0.75), 0.25},
	}

	for _, tc := range cases {
		got := PositiveProbability(Weights{Bias: tc.bias}, nil)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("bias %v: expected %v, got %v", tc.bias, tc.want, got)
		}
	}
}

func TestPositiveProbabilityLinearTerm(t *testing.T) {
	weights := Weights{Bias: -1, Coefficients: []float64{0.5, 2}}
	sample := []float64{2, 0.5}

	// -1 + 0.5*2 + 2*0.5 = 1
	want := 1 / (1 + math.Exp(-1))
	if got := PositiveProbability(weights, sample); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPositiveProbabilityBounded(t *testing.T) {
	extremes := []Weights{
		{Bias: 1000},
		{Bias: -1000},
	}
	for _, w := range extremes {
		got := PositiveProbability(w, nil)
		if got < 0 || got > 1 {
			t.Fatalf("probability %v outside [0,1]", got)
		}
	}
}

func TestPositiveProbabilityMonotonicInSignal(t *testing.T) {
	weights := Weights{Bias: 0, Coefficients: []float64{1}}
	var last float64
	for x := -5.0; x <= 5.0; x++ {
		got := PositiveProbability(weights, []float64{x})
		if got <= last && x > -5.0 {
			t.Fatalf("probability not increasing at x=%v", x)
		}
		last = got
	}
}

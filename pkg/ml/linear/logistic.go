package linear

import "math"

// Weights holds a fitted binary logistic classifier. Inference only; training
// happens offline and the fitted weights ship in the model artifact.
type Weights struct {
	Bias         float64   `json:"bias"`
	Coefficients []float64 `json:"coefficients"`
}

// PositiveProbability returns P(y=1 | sample) in [0,1]. The sample must be in
// the same column order the classifier was fitted with.
func PositiveProbability(weights Weights, sample []float64) float64 {
	return sigmoid(dot(weights.Coefficients, sample) + weights.Bias)
}

func dot(weights []float64, sample []float64) float64 {
	var sum float64
	for i := 0; i < len(weights) && i < len(sample); i++ {
		sum += weights[i] * sample[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

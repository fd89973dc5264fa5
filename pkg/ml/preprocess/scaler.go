package preprocess

import "fmt"

// StandardScaler is a fitted column-wise standardization transform. Mean and
// Scale are positional and must match the feature column order the downstream
// classifiers were fitted with.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes a single sample in column order: (x - mean) / scale.
// A zero scale entry passes the centered value through unscaled.
func (s StandardScaler) Transform(sample []float64) ([]float64, error) {
	if len(sample) != len(s.Mean) || len(sample) != len(s.Scale) {
		return nil, fmt.Errorf("scaler fitted for %d columns, got %d", len(s.Mean), len(sample))
	}
	out := make([]float64, len(sample))
	for i, v := range sample {
		centered := v - s.Mean[i]
		if s.Scale[i] != 0 {
			out[i] = centered / s.Scale[i]
		} else {
			out[i] = centered
		}
	}
	return out, nil
}

package label

import "math"

// scaler standardizes feature vectors to zero mean and unit variance.
// Statistics are fitted on the seeded rows only; unseeded rows receive
// the same transform so their distribution never leaks into the scaling.
type scaler struct {
	mean  []float64
	scale []float64
}

// fitScaler computes per-feature mean and standard deviation over rows.
// A constant feature gets scale 1 so it maps to plain centering.
func fitScaler(rows [][]float64) *scaler {
	if len(rows) == 0 {
		return nil
	}

	features := len(rows[0])
	mean := make([]float64, features)
	scale := make([]float64, features)

	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	return &scaler{mean: mean, scale: scale}
}

// transform standardizes one feature vector.
func (s *scaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.scale[j]
	}
	return out
}

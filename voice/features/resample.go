package features

import "math"

// Resample converts samples from sourceRate to targetRate using linear
// interpolation. It returns the input slice unchanged when the rates match
// and nil for empty input or non-positive rates. The output length is
// round(len(samples) * targetRate / sourceRate).
func Resample(samples []float64, sourceRate, targetRate float64) []float64 {
	if len(samples) == 0 || sourceRate <= 0 || targetRate <= 0 {
		return nil
	}

	if sourceRate == targetRate {
		return samples
	}

	ratio := targetRate / sourceRate
	outLen := int(math.Round(float64(len(samples)) * ratio))
	if outLen <= 0 {
		return nil
	}

	out := make([]float64, outLen)
	step := 1 / ratio

	for i := range out {
		pos := float64(i) * step
		idx := int(pos)

		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}

		frac := pos - float64(idx)
		out[i] = samples[idx] + frac*(samples[idx+1]-samples[idx])
	}

	return out
}

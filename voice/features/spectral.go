package features

import "math"

const (
	// rolloffFraction is the cumulative-energy fraction defining the
	// spectral rolloff bin.
	rolloffFraction = 0.85

	// logFloor keeps the log power projection defined for silent bins.
	logFloor = 1e-10
)

// cepstralFromPower projects the lowest bins of a power spectrum onto a
// cosine basis, producing numCoeffs simplified cepstral coefficients.
func cepstralFromPower(power []float64, numCoeffs, numBins int) []float64 {
	if numBins > len(power) {
		numBins = len(power)
	}

	out := make([]float64, numCoeffs)
	if numBins == 0 {
		return out
	}

	for j := range out {
		var sum float64
		for b := 0; b < numBins; b++ {
			logP := math.Log(power[b] + logFloor)
			sum += logP * math.Cos(float64(j)*(float64(b)+0.5)*math.Pi/float64(numBins))
		}
		out[j] = sum
	}

	return out
}

// spectralCentroid returns the energy-weighted mean bin index of a power
// spectrum, or 0 for an all-zero spectrum.
func spectralCentroid(power []float64) float64 {
	var weighted, total float64
	for k, p := range power {
		weighted += float64(k) * p
		total += p
	}

	if total == 0 {
		return 0
	}

	return weighted / total
}

// spectralRolloff returns the first bin index at which cumulative energy
// reaches rolloffFraction of the total.
func spectralRolloff(power []float64) float64 {
	var total float64
	for _, p := range power {
		total += p
	}

	if total == 0 {
		return 0
	}

	target := rolloffFraction * total

	var cum float64
	for k, p := range power {
		cum += p
		if cum >= target {
			return float64(k)
		}
	}

	return float64(len(power) - 1)
}

// spectralFlux sums the positive magnitude increases between prev and cur.
func spectralFlux(prev, cur []float64) float64 {
	n := len(cur)
	if len(prev) < n {
		n = len(prev)
	}

	var flux float64
	for k := 0; k < n; k++ {
		if d := cur[k] - prev[k]; d > 0 {
			flux += d
		}
	}

	return flux
}

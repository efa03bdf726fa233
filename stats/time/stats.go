// Package time computes time-domain signal statistics in a single pass.
package time

import "math"

// Stats holds time-domain signal statistics.
type Stats struct {
	Length        int
	Mean          float64
	RMS           float64
	Peak          float64 // max(|max|, |min|)
	Energy        float64 // sum of squares
	Power         float64 // energy / length
	ZeroCrossings int
	ZeroCrossRate float64 // crossings per sample
	Variance      float64
}

// Calculate computes all statistics in a single pass using Welford's
// online algorithm for a numerically stable variance.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	var (
		mean          float64
		m2            float64
		sumSq         float64
		peak          float64
		zeroCrossings int
	)

	for i, x := range signal {
		ni := float64(i + 1)
		delta := x - mean
		mean += delta / ni
		m2 += delta * (x - mean)

		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)

	return Stats{
		Length:        n,
		Mean:          mean,
		RMS:           math.Sqrt(sumSq / nf),
		Peak:          peak,
		Energy:        sumSq,
		Power:         sumSq / nf,
		ZeroCrossings: zeroCrossings,
		ZeroCrossRate: float64(zeroCrossings) / nf,
		Variance:      m2 / nf,
	}
}

// MeanStd returns the mean and standard deviation of values in one pass.
func MeanStd(values []float64) (mean, std float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}

	var m2 float64
	for i, x := range values {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}

	return mean, math.Sqrt(m2 / float64(n))
}

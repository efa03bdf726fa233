// Package profile defines per-speaker voice profiles: a running-average
// feature vector with per-feature variance and sample bookkeeping.
package profile

import (
	"errors"
	"time"
)

// ErrInsufficientData indicates enrollment was attempted with zero usable
// feature vectors.
var ErrInsufficientData = errors.New("profile: enrollment requires at least one sample")

// ErrLengthMismatch indicates a feature vector does not match the
// profile's vector length.
var ErrLengthMismatch = errors.New("profile: feature vector length mismatch")

// Profile is one speaker's voice profile. Values are owned by the profile
// store; callers receive copies and update through Updated, which never
// aliases the stored slices.
type Profile struct {
	Name        string
	Average     []float64
	Variance    []float64
	SampleCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New builds a profile from one or more feature vectors: the mean becomes
// the initial average and the per-feature variance is computed across the
// samples. It fails with ErrInsufficientData for an empty sample list and
// ErrLengthMismatch when the samples disagree on vector length.
func New(name string, samples [][]float64, now time.Time) (Profile, error) {
	if len(samples) == 0 {
		return Profile{}, ErrInsufficientData
	}

	dim := len(samples[0])
	for _, s := range samples[1:] {
		if len(s) != dim {
			return Profile{}, ErrLengthMismatch
		}
	}

	avg := make([]float64, dim)
	for _, s := range samples {
		for i, v := range s {
			avg[i] += v
		}
	}

	inv := 1 / float64(len(samples))
	for i := range avg {
		avg[i] *= inv
	}

	variance := make([]float64, dim)
	for _, s := range samples {
		for i, v := range s {
			d := v - avg[i]
			variance[i] += d * d
		}
	}
	for i := range variance {
		variance[i] *= inv
	}

	return Profile{
		Name:        name,
		Average:     avg,
		Variance:    variance,
		SampleCount: len(samples),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Updated returns a new profile with features folded into the running
// average: avg[i] = (avg[i]*n + features[i]) / (n+1). Variance follows
// Welford's online update so it stays meaningful as samples accumulate.
// The input profile is not mutated.
func Updated(p Profile, features []float64, now time.Time) (Profile, error) {
	if len(features) != len(p.Average) {
		return Profile{}, ErrLengthMismatch
	}

	n := p.SampleCount
	avg := make([]float64, len(p.Average))
	variance := make([]float64, len(p.Variance))

	for i := range avg {
		oldAvg := p.Average[i]
		newAvg := (oldAvg*float64(n) + features[i]) / float64(n+1)
		avg[i] = newAvg

		// Welford: fold the squared deviations around the shifting mean.
		m2 := p.Variance[i]*float64(n) + (features[i]-oldAvg)*(features[i]-newAvg)
		variance[i] = m2 / float64(n+1)
	}

	return Profile{
		Name:        p.Name,
		Average:     avg,
		Variance:    variance,
		SampleCount: n + 1,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   now,
	}, nil
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	out := p
	out.Average = append([]float64(nil), p.Average...)
	out.Variance = append([]float64(nil), p.Variance...)
	return out
}

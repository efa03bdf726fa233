package denoise

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-voice/dsp/transform"
)

const (
	// DefaultOverSubtraction is the spectral over-subtraction factor.
	DefaultOverSubtraction = 2.0
	// DefaultSpectralFloor keeps each enhanced bin at or above this
	// fraction of its original magnitude, limiting musical-noise artifacts.
	DefaultSpectralFloor = 0.1
)

// Reducer estimates an ambient noise magnitude profile and applies
// spectral subtraction with overlap-add reconstruction.
//
// The noise profile is estimated once per Reducer lifetime, either
// explicitly via EstimateNoiseProfile or lazily from the first buffer long
// enough to cover a full analysis window. Reset clears the profile so the
// next buffer re-estimates it.
type Reducer struct {
	engine *transform.Engine

	overSubtraction float64
	spectralFloor   float64

	mu                 sync.Mutex
	noiseProfile       []float64
	profileEstablished bool
}

// Option configures a Reducer.
type Option func(*config) error

type config struct {
	size            int
	overSubtraction float64
	spectralFloor   float64
}

// WithTransformSize sets the analysis transform size. size must be a power
// of two and >= 64.
func WithTransformSize(size int) Option {
	return func(c *config) error {
		c.size = size
		return nil
	}
}

// WithOverSubtraction sets the over-subtraction factor alpha. alpha must be >= 0.
func WithOverSubtraction(alpha float64) Option {
	return func(c *config) error {
		if alpha < 0 {
			return fmt.Errorf("denoise over-subtraction must be >= 0: %f", alpha)
		}
		c.overSubtraction = alpha
		return nil
	}
}

// WithSpectralFloor sets the spectral floor factor beta. beta must be in [0, 1].
func WithSpectralFloor(beta float64) Option {
	return func(c *config) error {
		if beta < 0 || beta > 1 {
			return fmt.Errorf("denoise spectral floor must be in [0, 1]: %f", beta)
		}
		c.spectralFloor = beta
		return nil
	}
}

// New creates a Reducer with its own transform engine.
func New(opts ...Option) (*Reducer, error) {
	cfg := config{
		size:            transform.DefaultSize,
		overSubtraction: DefaultOverSubtraction,
		spectralFloor:   DefaultSpectralFloor,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := transform.New(cfg.size)
	if err != nil {
		return nil, fmt.Errorf("denoise: %w", err)
	}

	return &Reducer{
		engine:          engine,
		overSubtraction: cfg.overSubtraction,
		spectralFloor:   cfg.spectralFloor,
	}, nil
}

// TransformSize returns the analysis transform size in samples.
func (r *Reducer) TransformSize() int { return r.engine.Size() }

// ProfileEstablished reports whether a noise profile has been estimated.
func (r *Reducer) ProfileEstablished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profileEstablished
}

// NoiseProfile returns a copy of the current noise profile, or nil if no
// profile has been estimated yet.
func (r *Reducer) NoiseProfile() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.profileEstablished {
		return nil
	}

	out := make([]float64, len(r.noiseProfile))
	copy(out, r.noiseProfile)
	return out
}

// Reset clears the noise profile so the next long-enough buffer
// re-estimates it.
func (r *Reducer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noiseProfile = nil
	r.profileEstablished = false
}

// EstimateNoiseProfile averages magnitude spectra across samples with 50%
// overlapping windows and stores the result as the noise profile. The
// profile is set at most once; subsequent calls are no-ops until Reset.
// Buffers shorter than one analysis window are ignored.
func (r *Reducer) EstimateNoiseProfile(samples []float64) error {
	size := r.engine.Size()
	if len(samples) < size {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.profileEstablished {
		return nil
	}

	return r.estimateLocked(samples)
}

// estimateLocked computes and stores the averaged magnitude spectrum.
// r.mu must be held.
func (r *Reducer) estimateLocked(samples []float64) error {
	size := r.engine.Size()
	hop := size / 2
	bins := r.engine.Bins()

	profile := make([]float64, bins)
	count := 0

	for start := 0; start+size <= len(samples); start += hop {
		spec, err := r.engine.Forward(samples[start : start+size])
		if err != nil {
			return fmt.Errorf("denoise estimate: %w", err)
		}

		for k, m := range spec.Magnitude {
			profile[k] += m
		}
		count++
	}

	if count == 0 {
		return nil
	}

	inv := 1 / float64(count)
	for k := range profile {
		profile[k] *= inv
	}

	r.noiseProfile = profile
	r.profileEstablished = true

	return nil
}

// Reduce applies spectral subtraction to samples and returns an enhanced
// buffer of identical length.
//
// If no noise profile is established and the buffer covers at least one
// full analysis window, the profile is first estimated from this buffer.
// Buffers shorter than one window are returned unchanged (as a copy); this
// is a degenerate no-op, not an error. A trailing partial window shorter
// than half the transform size is dropped, leaving those output samples at
// zero.
func (r *Reducer) Reduce(samples []float64) ([]float64, error) {
	size := r.engine.Size()

	if len(samples) < size {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.profileEstablished {
		if err := r.estimateLocked(samples); err != nil {
			return nil, err
		}
	}

	hop := size / 2
	out := make([]float64, len(samples))
	enhanced := make([]float64, r.engine.Bins())
	padded := make([]float64, size)

	for start := 0; start < len(samples); start += hop {
		remain := len(samples) - start
		if remain < hop {
			// Trailing partial shorter than half a window is dropped.
			break
		}

		frameIn := samples[start:]
		if remain >= size {
			frameIn = frameIn[:size]
		} else {
			n := copy(padded, frameIn)
			for i := n; i < size; i++ {
				padded[i] = 0
			}
			frameIn = padded
		}

		spec, err := r.engine.Forward(frameIn)
		if err != nil {
			return nil, fmt.Errorf("denoise reduce: %w", err)
		}

		r.subtractInto(enhanced, spec.Magnitude)

		frame, err := r.engine.Inverse(enhanced, spec.Phase)
		if err != nil {
			return nil, fmt.Errorf("denoise reduce: %w", err)
		}

		for i, v := range frame {
			if start+i >= len(out) {
				break
			}
			out[start+i] += v
		}
	}

	return out, nil
}

// subtractInto fills enhanced with the spectrally subtracted magnitude
// spectrum, clamping every bin to the spectral floor fraction of its
// original magnitude. r.mu must be held.
func (r *Reducer) subtractInto(enhanced, magnitude []float64) {
	for k, m := range magnitude {
		sub := m - r.overSubtraction*r.noiseProfile[k]
		if floor := r.spectralFloor * m; sub < floor {
			sub = floor
		}
		enhanced[k] = sub
	}
}

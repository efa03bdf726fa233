package features

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/transform"
	timestats "github.com/cwbudde/algo-voice/stats/time"
)

const (
	// DefaultTargetRate is the fixed analysis sample rate in Hz.
	DefaultTargetRate = 16000.0
	// DefaultAnalysisSize is the sub-window size for cepstral and pitch
	// analysis in samples.
	DefaultAnalysisSize = 512
	// cepstralBins is the number of lowest spectral bins feeding the
	// cosine-basis projection.
	cepstralBins = 64
)

// Frame is one mono audio buffer tagged with its sample rate.
type Frame struct {
	Samples    []float64
	SampleRate float64
}

// Extractor derives fixed-length voice feature vectors from raw audio
// frames at a fixed analysis rate. Like the transform engine it owns, an
// Extractor is not safe for concurrent use; give each pipeline its own.
type Extractor struct {
	targetRate   float64
	analysisSize int
	pitchHop     int

	engine *transform.Engine
}

// Option configures an Extractor.
type Option func(*config) error

type config struct {
	targetRate   float64
	analysisSize int
}

// WithTargetRate sets the analysis sample rate in Hz.
func WithTargetRate(rate float64) Option {
	return func(c *config) error {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Errorf("features target rate must be > 0: %f", rate)
		}
		c.targetRate = rate
		return nil
	}
}

// WithAnalysisSize sets the sub-window size. size must be a power of two
// and >= 64.
func WithAnalysisSize(size int) Option {
	return func(c *config) error {
		c.analysisSize = size
		return nil
	}
}

// NewExtractor creates an Extractor with its own transform engine.
func NewExtractor(opts ...Option) (*Extractor, error) {
	cfg := config{
		targetRate:   DefaultTargetRate,
		analysisSize: DefaultAnalysisSize,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := transform.New(cfg.analysisSize)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	return &Extractor{
		targetRate:   cfg.targetRate,
		analysisSize: cfg.analysisSize,
		pitchHop:     cfg.analysisSize / 2,
		engine:       engine,
	}, nil
}

// TargetRate returns the analysis sample rate in Hz.
func (e *Extractor) TargetRate() float64 { return e.targetRate }

// AnalysisSize returns the sub-window size in samples.
func (e *Extractor) AnalysisSize() int { return e.analysisSize }

// Extract derives the feature vector for frame. It fails with
// ErrNoFeatures when the frame has zero samples or no channel data.
//
// Centroid and rolloff are computed on the power spectrum averaged across
// the analysis sub-windows (a Welch estimate) rather than on one FFT of
// the whole variable-length frame; this keeps the transform size fixed
// while describing the same spectral shape.
func (e *Extractor) Extract(frame Frame) (Vector, error) {
	if len(frame.Samples) == 0 || frame.SampleRate <= 0 {
		return Vector{}, ErrNoFeatures
	}

	samples := Resample(frame.Samples, frame.SampleRate, e.targetRate)
	if len(samples) == 0 {
		return Vector{}, ErrNoFeatures
	}

	if len(samples) < e.analysisSize {
		padded := make([]float64, e.analysisSize)
		copy(padded, samples)
		samples = padded
	}

	cepstral, avgPower, flux, err := e.spectralPass(samples)
	if err != nil {
		return Vector{}, err
	}

	pitchMean, pitchStd := e.pitchPass(samples)

	prosody := timestats.Calculate(samples)

	return Vector{
		Cepstral:      cepstral,
		PitchMean:     pitchMean,
		PitchStd:      pitchStd,
		Centroid:      spectralCentroid(avgPower),
		Rolloff:       spectralRolloff(avgPower),
		Flux:          flux,
		Energy:        prosody.Power,
		ZeroCrossRate: prosody.ZeroCrossRate,
	}, nil
}

// spectralPass walks non-overlapping analysis windows once, averaging
// cepstral coefficients and power spectra and accumulating spectral flux
// between consecutive windows.
func (e *Extractor) spectralPass(samples []float64) (cepstral, avgPower []float64, flux float64, err error) {
	bins := e.engine.Bins()
	cepstral = make([]float64, NumCepstral)
	avgPower = make([]float64, bins)
	prevMag := make([]float64, bins)
	curMag := make([]float64, bins)

	windows := 0

	for start := 0; start+e.analysisSize <= len(samples); start += e.analysisSize {
		power, err := e.engine.ForwardPower(samples[start : start+e.analysisSize])
		if err != nil {
			return nil, nil, 0, fmt.Errorf("features: %w", err)
		}

		coeffs := cepstralFromPower(power, NumCepstral, cepstralBins)
		for j := range cepstral {
			cepstral[j] += coeffs[j]
		}

		for k, p := range power {
			avgPower[k] += p
			curMag[k] = math.Sqrt(p)
		}

		if windows > 0 {
			flux += spectralFlux(prevMag, curMag)
		}

		prevMag, curMag = curMag, prevMag
		windows++
	}

	if windows == 0 {
		return cepstral, avgPower, 0, nil
	}

	inv := 1 / float64(windows)
	for j := range cepstral {
		cepstral[j] *= inv
	}
	for k := range avgPower {
		avgPower[k] *= inv
	}

	return cepstral, avgPower, flux, nil
}

// pitchPass estimates pitch over sliding windows and returns the mean and
// standard deviation of the per-window estimates. Windows without
// detectable periodicity are skipped.
func (e *Extractor) pitchPass(samples []float64) (mean, std float64) {
	var estimates []float64

	for start := 0; start+e.analysisSize <= len(samples); start += e.pitchHop {
		p := estimatePitch(samples[start:start+e.analysisSize], e.targetRate)
		if p > 0 {
			estimates = append(estimates, p)
		}
	}

	return timestats.MeanStd(estimates)
}

package transform

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/dsp/window"
)

const (
	// DefaultSize is the default transform frame size in samples.
	DefaultSize = 1024
	// MinSize is the smallest supported transform frame size.
	MinSize = 64
)

// Spectrum holds one frame's magnitude and phase, each of length
// transform size / 2.
type Spectrum struct {
	Magnitude []float64
	Phase     []float64
}

// Bins returns the number of spectrum bins.
func (s Spectrum) Bins() int { return len(s.Magnitude) }

// Engine converts windowed time-domain frames to magnitude/phase spectra
// and back. It owns its FFT plan, window coefficients, and scratch buffers;
// one Engine must not be shared between goroutines without external
// synchronization. Give each concurrent pipeline its own instance.
type Engine struct {
	size       int
	windowType window.Type

	plan *algofft.Plan[complex128]

	windowCoeffs []float64
	timeFrame    []complex128
	freqFrame    []complex128
	scratchRe    []float64
	scratchIm    []float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindowType selects the analysis window. The default is Hann.
func WithWindowType(t window.Type) Option {
	return func(e *Engine) {
		e.windowType = t
	}
}

// New creates an Engine for the given frame size. size must be a power of
// two and >= 64.
func New(size int, opts ...Option) (*Engine, error) {
	if size < MinSize || !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("transform size must be power-of-two and >= %d: %d", MinSize, size)
	}

	e := &Engine{
		size:       size,
		windowType: window.TypeHann,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("transform: failed to create FFT plan: %w", err)
	}

	half := size / 2

	e.plan = plan
	e.windowCoeffs = window.Generate(e.windowType, size, window.WithPeriodic())
	e.timeFrame = make([]complex128, size)
	e.freqFrame = make([]complex128, size)
	e.scratchRe = make([]float64, half)
	e.scratchIm = make([]float64, half)

	return e, nil
}

// Size returns the transform frame size in samples.
func (e *Engine) Size() int { return e.size }

// Bins returns the number of spectrum bins produced by Forward.
func (e *Engine) Bins() int { return e.size / 2 }

// WindowType returns the analysis window type.
func (e *Engine) WindowType() window.Type { return e.windowType }

// WindowCoeff returns the window coefficient at index i.
func (e *Engine) WindowCoeff(i int) float64 { return e.windowCoeffs[i] }

// Forward windows frame and returns its magnitude/phase spectrum.
// frame length must equal the transform size; callers pad or truncate
// before calling.
func (e *Engine) Forward(frame []float64) (Spectrum, error) {
	if len(frame) != e.size {
		return Spectrum{}, fmt.Errorf("transform frame length must be %d: %d", e.size, len(frame))
	}

	for i, x := range frame {
		e.timeFrame[i] = complex(x*e.windowCoeffs[i], 0)
	}

	err := e.plan.Forward(e.freqFrame, e.timeFrame)
	if err != nil {
		return Spectrum{}, fmt.Errorf("transform: forward FFT failed: %w", err)
	}

	half := e.size / 2
	out := Spectrum{
		Magnitude: make([]float64, half),
		Phase:     make([]float64, half),
	}

	for k := range half {
		e.scratchRe[k] = real(e.freqFrame[k])
		e.scratchIm[k] = imag(e.freqFrame[k])
		out.Phase[k] = math.Atan2(e.scratchIm[k], e.scratchRe[k])
	}

	spectrum.MagnitudeFromParts(out.Magnitude, e.scratchRe, e.scratchIm)

	return out, nil
}

// Inverse reconstructs a time-domain frame of transform-size samples from
// magnitude and phase. The FFT plan normalizes the inverse transform by
// 1/size internally.
func (e *Engine) Inverse(magnitude, phase []float64) ([]float64, error) {
	half := e.size / 2
	if len(magnitude) != half || len(phase) != half {
		return nil, fmt.Errorf("transform spectrum length must be %d: %d/%d",
			half, len(magnitude), len(phase))
	}

	for k := range half {
		e.freqFrame[k] = complex(
			magnitude[k]*math.Cos(phase[k]),
			magnitude[k]*math.Sin(phase[k]),
		)
	}

	// Restore Hermitian symmetry so the inverse transform is real valued.
	// The Nyquist bin is not carried in the half spectrum and stays zero.
	e.freqFrame[0] = complex(real(e.freqFrame[0]), 0)
	e.freqFrame[half] = 0
	for k := 1; k < half; k++ {
		v := e.freqFrame[k]
		e.freqFrame[e.size-k] = complex(real(v), -imag(v))
	}

	err := e.plan.Inverse(e.timeFrame, e.freqFrame)
	if err != nil {
		return nil, fmt.Errorf("transform: inverse FFT failed: %w", err)
	}

	out := make([]float64, e.size)
	for i := range out {
		out[i] = real(e.timeFrame[i])
	}

	return out, nil
}

// ForwardPower windows frame and returns its power spectrum |X[k]|^2 of
// length size/2. This avoids the phase work when callers only need power.
func (e *Engine) ForwardPower(frame []float64) ([]float64, error) {
	if len(frame) != e.size {
		return nil, fmt.Errorf("transform frame length must be %d: %d", e.size, len(frame))
	}

	for i, x := range frame {
		e.timeFrame[i] = complex(x*e.windowCoeffs[i], 0)
	}

	err := e.plan.Forward(e.freqFrame, e.timeFrame)
	if err != nil {
		return nil, fmt.Errorf("transform: forward FFT failed: %w", err)
	}

	half := e.size / 2
	for k := range half {
		e.scratchRe[k] = real(e.freqFrame[k])
		e.scratchIm[k] = imag(e.freqFrame[k])
	}

	out := make([]float64, half)
	spectrum.PowerFromParts(out, e.scratchRe, e.scratchIm)

	return out, nil
}

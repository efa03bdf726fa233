package transform

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/dsp/signal"
	"github.com/cwbudde/algo-voice/dsp/window"
	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	for _, size := range []int{0, -1, 32, 100, 1000} {
		if _, err := New(size); err == nil {
			t.Fatalf("New(%d) should fail", size)
		}
	}

	e, err := New(256)
	if err != nil {
		t.Fatalf("New(256): %v", err)
	}

	if e.Size() != 256 || e.Bins() != 128 {
		t.Fatalf("size=%d bins=%d, want 256/128", e.Size(), e.Bins())
	}

	if e.WindowType() != window.TypeHann {
		t.Fatalf("default window type = %v, want Hann", e.WindowType())
	}
}

func TestForwardFrameLength(t *testing.T) {
	e, err := New(128)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Forward(make([]float64, 64)); err == nil {
		t.Fatal("expected error for short frame")
	}

	if _, err := e.Inverse(make([]float64, 64), make([]float64, 32)); err == nil {
		t.Fatal("expected error for mismatched spectrum lengths")
	}
}

func TestForwardSinePeaksAtBin(t *testing.T) {
	const size = 1024
	const sampleRate = 16000.0

	e, err := New(size)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Place the tone exactly on bin 64.
	freq := 64 * sampleRate / size
	tone, err := signal.NewGenerator(sampleRate).Sine(freq, 1, size)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	spec, err := e.Forward(tone)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	if spec.Bins() != size/2 {
		t.Fatalf("bins=%d, want %d", spec.Bins(), size/2)
	}

	peak := 0
	for k, m := range spec.Magnitude {
		if m > spec.Magnitude[peak] {
			peak = k
		}
	}

	if peak != 64 {
		t.Fatalf("peak bin = %d, want 64", peak)
	}
}

func TestRoundTripReconstructsWindowedFrame(t *testing.T) {
	const size = 512

	e, err := New(size)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tone, err := signal.NewGenerator(16000).Sine(440, 0.8, size)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	spec, err := e.Forward(tone)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	frame, err := e.Inverse(spec.Magnitude, spec.Phase)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	if len(frame) != size {
		t.Fatalf("frame len=%d, want %d", len(frame), size)
	}

	// Forward applies the analysis window, so the round trip reproduces
	// the windowed input. The dropped Nyquist bin is negligible for a
	// band-limited tone.
	want := make([]float64, size)
	for i := range want {
		want[i] = tone[i] * e.WindowCoeff(i)
	}
	testutil.Finite(t, frame)
	testutil.CloseSlices(t, frame, want, 1e-6)
}

func TestForwardPowerMatchesMagnitudeSquared(t *testing.T) {
	const size = 256

	e, err := New(size)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	noise, err := signal.NewGenerator(16000, signal.WithSeed(3)).WhiteNoise(0.5, size)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}

	spec, err := e.Forward(noise)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	power, err := e.ForwardPower(noise)
	if err != nil {
		t.Fatalf("ForwardPower: %v", err)
	}

	for k := range power {
		want := spec.Magnitude[k] * spec.Magnitude[k]
		if math.Abs(power[k]-want) > 1e-9*(1+want) {
			t.Fatalf("power[%d]=%v, want %v", k, power[k], want)
		}
	}
}

func TestZeroFrameRoundTrip(t *testing.T) {
	e, err := New(128)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	spec, err := e.Forward(make([]float64, 128))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	for k, m := range spec.Magnitude {
		if m != 0 {
			t.Fatalf("magnitude[%d]=%v, want 0", k, m)
		}
	}

	frame, err := e.Inverse(spec.Magnitude, spec.Phase)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	for i, v := range frame {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

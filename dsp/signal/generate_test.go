package signal

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	g := NewGenerator(16000)

	out, err := g.Sine(1000, 0.5, 16)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	if len(out) != 16 {
		t.Fatalf("len=%d, want 16", len(out))
	}

	if out[0] != 0 {
		t.Fatalf("first sample=%v, want 0", out[0])
	}

	// 1 kHz at 16 kHz: quarter period is 4 samples.
	if math.Abs(out[4]-0.5) > 1e-12 {
		t.Fatalf("quarter period sample=%v, want 0.5", out[4])
	}

	if _, err := g.Sine(1000, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	a, err := NewGenerator(48000, WithSeed(7)).WhiteNoise(1, 256)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}

	b, err := NewGenerator(48000, WithSeed(7)).WhiteNoise(1, 256)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v != %v", i, a[i], b[i])
		}

		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("sample %d out of range: %v", i, a[i])
		}
	}

	if _, err := NewGenerator(48000).WhiteNoise(-1, 16); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
}

func TestSilenceAndEnergy(t *testing.T) {
	g := NewGenerator(16000)

	s := g.Silence(128)
	if len(s) != 128 {
		t.Fatalf("len=%d, want 128", len(s))
	}

	if Energy(s) != 0 {
		t.Fatal("silence energy must be 0")
	}

	if got := Energy([]float64{3, 4}); math.Abs(got-25) > 1e-12 {
		t.Fatalf("Energy = %v, want 25", got)
	}

	if g.Silence(0) != nil {
		t.Fatal("expected nil for zero samples")
	}
}

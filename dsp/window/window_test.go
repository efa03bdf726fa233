package window

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestGenerateAllTypes(t *testing.T) {
	types := []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman}

	for _, typ := range types {
		w := Generate(typ, 64)
		if len(w) != 64 {
			t.Fatalf("type=%v len=%d, want 64", typ, len(w))
		}

		for i, v := range w {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("type=%v coefficient[%d] invalid: %v", typ, i, v)
			}
		}
	}
}

func TestHannEndpoints(t *testing.T) {
	w, err := Hann(65)
	if err != nil {
		t.Fatalf("Hann: %v", err)
	}

	if !almostEqual(w[0], 0, 1e-12) || !almostEqual(w[64], 0, 1e-12) {
		t.Fatalf("symmetric Hann endpoints = %v, %v, want 0", w[0], w[64])
	}

	if !almostEqual(w[32], 1, 1e-12) {
		t.Fatalf("symmetric Hann midpoint = %v, want 1", w[32])
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)

	b := Generate(TypeHann, 16, WithPeriodic())
	if len(a) != 16 || len(b) != 16 {
		t.Fatalf("unexpected lengths: %d %d", len(a), len(b))
	}

	if almostEqual(a[15], b[15], 1e-12) {
		t.Fatal("expected different end coefficient for periodic form")
	}
}

func TestGenerateDegenerateLengths(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}

	w := Generate(TypeHann, 1)
	if len(w) != 1 {
		t.Fatalf("len=%d, want 1", len(w))
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 1, 1, 1}
	coeffs := Generate(TypeHamming, 4)

	out, err := ApplyCoefficients(samples, coeffs)
	if err != nil {
		t.Fatalf("ApplyCoefficients: %v", err)
	}

	for i := range out {
		if !almostEqual(out[i], coeffs[i], 1e-12) {
			t.Fatalf("out[%d]=%v, want %v", i, out[i], coeffs[i])
		}
	}

	if _, err := ApplyCoefficients(samples, coeffs[:2]); err == nil {
		t.Fatal("expected mismatched length error")
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	samples := []float64{2, 2, 2, 2}
	coeffs := Generate(TypeHann, 4, WithPeriodic())

	if err := ApplyCoefficientsInPlace(samples, coeffs); err != nil {
		t.Fatalf("ApplyCoefficientsInPlace: %v", err)
	}

	for i := range samples {
		if !almostEqual(samples[i], 2*coeffs[i], 1e-12) {
			t.Fatalf("samples[%d]=%v, want %v", i, samples[i], 2*coeffs[i])
		}
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs[:1]); err == nil {
		t.Fatal("expected mismatched length error")
	}
}

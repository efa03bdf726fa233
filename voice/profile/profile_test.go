package profile

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewRequiresSamples(t *testing.T) {
	if _, err := New("alice", nil, testTime); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}

	if _, err := New("alice", [][]float64{}, testTime); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
}

func TestNewRejectsMismatchedSamples(t *testing.T) {
	samples := [][]float64{{1, 2}, {1, 2, 3}}

	if _, err := New("alice", samples, testTime); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("error = %v, want ErrLengthMismatch", err)
	}
}

func TestNewComputesMeanAndVariance(t *testing.T) {
	samples := [][]float64{{1, 10}, {3, 10}}

	p, err := New("alice", samples, testTime)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if p.SampleCount != 2 {
		t.Fatalf("sample count=%d, want 2", p.SampleCount)
	}

	if p.Average[0] != 2 || p.Average[1] != 10 {
		t.Fatalf("average=%v, want [2 10]", p.Average)
	}

	if p.Variance[0] != 1 || p.Variance[1] != 0 {
		t.Fatalf("variance=%v, want [1 0]", p.Variance)
	}

	if !p.CreatedAt.Equal(testTime) || !p.UpdatedAt.Equal(testTime) {
		t.Fatalf("timestamps = %v / %v, want %v", p.CreatedAt, p.UpdatedAt, testTime)
	}
}

func TestUpdatedRunningAverage(t *testing.T) {
	p, err := New("bob", [][]float64{{1, 2}}, testTime)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	later := testTime.Add(time.Minute)

	q, err := Updated(p, []float64{3, 4}, later)
	if err != nil {
		t.Fatalf("Updated: %v", err)
	}

	if q.Average[0] != 2 || q.Average[1] != 3 {
		t.Fatalf("average=%v, want [2 3]", q.Average)
	}

	if q.SampleCount != 2 {
		t.Fatalf("sample count=%d, want 2", q.SampleCount)
	}

	if !q.UpdatedAt.Equal(later) {
		t.Fatalf("updated at = %v, want %v", q.UpdatedAt, later)
	}

	if !q.CreatedAt.Equal(testTime) {
		t.Fatalf("created at changed: %v", q.CreatedAt)
	}

	// The input profile must not be mutated.
	if p.Average[0] != 1 || p.SampleCount != 1 {
		t.Fatalf("input profile mutated: %+v", p)
	}
}

func TestUpdatedWelfordVarianceMatchesBatch(t *testing.T) {
	all := [][]float64{{1}, {5}, {9}, {3}}

	batch, err := New("carol", all, testTime)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	online, err := New("carol", all[:1], testTime)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, s := range all[1:] {
		online, err = Updated(online, s, testTime)
		if err != nil {
			t.Fatalf("Updated: %v", err)
		}
	}

	if math.Abs(online.Variance[0]-batch.Variance[0]) > 1e-12 {
		t.Fatalf("online variance %v != batch variance %v", online.Variance[0], batch.Variance[0])
	}

	if math.Abs(online.Average[0]-batch.Average[0]) > 1e-12 {
		t.Fatalf("online mean %v != batch mean %v", online.Average[0], batch.Average[0])
	}
}

func TestUpdatedRejectsLengthMismatch(t *testing.T) {
	p, err := New("dave", [][]float64{{1, 2, 3}}, testTime)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := Updated(p, []float64{1}, testTime); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("error = %v, want ErrLengthMismatch", err)
	}
}

func TestClone(t *testing.T) {
	p, err := New("eve", [][]float64{{1, 2}}, testTime)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c := p.Clone()
	c.Average[0] = 99

	if p.Average[0] == 99 {
		t.Fatal("clone shares the average slice")
	}
}

package store

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voice/voice/features"
	"github.com/cwbudde/algo-voice/voice/profile"
	"github.com/cwbudde/algo-voice/voice/storage"
)

// testVector builds a valid flattened feature vector whose cepstral slots
// ramp from base.
func testVector(base float64) []float64 {
	v := features.Vector{
		Cepstral:      make([]float64, features.NumCepstral),
		PitchMean:     120 + base,
		PitchStd:      8,
		Centroid:      30,
		Rolloff:       80,
		Flux:          0.5,
		Energy:        0.04,
		ZeroCrossRate: 0.11,
	}
	for i := range v.Cepstral {
		v.Cepstral[i] = base + float64(i)
	}
	return v.Values()
}

type stubClassifier struct {
	label      string
	confidence float64
	ok         bool
	err        error
	block      bool

	calls int
}

func (c *stubClassifier) Classify(ctx context.Context, _ []float64) (string, float64, bool, error) {
	c.calls++
	if c.block {
		<-ctx.Done()
		return "", 0, false, ctx.Err()
	}
	return c.label, c.confidence, c.ok, c.err
}

func TestOptionValidation(t *testing.T) {
	for _, opt := range []Option{
		WithThreshold(0),
		WithThreshold(1.5),
		WithClassifierTimeout(0),
		WithLogger(nil),
	} {
		_, err := New(opt)
		assert.Error(t, err)
	}
}

func TestEnrollRequiresSamples(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Enroll("alice"), profile.ErrInsufficientData)
}

func TestEnrollThenIdentify(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	vec := testVector(1)
	require.NoError(t, s.Enroll("alice", vec))
	require.NoError(t, s.Enroll("bob", testVector(40)))

	res, err := s.Identify(context.Background(), vec)
	require.NoError(t, err)

	assert.Equal(t, "alice", res.SpeakerID)
	assert.False(t, res.Unknown())
	// A vector identical to the enrolled average has similarity ~1.
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	assert.GreaterOrEqual(t, res.Confidence, 0.7)
}

func TestIdentifyCharacteristics(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	vec := testVector(1)
	require.NoError(t, s.Enroll("alice", vec))

	res, err := s.Identify(context.Background(), vec)
	require.NoError(t, err)

	assert.InDelta(t, 121, res.Characteristics.Pitch, 1e-9)
	assert.InDelta(t, 0.11, res.Characteristics.Tempo, 1e-9)
	assert.InDelta(t, math.Sqrt(0.04), res.Characteristics.Volume, 1e-9)
}

func TestIdentifyUnknownWithoutProfiles(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	res, err := s.Identify(context.Background(), testVector(1))
	require.NoError(t, err)

	assert.True(t, res.Unknown())
	assert.Zero(t, res.Confidence)
}

func TestIdentifyLengthMismatchIsUnknown(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Enroll("alice", testVector(1)))

	res, err := s.Identify(context.Background(), []float64{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, res.Unknown())
}

func TestIdentifyHonorsContext(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Identify(ctx, testVector(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifierFallback(t *testing.T) {
	cl := &stubClassifier{label: "carol", confidence: 1.4, ok: true}
	s, err := New(WithClassifier(cl))
	require.NoError(t, err)

	res, err := s.Identify(context.Background(), testVector(1))
	require.NoError(t, err)

	assert.Equal(t, "carol", res.SpeakerID)
	assert.Equal(t, 1, cl.calls)
	// Confidence is clamped to [0, 1].
	assert.Equal(t, 1.0, res.Confidence)
}

func TestClassifierNotConsultedOnMatch(t *testing.T) {
	cl := &stubClassifier{label: "carol", confidence: 0.9, ok: true}
	s, err := New(WithClassifier(cl))
	require.NoError(t, err)

	vec := testVector(1)
	require.NoError(t, s.Enroll("alice", vec))

	res, err := s.Identify(context.Background(), vec)
	require.NoError(t, err)

	assert.Equal(t, "alice", res.SpeakerID)
	assert.Zero(t, cl.calls)
}

func TestClassifierFailureDegradesToUnknown(t *testing.T) {
	for name, cl := range map[string]*stubClassifier{
		"error":       {err: ErrClassifierUnavailable},
		"no decision": {ok: false},
		"empty label": {label: "", ok: true},
	} {
		t.Run(name, func(t *testing.T) {
			s, err := New(WithClassifier(cl))
			require.NoError(t, err)

			res, err := s.Identify(context.Background(), testVector(1))
			require.NoError(t, err)
			assert.True(t, res.Unknown())
		})
	}
}

func TestClassifierTimeoutBound(t *testing.T) {
	cl := &stubClassifier{block: true}
	s, err := New(WithClassifier(cl), WithClassifierTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	res, err := s.Identify(context.Background(), testVector(1))
	require.NoError(t, err)

	assert.True(t, res.Unknown())
	assert.Less(t, time.Since(start), time.Second)
}

func TestUpdateMovesAverage(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	require.NoError(t, s.Enroll("alice", []float64{1, 2}))
	require.NoError(t, s.Update("alice", []float64{3, 4}))

	p, err := s.Get("alice")
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 3}, p.Average)
	assert.Equal(t, 2, p.SampleCount)
}

func TestUpdateUnknownSpeaker(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Update("ghost", testVector(1)), ErrSpeakerNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Enroll("alice", testVector(1)))

	s.Remove("alice")
	s.Remove("alice")

	_, err = s.Get("alice")
	assert.ErrorIs(t, err, ErrSpeakerNotFound)
	assert.Zero(t, s.Count())
}

func TestListSorted(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, s.Enroll(name, testVector(1)))
	}

	assert.Equal(t, []string{"alice", "bob", "carol"}, s.List())
	assert.Equal(t, 3, s.Count())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory(nil)

	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Enroll("alice", testVector(1), testVector(2)))
	require.NoError(t, s.Enroll("bob", testVector(40)))
	require.NoError(t, s.Save(ctx, mem))

	restored, err := New()
	require.NoError(t, err)
	require.NoError(t, restored.Load(ctx, mem))

	assert.Equal(t, []string{"alice", "bob"}, restored.List())

	got, err := restored.Get("alice")
	require.NoError(t, err)
	want, err := s.Get("alice")
	require.NoError(t, err)

	assert.Equal(t, want.Average, got.Average)
	assert.Equal(t, want.SampleCount, got.SampleCount)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"scaled", []float64{1, 2}, []float64{2, 4}, 1},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 2}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Enroll("alice", testVector(1)))

	const iterations = 200
	var wg sync.WaitGroup

	wg.Add(4)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			res, err := s.Identify(context.Background(), testVector(1))
			assert.NoError(t, err)
			_ = res.Unknown()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.List()
			s.Count()
			if _, err := s.Get("alice"); err != nil {
				assert.ErrorIs(t, err, ErrSpeakerNotFound)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			assert.NoError(t, s.Enroll("bob", testVector(float64(i))))
			// bob may have been re-enrolled concurrently; only a missing
			// speaker is acceptable as a failure.
			if err := s.Update("bob", testVector(float64(i))); err != nil {
				assert.ErrorIs(t, err, ErrSpeakerNotFound)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.Remove("bob")
		}
	}()

	wg.Wait()

	// alice is untouched by the writers.
	_, err = s.Get("alice")
	assert.NoError(t, err)
}

func TestClassifierErrorsAreNonFatal(t *testing.T) {
	// A classifier may return any error; none of them surfaces from
	// Identify.
	cl := &stubClassifier{err: errors.New("backend exploded")}
	s, err := New(WithClassifier(cl))
	require.NoError(t, err)

	res, err := s.Identify(context.Background(), testVector(1))
	require.NoError(t, err)
	assert.True(t, res.Unknown())
}

package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/voice/profile"
	"github.com/cwbudde/algo-voice/voice/storage"
)

// DefaultThreshold is the minimum cosine similarity for a profile match.
const DefaultThreshold = 0.7

// DefaultClassifierTimeout bounds how long a single Classify call may run.
const DefaultClassifierTimeout = 200 * time.Millisecond

// Store holds enrolled speaker profiles and matches feature vectors
// against them.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile

	threshold         float64
	classifier        Classifier
	classifierTimeout time.Duration
	log               *zap.Logger
	now               func() time.Time
}

// Option configures a Store.
type Option func(*config) error

type config struct {
	threshold         float64
	classifier        Classifier
	classifierTimeout time.Duration
	log               *zap.Logger
}

// WithThreshold sets the minimum cosine similarity for a match.
func WithThreshold(threshold float64) Option {
	return func(c *config) error {
		if threshold <= 0 || threshold > 1 {
			return fmt.Errorf("store: threshold must be in (0, 1], got %v", threshold)
		}
		c.threshold = threshold
		return nil
	}
}

// WithClassifier installs a secondary matcher consulted when no profile
// clears the threshold.
func WithClassifier(classifier Classifier) Option {
	return func(c *config) error {
		c.classifier = classifier
		return nil
	}
}

// WithClassifierTimeout bounds each Classify call.
func WithClassifierTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return fmt.Errorf("store: classifier timeout must be positive, got %v", timeout)
		}
		c.classifierTimeout = timeout
		return nil
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) error {
		if log == nil {
			return fmt.Errorf("store: logger must not be nil")
		}
		c.log = log
		return nil
	}
}

// New creates an empty Store.
func New(opts ...Option) (*Store, error) {
	cfg := config{
		threshold:         DefaultThreshold,
		classifierTimeout: DefaultClassifierTimeout,
		log:               zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Store{
		profiles:          make(map[string]profile.Profile),
		threshold:         cfg.threshold,
		classifier:        cfg.classifier,
		classifierTimeout: cfg.classifierTimeout,
		log:               cfg.log,
		now:               time.Now,
	}, nil
}

// Enroll creates a profile for name from one or more feature vectors,
// replacing any existing profile of the same name. It fails with
// profile.ErrInsufficientData when no samples are given.
func (s *Store) Enroll(name string, samples ...[]float64) error {
	p, err := profile.New(name, samples, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[name] = p

	s.log.Debug("speaker enrolled",
		zap.String("speaker", name),
		zap.Int("samples", p.SampleCount))
	return nil
}

// Update folds one more feature vector into an existing profile. It fails
// with ErrSpeakerNotFound when name has not been enrolled.
func (s *Store) Update(name string, featureValues []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSpeakerNotFound, name)
	}

	updated, err := profile.Updated(p, featureValues, s.now())
	if err != nil {
		return err
	}
	s.profiles[name] = updated
	return nil
}

// Remove deletes a speaker's profile. Removing an unknown speaker is a
// no-op.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, name)
}

// Get returns a copy of the named profile.
func (s *Store) Get(name string) (profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: %q", ErrSpeakerNotFound, name)
	}
	return p.Clone(), nil
}

// List returns the enrolled speaker names in sorted order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of enrolled speakers.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Identify matches featureValues against the enrolled profiles. The best
// cosine similarity above the threshold wins. Below the threshold the
// optional classifier is consulted under a bounded timeout; an absent or
// failing classifier yields an unknown result, never an error. The only
// error returned is a cancelled context.
func (s *Store) Identify(ctx context.Context, featureValues []float64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	chars := characteristicsOf(featureValues)

	s.mu.RLock()
	bestName, bestSim := "", 0.0
	for name, p := range s.profiles {
		sim := cosineSimilarity(featureValues, p.Average)
		if sim > bestSim {
			bestName, bestSim = name, sim
		}
	}
	s.mu.RUnlock()

	if bestName != "" && bestSim >= s.threshold {
		return Result{
			SpeakerID:       bestName,
			Confidence:      core.Clamp(bestSim, 0, 1),
			Characteristics: chars,
		}, nil
	}

	if s.classifier == nil {
		return Result{Characteristics: chars}, nil
	}

	cctx, cancel := context.WithTimeout(ctx, s.classifierTimeout)
	defer cancel()

	label, confidence, ok, err := s.classifier.Classify(cctx, featureValues)
	if err != nil {
		s.log.Warn("classifier failed, treating speaker as unknown", zap.Error(err))
		return Result{Characteristics: chars}, nil
	}
	if !ok || label == "" {
		return Result{Characteristics: chars}, nil
	}

	return Result{
		SpeakerID:       label,
		Confidence:      core.Clamp(confidence, 0, 1),
		Characteristics: chars,
	}, nil
}

// Load replaces the store's profiles with the records held by src.
// Records skipped by the storage layer are logged, not errors.
func (s *Store) Load(ctx context.Context, src storage.Storage) error {
	records, skipped, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if skipped > 0 {
		s.log.Warn("skipped unreadable profile records", zap.Int("skipped", skipped))
	}

	profiles := make(map[string]profile.Profile, len(records))
	for _, r := range records {
		profiles[r.Name] = profile.Profile{
			Name:        r.Name,
			Average:     r.Average,
			Variance:    r.Variance,
			SampleCount: r.SampleCount,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = profiles
	return nil
}

// Save writes a snapshot of the store's profiles to dst in name order.
func (s *Store) Save(ctx context.Context, dst storage.Storage) error {
	s.mu.RLock()
	records := make([]storage.Record, 0, len(s.profiles))
	for _, p := range s.profiles {
		c := p.Clone()
		records = append(records, storage.Record{
			Name:        c.Name,
			Average:     c.Average,
			Variance:    c.Variance,
			SampleCount: c.SampleCount,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return dst.Save(ctx, records)
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0
// when the lengths differ or either vector has zero magnitude.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	dot := vecmath.DotProduct(a, b)
	normA := vecmath.DotProduct(a, a)
	normB := vecmath.DotProduct(b, b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / math.Sqrt(normA*normB)
}

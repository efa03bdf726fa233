package analyzer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-voice/dsp/denoise"
	"github.com/cwbudde/algo-voice/voice/features"
	"github.com/cwbudde/algo-voice/voice/profile"
	"github.com/cwbudde/algo-voice/voice/storage"
	"github.com/cwbudde/algo-voice/voice/store"
)

// ErrNoStorage indicates Load or Save was called on an Analyzer built
// without a storage collaborator.
var ErrNoStorage = errors.New("analyzer: no storage configured")

// Analysis is the outcome of one Analyze call.
type Analysis struct {
	// Result identifies the speaker, or is unknown.
	Result store.Result
	// Features is the extracted vector the match was made on.
	Features features.Vector
	// Denoised is the noise-reduced frame, same length as the input.
	Denoised []float64
}

// Analyzer runs the reduce, extract, identify pipeline over audio frames.
type Analyzer struct {
	reducer   *denoise.Reducer
	extractor *features.Extractor
	store     *store.Store
	storage   storage.Storage
	log       *zap.Logger
}

// Option configures an Analyzer.
type Option func(*config) error

type config struct {
	reducer   *denoise.Reducer
	extractor *features.Extractor
	store     *store.Store
	storage   storage.Storage
	log       *zap.Logger
}

// WithReducer injects a preconfigured noise reducer.
func WithReducer(r *denoise.Reducer) Option {
	return func(c *config) error {
		if r == nil {
			return fmt.Errorf("analyzer: reducer must not be nil")
		}
		c.reducer = r
		return nil
	}
}

// WithExtractor injects a preconfigured feature extractor.
func WithExtractor(e *features.Extractor) Option {
	return func(c *config) error {
		if e == nil {
			return fmt.Errorf("analyzer: extractor must not be nil")
		}
		c.extractor = e
		return nil
	}
}

// WithStore injects a profile store, which may be shared between
// Analyzers.
func WithStore(s *store.Store) Option {
	return func(c *config) error {
		if s == nil {
			return fmt.Errorf("analyzer: store must not be nil")
		}
		c.store = s
		return nil
	}
}

// WithStorage attaches a persistence collaborator for Load and Save.
func WithStorage(st storage.Storage) Option {
	return func(c *config) error {
		if st == nil {
			return fmt.Errorf("analyzer: storage must not be nil")
		}
		c.storage = st
		return nil
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) error {
		if log == nil {
			return fmt.Errorf("analyzer: logger must not be nil")
		}
		c.log = log
		return nil
	}
}

// New builds an Analyzer, creating default components for any not
// injected through options.
func New(opts ...Option) (*Analyzer, error) {
	var cfg config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	if cfg.reducer == nil {
		r, err := denoise.New()
		if err != nil {
			return nil, err
		}
		cfg.reducer = r
	}
	if cfg.extractor == nil {
		e, err := features.NewExtractor()
		if err != nil {
			return nil, err
		}
		cfg.extractor = e
	}
	if cfg.store == nil {
		s, err := store.New(store.WithLogger(cfg.log))
		if err != nil {
			return nil, err
		}
		cfg.store = s
	}

	return &Analyzer{
		reducer:   cfg.reducer,
		extractor: cfg.extractor,
		store:     cfg.store,
		storage:   cfg.storage,
		log:       cfg.log,
	}, nil
}

// Store exposes the underlying profile store for direct enrollment and
// inspection.
func (a *Analyzer) Store() *store.Store { return a.store }

// Reducer exposes the underlying noise reducer.
func (a *Analyzer) Reducer() *denoise.Reducer { return a.reducer }

// Analyze runs the full pipeline on one frame: noise reduction, feature
// extraction, then speaker identification. An unidentifiable speaker is
// an unknown Result, not an error.
func (a *Analyzer) Analyze(ctx context.Context, frame features.Frame) (Analysis, error) {
	denoised, vec, err := a.prepare(frame)
	if err != nil {
		return Analysis{}, err
	}

	result, err := a.store.Identify(ctx, vec.Values())
	if err != nil {
		return Analysis{}, err
	}

	a.log.Debug("frame analyzed",
		zap.Int("samples", len(frame.Samples)),
		zap.String("speaker", result.SpeakerID),
		zap.Float64("confidence", result.Confidence))

	return Analysis{Result: result, Features: vec, Denoised: denoised}, nil
}

// Extract runs noise reduction and feature extraction without matching.
func (a *Analyzer) Extract(frame features.Frame) (features.Vector, error) {
	_, vec, err := a.prepare(frame)
	return vec, err
}

// EnrollFrames builds a speaker profile from one or more audio frames,
// running each through noise reduction and feature extraction first.
func (a *Analyzer) EnrollFrames(name string, frames ...features.Frame) error {
	if len(frames) == 0 {
		return fmt.Errorf("analyzer: enroll %q: %w", name, profile.ErrInsufficientData)
	}

	samples := make([][]float64, 0, len(frames))
	for i, frame := range frames {
		_, vec, err := a.prepare(frame)
		if err != nil {
			return fmt.Errorf("analyzer: enroll %q frame %d: %w", name, i, err)
		}
		samples = append(samples, vec.Values())
	}

	if err := a.store.Enroll(name, samples...); err != nil {
		return err
	}

	a.log.Info("speaker enrolled",
		zap.String("speaker", name),
		zap.Int("frames", len(frames)))
	return nil
}

// Load replaces the store's profiles with the persisted collection.
func (a *Analyzer) Load(ctx context.Context) error {
	if a.storage == nil {
		return ErrNoStorage
	}
	return a.store.Load(ctx, a.storage)
}

// Save persists the store's current profile collection.
func (a *Analyzer) Save(ctx context.Context) error {
	if a.storage == nil {
		return ErrNoStorage
	}
	return a.store.Save(ctx, a.storage)
}

// Close releases the storage collaborator, if any.
func (a *Analyzer) Close() error {
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}

func (a *Analyzer) prepare(frame features.Frame) ([]float64, features.Vector, error) {
	denoised, err := a.reducer.Reduce(frame.Samples)
	if err != nil {
		return nil, features.Vector{}, fmt.Errorf("analyzer: reduce: %w", err)
	}

	vec, err := a.extractor.Extract(features.Frame{
		Samples:    denoised,
		SampleRate: frame.SampleRate,
	})
	if err != nil {
		return nil, features.Vector{}, fmt.Errorf("analyzer: extract: %w", err)
	}

	return denoised, vec, nil
}

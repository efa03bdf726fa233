package store

import (
	"context"
	"math"

	"github.com/cwbudde/algo-voice/voice/features"
)

// Characteristics summarizes the audible qualities of the analyzed frame,
// read from the named feature slots. Tempo carries the zero-crossing rate
// as a voicing-activity proxy; there is no direct tempo feature.
type Characteristics struct {
	Pitch  float64 // mean pitch in Hz
	Tempo  float64 // zero-crossing rate, voicing proxy
	Volume float64 // RMS level derived from mean energy
}

// Result is the outcome of one identification.
type Result struct {
	SpeakerID       string
	Confidence      float64
	Characteristics Characteristics
}

// Unknown reports whether no speaker could be identified.
func (r Result) Unknown() bool { return r.SpeakerID == "" }

// Classifier is an optional secondary matcher consulted when no profile
// clears the similarity threshold. ok reports whether the classifier
// reached a decision; err is never fatal to identification.
type Classifier interface {
	Classify(ctx context.Context, featureValues []float64) (label string, confidence float64, ok bool, err error)
}

func characteristicsOf(featureValues []float64) Characteristics {
	v, err := features.FromValues(featureValues)
	if err != nil {
		return Characteristics{}
	}
	return Characteristics{
		Pitch:  v.PitchMean,
		Tempo:  v.ZeroCrossRate,
		Volume: math.Sqrt(math.Max(v.Energy, 0)),
	}
}

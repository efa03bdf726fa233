package features

// NumCepstral is the number of cepstral coefficients in a Vector.
const NumCepstral = 13

// VectorLen is the fixed flattened length of a Vector.
const VectorLen = NumCepstral + 7

// Vector is one fixed-length voice feature vector with named slots.
//
// The flattened layout, in order: cepstral coefficients, pitch mean and
// standard deviation, spectral centroid, rolloff, and flux, then mean
// energy and zero-crossing rate.
type Vector struct {
	Cepstral      []float64 // NumCepstral coefficients
	PitchMean     float64   // Hz
	PitchStd      float64   // Hz
	Centroid      float64   // energy-weighted bin index
	Rolloff       float64   // bin index of 85% cumulative energy
	Flux          float64   // summed positive magnitude increases
	Energy        float64   // mean squared sample value
	ZeroCrossRate float64   // zero crossings per sample
}

// Values flattens the vector in its documented order.
func (v Vector) Values() []float64 {
	out := make([]float64, 0, VectorLen)
	out = append(out, v.Cepstral...)
	out = append(out,
		v.PitchMean,
		v.PitchStd,
		v.Centroid,
		v.Rolloff,
		v.Flux,
		v.Energy,
		v.ZeroCrossRate,
	)
	return out
}

// FromValues parses a flattened vector back into named slots. It fails
// with ErrVectorLength when values does not match the fixed layout;
// mismatched lengths are never silently truncated.
func FromValues(values []float64) (Vector, error) {
	if len(values) != VectorLen {
		return Vector{}, ErrVectorLength
	}

	cepstral := make([]float64, NumCepstral)
	copy(cepstral, values[:NumCepstral])

	rest := values[NumCepstral:]

	return Vector{
		Cepstral:      cepstral,
		PitchMean:     rest[0],
		PitchStd:      rest[1],
		Centroid:      rest[2],
		Rolloff:       rest[3],
		Flux:          rest[4],
		Energy:        rest[5],
		ZeroCrossRate: rest[6],
	}, nil
}

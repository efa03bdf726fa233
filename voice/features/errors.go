package features

import "errors"

var (
	// ErrNoFeatures indicates the input frame carried no usable audio
	// (zero samples or no channel data).
	ErrNoFeatures = errors.New("features: no usable audio in frame")

	// ErrVectorLength indicates a flattened vector does not match the
	// fixed feature layout.
	ErrVectorLength = errors.New("features: vector length does not match layout")
)

package store

import "errors"

// ErrSpeakerNotFound indicates an operation referenced a speaker that has
// not been enrolled.
var ErrSpeakerNotFound = errors.New("store: speaker not found")

// ErrClassifierUnavailable is the conventional error a Classifier returns
// when its backing service cannot be reached. The store treats it, like
// every classifier error, as non-fatal: identification degrades to an
// unknown result.
var ErrClassifierUnavailable = errors.New("store: classifier unavailable")

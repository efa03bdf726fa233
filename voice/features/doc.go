// Package features derives fixed-length voice feature vectors from raw
// audio frames: simplified cepstral coefficients, pitch statistics,
// spectral-shape measures, and prosody. Input frames are resampled to a
// fixed analysis rate before extraction so vectors from different capture
// rates stay comparable.
package features

// Package transform provides the windowed forward/inverse frequency
// transform shared by the noise reduction and feature extraction pipelines.
//
// An Engine applies a precomputed analysis window, runs an FFT plan, and
// exposes plain real-valued magnitude/phase slices of length size/2. The
// inverse path recombines magnitude and phase, restores Hermitian symmetry,
// and returns a real time-domain frame of the full transform size.
package transform

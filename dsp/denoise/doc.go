// Package denoise implements spectral-subtraction noise reduction.
//
// A Reducer averages the magnitude spectra of initial ambient audio into a
// one-shot noise profile, then subtracts a scaled version of that profile
// from each analysis window of subsequent buffers, clamped to a spectral
// floor. Time-domain output is rebuilt by overlap-add of the inverse
// transformed windows at 50% overlap.
package denoise

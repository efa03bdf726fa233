// Package analyzer wires the full voice pipeline together: spectral
// noise reduction, feature extraction, and speaker matching, with an
// optional persistence collaborator for the profile collection.
//
// Each Analyzer owns its own DSP state (transform engines, noise
// profile) and is not safe for concurrent use; run one Analyzer per
// audio pipeline. The underlying profile store is shared-safe, so
// multiple Analyzers may be configured with the same Store.
package analyzer

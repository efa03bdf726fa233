// Package store keeps speaker profiles in memory and matches incoming
// feature vectors against them.
//
// Matching is cosine similarity between the incoming vector and each
// profile's running average. A match above the configured threshold wins;
// below it the store consults an optional Classifier, and when that is
// absent or fails the result degrades to unknown rather than an error.
//
// Reads (Identify, Get, List) take a shared lock; mutations (Enroll,
// Update, Remove, Load) take the write lock. A Store is safe for
// concurrent use.
package store

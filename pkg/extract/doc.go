// Package extract holds the stateless algorithms shared by platform
// extractors: safe nested lookups over decoded JSON, time bucketing,
// gap-based session clustering, stable anonymous identities, key
// normalization, and zip-archive helpers over a host file stream.
//
// Absence is never an error for the lookup family; shape mismatches
// yield the caller's default, not a panic.
package extract

// Package ir provides the constrained value types used for filter bind
// parameters, plus canonical JSON serialization and content fingerprints.
//
// This package contains type definitions and pure functions only. All other
// internal packages import ir; ir imports nothing internal. This keeps ir
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers. Floats do not
//     round-trip deterministically through JSON, which would break both
//     golden-file comparison and fragment fingerprinting.
//   - Canonical JSON follows RFC 8785: UTF-16 key order, NFC strings, no
//     HTML escaping.
package ir

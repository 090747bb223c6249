// Package domain defines the core entities for reposcout.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawResult: A single search hit as delivered by the search source
//   - Item: A canonical discovered repository
//   - KnownSet: Repository keys already present in the curated corpus
//   - Report: The outcome of one discovery run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

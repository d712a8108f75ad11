// Package domain defines the core entities for tagsearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TagCandidate: A selectable tag in the candidate pool
//   - SelectionEntry: A tag (or free text) the user has chosen
//   - FilterResult: The relevance-ranked view of unselected candidates
//   - RemoteResult: Extra candidates returned by the remote search endpoint
//   - AppSettings: Typed application configuration with defaults
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

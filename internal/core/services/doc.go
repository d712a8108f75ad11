// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The tag filter engine lives here: relevance scoring, selection,
// alias resolution and search URL construction. Services are pure Go
// with no CGO; they never import an adapter package.
package services

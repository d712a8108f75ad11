// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CatalogStore: Tag and alias persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RemoteSearcher: Extra candidates from the remote search endpoint.
//     Without it the engine filters the local pool only.
//   - ParentLookup: Parent tag resolution for tags the alias map lacks.
//   - SearchLogStore: Submitted search history.
//   - CatalogSource: Catalog files for import and live reload.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

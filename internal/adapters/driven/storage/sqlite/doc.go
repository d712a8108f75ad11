// Package sqlite provides SQLite-based implementations of the catalog and
// search log stores.
//
// This package uses modernc.org/sqlite, a pure Go SQLite implementation,
// so the binary builds without CGO.
//
// Usage:
//
//	store, err := sqlite.NewStore("")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	catalog := store.CatalogStore()
//	history := store.SearchLogStore()
package sqlite

// Package memory provides in-memory implementations of the driven storage
// ports. Nothing is persisted; they serve as fakes in service and adapter
// tests.
package memory

// Package types defines the entity types, patch structs, error taxonomy,
// and configuration shared by the linkshelf engines and boundaries.
//
// Entities are plain structs hydrated from the SQLite store. Engines accept
// already-resolved owner IDs on every call; nothing in this package reads
// ambient session state.
package types

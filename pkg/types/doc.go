// Package types defines the entity types, configuration, error taxonomy,
// and the Store interface for the taskvault persistence engine.
//
// Entities are plain structs; validation methods enforce the domain rules
// that column constraints cannot express (recurring pattern consistency,
// future-dated reminders). All persistence happens through a Store
// implementation; see internal/sqlite for the SQLite backend.
package types

// Package store defines the persistence interfaces for shots and versions,
// shared sentinel errors, and the transaction helper used by services to
// compose multi-statement operations atomically. Concrete implementations
// live in internal/platform/postgres.
package store

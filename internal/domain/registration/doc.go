// Package registration implements the domain layer for student course registration.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code with standard library imports
//   - Defines the entities (Student, Course, Enrollment) and the IDSet value object
//   - Implements the bookkeeping rules (capacity, duplicate enrollment, cascading delete)
//   - Defines the SnapshotStore interface for persistence abstraction
//
// # Manager
//
// Manager owns the three collections and all mutation logic. The enrollment
// table is the single source of truth; the per-student course list and the
// per-course student list are derived indices kept in step with it, so the
// two representations can never diverge.
//
// Every mutating operation validates first and mutates second: a call either
// applies all of its side effects or none of them.
//
// # Identifiers
//
// Ids are produced by three independent Sequences (S1000..., C2000...,
// E3000...). Ids are never reused by a manager. Restore reseeds every
// sequence past the ids present in the snapshot before returning the new
// manager.
//
// # Snapshots
//
// Snapshot is a plain, ordered copy of the collections. Stores in
// internal/infrastructure convert it to their own on-disk schema.
package registration

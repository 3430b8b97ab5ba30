// Package registration implements the application layer for the registrar.
//
// Service wraps a domain Manager together with a SnapshotStore:
//   - Load/Reload/Save move the whole manager state through the store
//   - mutations delegate to the manager and mark the state dirty
//   - derived views (courses for a student, students for a course) are
//     served from a read-through cache that every mutation flushes
//   - every persistence call and mutation runs inside a tracing span
//
// The domain package has the same name. Import it with an alias:
//
//	domain "github.com/zjrosen/registrar/internal/domain/registration"
package registration

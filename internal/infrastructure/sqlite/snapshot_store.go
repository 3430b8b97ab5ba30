package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/registrar/internal/domain/registration"
	"github.com/zjrosen/registrar/internal/log"
)

// SchemaVersion is the snapshot version recorded in snapshot_meta.
const SchemaVersion = 1

// SnapshotStore implements registration.SnapshotStore using SQLite.
type SnapshotStore struct {
	db   *DB
	owns bool
	now  func() time.Time
}

// Ensure SnapshotStore implements registration.SnapshotStore.
var _ registration.SnapshotStore = (*SnapshotStore)(nil)

// Open opens the database at path and returns a store that closes it on Close.
func Open(path string) (*SnapshotStore, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	store := db.SnapshotStore()
	store.owns = true
	return store, nil
}

// Path returns the database file path.
func (s *SnapshotStore) Path() string {
	return s.db.path
}

// Kind returns "sqlite".
func (s *SnapshotStore) Kind() string {
	return "sqlite"
}

// Close closes the database if this store opened it.
func (s *SnapshotStore) Close() error {
	if !s.owns {
		return nil
	}
	return s.db.Close()
}

func (s *SnapshotStore) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Save replaces every stored row with snap in a single transaction.
func (s *SnapshotStore) Save(ctx context.Context, snap registration.Snapshot) (registration.SnapshotMeta, error) {
	meta := registration.SnapshotMeta{
		ID:      uuid.NewString(),
		Version: SchemaVersion,
		SavedAt: s.clock().UTC(),
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return registration.SnapshotMeta{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"enrollments", "students", "courses", "snapshot_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return registration.SnapshotMeta{}, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertAll(ctx, tx, snap, meta); err != nil {
		log.ErrorErr(log.CatStore, "Failed to write snapshot", err, "path", s.db.path)
		return registration.SnapshotMeta{}, err
	}

	if err := tx.Commit(); err != nil {
		return registration.SnapshotMeta{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	log.Info(log.CatStore, "Saved snapshot", "path", s.db.path, "kind", "sqlite", "snapshot_id", meta.ID,
		"students", len(snap.Students), "courses", len(snap.Courses), "enrollments", len(snap.Enrollments))
	return meta, nil
}

func insertAll(ctx context.Context, tx *sql.Tx, snap registration.Snapshot, meta registration.SnapshotMeta) error {
	m := toMetaRow(meta)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, snapshot_id, version, saved_at) VALUES (1, ?, ?, ?)`,
		m.SnapshotID, m.Version, m.SavedAt,
	); err != nil {
		return fmt.Errorf("failed to insert snapshot meta: %w", err)
	}

	for i, st := range snap.Students {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO students (position, id, name, email) VALUES (?, ?, ?, ?)`,
			i, st.ID, st.Name, st.Email,
		); err != nil {
			return fmt.Errorf("failed to insert student %s: %w", st.ID, err)
		}
	}

	for i, c := range snap.Courses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO courses (position, id, name, capacity) VALUES (?, ?, ?, ?)`,
			i, c.ID, c.Name, c.Capacity,
		); err != nil {
			return fmt.Errorf("failed to insert course %s: %w", c.ID, err)
		}
	}

	for i, e := range snap.Enrollments {
		row := toEnrollmentRow(e)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO enrollments (position, id, student_id, course_id, created_at) VALUES (?, ?, ?, ?, ?)`,
			i, row.ID, row.StudentID, row.CourseID, row.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert enrollment %s: %w", e.ID, err)
		}
	}
	return nil
}

// Load reads the stored snapshot in saved order.
// Returns registration.ErrNoSnapshot if nothing has been saved yet.
func (s *SnapshotStore) Load(ctx context.Context) (registration.Snapshot, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return registration.Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var m metaRow
	err = tx.QueryRowContext(ctx,
		`SELECT snapshot_id, version, saved_at FROM snapshot_meta WHERE id = 1`,
	).Scan(&m.SnapshotID, &m.Version, &m.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return registration.Snapshot{}, registration.ErrNoSnapshot
	}
	if err != nil {
		return registration.Snapshot{}, fmt.Errorf("failed to read snapshot meta: %w", err)
	}
	if m.Version != SchemaVersion {
		return registration.Snapshot{}, fmt.Errorf("unsupported schema version %d (want %d)", m.Version, SchemaVersion)
	}

	snap := registration.Snapshot{Meta: m.toDomain()}

	snap.Students, err = queryRows(ctx, tx,
		`SELECT id, name, email FROM students ORDER BY position`,
		func(sc scanner) (registration.StudentRecord, error) {
			var r studentRow
			err := sc.Scan(&r.ID, &r.Name, &r.Email)
			return r.toDomain(), err
		})
	if err != nil {
		return registration.Snapshot{}, fmt.Errorf("failed to load students: %w", err)
	}

	snap.Courses, err = queryRows(ctx, tx,
		`SELECT id, name, capacity FROM courses ORDER BY position`,
		func(sc scanner) (registration.CourseRecord, error) {
			var r courseRow
			err := sc.Scan(&r.ID, &r.Name, &r.Capacity)
			return r.toDomain(), err
		})
	if err != nil {
		return registration.Snapshot{}, fmt.Errorf("failed to load courses: %w", err)
	}

	snap.Enrollments, err = queryRows(ctx, tx,
		`SELECT id, student_id, course_id, created_at FROM enrollments ORDER BY position`,
		func(sc scanner) (registration.EnrollmentRecord, error) {
			var r enrollmentRow
			err := sc.Scan(&r.ID, &r.StudentID, &r.CourseID, &r.CreatedAt)
			return r.toDomain(), err
		})
	if err != nil {
		return registration.Snapshot{}, fmt.Errorf("failed to load enrollments: %w", err)
	}

	log.Debug(log.CatStore, "Loaded snapshot", "path", s.db.path, "snapshot_id", snap.Meta.ID)
	return snap, nil
}

type scanner interface{ Scan(...any) error }

func queryRows[T any](ctx context.Context, tx *sql.Tx, query string, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

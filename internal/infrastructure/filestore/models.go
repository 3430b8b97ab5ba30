package filestore

import (
	"fmt"
	"time"

	"github.com/zjrosen/registrar/internal/domain/registration"
)

// SchemaVersion is the version written to every snapshot document.
const SchemaVersion = 1

// document is the on-disk layout of a snapshot.
// Timestamps are RFC 3339 strings with nanosecond precision.
type document struct {
	Version     int               `json:"version" yaml:"version"`
	SnapshotID  string            `json:"snapshot_id" yaml:"snapshot_id"`
	SavedAt     string            `json:"saved_at" yaml:"saved_at"`
	Students    []studentModel    `json:"students" yaml:"students"`
	Courses     []courseModel     `json:"courses" yaml:"courses"`
	Enrollments []enrollmentModel `json:"enrollments" yaml:"enrollments"`
}

type studentModel struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

type courseModel struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

type enrollmentModel struct {
	ID        string `json:"id" yaml:"id"`
	StudentID string `json:"student_id" yaml:"student_id"`
	CourseID  string `json:"course_id" yaml:"course_id"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

// toDocument converts a domain snapshot to its on-disk form.
func toDocument(snap registration.Snapshot, meta registration.SnapshotMeta) document {
	doc := document{
		Version:     meta.Version,
		SnapshotID:  meta.ID,
		SavedAt:     meta.SavedAt.Format(time.RFC3339Nano),
		Students:    make([]studentModel, 0, len(snap.Students)),
		Courses:     make([]courseModel, 0, len(snap.Courses)),
		Enrollments: make([]enrollmentModel, 0, len(snap.Enrollments)),
	}
	for _, s := range snap.Students {
		doc.Students = append(doc.Students, studentModel{ID: s.ID, Name: s.Name, Email: s.Email})
	}
	for _, c := range snap.Courses {
		doc.Courses = append(doc.Courses, courseModel{ID: c.ID, Name: c.Name, Capacity: c.Capacity})
	}
	for _, e := range snap.Enrollments {
		doc.Enrollments = append(doc.Enrollments, enrollmentModel{
			ID:        e.ID,
			StudentID: e.StudentID,
			CourseID:  e.CourseID,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return doc
}

// toDomain converts a decoded document back to a domain snapshot.
func (d document) toDomain() (registration.Snapshot, error) {
	if d.Version == 0 {
		return registration.Snapshot{}, fmt.Errorf("unexpected file contents: missing schema version")
	}
	if d.Version != SchemaVersion {
		return registration.Snapshot{}, fmt.Errorf("unsupported schema version %d (want %d)", d.Version, SchemaVersion)
	}

	snap := registration.Snapshot{
		Meta:        registration.SnapshotMeta{ID: d.SnapshotID, Version: d.Version},
		Students:    make([]registration.StudentRecord, 0, len(d.Students)),
		Courses:     make([]registration.CourseRecord, 0, len(d.Courses)),
		Enrollments: make([]registration.EnrollmentRecord, 0, len(d.Enrollments)),
	}
	if d.SavedAt != "" {
		savedAt, err := time.Parse(time.RFC3339Nano, d.SavedAt)
		if err != nil {
			return registration.Snapshot{}, fmt.Errorf("parsing saved_at: %w", err)
		}
		snap.Meta.SavedAt = savedAt
	}
	for _, s := range d.Students {
		snap.Students = append(snap.Students, registration.StudentRecord{ID: s.ID, Name: s.Name, Email: s.Email})
	}
	for _, c := range d.Courses {
		snap.Courses = append(snap.Courses, registration.CourseRecord{ID: c.ID, Name: c.Name, Capacity: c.Capacity})
	}
	for _, e := range d.Enrollments {
		createdAt, err := time.Parse(time.RFC3339Nano, e.CreatedAt)
		if err != nil {
			return registration.Snapshot{}, fmt.Errorf("parsing created_at of enrollment %s: %w", e.ID, err)
		}
		snap.Enrollments = append(snap.Enrollments, registration.EnrollmentRecord{
			ID:        e.ID,
			StudentID: e.StudentID,
			CourseID:  e.CourseID,
			CreatedAt: createdAt.UTC(),
		})
	}
	return snap, nil
}

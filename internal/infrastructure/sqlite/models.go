package sqlite

import (
	"time"

	"github.com/zjrosen/registrar/internal/domain/registration"
)

// Rows map directly to SQL columns. Timestamps are Unix nanoseconds in UTC.

type metaRow struct {
	SnapshotID string
	Version    int
	SavedAt    int64
}

type studentRow struct {
	ID    string
	Name  string
	Email string
}

type courseRow struct {
	ID       string
	Name     string
	Capacity int
}

type enrollmentRow struct {
	ID        string
	StudentID string
	CourseID  string
	CreatedAt int64
}

func toMetaRow(meta registration.SnapshotMeta) metaRow {
	return metaRow{SnapshotID: meta.ID, Version: meta.Version, SavedAt: meta.SavedAt.UnixNano()}
}

func (r metaRow) toDomain() registration.SnapshotMeta {
	return registration.SnapshotMeta{
		ID:      r.SnapshotID,
		Version: r.Version,
		SavedAt: time.Unix(0, r.SavedAt).UTC(),
	}
}

func (r studentRow) toDomain() registration.StudentRecord {
	return registration.StudentRecord{ID: r.ID, Name: r.Name, Email: r.Email}
}

func (r courseRow) toDomain() registration.CourseRecord {
	return registration.CourseRecord{ID: r.ID, Name: r.Name, Capacity: r.Capacity}
}

func toEnrollmentRow(e registration.EnrollmentRecord) enrollmentRow {
	return enrollmentRow{
		ID:        e.ID,
		StudentID: e.StudentID,
		CourseID:  e.CourseID,
		CreatedAt: e.CreatedAt.UnixNano(),
	}
}

func (r enrollmentRow) toDomain() registration.EnrollmentRecord {
	return registration.EnrollmentRecord{
		ID:        r.ID,
		StudentID: r.StudentID,
		CourseID:  r.CourseID,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}
}

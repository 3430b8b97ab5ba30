package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrStudentID    = "registrar.student.id"
	AttrCourseID     = "registrar.course.id"
	AttrEnrollmentID = "registrar.enrollment.id"
	AttrStoreKind    = "registrar.store.kind"
	AttrStorePath    = "registrar.store.path"
	AttrSnapshotID   = "registrar.snapshot.id"
	AttrStudents     = "registrar.students"
	AttrCourses      = "registrar.courses"
	AttrEnrollments  = "registrar.enrollments"
	AttrResult       = "registrar.result"

	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanSave     = "registrar.snapshot.save"
	SpanLoad     = "registrar.snapshot.load"
	SpanEnroll   = "registrar.enroll"
	SpanUnenroll = "registrar.unenroll"
	SpanDelete   = "registrar.delete"
)

// Event names for span events.
const (
	EventCacheFlushed = "cache.flushed"
	EventRestored     = "snapshot.restored"
)

// SnapshotAttrs describes a snapshot's collection sizes.
func SnapshotAttrs(students, courses, enrollments int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrStudents, students),
		attribute.Int(AttrCourses, courses),
		attribute.Int(AttrEnrollments, enrollments),
	}
}

// RecordError marks span as failed. A nil err marks it OK.
func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
}

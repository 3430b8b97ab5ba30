package registration

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/registrar/internal/cachemanager"
	domain "github.com/zjrosen/registrar/internal/domain/registration"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/tracing"
)

// AddStudent registers a student. Input is expected to be validated already.
func (s *Service) AddStudent(ctx context.Context, name, email string) domain.Student {
	st := s.manager.AddStudent(name, email)
	s.changed(ctx)
	log.Info(log.CatRegistry, "Added student", "student", st.ID())
	return st
}

// AddCourse registers a course. A capacity of 0 means unlimited.
func (s *Service) AddCourse(ctx context.Context, name string, capacity int) domain.Course {
	c := s.manager.AddCourse(name, capacity)
	s.changed(ctx)
	log.Info(log.CatRegistry, "Added course", "course", c.ID(), "capacity", c.Capacity())
	return c
}

// Enroll enrolls a student in a course.
// Failures are the domain sentinel errors; the state is unchanged on failure.
func (s *Service) Enroll(ctx context.Context, studentID, courseID string) (domain.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanEnroll, trace.WithAttributes(
		attribute.String(tracing.AttrStudentID, studentID),
		attribute.String(tracing.AttrCourseID, courseID),
	))
	defer span.End()

	e, err := s.manager.Enroll(studentID, courseID)
	if err != nil {
		log.Warn(log.CatRegistry, "Enrollment rejected", "student", studentID, "course", courseID, "reason", err)
		tracing.RecordError(span, err)
		return domain.Enrollment{}, err
	}

	s.changed(ctx)
	span.SetAttributes(attribute.String(tracing.AttrEnrollmentID, e.ID()))
	tracing.RecordError(span, nil)
	log.Info(log.CatRegistry, "Enrolled", "enrollment", e.ID(), "student", studentID, "course", courseID)
	return e, nil
}

// Unenroll drops an active enrollment. It reports false if there was none.
func (s *Service) Unenroll(ctx context.Context, studentID, courseID string) bool {
	ctx, span := s.tracer.Start(ctx, tracing.SpanUnenroll, trace.WithAttributes(
		attribute.String(tracing.AttrStudentID, studentID),
		attribute.String(tracing.AttrCourseID, courseID),
	))
	defer span.End()

	ok := s.manager.Unenroll(studentID, courseID)
	span.SetAttributes(attribute.Bool(tracing.AttrResult, ok))
	if ok {
		s.changed(ctx)
		log.Info(log.CatRegistry, "Unenrolled", "student", studentID, "course", courseID)
	}
	return ok
}

// DeleteStudent removes a student and every enrollment it has.
func (s *Service) DeleteStudent(ctx context.Context, studentID string) bool {
	ctx, span := s.tracer.Start(ctx, tracing.SpanDelete, trace.WithAttributes(
		attribute.String(tracing.AttrStudentID, studentID),
	))
	defer span.End()

	ok := s.manager.DeleteStudent(studentID)
	span.SetAttributes(attribute.Bool(tracing.AttrResult, ok))
	if ok {
		s.changed(ctx)
		log.Info(log.CatRegistry, "Deleted student", "student", studentID)
	}
	return ok
}

// DeleteCourse removes a course and every enrollment in it.
func (s *Service) DeleteCourse(ctx context.Context, courseID string) bool {
	ctx, span := s.tracer.Start(ctx, tracing.SpanDelete, trace.WithAttributes(
		attribute.String(tracing.AttrCourseID, courseID),
	))
	defer span.End()

	ok := s.manager.DeleteCourse(courseID)
	span.SetAttributes(attribute.Bool(tracing.AttrResult, ok))
	if ok {
		s.changed(ctx)
		log.Info(log.CatRegistry, "Deleted course", "course", courseID)
	}
	return ok
}

// CoursesForStudent returns the courses a student is enrolled in, in enrollment order.
func (s *Service) CoursesForStudent(ctx context.Context, studentID string) []domain.Course {
	courses, _ := s.coursesFor.Get(ctx, studentID, studentID)
	return courses
}

// StudentsForCourse returns the students enrolled in a course, in enrollment order.
func (s *Service) StudentsForCourse(ctx context.Context, courseID string) []domain.Student {
	students, _ := s.studentsFor.Get(ctx, courseID, courseID)
	return students
}

// CacheStats returns hit and miss counts of the derived-view caches combined.
func (s *Service) CacheStats() cachemanager.Stats {
	a, b := s.courseCache.Stats(), s.studentCache.Stats()
	return cachemanager.Stats{Hits: a.Hits + b.Hits, Misses: a.Misses + b.Misses}
}

// Student looks up a student by id.
func (s *Service) Student(id string) (domain.Student, bool) { return s.manager.Student(id) }

// Course looks up a course by id.
func (s *Service) Course(id string) (domain.Course, bool) { return s.manager.Course(id) }

// Students returns all students in insertion order.
func (s *Service) Students() []domain.Student { return s.manager.Students() }

// Courses returns all courses in insertion order.
func (s *Service) Courses() []domain.Course { return s.manager.Courses() }

// Enrollments returns all enrollments in insertion order.
func (s *Service) Enrollments() []domain.Enrollment { return s.manager.Enrollments() }

// CourseIDs returns the ids of the courses a student is enrolled in.
func (s *Service) CourseIDs(studentID string) []string { return s.manager.CourseIDs(studentID) }

// StudentIDs returns the ids of the students enrolled in a course.
func (s *Service) StudentIDs(courseID string) []string { return s.manager.StudentIDs(courseID) }

// Stats returns entity counts.
func (s *Service) Stats() domain.Stats { return s.manager.Stats() }

// NextIDs returns the ids the next additions will receive.
func (s *Service) NextIDs() domain.NextIDs { return s.manager.NextIDs() }

// SearchStudents returns students whose name contains query, ignoring case.
func (s *Service) SearchStudents(query string) []domain.Student {
	return s.manager.SearchStudentsByName(query)
}

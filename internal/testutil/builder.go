// Package testutil provides fixtures for registration tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/registrar/internal/domain/registration"
)

// Builder accumulates students, courses and enrollments and applies them
// to a fresh Manager in order: students, then courses, then enrollments.
// Ids are deterministic: the n-th student is S(1000+n), the n-th course C(2000+n).
type Builder struct {
	t           *testing.T
	clock       *Clock
	students    []studentData
	courses     []courseData
	enrollments [][2]string
}

// NewBuilder creates a builder that timestamps enrollments with a deterministic Clock.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, clock: NewClock()}
}

// WithStudent adds a student.
func (b *Builder) WithStudent(name string, opts ...StudentOption) *Builder {
	s := defaultStudent(name)
	for _, opt := range opts {
		opt(&s)
	}
	b.students = append(b.students, s)
	return b
}

// WithCourse adds a course.
func (b *Builder) WithCourse(name string, opts ...CourseOption) *Builder {
	c := defaultCourse(name)
	for _, opt := range opts {
		opt(&c)
	}
	b.courses = append(b.courses, c)
	return b
}

// WithEnrollment enrolls studentID in courseID. The enrollment must succeed.
func (b *Builder) WithEnrollment(studentID, courseID string) *Builder {
	b.enrollments = append(b.enrollments, [2]string{studentID, courseID})
	return b
}

// Build creates the manager and applies all accumulated data.
func (b *Builder) Build() *registration.Manager {
	b.t.Helper()
	m := registration.NewManager(registration.WithClock(b.clock.Now))
	for _, s := range b.students {
		m.AddStudent(s.name, s.email)
	}
	for _, c := range b.courses {
		m.AddCourse(c.name, c.capacity)
	}
	for _, e := range b.enrollments {
		_, err := m.Enroll(e[0], e[1])
		require.NoError(b.t, err, "enroll %s in %s", e[0], e[1])
	}
	return m
}

package registration

import "time"

// Enrollment records an active relationship between a student and a course.
// Enrollments are immutable once created.
type Enrollment struct {
	id        string
	studentID string
	courseID  string
	createdAt time.Time
}

// NewEnrollment creates an Enrollment. The timestamp is normalized to UTC
// without a monotonic clock reading so it survives a snapshot round trip unchanged.
func NewEnrollment(id, studentID, courseID string, createdAt time.Time) Enrollment {
	return Enrollment{
		id:        id,
		studentID: studentID,
		courseID:  courseID,
		createdAt: createdAt.Round(0).UTC(),
	}
}

// ID returns the enrollment id (e.g. E3000).
func (e Enrollment) ID() string {
	return e.id
}

// StudentID returns the enrolled student's id.
func (e Enrollment) StudentID() string {
	return e.studentID
}

// CourseID returns the course id.
func (e Enrollment) CourseID() string {
	return e.courseID
}

// CreatedAt returns when the enrollment was created.
func (e Enrollment) CreatedAt() time.Time {
	return e.createdAt
}

// Matches reports whether the enrollment is for the given pair.
func (e Enrollment) Matches(studentID, courseID string) bool {
	return e.studentID == studentID && e.courseID == courseID
}

// Equal reports whether e and other have the same id.
func (e Enrollment) Equal(other Enrollment) bool {
	return e.id == other.id
}

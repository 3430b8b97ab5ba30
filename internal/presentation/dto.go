package presentation

import (
	"time"

	"github.com/zjrosen/registrar/internal/domain/registration"
)

// StudentDTO represents a student for presentation.
type StudentDTO struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Courses []string `json:"courses"`
}

// CourseDTO represents a course for presentation.
// Capacity 0 means unlimited.
type CourseDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Capacity int      `json:"capacity"`
	Enrolled int      `json:"enrolled"`
	Students []string `json:"students"`
}

// EnrollmentDTO represents an active enrollment for presentation.
type EnrollmentDTO struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotInfoDTO summarizes the stored snapshot.
type SnapshotInfoDTO struct {
	Path        string    `json:"path"`
	Backend     string    `json:"backend"`
	SnapshotID  string    `json:"snapshot_id,omitempty"`
	Version     int       `json:"version,omitempty"`
	SavedAt     time.Time `json:"saved_at,omitempty"`
	Students    int       `json:"students"`
	Courses     int       `json:"courses"`
	Enrollments int       `json:"enrollments"`
	Exists      bool      `json:"exists"`

	NextStudent    string `json:"next_student,omitempty"`
	NextCourse     string `json:"next_course,omitempty"`
	NextEnrollment string `json:"next_enrollment,omitempty"`
}

// Lookup is the read side of the registration manager the DTO builders need.
type Lookup interface {
	CourseIDs(studentID string) []string
	StudentIDs(courseID string) []string
}

// FromStudent converts a domain student, resolving its course ids through l.
func FromStudent(s registration.Student, l Lookup) StudentDTO {
	return StudentDTO{
		ID:      s.ID(),
		Name:    s.Name(),
		Email:   s.Email(),
		Courses: nonNil(l.CourseIDs(s.ID())),
	}
}

// FromStudents converts a slice of domain students.
func FromStudents(students []registration.Student, l Lookup) []StudentDTO {
	dtos := make([]StudentDTO, len(students))
	for i, s := range students {
		dtos[i] = FromStudent(s, l)
	}
	return dtos
}

// FromCourse converts a domain course, resolving its student ids through l.
func FromCourse(c registration.Course, l Lookup) CourseDTO {
	students := nonNil(l.StudentIDs(c.ID()))
	return CourseDTO{
		ID:       c.ID(),
		Name:     c.Name(),
		Capacity: c.Capacity(),
		Enrolled: len(students),
		Students: students,
	}
}

// FromCourses converts a slice of domain courses.
func FromCourses(courses []registration.Course, l Lookup) []CourseDTO {
	dtos := make([]CourseDTO, len(courses))
	for i, c := range courses {
		dtos[i] = FromCourse(c, l)
	}
	return dtos
}

// FromEnrollments converts a slice of domain enrollments.
func FromEnrollments(enrollments []registration.Enrollment) []EnrollmentDTO {
	dtos := make([]EnrollmentDTO, len(enrollments))
	for i, e := range enrollments {
		dtos[i] = EnrollmentDTO{
			ID:        e.ID(),
			StudentID: e.StudentID(),
			CourseID:  e.CourseID(),
			CreatedAt: e.CreatedAt(),
		}
	}
	return dtos
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

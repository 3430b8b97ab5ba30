package testutil

import "strings"

// studentData holds the fields for a student to be added.
type studentData struct {
	name  string
	email string
}

// courseData holds the fields for a course to be added.
type courseData struct {
	name     string
	capacity int
}

// StudentOption configures a student added through the Builder.
type StudentOption func(*studentData)

// CourseOption configures a course added through the Builder.
type CourseOption func(*courseData)

// Email overrides the generated email address.
func Email(email string) StudentOption {
	return func(s *studentData) { s.email = email }
}

// Capacity sets the course capacity (default 0, unlimited).
func Capacity(n int) CourseOption {
	return func(c *courseData) { c.capacity = n }
}

func defaultStudent(name string) studentData {
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return studentData{name: name, email: local + "@example.edu"}
}

func defaultCourse(name string) courseData {
	return courseData{name: name}
}

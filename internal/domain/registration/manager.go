package registration

import (
	"slices"
	"strings"
	"time"
)

// Manager owns students, courses and enrollments and every rule that ties them together.
// A Manager is not safe for concurrent use.
type Manager struct {
	students    *collection[Student]
	courses     *collection[Course]
	enrollments []Enrollment

	// Derived indices over enrollments.
	coursesByStudent map[string]*IDSet
	studentsByCourse map[string]*IDSet

	studentSeq    *Sequence
	courseSeq     *Sequence
	enrollmentSeq *Sequence

	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used to timestamp enrollments.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		students:         newCollection[Student](),
		courses:          newCollection[Course](),
		enrollments:      make([]Enrollment, 0),
		coursesByStudent: make(map[string]*IDSet),
		studentsByCourse: make(map[string]*IDSet),
		studentSeq:       NewSequence(StudentPrefix, StudentBase),
		courseSeq:        NewSequence(CoursePrefix, CourseBase),
		enrollmentSeq:    NewSequence(EnrollmentPrefix, EnrollmentBase),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddStudent registers a new student under a fresh id.
func (m *Manager) AddStudent(name, email string) Student {
	s := NewStudent(m.studentSeq.Next(), name, email)
	m.students.put(s.ID(), s)
	m.coursesByStudent[s.ID()] = NewIDSet()
	return s
}

// AddCourse registers a new course under a fresh id. Negative capacity means unlimited.
func (m *Manager) AddCourse(name string, capacity int) Course {
	c := NewCourse(m.courseSeq.Next(), name, capacity)
	m.courses.put(c.ID(), c)
	m.studentsByCourse[c.ID()] = NewIDSet()
	return c
}

// Enroll enrolls a student in a course.
// It fails with ErrStudentNotFound, ErrCourseNotFound, ErrCourseFull or
// ErrAlreadyEnrolled, checked in that order, and changes nothing on failure.
func (m *Manager) Enroll(studentID, courseID string) (Enrollment, error) {
	if !m.students.has(studentID) {
		return Enrollment{}, ErrStudentNotFound
	}
	course, ok := m.courses.get(courseID)
	if !ok {
		return Enrollment{}, ErrCourseNotFound
	}
	if !course.HasSpace(m.EnrolledCount(courseID)) {
		return Enrollment{}, ErrCourseFull
	}
	if m.coursesByStudent[studentID].Contains(courseID) {
		return Enrollment{}, ErrAlreadyEnrolled
	}

	e := NewEnrollment(m.enrollmentSeq.Next(), studentID, courseID, m.now())
	m.link(e)
	return e, nil
}

// link appends e to the enrollment table and mirrors it into both indices.
func (m *Manager) link(e Enrollment) {
	m.enrollments = append(m.enrollments, e)
	m.indexFor(m.coursesByStudent, e.StudentID()).Add(e.CourseID())
	m.indexFor(m.studentsByCourse, e.CourseID()).Add(e.StudentID())
}

func (m *Manager) indexFor(index map[string]*IDSet, id string) *IDSet {
	set, ok := index[id]
	if !ok {
		set = NewIDSet()
		index[id] = set
	}
	return set
}

// Unenroll removes the first active enrollment for the pair.
// Returns false when there is no such enrollment.
func (m *Manager) Unenroll(studentID, courseID string) bool {
	i := slices.IndexFunc(m.enrollments, func(e Enrollment) bool {
		return e.Matches(studentID, courseID)
	})
	if i < 0 {
		return false
	}
	m.enrollments = slices.Delete(m.enrollments, i, i+1)
	if set, ok := m.coursesByStudent[studentID]; ok {
		set.Remove(courseID)
	}
	if set, ok := m.studentsByCourse[courseID]; ok {
		set.Remove(studentID)
	}
	return true
}

// DeleteStudent removes a student and every enrollment it holds.
// Returns false when the student does not exist.
func (m *Manager) DeleteStudent(studentID string) bool {
	if !m.students.remove(studentID) {
		return false
	}
	for _, e := range m.enrollmentsWhere(func(e Enrollment) bool { return e.StudentID() == studentID }) {
		m.Unenroll(e.StudentID(), e.CourseID())
	}
	delete(m.coursesByStudent, studentID)
	return true
}

// DeleteCourse removes a course and every enrollment into it.
// Returns false when the course does not exist.
func (m *Manager) DeleteCourse(courseID string) bool {
	if !m.courses.remove(courseID) {
		return false
	}
	for _, e := range m.enrollmentsWhere(func(e Enrollment) bool { return e.CourseID() == courseID }) {
		m.Unenroll(e.StudentID(), e.CourseID())
	}
	delete(m.studentsByCourse, courseID)
	return true
}

func (m *Manager) enrollmentsWhere(keep func(Enrollment) bool) []Enrollment {
	out := make([]Enrollment, 0)
	for _, e := range m.enrollments {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Student returns the student with the given id.
func (m *Manager) Student(id string) (Student, bool) {
	return m.students.get(id)
}

// Course returns the course with the given id.
func (m *Manager) Course(id string) (Course, bool) {
	return m.courses.get(id)
}

// Students returns all students in registration order.
func (m *Manager) Students() []Student {
	return m.students.values()
}

// Courses returns all courses in registration order.
func (m *Manager) Courses() []Course {
	return m.courses.values()
}

// Enrollments returns all active enrollments in creation order.
func (m *Manager) Enrollments() []Enrollment {
	return slices.Clone(m.enrollments)
}

// SearchStudentsByName returns students whose name contains query, ignoring case.
// An empty query matches every student.
func (m *Manager) SearchStudentsByName(query string) []Student {
	needle := strings.ToLower(query)
	out := make([]Student, 0)
	for _, s := range m.students.values() {
		if strings.Contains(strings.ToLower(s.Name()), needle) {
			out = append(out, s)
		}
	}
	return out
}

// CoursesForStudent returns the courses a student is enrolled in, in enrollment order.
func (m *Manager) CoursesForStudent(studentID string) []Course {
	out := make([]Course, 0)
	for _, e := range m.enrollments {
		if e.StudentID() != studentID {
			continue
		}
		if c, ok := m.courses.get(e.CourseID()); ok {
			out = append(out, c)
		}
	}
	return out
}

// StudentsForCourse returns the students enrolled in a course, in enrollment order.
func (m *Manager) StudentsForCourse(courseID string) []Student {
	out := make([]Student, 0)
	for _, e := range m.enrollments {
		if e.CourseID() != courseID {
			continue
		}
		if s, ok := m.students.get(e.StudentID()); ok {
			out = append(out, s)
		}
	}
	return out
}

// CourseIDs returns the ids of the courses a student is enrolled in.
func (m *Manager) CourseIDs(studentID string) []string {
	return m.coursesByStudent[studentID].Slice()
}

// StudentIDs returns the ids of the students enrolled in a course.
func (m *Manager) StudentIDs(courseID string) []string {
	return m.studentsByCourse[courseID].Slice()
}

// EnrolledCount returns the number of active enrollments in a course.
func (m *Manager) EnrolledCount(courseID string) int {
	return m.studentsByCourse[courseID].Len()
}

// Stats summarizes collection sizes.
type Stats struct {
	Students    int
	Courses     int
	Enrollments int
}

// Stats returns the current collection sizes.
func (m *Manager) Stats() Stats {
	return Stats{
		Students:    m.students.len(),
		Courses:     m.courses.len(),
		Enrollments: len(m.enrollments),
	}
}

// NextIDs holds the ids the manager will hand out next.
type NextIDs struct {
	Student    string
	Course     string
	Enrollment string
}

// NextIDs returns the ids the next Add/Enroll calls will assign.
func (m *Manager) NextIDs() NextIDs {
	return NextIDs{
		Student:    m.studentSeq.Peek(),
		Course:     m.courseSeq.Peek(),
		Enrollment: m.enrollmentSeq.Peek(),
	}
}

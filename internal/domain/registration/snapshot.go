package registration

import "time"

// StudentRecord is the snapshot form of a Student.
type StudentRecord struct {
	ID    string
	Name  string
	Email string
}

// CourseRecord is the snapshot form of a Course.
type CourseRecord struct {
	ID       string
	Name     string
	Capacity int
}

// EnrollmentRecord is the snapshot form of an Enrollment.
type EnrollmentRecord struct {
	ID        string
	StudentID string
	CourseID  string
	CreatedAt time.Time
}

// SnapshotMeta describes a stored snapshot. Stores fill it in; Restore ignores it.
type SnapshotMeta struct {
	ID      string
	Version int
	SavedAt time.Time
}

// Snapshot is a complete, ordered copy of a manager's collections.
// Id counters are deliberately absent; Restore rebuilds them.
type Snapshot struct {
	Meta        SnapshotMeta
	Students    []StudentRecord
	Courses     []CourseRecord
	Enrollments []EnrollmentRecord
}

// Stats returns the collection sizes recorded in the snapshot.
func (s Snapshot) Stats() Stats {
	return Stats{
		Students:    len(s.Students),
		Courses:     len(s.Courses),
		Enrollments: len(s.Enrollments),
	}
}

// Snapshot exports the manager's state.
func (m *Manager) Snapshot() Snapshot {
	snap := Snapshot{
		Students:    make([]StudentRecord, 0, m.students.len()),
		Courses:     make([]CourseRecord, 0, m.courses.len()),
		Enrollments: make([]EnrollmentRecord, 0, len(m.enrollments)),
	}
	for _, s := range m.students.values() {
		snap.Students = append(snap.Students, StudentRecord{ID: s.ID(), Name: s.Name(), Email: s.Email()})
	}
	for _, c := range m.courses.values() {
		snap.Courses = append(snap.Courses, CourseRecord{ID: c.ID(), Name: c.Name(), Capacity: c.Capacity()})
	}
	for _, e := range m.enrollments {
		snap.Enrollments = append(snap.Enrollments, EnrollmentRecord{
			ID:        e.ID(),
			StudentID: e.StudentID(),
			CourseID:  e.CourseID(),
			CreatedAt: e.CreatedAt(),
		})
	}
	return snap
}

// Restore builds a new Manager from a snapshot.
// The snapshot is checked against every manager invariant first; on error
// no manager is returned. After loading, each id sequence is reseeded past
// the ids in use so no id is ever generated twice.
func Restore(snap Snapshot, opts ...Option) (*Manager, error) {
	m := NewManager(opts...)

	for _, r := range snap.Students {
		if r.ID == "" {
			return nil, invalidSnapshot("student with empty id")
		}
		if m.students.has(r.ID) {
			return nil, invalidSnapshot("duplicate student id %s", r.ID)
		}
		m.students.put(r.ID, NewStudent(r.ID, r.Name, r.Email))
		m.coursesByStudent[r.ID] = NewIDSet()
	}

	for _, r := range snap.Courses {
		if r.ID == "" {
			return nil, invalidSnapshot("course with empty id")
		}
		if m.courses.has(r.ID) {
			return nil, invalidSnapshot("duplicate course id %s", r.ID)
		}
		if r.Capacity < 0 {
			return nil, invalidSnapshot("course %s has negative capacity %d", r.ID, r.Capacity)
		}
		m.courses.put(r.ID, NewCourse(r.ID, r.Name, r.Capacity))
		m.studentsByCourse[r.ID] = NewIDSet()
	}

	seen := make(map[string]bool, len(snap.Enrollments))
	for _, r := range snap.Enrollments {
		if r.ID == "" {
			return nil, invalidSnapshot("enrollment with empty id")
		}
		if seen[r.ID] {
			return nil, invalidSnapshot("duplicate enrollment id %s", r.ID)
		}
		seen[r.ID] = true
		if !m.students.has(r.StudentID) {
			return nil, invalidSnapshot("enrollment %s references unknown student %s", r.ID, r.StudentID)
		}
		course, ok := m.courses.get(r.CourseID)
		if !ok {
			return nil, invalidSnapshot("enrollment %s references unknown course %s", r.ID, r.CourseID)
		}
		if m.coursesByStudent[r.StudentID].Contains(r.CourseID) {
			return nil, invalidSnapshot("enrollment %s duplicates pair %s/%s", r.ID, r.StudentID, r.CourseID)
		}
		if !course.HasSpace(m.EnrolledCount(r.CourseID)) {
			return nil, invalidSnapshot("course %s exceeds capacity %d", r.CourseID, course.Capacity())
		}
		m.link(NewEnrollment(r.ID, r.StudentID, r.CourseID, r.CreatedAt))
	}

	m.reseed()
	return m, nil
}

// reseed advances every sequence past the ids currently in use.
func (m *Manager) reseed() {
	m.studentSeq.Reseed(m.students.ids())
	m.courseSeq.Reseed(m.courses.ids())

	enrollmentIDs := make([]string, 0, len(m.enrollments))
	for _, e := range m.enrollments {
		enrollmentIDs = append(enrollmentIDs, e.ID())
	}
	m.enrollmentSeq.Reseed(enrollmentIDs)
}

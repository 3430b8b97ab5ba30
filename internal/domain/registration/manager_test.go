package registration

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var fixedTime = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func newTestManager() *Manager {
	return NewManager(WithClock(func() time.Time { return fixedTime }))
}

func TestManager_ExampleScenario(t *testing.T) {
	m := newTestManager()

	ana := m.AddStudent("Ana", "ana@x.com")
	require.Equal(t, "S1000", ana.ID())

	algebra := m.AddCourse("Algebra", 1)
	require.Equal(t, "C2000", algebra.ID())

	e, err := m.Enroll(ana.ID(), algebra.ID())
	require.NoError(t, err)
	require.Equal(t, "E3000", e.ID())
	require.True(t, e.CreatedAt().Equal(fixedTime))

	ben := m.AddStudent("Ben", "ben@x.com")
	_, err = m.Enroll(ben.ID(), algebra.ID())
	require.ErrorIs(t, err, ErrCourseFull)
}

func TestManager_AddCourse_ClampsCapacity(t *testing.T) {
	m := newTestManager()
	c := m.AddCourse("Open Lab", -3)
	require.Equal(t, 0, c.Capacity())
}

func TestManager_Enroll_FailureOrder(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	c := m.AddCourse("Algebra", 1)

	_, err := m.Enroll("S9999", "C9999")
	require.ErrorIs(t, err, ErrStudentNotFound)

	_, err = m.Enroll(s.ID(), "C9999")
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = m.Enroll(s.ID(), c.ID())
	require.NoError(t, err)

	// Full is checked before duplicate.
	_, err = m.Enroll(s.ID(), c.ID())
	require.ErrorIs(t, err, ErrCourseFull)
}

func TestManager_Enroll_AlreadyEnrolled(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	c := m.AddCourse("History", 0)

	_, err := m.Enroll(s.ID(), c.ID())
	require.NoError(t, err)

	_, err = m.Enroll(s.ID(), c.ID())
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
	require.Len(t, m.Enrollments(), 1, "failed enroll must not add a record")
	require.Equal(t, []string{c.ID()}, m.CourseIDs(s.ID()))
	require.Equal(t, []string{s.ID()}, m.StudentIDs(c.ID()))
}

func TestManager_Enroll_UpdatesBothIndices(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	c1 := m.AddCourse("Algebra", 0)
	c2 := m.AddCourse("History", 0)

	_, err := m.Enroll(s.ID(), c2.ID())
	require.NoError(t, err)
	_, err = m.Enroll(s.ID(), c1.ID())
	require.NoError(t, err)

	require.Equal(t, []string{c2.ID(), c1.ID()}, m.CourseIDs(s.ID()))
	require.Equal(t, []string{s.ID()}, m.StudentIDs(c1.ID()))
	require.Equal(t, 1, m.EnrolledCount(c2.ID()))
}

func TestManager_Unenroll(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	c := m.AddCourse("Algebra", 0)
	_, err := m.Enroll(s.ID(), c.ID())
	require.NoError(t, err)

	require.True(t, m.Unenroll(s.ID(), c.ID()))
	require.Empty(t, m.Enrollments())
	require.Empty(t, m.CourseIDs(s.ID()))
	require.Empty(t, m.StudentIDs(c.ID()))

	before := m.Snapshot()
	require.False(t, m.Unenroll(s.ID(), c.ID()))
	require.Equal(t, before, m.Snapshot())
}

func TestManager_Unenroll_UnknownPair(t *testing.T) {
	m := newTestManager()
	require.False(t, m.Unenroll("S1000", "C2000"))
}

func TestManager_ReenrollAfterDropIsAFreshEnrollment(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	c := m.AddCourse("Algebra", 1)

	first, err := m.Enroll(s.ID(), c.ID())
	require.NoError(t, err)
	require.True(t, m.Unenroll(s.ID(), c.ID()))

	second, err := m.Enroll(s.ID(), c.ID())
	require.NoError(t, err)
	require.NotEqual(t, first.ID(), second.ID())
}

func TestManager_DeleteStudent_Cascades(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	other := m.AddStudent("Ben", "ben@x.com")
	a := m.AddCourse("A", 0)
	b := m.AddCourse("B", 0)
	for _, cid := range []string{a.ID(), b.ID()} {
		_, err := m.Enroll(s.ID(), cid)
		require.NoError(t, err)
	}
	_, err := m.Enroll(other.ID(), a.ID())
	require.NoError(t, err)

	require.True(t, m.DeleteStudent(s.ID()))

	_, found := m.Student(s.ID())
	require.False(t, found)
	require.Len(t, m.Enrollments(), 1)
	require.Equal(t, []string{other.ID()}, m.StudentIDs(a.ID()))
	require.Empty(t, m.StudentIDs(b.ID()))
	require.Len(t, m.Courses(), 2, "courses remain after student delete")
	require.Empty(t, m.CourseIDs(s.ID()))
}

func TestManager_DeleteStudent_Unknown(t *testing.T) {
	m := newTestManager()
	require.False(t, m.DeleteStudent("S1000"))
}

func TestManager_DeleteCourse_Cascades(t *testing.T) {
	m := newTestManager()
	s1 := m.AddStudent("Ana", "ana@x.com")
	s2 := m.AddStudent("Ben", "ben@x.com")
	c := m.AddCourse("Algebra", 0)
	keep := m.AddCourse("History", 0)
	for _, sid := range []string{s1.ID(), s2.ID()} {
		_, err := m.Enroll(sid, c.ID())
		require.NoError(t, err)
	}
	_, err := m.Enroll(s1.ID(), keep.ID())
	require.NoError(t, err)

	require.True(t, m.DeleteCourse(c.ID()))
	require.False(t, m.DeleteCourse(c.ID()))

	require.Len(t, m.Enrollments(), 1)
	require.Equal(t, []string{keep.ID()}, m.CourseIDs(s1.ID()))
	require.Empty(t, m.CourseIDs(s2.ID()))
	require.Len(t, m.Students(), 2)
}

func TestManager_IDsNeverReused(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	require.True(t, m.DeleteStudent(s.ID()))

	next := m.AddStudent("Ben", "ben@x.com")
	require.Equal(t, "S1001", next.ID())
}

func TestManager_SearchStudentsByName(t *testing.T) {
	m := newTestManager()
	m.AddStudent("Ana Lopez", "ana@x.com")
	m.AddStudent("Diana Ross", "diana@x.com")
	m.AddStudent("Bob", "bob@x.com")

	found := m.SearchStudentsByName("ANA")
	require.Len(t, found, 2)
	require.Equal(t, "Ana Lopez", found[0].Name())
	require.Equal(t, "Diana Ross", found[1].Name())

	require.Empty(t, m.SearchStudentsByName("zed"))
	require.Len(t, m.SearchStudentsByName(""), 3)
}

func TestManager_DerivedViews(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	t2 := m.AddStudent("Ben", "ben@x.com")
	c1 := m.AddCourse("Algebra", 0)
	c2 := m.AddCourse("History", 0)
	for _, pair := range [][2]string{{s.ID(), c2.ID()}, {s.ID(), c1.ID()}, {t2.ID(), c1.ID()}} {
		_, err := m.Enroll(pair[0], pair[1])
		require.NoError(t, err)
	}

	courses := m.CoursesForStudent(s.ID())
	require.Len(t, courses, 2)
	require.Equal(t, c2.ID(), courses[0].ID())
	require.Equal(t, c1.ID(), courses[1].ID())

	students := m.StudentsForCourse(c1.ID())
	require.Len(t, students, 2)
	require.Equal(t, s.ID(), students[0].ID())

	require.Empty(t, m.CoursesForStudent("S9999"))
	require.Equal(t, Stats{Students: 2, Courses: 2, Enrollments: 3}, m.Stats())
}

func TestManager_ListingsAreCopies(t *testing.T) {
	m := newTestManager()
	s := m.AddStudent("Ana", "ana@x.com")
	c := m.AddCourse("Algebra", 0)
	_, err := m.Enroll(s.ID(), c.ID())
	require.NoError(t, err)

	list := m.Enrollments()
	list[0] = Enrollment{}
	require.Equal(t, "E3000", m.Enrollments()[0].ID())
}

func TestManager_NextIDs(t *testing.T) {
	m := newTestManager()
	m.AddStudent("Ana", "ana@x.com")
	require.Equal(t, NextIDs{Student: "S1001", Course: "C2000", Enrollment: "E3000"}, m.NextIDs())
}

// Capacity N admits exactly N students.
func TestManager_CapacityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 30).Draw(t, "capacity")
		m := newTestManager()
		c := m.AddCourse("Seminar", capacity)

		for i := 0; i < capacity; i++ {
			s := m.AddStudent(fmt.Sprintf("student-%d", i), "s@x.com")
			if _, err := m.Enroll(s.ID(), c.ID()); err != nil {
				t.Fatalf("enrollment %d of %d failed: %v", i+1, capacity, err)
			}
		}

		extra := m.AddStudent("one too many", "x@x.com")
		if _, err := m.Enroll(extra.ID(), c.ID()); err != ErrCourseFull {
			t.Fatalf("expected ErrCourseFull, got %v", err)
		}
		if got := m.EnrolledCount(c.ID()); got != capacity {
			t.Fatalf("enrolled count %d, want %d", got, capacity)
		}
	})
}

// Random operation sequences never break referential integrity.
func TestManager_IntegrityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := newTestManager()
		steps := rapid.IntRange(1, 60).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			students := m.Students()
			courses := m.Courses()
			switch rapid.IntRange(0, 5).Draw(t, "op") {
			case 0:
				m.AddStudent("s", "s@x.com")
			case 1:
				m.AddCourse("c", rapid.IntRange(0, 3).Draw(t, "capacity"))
			case 2, 3:
				if len(students) == 0 || len(courses) == 0 {
					continue
				}
				s := rapid.SampledFrom(students).Draw(t, "student")
				c := rapid.SampledFrom(courses).Draw(t, "course")
				if rapid.Bool().Draw(t, "enroll") {
					_, _ = m.Enroll(s.ID(), c.ID())
				} else {
					m.Unenroll(s.ID(), c.ID())
				}
			case 4:
				if len(students) > 0 {
					m.DeleteStudent(rapid.SampledFrom(students).Draw(t, "delStudent").ID())
				}
			case 5:
				if len(courses) > 0 {
					m.DeleteCourse(rapid.SampledFrom(courses).Draw(t, "delCourse").ID())
				}
			}
		}

		assertConsistent(t, m)
	})
}

func assertConsistent(t *rapid.T, m *Manager) {
	pairs := make(map[[2]string]bool)
	for _, e := range m.Enrollments() {
		if _, ok := m.Student(e.StudentID()); !ok {
			t.Fatalf("enrollment %s references missing student %s", e.ID(), e.StudentID())
		}
		course, ok := m.Course(e.CourseID())
		if !ok {
			t.Fatalf("enrollment %s references missing course %s", e.ID(), e.CourseID())
		}
		key := [2]string{e.StudentID(), e.CourseID()}
		if pairs[key] {
			t.Fatalf("duplicate enrollment for %v", key)
		}
		pairs[key] = true
		if !course.Unlimited() && m.EnrolledCount(course.ID()) > course.Capacity() {
			t.Fatalf("course %s over capacity", course.ID())
		}
	}
	for _, s := range m.Students() {
		for _, cid := range m.CourseIDs(s.ID()) {
			if !pairs[[2]string{s.ID(), cid}] {
				t.Fatalf("student index has %s/%s without enrollment", s.ID(), cid)
			}
		}
	}
	for _, c := range m.Courses() {
		for _, sid := range m.StudentIDs(c.ID()) {
			if !pairs[[2]string{sid, c.ID()}] {
				t.Fatalf("course index has %s/%s without enrollment", sid, c.ID())
			}
		}
	}
}

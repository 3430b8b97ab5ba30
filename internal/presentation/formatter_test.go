package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/registrar/internal/testutil"
)

func TestLines_MatchDisplayFormats(t *testing.T) {
	at := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	require.Equal(t, "S1000 | Ana | ana@x.com", StudentLine(StudentDTO{ID: "S1000", Name: "Ana", Email: "ana@x.com"}))
	require.Equal(t, "C2000 | Algebra | capacity: 1 | enrolled: 1", CourseLine(CourseDTO{ID: "C2000", Name: "Algebra", Capacity: 1, Enrolled: 1}))
	require.Equal(t, "C2001 | History | capacity: unlimited | enrolled: 0", CourseLine(CourseDTO{ID: "C2001", Name: "History"}))
	require.Equal(t, "E3000 | student:S1000 | course:C2000 | 2026-09-01T08:00:00Z",
		EnrollmentLine(EnrollmentDTO{ID: "E3000", StudentID: "S1000", CourseID: "C2000", CreatedAt: at}))
}

func TestFromManager_ResolvesDerivedIDs(t *testing.T) {
	m := testutil.NewBuilder(t).WithCampusData().Build()

	students := FromStudents(m.Students(), m)
	require.Equal(t, []string{"C2000", "C2001"}, students[0].Courses)
	require.Equal(t, []string{"C2002"}, students[2].Courses)

	courses := FromCourses(m.Courses(), m)
	require.Equal(t, 2, courses[0].Enrolled)
	require.Equal(t, []string{"S1000", "S1001"}, courses[0].Students)

	enrollments := FromEnrollments(m.Enrollments())
	require.Len(t, enrollments, 4)
	require.Equal(t, "E3003", enrollments[3].ID)
}

func TestFormatter_LinesAndEmptyList(t *testing.T) {
	m := testutil.NewBuilder(t).WithCampusData().Build()
	var buf bytes.Buffer
	f := NewFormatter(&buf, Options{})

	require.NoError(t, f.Students("Students", FromStudents(m.Students(), m)))
	require.NoError(t, f.Enrollments("Enrollments", nil))

	require.Equal(t,
		"Students:\n"+
			" S1000 | Ana Lopez | ana@x.com\n"+
			" S1001 | Ben Okafor | ben@x.com\n"+
			" S1002 | Cleo Park | cleo@x.com\n"+
			"Enrollments:\n"+
			" (none)\n",
		buf.String())
}

func TestFormatter_Table(t *testing.T) {
	m := testutil.NewBuilder(t).WithCampusData().Build()
	var buf bytes.Buffer
	f := NewFormatter(&buf, Options{Tables: true})

	require.NoError(t, f.Courses("Courses", FromCourses(m.Courses(), m)))

	out := buf.String()
	require.Contains(t, out, "Courses:\n")
	require.Contains(t, out, "Capacity")
	require.Contains(t, out, "Algebra")
	require.Contains(t, out, "unlimited")
	require.NotContains(t, out, "capacity: ")
}

func TestFormatter_JSON(t *testing.T) {
	m := testutil.NewBuilder(t).WithCampusData().Build()
	var buf bytes.Buffer
	f := NewFormatter(&buf, Options{JSON: true})

	require.NoError(t, f.Courses("ignored", FromCourses(m.Courses(), m)))

	var got []CourseDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	require.Equal(t, "C2002", got[2].ID)
	require.Equal(t, []string{"S1002"}, got[2].Students)
	require.NotContains(t, buf.String(), "ignored")
}

func TestFormatter_SnapshotInfo(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, Options{})

	require.NoError(t, f.SnapshotInfo(SnapshotInfoDTO{Path: "/tmp/r.json", Backend: "json"}))
	require.Equal(t, "No snapshot saved yet at /tmp/r.json (json)\n", buf.String())

	buf.Reset()
	require.NoError(t, f.SnapshotInfo(SnapshotInfoDTO{
		Path: "/tmp/r.json", Backend: "json", SnapshotID: "abc", Version: 1,
		SavedAt: testutil.FixedTime, Students: 3, Courses: 2, Enrollments: 1, Exists: true,
	}))
	require.Contains(t, buf.String(), "Snapshot:    abc\n")
	require.Contains(t, buf.String(), "Saved at:    2026-09-01T08:00:00Z\n")
	require.Contains(t, buf.String(), "Enrollments: 1\n")
	require.NotContains(t, buf.String(), "Next ids:")

	buf.Reset()
	require.NoError(t, f.SnapshotInfo(SnapshotInfoDTO{
		Path: "/tmp/r.json", Backend: "json", Exists: true, SavedAt: testutil.FixedTime,
		NextStudent: "S1003", NextCourse: "C2002", NextEnrollment: "E3001",
	}))
	require.Contains(t, buf.String(), "Next ids:    S1003 C2002 E3001\n")
}

package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Options controls how lists are rendered.
type Options struct {
	JSON   bool // Indented JSON instead of text
	Tables bool // Bordered table instead of one line per entity
	Color  bool // Styled table header
}

// Formatter handles output formatting.
type Formatter struct {
	writer io.Writer
	opts   Options
}

// NewFormatter creates a new formatter.
func NewFormatter(writer io.Writer, opts Options) *Formatter {
	return &Formatter{writer: writer, opts: opts}
}

// StudentLine renders a student as "S1000 | Ana | ana@x.com".
func StudentLine(s StudentDTO) string {
	return fmt.Sprintf("%s | %s | %s", s.ID, s.Name, s.Email)
}

// CourseLine renders a course as "C2000 | Algebra | capacity: 1 | enrolled: 1".
func CourseLine(c CourseDTO) string {
	return fmt.Sprintf("%s | %s | capacity: %s | enrolled: %d", c.ID, c.Name, capacityText(c.Capacity), c.Enrolled)
}

// EnrollmentLine renders an enrollment as "E3000 | student:S1000 | course:C2000 | <timestamp>".
func EnrollmentLine(e EnrollmentDTO) string {
	return fmt.Sprintf("%s | student:%s | course:%s | %s", e.ID, e.StudentID, e.CourseID, e.CreatedAt.Format(time.RFC3339))
}

func capacityText(capacity int) string {
	if capacity == 0 {
		return "unlimited"
	}
	return strconv.Itoa(capacity)
}

// Students writes a titled student list.
func (f *Formatter) Students(title string, students []StudentDTO) error {
	if f.opts.JSON {
		return f.JSON(students)
	}
	rows := make([][]string, len(students))
	lines := make([]string, len(students))
	for i, s := range students {
		rows[i] = []string{s.ID, s.Name, s.Email, strconv.Itoa(len(s.Courses))}
		lines[i] = StudentLine(s)
	}
	return f.list(title, []string{"ID", "Name", "Email", "Courses"}, rows, lines)
}

// Courses writes a titled course list.
func (f *Formatter) Courses(title string, courses []CourseDTO) error {
	if f.opts.JSON {
		return f.JSON(courses)
	}
	rows := make([][]string, len(courses))
	lines := make([]string, len(courses))
	for i, c := range courses {
		rows[i] = []string{c.ID, c.Name, capacityText(c.Capacity), strconv.Itoa(c.Enrolled)}
		lines[i] = CourseLine(c)
	}
	return f.list(title, []string{"ID", "Name", "Capacity", "Enrolled"}, rows, lines)
}

// Enrollments writes a titled enrollment list.
func (f *Formatter) Enrollments(title string, enrollments []EnrollmentDTO) error {
	if f.opts.JSON {
		return f.JSON(enrollments)
	}
	rows := make([][]string, len(enrollments))
	lines := make([]string, len(enrollments))
	for i, e := range enrollments {
		rows[i] = []string{e.ID, e.StudentID, e.CourseID, e.CreatedAt.Format(time.RFC3339)}
		lines[i] = EnrollmentLine(e)
	}
	return f.list(title, []string{"ID", "Student", "Course", "Created"}, rows, lines)
}

// SnapshotInfo writes a snapshot summary.
func (f *Formatter) SnapshotInfo(info SnapshotInfoDTO) error {
	if f.opts.JSON {
		return f.JSON(info)
	}
	if !info.Exists {
		_, err := fmt.Fprintf(f.writer, "No snapshot saved yet at %s (%s)\n", info.Path, info.Backend)
		return err
	}
	_, err := fmt.Fprintf(f.writer,
		"Path:        %s\nBackend:     %s\nSnapshot:    %s\nVersion:     %d\nSaved at:    %s\nStudents:    %d\nCourses:     %d\nEnrollments: %d\n",
		info.Path, info.Backend, info.SnapshotID, info.Version, info.SavedAt.Format(time.RFC3339),
		info.Students, info.Courses, info.Enrollments)
	if err != nil || info.NextStudent == "" {
		return err
	}
	_, err = fmt.Fprintf(f.writer, "Next ids:    %s %s %s\n", info.NextStudent, info.NextCourse, info.NextEnrollment)
	return err
}

// JSON writes v as indented JSON.
func (f *Formatter) JSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// list writes a title followed by either a table or one indented line per row.
// An empty list prints " (none)".
func (f *Formatter) list(title string, headers []string, rows [][]string, lines []string) error {
	if title != "" {
		if _, err := fmt.Fprintf(f.writer, "%s:\n", title); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(f.writer, " (none)")
		return err
	}

	if f.opts.Tables {
		_, err := fmt.Fprintln(f.writer, f.table(headers, rows))
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(f.writer, " %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) table(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	if f.opts.Color {
		headerStyle = headerStyle.Foreground(lipgloss.Color("#54A0FF"))
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

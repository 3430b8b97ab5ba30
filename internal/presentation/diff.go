package presentation

import (
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/registrar/internal/domain/registration"
)

// RenderSnapshot renders every record of snap as one line, in stored order.
func RenderSnapshot(snap registration.Snapshot) string {
	var sb strings.Builder
	for _, s := range snap.Students {
		fmt.Fprintf(&sb, "student %s | %s | %s\n", s.ID, s.Name, s.Email)
	}
	for _, c := range snap.Courses {
		fmt.Fprintf(&sb, "course %s | %s | capacity: %s\n", c.ID, c.Name, capacityText(c.Capacity))
	}
	for _, e := range snap.Enrollments {
		fmt.Fprintf(&sb, "enrollment %s | student:%s | course:%s | %s\n", e.ID, e.StudentID, e.CourseID, e.CreatedAt.Format(time.RFC3339))
	}
	return sb.String()
}

// DiffSnapshots returns a line diff from before to after.
// Added lines start with "+ ", removed lines with "- ". Unchanged lines are omitted.
// An empty result means the snapshots hold the same records.
func DiffSnapshots(before, after registration.Snapshot) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(RenderSnapshot(before), RenderSnapshot(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
		}
	}
	return sb.String()
}

package registration

import (
	"errors"
	"fmt"
)

// Enrollment failures, in the order Enroll checks them.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseFull      = errors.New("course full")
	ErrAlreadyEnrolled = errors.New("already enrolled")
)

// ErrNoSnapshot is returned by a SnapshotStore when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no saved snapshot")

// InvalidSnapshotError reports a snapshot that cannot be restored because
// it violates a manager invariant.
type InvalidSnapshotError struct {
	Reason string
}

func (e *InvalidSnapshotError) Error() string {
	return fmt.Sprintf("invalid snapshot: %s", e.Reason)
}

func invalidSnapshot(format string, args ...any) error {
	return &InvalidSnapshotError{Reason: fmt.Sprintf(format, args...)}
}

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appreg "github.com/zjrosen/registrar/internal/application/registration"
	"github.com/zjrosen/registrar/internal/flags"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/presentation"
	"github.com/zjrosen/registrar/internal/validation"
	"github.com/zjrosen/registrar/internal/watcher"
)

const menu = `
--- Student Registration ---
1) Add student
2) Add course
3) Enroll student in course
4) List students
5) List courses
6) List enrollments
7) Search student by name
8) Unenroll student from course
9) Delete student
10) Delete course
s) Save now
l) Load data from disk (restart state)
d) Show unsaved changes
q) Quit
Choose: `

// shell is the interactive menu loop.
type shell struct {
	svc      *appreg.Service
	flags    *flags.Registry
	validate *validation.Validator
	format   *presentation.Formatter
	in       *bufio.Scanner
	out      io.Writer
	changes  <-chan struct{}
}

func (a *app) runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	sh := &shell{
		svc:      svc,
		flags:    a.flags,
		validate: a.validate,
		format:   a.formatter(cmd),
		in:       bufio.NewScanner(cmd.InOrStdin()),
		out:      cmd.OutOrStdout(),
	}

	switch {
	case a.loaded:
		sh.println("Loaded saved data.")
	case a.loadErr != nil:
		sh.printf("Could not read %s: %v\n", svc.Store().Path(), a.loadErr)
		if kept, err := keepUnreadable(svc.Store().Path(), time.Now()); err != nil {
			log.Warn(log.CatStore, "Could not copy unreadable snapshot", "path", svc.Store().Path(), "error", err)
		} else {
			sh.printf("Kept a copy of it at %s.\n", kept)
		}
		sh.println("Starting with empty data.")
	default:
		sh.println("Starting with empty data.")
	}

	if a.cfg.WatchSnapshot {
		if stop := sh.watch(svc.Store().Path()); stop != nil {
			defer stop()
		}
	}

	sh.run(ctx)
	return nil
}

// keepUnreadable copies the snapshot at path to path.corrupt-<unix seconds>.
// Saves rotate <path>.bak, so the copy is the one that outlives the session.
func keepUnreadable(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the configured snapshot file
	if err != nil {
		return "", err
	}
	dst := fmt.Sprintf("%s.corrupt-%d", path, now.Unix())
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		return "", err
	}
	log.Info(log.CatStore, "Copied unreadable snapshot", "path", path, "copy", dst)
	return dst, nil
}

// watch starts the snapshot watcher. It returns nil if watching is unavailable.
func (sh *shell) watch(path string) func() {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		log.Warn(log.CatWatcher, "Snapshot watcher disabled", "error", err)
		return nil
	}
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		log.Warn(log.CatWatcher, "Snapshot watcher disabled", "error", err)
		return nil
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		log.Warn(log.CatWatcher, "Snapshot watcher disabled", "error", err)
		return nil
	}
	sh.changes = changes
	return func() { _ = w.Stop() }
}

func (sh *shell) run(ctx context.Context) {
	for {
		sh.noticeExternalChange(ctx)
		sh.printf("%s", menu)

		choice, ok := sh.readLine()
		if !ok || choice == "q" {
			break
		}
		if sh.dispatch(ctx, choice) && sh.flags.Enabled(flags.FlagAutosave) && sh.svc.Dirty() {
			sh.save(ctx)
		}
	}

	sh.save(ctx)
	sh.println("Goodbye!")
}

// dispatch runs one menu choice and reports whether it could have changed the registry.
func (sh *shell) dispatch(ctx context.Context, choice string) bool {
	switch choice {
	case "1":
		sh.addStudent(ctx)
	case "2":
		sh.addCourse(ctx)
	case "3":
		sh.enroll(ctx)
	case "4":
		sh.println()
		sh.report(sh.format.Students("Students", presentation.FromStudents(sh.svc.Students(), sh.svc)))
		return false
	case "5":
		sh.println()
		sh.report(sh.format.Courses("Courses", presentation.FromCourses(sh.svc.Courses(), sh.svc)))
		return false
	case "6":
		sh.println()
		sh.report(sh.format.Enrollments("Enrollments", presentation.FromEnrollments(sh.svc.Enrollments())))
		return false
	case "7":
		sh.search()
		return false
	case "8":
		sh.unenroll(ctx)
	case "9":
		sh.deleteStudent(ctx)
	case "10":
		sh.deleteCourse(ctx)
	case "s":
		sh.save(ctx)
		return false
	case "l":
		sh.reload(ctx)
		return false
	case "d":
		sh.showChanges()
		return false
	default:
		sh.println("Unknown option.")
		return false
	}
	return true
}

func (sh *shell) addStudent(ctx context.Context) {
	name, err := sh.validate.Name(sh.prompt("Student name: "))
	if err != nil {
		sh.println(sentence(err))
		return
	}
	in, err := sh.validate.Student(name, sh.prompt("Email: "))
	if err != nil {
		sh.println(sentence(err))
		return
	}
	s := sh.svc.AddStudent(ctx, in.Name, in.Email)
	sh.println("Added: " + presentation.StudentLine(presentation.FromStudent(s, sh.svc)))
}

func (sh *shell) addCourse(ctx context.Context) {
	name, err := sh.validate.Name(sh.prompt("Course name: "))
	if err != nil {
		sh.println(sentence(err))
		return
	}
	capacity, ok := validation.ParseCapacity(sh.prompt("Capacity (0 = unlimited): "))
	if !ok {
		sh.println("Invalid number; using unlimited.")
	}
	c := sh.svc.AddCourse(ctx, name, capacity)
	sh.println("Added: " + presentation.CourseLine(presentation.FromCourse(c, sh.svc)))
}

func (sh *shell) enroll(ctx context.Context) {
	studentID := sh.prompt("Student ID: ")
	courseID := sh.prompt("Course ID: ")
	e, err := sh.svc.Enroll(ctx, studentID, courseID)
	if err != nil {
		sh.println("Enrollment failed: " + err.Error())
		return
	}
	sh.println("Enrollment successful. id=" + e.ID())
}

func (sh *shell) search() {
	found := sh.svc.SearchStudents(sh.prompt("Search name query: "))
	if len(found) == 0 {
		sh.println("No students match.")
		return
	}
	sh.report(sh.format.Students("Matches", presentation.FromStudents(found, sh.svc)))
}

func (sh *shell) unenroll(ctx context.Context) {
	studentID := sh.prompt("Student ID: ")
	courseID := sh.prompt("Course ID: ")
	if sh.svc.Unenroll(ctx, studentID, courseID) {
		sh.println("Unenrolled.")
		return
	}
	sh.println("No such enrollment.")
}

func (sh *shell) deleteStudent(ctx context.Context) {
	id := sh.prompt("Student ID to delete: ")
	if _, ok := sh.svc.Student(id); ok && !sh.confirmDelete(id) {
		sh.println("Kept " + id + ".")
		return
	}
	if sh.svc.DeleteStudent(ctx, id) {
		sh.println("Deleted student and related enrollments.")
		return
	}
	sh.println("Student not found.")
}

func (sh *shell) deleteCourse(ctx context.Context) {
	id := sh.prompt("Course ID to delete: ")
	if _, ok := sh.svc.Course(id); ok && !sh.confirmDelete(id) {
		sh.println("Kept " + id + ".")
		return
	}
	if sh.svc.DeleteCourse(ctx, id) {
		sh.println("Deleted course and related enrollments.")
		return
	}
	sh.println("Course not found.")
}

func (sh *shell) confirmDelete(id string) bool {
	if !sh.flags.Enabled(flags.FlagConfirmDelete) {
		return true
	}
	answer := strings.ToLower(sh.prompt("Delete " + id + " and its enrollments? (y/n): "))
	return answer == "y" || answer == "yes"
}

func (sh *shell) save(ctx context.Context) {
	if _, err := sh.svc.Save(ctx); err != nil {
		sh.println("Save failed.")
		return
	}
	sh.println("Saved to disk.")
}

func (sh *shell) reload(ctx context.Context) {
	if err := sh.svc.Reload(ctx); err != nil {
		sh.println("Load failed or no saved file. Keeping current in-memory data.")
		return
	}
	sh.println("Loaded data from disk.")
}

func (sh *shell) showChanges() {
	saved, current := sh.svc.Changes()
	diff := presentation.DiffSnapshots(saved, current)
	if diff == "" {
		sh.println("No unsaved changes.")
		return
	}
	sh.println("Unsaved changes:")
	sh.printf("%s", diff)
}

// noticeExternalChange drains a pending watcher signal without blocking.
func (sh *shell) noticeExternalChange(ctx context.Context) {
	select {
	case <-sh.changes:
	default:
		return
	}
	changed, err := sh.svc.ExternalChange(ctx)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Checking snapshot failed", err)
		return
	}
	if changed {
		sh.println("\nThe saved data changed on disk. Choose l to load it, or s to overwrite it.")
	}
}

func (sh *shell) readLine() (string, bool) {
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

// prompt prints label and reads one trimmed line. End of input reads as empty.
func (sh *shell) prompt(label string) string {
	sh.printf("%s", label)
	line, _ := sh.readLine()
	return line
}

func (sh *shell) report(err error) {
	if err != nil {
		log.ErrorErr(log.CatCLI, "Writing output failed", err)
	}
}

func (sh *shell) println(a ...any) {
	_, _ = fmt.Fprintln(sh.out, a...)
}

func (sh *shell) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(sh.out, format, a...)
}

// sentence turns a validation error into a menu message: "Name cannot be empty."
func sentence(err error) string {
	msg := err.Error()
	var verr *validation.Error
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		msg = verr.Fields[0].Message
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appreg "github.com/zjrosen/registrar/internal/application/registration"
	"github.com/zjrosen/registrar/internal/presentation"
)

func (a *app) studentCommands() []*cobra.Command {
	add := &cobra.Command{
		Use:   "student:add NAME EMAIL",
		Short: "Add a student",
		Long: `Add a student and save the registry.

The student id is assigned by registrar (S1000, S1001, ...).

Examples:
  registrar student:add "Ana Lopez" ana@example.edu`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.validate.Student(args[0], args[1])
			if err != nil {
				return err
			}
			return a.mutate(cmd, func(ctx context.Context, svc *appreg.Service) error {
				s := svc.AddStudent(ctx, in.Name, in.Email)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Added: "+presentation.StudentLine(presentation.FromStudent(s, svc)))
				return err
			})
		},
	}

	list := &cobra.Command{
		Use:   "student:list",
		Short: "List all students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			return a.formatter(cmd).Students("Students", presentation.FromStudents(svc.Students(), svc))
		},
	}

	search := &cobra.Command{
		Use:   "student:search QUERY",
		Short: "Find students by name",
		Long: `Find students whose name contains QUERY, ignoring case.
An empty QUERY matches every student.

Examples:
  registrar student:search ana
  registrar student:search ana --json | jq '.[].id'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			found := svc.SearchStudents(args[0])
			if len(found) == 0 && !a.jsonOut {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No students match.")
				return err
			}
			return a.formatter(cmd).Students("Matches", presentation.FromStudents(found, svc))
		},
	}

	del := &cobra.Command{
		Use:   "student:delete ID",
		Short: "Delete a student and all of its enrollments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, svc *appreg.Service) error {
				if !svc.DeleteStudent(ctx, args[0]) {
					return fmt.Errorf("student %s not found", args[0])
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Deleted student and related enrollments.")
				return err
			})
		},
	}

	courses := &cobra.Command{
		Use:   "student:courses ID",
		Short: "List the courses a student is enrolled in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.loadedService(ctx)
			if err != nil {
				return err
			}
			if _, ok := svc.Student(args[0]); !ok {
				return fmt.Errorf("student %s not found", args[0])
			}
			return a.formatter(cmd).Courses("Courses of "+args[0], presentation.FromCourses(svc.CoursesForStudent(ctx, args[0]), svc))
		},
	}

	a.jsonFlag(list, search, courses)
	return []*cobra.Command{add, list, search, del, courses}
}

func (a *app) jsonFlag(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().BoolVar(&a.jsonOut, "json", false, "output as JSON")
	}
}

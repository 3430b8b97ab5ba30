package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appreg "github.com/zjrosen/registrar/internal/application/registration"
	"github.com/zjrosen/registrar/internal/presentation"
	"github.com/zjrosen/registrar/internal/validation"
)

func (a *app) courseCommands() []*cobra.Command {
	add := &cobra.Command{
		Use:   "course:add NAME [CAPACITY]",
		Short: "Add a course",
		Long: `Add a course and save the registry.

CAPACITY limits concurrent enrollments. 0, a missing value or anything
that is not a number means unlimited; negative numbers count as 0.

Examples:
  registrar course:add Algebra 30
  registrar course:add "World History"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			capacity := "0"
			if len(args) == 2 {
				capacity = args[1]
			}
			in, err := a.validate.Course(args[0], capacity)
			if err != nil {
				return err
			}
			if _, ok := validation.ParseCapacity(capacity); !ok {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Invalid number; using unlimited.")
			}
			return a.mutate(cmd, func(ctx context.Context, svc *appreg.Service) error {
				c := svc.AddCourse(ctx, in.Name, in.Capacity)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Added: "+presentation.CourseLine(presentation.FromCourse(c, svc)))
				return err
			})
		},
	}

	list := &cobra.Command{
		Use:   "course:list",
		Short: "List all courses with their enrollment counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			return a.formatter(cmd).Courses("Courses", presentation.FromCourses(svc.Courses(), svc))
		},
	}

	del := &cobra.Command{
		Use:   "course:delete ID",
		Short: "Delete a course and all of its enrollments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, svc *appreg.Service) error {
				if !svc.DeleteCourse(ctx, args[0]) {
					return fmt.Errorf("course %s not found", args[0])
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Deleted course and related enrollments.")
				return err
			})
		},
	}

	students := &cobra.Command{
		Use:   "course:students ID",
		Short: "List the students enrolled in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.loadedService(ctx)
			if err != nil {
				return err
			}
			if _, ok := svc.Course(args[0]); !ok {
				return fmt.Errorf("course %s not found", args[0])
			}
			return a.formatter(cmd).Students("Students in "+args[0], presentation.FromStudents(svc.StudentsForCourse(ctx, args[0]), svc))
		},
	}

	a.jsonFlag(list, students)
	return []*cobra.Command{add, list, del, students}
}

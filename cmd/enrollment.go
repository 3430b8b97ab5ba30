package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appreg "github.com/zjrosen/registrar/internal/application/registration"
	"github.com/zjrosen/registrar/internal/presentation"
)

func (a *app) enrollmentCommands() []*cobra.Command {
	enroll := &cobra.Command{
		Use:   "enroll STUDENT_ID COURSE_ID",
		Short: "Enroll a student in a course",
		Long: `Enroll a student in a course and save the registry.

Fails with "student not found", "course not found", "course full" or
"already enrolled", checked in that order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, svc *appreg.Service) error {
				e, err := svc.Enroll(ctx, args[0], args[1])
				if err != nil {
					return fmt.Errorf("enrollment failed: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Enrollment successful. id="+e.ID())
				return err
			})
		},
	}

	unenroll := &cobra.Command{
		Use:   "unenroll STUDENT_ID COURSE_ID",
		Short: "Drop a student from a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, svc *appreg.Service) error {
				if !svc.Unenroll(ctx, args[0], args[1]) {
					return fmt.Errorf("no such enrollment: %s in %s", args[0], args[1])
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Unenrolled.")
				return err
			})
		},
	}

	list := &cobra.Command{
		Use:   "enrollment:list",
		Short: "List active enrollments in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			return a.formatter(cmd).Enrollments("Enrollments", presentation.FromEnrollments(svc.Enrollments()))
		},
	}

	a.jsonFlag(list)
	return []*cobra.Command{enroll, unenroll, list}
}

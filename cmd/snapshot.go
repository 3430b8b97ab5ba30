package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/registrar/internal/infrastructure/storage"
	"github.com/zjrosen/registrar/internal/paths"
	"github.com/zjrosen/registrar/internal/presentation"
)

func (a *app) snapshotCommands() []*cobra.Command {
	info := &cobra.Command{
		Use:   "snapshot:info",
		Short: "Show where the registry is saved and what it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			store := svc.Store()
			dto := presentation.SnapshotInfoDTO{Path: store.Path(), Backend: store.Kind()}

			snap, ok, err := svc.Stored(ctx)
			if err != nil {
				return fmt.Errorf("reading %s: %w", store.Path(), err)
			}
			if ok {
				stats := snap.Stats()
				dto.Exists = true
				dto.SnapshotID = snap.Meta.ID
				dto.Version = snap.Meta.Version
				dto.SavedAt = snap.Meta.SavedAt
				dto.Students = stats.Students
				dto.Courses = stats.Courses
				dto.Enrollments = stats.Enrollments

				next := svc.NextIDs()
				dto.NextStudent, dto.NextCourse, dto.NextEnrollment = next.Student, next.Course, next.Enrollment
			}
			return a.formatter(cmd).SnapshotInfo(dto)
		},
	}

	var to, toKind string
	export := &cobra.Command{
		Use:   "snapshot:export --to PATH",
		Short: "Copy the registry to another file, converting the backend",
		Long: `Copy the saved registry to PATH. A directory PATH receives
.registrar/registry.json inside it. The backend of the copy follows
--to-storage, or the extension of PATH when it is auto.

Examples:
  registrar snapshot:export --to backup.yaml
  registrar snapshot:export --to registry.db
  registrar snapshot:export --to dump.txt --to-storage json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.loadedService(ctx)
			if err != nil {
				return err
			}
			target, err := filepath.Abs(paths.ResolveDataFile(to))
			if err != nil {
				return fmt.Errorf("resolving %s: %w", to, err)
			}
			current, err := filepath.Abs(svc.Store().Path())
			if err != nil {
				return fmt.Errorf("resolving %s: %w", svc.Store().Path(), err)
			}
			if target == current {
				return fmt.Errorf("export target is the registry itself: %s", to)
			}

			dst, err := storage.Open(toKind, target)
			if err != nil {
				return err
			}
			defer func() { _ = dst.Close() }()

			meta, err := svc.Export(ctx, dst)
			if err != nil {
				return err
			}
			stats := svc.Stats()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d students, %d courses, %d enrollments to %s (%s, snapshot %s)\n",
				stats.Students, stats.Courses, stats.Enrollments, dst.Path(), dst.Kind(), meta.ID)
			return err
		},
	}
	export.Flags().StringVar(&to, "to", "", "destination file")
	export.Flags().StringVar(&toKind, "to-storage", "auto", "destination backend: auto, json, yaml, sqlite")
	_ = export.MarkFlagRequired("to")

	a.jsonFlag(info)
	return []*cobra.Command{info, export}
}

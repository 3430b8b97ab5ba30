package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/registrar/internal/cachemanager"
	domain "github.com/zjrosen/registrar/internal/domain/registration"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/tracing"
)

// Option configures a Service.
type Option func(*Service)

// WithTracer sets the tracer used for service spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithCacheTTL sets how long derived views stay cached. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithManagerOptions passes options to every manager the service creates.
func WithManagerOptions(opts ...domain.Option) Option {
	return func(s *Service) {
		s.managerOpts = append(s.managerOpts, opts...)
	}
}

// Service coordinates the registration manager with its snapshot store.
// Like the manager, it is not safe for concurrent use.
type Service struct {
	store       domain.SnapshotStore
	manager     *domain.Manager
	managerOpts []domain.Option
	tracer      trace.Tracer
	cacheTTL    time.Duration

	courseCache  *cachemanager.InMemoryCacheManager[[]domain.Course]
	studentCache *cachemanager.InMemoryCacheManager[[]domain.Student]
	coursesFor   *cachemanager.ReadThroughCache[[]domain.Course, string]
	studentsFor  *cachemanager.ReadThroughCache[[]domain.Student, string]

	// saved is the state last written to or read from the store.
	saved   domain.Snapshot
	savedID string
	dirty   bool
}

// NewService creates a service holding an empty manager.
// Call Load to pick up a previously saved snapshot.
func NewService(store domain.SnapshotStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		tracer:   noop.NewTracerProvider().Tracer("noop"),
		cacheTTL: cachemanager.DefaultExpiration,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.courseCache = cachemanager.NewInMemoryCacheManager[[]domain.Course]("courses-for-student", s.cacheTTL, cachemanager.DefaultCleanupInterval)
	s.studentCache = cachemanager.NewInMemoryCacheManager[[]domain.Student]("students-for-course", s.cacheTTL, cachemanager.DefaultCleanupInterval)
	s.coursesFor = cachemanager.NewReadThroughCache[[]domain.Course, string](s.courseCache, func(_ context.Context, id string) ([]domain.Course, error) {
		return s.manager.CoursesForStudent(id), nil
	}, s.cacheTTL)
	s.studentsFor = cachemanager.NewReadThroughCache[[]domain.Student, string](s.studentCache, func(_ context.Context, id string) ([]domain.Student, error) {
		return s.manager.StudentsForCourse(id), nil
	}, s.cacheTTL)

	s.manager = domain.NewManager(s.managerOpts...)
	s.saved = s.manager.Snapshot()
	return s
}

// Store returns the snapshot store the service persists to.
func (s *Service) Store() domain.SnapshotStore {
	return s.store
}

// Load replaces the manager with the stored snapshot.
// It reports false with a nil error when nothing has been saved yet.
// On any error the current manager is kept.
func (s *Service) Load(ctx context.Context) (bool, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanLoad, trace.WithAttributes(s.storeAttrs()...))
	defer span.End()

	snap, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrNoSnapshot) {
		log.Info(log.CatStore, "No saved snapshot", "path", s.store.Path())
		span.SetAttributes(attribute.String(tracing.AttrResult, "empty"))
		tracing.RecordError(span, nil)
		return false, nil
	}
	if err != nil {
		log.ErrorErr(log.CatStore, "Load failed", err, "path", s.store.Path())
		tracing.RecordError(span, err)
		return false, err
	}

	m, err := domain.Restore(snap, s.managerOpts...)
	if err != nil {
		err = fmt.Errorf("restore %s: %w", s.store.Path(), err)
		log.ErrorErr(log.CatStore, "Restore failed", err)
		tracing.RecordError(span, err)
		return false, err
	}

	s.manager = m
	s.saved = snap
	s.savedID = snap.Meta.ID
	s.dirty = false
	s.flush(ctx)

	stats := snap.Stats()
	span.SetAttributes(tracing.SnapshotAttrs(stats.Students, stats.Courses, stats.Enrollments)...)
	span.SetAttributes(attribute.String(tracing.AttrSnapshotID, snap.Meta.ID), attribute.String(tracing.AttrResult, "loaded"))
	span.AddEvent(tracing.EventRestored)
	tracing.RecordError(span, nil)
	log.Info(log.CatStore, "Loaded snapshot", "path", s.store.Path(), "snapshot", snap.Meta.ID,
		"students", stats.Students, "courses", stats.Courses, "enrollments", stats.Enrollments)
	return true, nil
}

// Reload reads the store again. Unlike Load, a missing snapshot is an error,
// and in both cases the current manager is kept.
func (s *Service) Reload(ctx context.Context) error {
	loaded, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if !loaded {
		return domain.ErrNoSnapshot
	}
	return nil
}

// Save writes the current manager state to the store.
func (s *Service) Save(ctx context.Context) (domain.SnapshotMeta, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanSave, trace.WithAttributes(s.storeAttrs()...))
	defer span.End()

	snap := s.manager.Snapshot()
	stats := snap.Stats()
	span.SetAttributes(tracing.SnapshotAttrs(stats.Students, stats.Courses, stats.Enrollments)...)

	meta, err := s.store.Save(ctx, snap)
	if err != nil {
		log.ErrorErr(log.CatStore, "Save failed", err, "path", s.store.Path())
		tracing.RecordError(span, err)
		return domain.SnapshotMeta{}, err
	}

	snap.Meta = meta
	s.saved = snap
	s.savedID = meta.ID
	s.dirty = false

	span.SetAttributes(attribute.String(tracing.AttrSnapshotID, meta.ID))
	tracing.RecordError(span, nil)
	log.Info(log.CatStore, "Saved snapshot", "path", s.store.Path(), "snapshot", meta.ID)
	return meta, nil
}

// Export writes the current state to dst without touching the service's own store.
func (s *Service) Export(ctx context.Context, dst domain.SnapshotStore) (domain.SnapshotMeta, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanSave, trace.WithAttributes(
		attribute.String(tracing.AttrStoreKind, dst.Kind()),
		attribute.String(tracing.AttrStorePath, dst.Path()),
	))
	defer span.End()

	meta, err := dst.Save(ctx, s.manager.Snapshot())
	tracing.RecordError(span, err)
	if err != nil {
		return domain.SnapshotMeta{}, fmt.Errorf("export to %s: %w", dst.Path(), err)
	}
	log.Info(log.CatStore, "Exported snapshot", "path", dst.Path(), "kind", dst.Kind())
	return meta, nil
}

// Stored loads the snapshot currently in the store without changing any state.
// It reports false when nothing has been saved yet.
func (s *Service) Stored(ctx context.Context) (domain.Snapshot, bool, error) {
	snap, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrNoSnapshot) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, err
	}
	return snap, true, nil
}

// ExternalChange reports whether the store now holds a snapshot this service
// neither saved nor loaded. Each foreign snapshot is reported once.
func (s *Service) ExternalChange(ctx context.Context) (bool, error) {
	snap, ok, err := s.Stored(ctx)
	if err != nil || !ok {
		return false, err
	}
	if snap.Meta.ID == s.savedID {
		return false, nil
	}
	log.Info(log.CatWatcher, "Snapshot changed on disk", "snapshot", snap.Meta.ID, "known", s.savedID)
	s.savedID = snap.Meta.ID
	return true, nil
}

// Dirty reports whether the manager changed since the last save or load.
func (s *Service) Dirty() bool {
	return s.dirty
}

// Changes returns the last saved or loaded state and the current state.
func (s *Service) Changes() (saved, current domain.Snapshot) {
	return s.saved, s.manager.Snapshot()
}

func (s *Service) storeAttrs() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(tracing.AttrStoreKind, s.store.Kind()),
		attribute.String(tracing.AttrStorePath, s.store.Path()),
	}
}

func (s *Service) flush(ctx context.Context) {
	s.courseCache.Flush(ctx)
	s.studentCache.Flush(ctx)
	trace.SpanFromContext(ctx).AddEvent(tracing.EventCacheFlushed)
}

// changed records a mutation.
func (s *Service) changed(ctx context.Context) {
	s.dirty = true
	s.flush(ctx)
}

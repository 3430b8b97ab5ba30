package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appreg "github.com/zjrosen/registrar/internal/application/registration"
	"github.com/zjrosen/registrar/internal/config"
	"github.com/zjrosen/registrar/internal/flags"
	"github.com/zjrosen/registrar/internal/infrastructure/storage"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/paths"
	"github.com/zjrosen/registrar/internal/presentation"
	"github.com/zjrosen/registrar/internal/tracing"
	"github.com/zjrosen/registrar/internal/validation"
)

const defaultConfigPath = ".registrar/config.yaml"

var version = "dev"

// app holds the state shared by the root command and its subcommands
// for one invocation.
type app struct {
	v *viper.Viper

	cfgFile  string
	logFile  string
	debug    bool
	jsonOut  bool
	cfg      config.Config
	cfgPath  string
	flags    *flags.Registry
	validate *validation.Validator

	tracer  *tracing.Provider
	svc     *appreg.Service
	loadErr error
	loaded  bool
	closers []func()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New(), validate: validation.New(), tracer: tracing.Noop()}

	root := &cobra.Command{
		Use:   "registrar",
		Short: "Manage students, courses and enrollments",
		Long: `Registrar keeps students, courses and enrollments in memory and saves
the whole registry to a single snapshot file.

Run without a subcommand for the interactive menu. Every subcommand loads
the snapshot, applies one change and saves it again.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runShell,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: .registrar/config.yaml or ~/.config/registrar/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false,
		"enable debug logging (also set via REGISTRAR_DEBUG=1)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "",
		"debug log file (default: registrar-debug.log)")
	root.PersistentFlags().String("data-file", "",
		"snapshot file or directory (default: ./.registrar/registry.json)")
	root.PersistentFlags().String("storage", "",
		"snapshot backend: auto, json, yaml, sqlite")

	_ = a.v.BindPFlag("data_file", root.PersistentFlags().Lookup("data-file"))
	_ = a.v.BindPFlag("storage", root.PersistentFlags().Lookup("storage"))

	root.AddCommand(a.studentCommands()...)
	root.AddCommand(a.courseCommands()...)
	root.AddCommand(a.enrollmentCommands()...)
	root.AddCommand(a.snapshotCommands()...)
	root.AddCommand(a.configCommands()...)

	return root, a
}

// setup runs before every command: logging, configuration and tracing.
// The snapshot store is opened lazily by commands that need it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.initLogging(); err != nil {
		return err
	}
	if err := a.initConfig(); err != nil {
		return err
	}
	log.SetMinLevel(log.ParseLevel(a.cfg.LogLevel))
	return a.initTracing()
}

func (a *app) initLogging() error {
	if os.Getenv("REGISTRAR_DEBUG") == "" && !a.debug {
		return nil
	}
	logPath := a.logFile
	if logPath == "" {
		logPath = os.Getenv("REGISTRAR_LOG")
	}
	if logPath == "" {
		logPath = "registrar-debug.log"
	}

	cleanup, err := log.Init(logPath)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	a.closers = append(a.closers, cleanup)
	log.Info(log.CatConfig, "Registrar starting", "version", version, "logPath", logPath)
	return nil
}

func (a *app) initConfig() error {
	defaults := config.Defaults()
	a.v.SetDefault("storage", defaults.Storage)
	a.v.SetDefault("watch_snapshot", defaults.WatchSnapshot)
	a.v.SetDefault("log_level", defaults.LogLevel)
	a.v.SetDefault("cache.ttl", defaults.Cache.TTL)
	a.v.SetDefault("ui.color", defaults.UI.Color)
	a.v.SetDefault("ui.tables", defaults.UI.Tables)
	a.v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	a.v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	a.v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	a.v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	a.v.SetEnvPrefix("REGISTRAR")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	// Config lookup order:
	// 1. --config
	// 2. .registrar/config.yaml (current directory)
	// 3. ~/.config/registrar/config.yaml (user config)
	// A missing file is created from the commented default template.
	writeTo := defaultConfigPath
	switch {
	case a.cfgFile != "":
		a.v.SetConfigFile(a.cfgFile)
		writeTo = a.cfgFile
	case fileExists(defaultConfigPath):
		a.v.SetConfigFile(defaultConfigPath)
	default:
		home, _ := os.UserHomeDir()
		a.v.AddConfigPath(filepath.Join(home, ".config", "registrar"))
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config: %w", err)
		}
		if writeErr := config.WriteDefaultConfig(writeTo); writeErr == nil {
			a.v.SetConfigFile(writeTo)
			_ = a.v.ReadInConfig()
		} else {
			log.Warn(log.CatConfig, "Could not write default config", "path", writeTo, "error", writeErr)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(a.cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfgPath = a.v.ConfigFileUsed()
	if a.cfgPath == "" {
		a.cfgPath = writeTo
	}
	a.flags = flags.New(a.cfg.Flags)
	log.Debug(log.CatConfig, "Config loaded", "path", a.cfgPath, "storage", a.cfg.Storage)
	return nil
}

func (a *app) initTracing() error {
	tc := a.cfg.Tracing
	filePath := tc.FilePath
	if filePath == "" {
		filePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      tc.Enabled,
		Exporter:     tc.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: tc.OTLPEndpoint,
		SampleRate:   tc.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	a.tracer = provider
	a.closers = append(a.closers, func() { _ = provider.Shutdown(context.Background()) })
	return nil
}

// service opens the snapshot store and loads it once per invocation.
// A load failure is remembered in loadErr and the service starts empty.
func (a *app) service(ctx context.Context) (*appreg.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	path := paths.ResolveDataFile(a.cfg.DataFile)
	store, err := storage.Open(a.cfg.Storage, path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	a.closers = append(a.closers, func() { _ = store.Close() })

	a.svc = appreg.NewService(store,
		appreg.WithTracer(a.tracer.Tracer()),
		appreg.WithCacheTTL(a.cfg.Cache.TTL),
	)
	a.closers = append(a.closers, func() {
		stats := a.svc.CacheStats()
		log.Debug(log.CatCache, "Derived view cache", "hits", stats.Hits, "misses", stats.Misses)
	})
	a.loaded, a.loadErr = a.svc.Load(ctx)
	return a.svc, nil
}

// loadedService is service for scriptable commands, which refuse to run
// against a snapshot they could not read.
func (a *app) loadedService(ctx context.Context) (*appreg.Service, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}
	if a.loadErr != nil {
		return nil, fmt.Errorf("loading %s: %w", svc.Store().Path(), a.loadErr)
	}
	return svc, nil
}

// mutate runs fn against the loaded registry and saves if anything changed.
func (a *app) mutate(cmd *cobra.Command, fn func(ctx context.Context, svc *appreg.Service) error) error {
	ctx := cmd.Context()
	svc, err := a.loadedService(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, svc); err != nil {
		return err
	}
	if !svc.Dirty() {
		return nil
	}
	if _, err := svc.Save(ctx); err != nil {
		return fmt.Errorf("saving %s: %w", svc.Store().Path(), err)
	}
	return nil
}

func (a *app) formatter(cmd *cobra.Command) *presentation.Formatter {
	return presentation.NewFormatter(cmd.OutOrStdout(), presentation.Options{
		JSON:   a.jsonOut,
		Tables: a.cfg.UI.Tables,
		Color:  a.cfg.UI.Color,
	})
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Execute runs the root command
func Execute() error {
	root, a := newRootCmd()
	defer a.close()
	return root.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}

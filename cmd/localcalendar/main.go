package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/guilherme-santos/localcalendar/calendar"
	"github.com/guilherme-santos/localcalendar/calendar/ics"
	jsoncodec "github.com/guilherme-santos/localcalendar/calendar/json"
	"github.com/guilherme-santos/localcalendar/internal"
	"github.com/guilherme-santos/localcalendar/internal/config"
	"github.com/guilherme-santos/localcalendar/internal/sqlite"
	"github.com/guilherme-santos/localcalendar/internal/store"
)

func main() {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app holds what every command needs. It's built by open and released by
// close, once per command run.
type app struct {
	cfgPath  string
	dbPath   string
	timezone string
	verbose  bool

	cfg     *config.Config
	logger  zerolog.Logger
	loc     *time.Location
	storage *sqlite.Storage
	store   *store.Store
	mux     *calendar.Mux
	out     io.Writer

	// now is overridden by tests.
	now func() time.Time
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "localcalendar",
		Short:        "Keep a calendar in a local SQLite database",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", defaultConfigPath(), "path of the config file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "path of the database, overrides the config")
	rootCmd.PersistentFlags().StringVar(&a.timezone, "timezone", "", "IANA timezone, overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logs")

	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newUpdateCmd(a))
	rootCmd.AddCommand(newDeleteCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newAgendaCmd(a))

	return rootCmd
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "localcalendar", "config.yaml")
}

// run opens the store, calls fn and releases everything afterwards.
func (a *app) run(cmd *cobra.Command, fn func(context.Context) error) error {
	if err := a.open(cmd); err != nil {
		return err
	}
	defer a.close()

	return fn(cmd.Context())
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.dbPath != "" {
		cfg.Database = a.dbPath
	}
	if a.timezone != "" {
		cfg.Timezone = a.timezone
	}
	if a.verbose {
		cfg.Verbose = true
	}
	if !filepath.IsAbs(cfg.Database) && a.dbPath == "" {
		cfg.Database = filepath.Join(filepath.Dir(a.cfgPath), cfg.Database)
	}
	a.cfg = cfg

	a.loc, err = cfg.Location()
	if err != nil {
		return err
	}
	a.out = cmd.OutOrStdout()
	a.logger = internal.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	a.logger.Debug().
		Str("database", cfg.Database).
		Str("timezone", a.loc.String()).
		Bool("windowed", cfg.Windowed).
		Msg("Starting")

	a.mux = calendar.NewMux()
	a.mux.Register("ics", ics.New())
	a.mux.Register("json", jsoncodec.New())

	ctx := cmd.Context()
	a.storage = sqlite.OpenStorage(cfg.Database, a.loc, a.logger)
	if cfg.Seed && a.storage.Err() == nil {
		if _, err := a.storage.Seed(ctx, demoEvents(a.loc)); err != nil {
			a.logger.Error().Err(err).Msg("Unable to seed database")
		}
	}

	logger := a.logger
	a.store = store.New(ctx, a.storage, store.Config{
		Logger:    &logger,
		Windowed:  cfg.Windowed,
		Reference: a.now().In(a.loc),
	})
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.storage != nil {
		a.storage.Close()
	}
}

// ensureVisible moves the store's interval so a windowed store has loaded
// ref's months.
func (a *app) ensureVisible(ctx context.Context, ref time.Time) error {
	if !a.cfg.Windowed || a.store.Interval().Contains(ref) {
		return nil
	}
	a.store.SetInterval(ref)
	_, err := a.store.Refresh(ctx)
	return err
}

// eventsIn returns the events overlapping iv, the cached ones when iv is
// zero. A windowed store only holds its interval, a range reaching past it
// is read from storage.
func (a *app) eventsIn(ctx context.Context, iv internal.Interval) ([]internal.Event, error) {
	loaded := a.store.Interval()
	if a.cfg.Windowed && !iv.IsZero() && (!loaded.Contains(iv.Start) || !loaded.Contains(iv.End)) {
		return a.storage.Between(ctx, iv.Start, iv.End)
	}
	if err := a.store.Err(); err != nil {
		return nil, err
	}
	return filterEvents(a.store.Events(), iv, nil), nil
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/logging"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
	"github.com/idilsaglam/tasks/internal/store/memstore"
	"github.com/idilsaglam/tasks/internal/store/sqlitestore"
	"github.com/idilsaglam/tasks/internal/tui"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Options tune behavior from root flags. Non-empty values override the
// config file.
type Options struct {
	ConfigPath string
	Backend    string
	DataDir    string
	Theme      string
	NoColor    bool
	Verbose    bool
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	opt Options

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	closer io.Closer

	// runTUI is swapped out in tests.
	runTUI func(*store.Store) error
}

// exitError carries an exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usage(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

func failure(err error) error {
	return &exitError{code: 1, err: err}
}

// Run executes the command line and returns an exit code (0 ok, 1 error,
// 2 usage or validation).
func Run(args []string) int {
	return newApp(os.Stdin, os.Stdout, os.Stderr, time.Now).execute(args)
}

func newApp(in io.Reader, out, errOut io.Writer, now func() time.Time) *app {
	a := &app{in: in, out: out, errOut: errOut, now: now}
	a.runTUI = func(s *store.Store) error { return tui.Run(s, now) }
	return a
}

func (a *app) execute(args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.Execute()
	a.close()
	if err == nil {
		return 0
	}
	ui.Fail(a.errOut, err.Error())

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, store.ErrEmptyInput) || errors.Is(err, store.ErrNotFound) {
		return 2
	}
	// cobra's own argument and flag errors
	fmt.Fprintln(a.errOut, "Run 'tasks --help' for usage.")
	return 2
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tasks",
		Short: "tasks - a tiny task list",
		Long: `tasks keeps a list of short items you can add, complete, filter and delete.

Run without arguments to open the interactive list.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["store"] == "none" {
				return a.setup(false)
			}
			return a.setup(true)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tui()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage("%v", err)
	})

	f := root.PersistentFlags()
	f.StringVar(&a.opt.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")
	f.StringVar(&a.opt.Backend, "backend", "", "storage backend: json, sqlite or memory")
	f.StringVar(&a.opt.DataDir, "data-dir", "", "directory holding the task snapshot")
	f.StringVar(&a.opt.Theme, "theme", "", "color theme: classic, neon or mono")
	f.BoolVar(&a.opt.NoColor, "no-color", false, "disable colors")
	f.BoolVarP(&a.opt.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newRemoveCmd(a),
		newStatsCmd(a),
		newTUICmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads configuration, builds the logger and, when needed, opens
// the store and loads its snapshot.
func (a *app) setup(withStore bool) error {
	path := a.opt.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrInvalid) {
		return usage("%w", err)
	}
	if err != nil {
		return failure(err)
	}
	if a.opt.Backend != "" {
		cfg.Storage.Backend = a.opt.Backend
	}
	if a.opt.DataDir != "" {
		cfg.Storage.Dir = a.opt.DataDir
	}
	if a.opt.Theme != "" {
		cfg.UI.Theme = a.opt.Theme
	}
	if a.opt.NoColor {
		cfg.UI.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return usage("%v", err)
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging.Level, a.opt.Verbose)
	if err != nil {
		return failure(err)
	}
	a.logger = logger

	ui.SetColor(cfg.UI.Color)
	ui.SetTheme(cfg.UI.Theme)

	if !withStore {
		return nil
	}
	slot, closer, err := openSlot(cfg.Storage)
	if err != nil {
		return failure(err)
	}
	a.closer = closer
	a.store = store.New(slot,
		store.WithKey(cfg.Storage.Key),
		store.WithLogger(logger.Named("store")),
		store.WithClock(a.now),
	)
	a.store.Load()
	logger.Debug("store ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("dir", cfg.Storage.Dir),
		zap.Int("items", a.store.Counts().Total))
	return nil
}

func openSlot(sc config.StorageConfig) (store.Slot, io.Closer, error) {
	switch sc.Backend {
	case config.BackendSQLite:
		s, err := sqlitestore.Open(filepath.Join(sc.Dir, sqlitestore.FileName))
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendMemory:
		return memstore.New(), nil, nil
	default:
		return jsonstore.New(sc.Dir), nil, nil
	}
}

func (a *app) close() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close storage", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) tui() error {
	if err := a.runTUI(a.store); err != nil {
		return failure(fmt.Errorf("tui: %w", err))
	}
	return nil
}

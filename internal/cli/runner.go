package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todone/internal/commands"
	"github.com/idilsaglam/todone/internal/config"
	"github.com/idilsaglam/todone/internal/list"
	"github.com/idilsaglam/todone/internal/logging"
	"github.com/idilsaglam/todone/internal/store/jsonstore"
	"github.com/idilsaglam/todone/internal/ui"
	"github.com/idilsaglam/todone/internal/view"
)

const logFileName = "todone.log"

// Options tune behavior from root flags and carry the standard streams.
type Options struct {
	Project    string
	ConfigPath string
	LogLevel   string
	Theme      string
	Yes        bool

	In       io.Reader
	Out, Err io.Writer
}

// usageError marks bad invocations (exit code 2).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opts Options) int {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	root := NewRootCommand(&opts)
	root.SetArgs(args)
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	err := root.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, errReported) {
		return 1
	}
	console := ui.Console{Out: opts.Out, Err: opts.Err}
	console.Error(err.Error())
	var ue *usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return 2
	}
	return 1
}

// env is everything one command invocation works with.
type env struct {
	cfg      config.Config
	root     string
	logger   *log.Logger
	console  ui.Console
	prompter *ui.LinePrompter
	store    *jsonstore.Store
	cmds     *commands.Commands
	view     view.Options
	closers  []io.Closer
}

func (e *env) Close() {
	for _, c := range e.closers {
		c.Close()
	}
}

// open loads config, logging and the project's list model. A missing
// project directory leaves cmds.Model nil so each command reports it.
// panel sends logs to a file inside the project's config dir.
func open(opts *Options, panel bool) (*env, error) {
	root := opts.Project
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		root = wd
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	hasWorkspace := isDir(root)

	cfgRoot := root
	if !hasWorkspace {
		cfgRoot = ""
	}
	cfg, err := config.Load(cfgRoot, opts.ConfigPath)
	if err != nil {
		return nil, usagef("config: %v", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, usagef("config: %v", err)
	}
	ui.SetTheme(cfg.Theme)

	e := &env{
		cfg:      cfg,
		root:     root,
		console:  ui.Console{Out: opts.Out, Err: opts.Err},
		prompter: ui.NewLinePrompter(opts.In, opts.Out),
		view:     view.Options{Strike: view.StrikeMode(cfg.Strikethrough)},
	}
	e.prompter.Yes = opts.Yes

	logOpts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}
	e.logger = logging.New(opts.Err, logOpts)
	if panel && hasWorkspace {
		l, closer, err := logging.OpenFile(filepath.Join(root, cfg.ConfigDir, logFileName), logOpts)
		if err != nil {
			return nil, err
		}
		e.logger = l
		e.closers = append(e.closers, closer)
	}

	var notifier commands.Notifier = e.console
	if panel {
		notifier = &ui.Status{}
	}
	e.cmds = &commands.Commands{Prompter: e.prompter, Notifier: notifier, Logger: e.logger}
	if !hasWorkspace {
		e.logger.Debug("no workspace", "project", root)
		return e, nil
	}

	e.store, err = jsonstore.New(root, jsonstore.Options{
		ConfigDir: cfg.ConfigDir,
		FileName:  cfg.FileName,
		Logger:    e.logger,
		Notifier:  notifier,
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	e.cmds.Model = list.New(e.store, list.WithLogger(e.logger))
	return e, nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

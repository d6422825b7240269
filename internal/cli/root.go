package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todone/internal/commands"
	"github.com/idilsaglam/todone/internal/list"
	"github.com/idilsaglam/todone/internal/ui"
	"github.com/idilsaglam/todone/internal/view"
)

var (
	errNoWorkspace = errors.New(commands.NoWorkspaceMessage)
	// errReported fails the command without printing again.
	errReported = errors.New("already reported")
)

// NewRootCommand creates the todone command tree.
func NewRootCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todone",
		Short:         "todone - a per-project todo panel",
		Long:          "Keeps a todo list in <project>/.vscode/todone.json and shows it as active/done sections.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel(opts)
		},
		Example: `  todone add "Buy milk"
  todone ls
  todone done 2
  todone mv 3 1
  todone rm 3`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Project, "project", "C", "", "project directory (default: current directory)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "extra TOML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Theme, "theme", "", "color theme (classic|neon|mono)")
	cmd.PersistentFlags().BoolVarP(&opts.Yes, "yes", "y", false, "answer yes to confirmations")

	cmd.AddCommand(
		newPanelCommand(opts),
		newListCommand(opts),
		newAddCommand(opts),
		newDoneCommand(opts),
		newRemoveCommand(opts),
		newClearCommand(opts),
		newMoveCommand(opts),
		newPathCommand(opts),
	)
	return cmd
}

func newPanelCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Open the interactive panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel(opts)
		},
	}
}

func runPanel(opts *Options) error {
	e, err := open(opts, true)
	if err != nil {
		return err
	}
	defer e.Close()
	if e.cmds.Model == nil {
		return errNoWorkspace
	}
	e.logger.Info("panel started", "file", e.store.Path())
	return ui.RunPanel(e.cmds, e.view)
}

func newListCommand(opts *Options) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.cmds.Model == nil {
				return errNoWorkspace
			}

			todos := e.cmds.Model.Todos()
			vo := e.view
			vo.Expanded = map[view.SectionKind]bool{view.SectionTodo: true, view.SectionDone: true}
			nodes := view.Flatten(todos, vo)
			if plain {
				fmt.Fprint(opts.Out, view.Outline(nodes))
				return nil
			}
			done := len(list.Done(todos))
			fmt.Fprintln(opts.Out, ui.RenderList(nodes, done, len(todos)-done))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print an unstyled outline")
	return cmd
}

func newAddCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a todo (prompts when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			e.prompter.Text = strings.TrimSpace(strings.Join(args, " "))
			if e.cmds.AddTodo() {
				return nil
			}
			if e.cmds.Model == nil {
				return errReported
			}
			return usagef("add: empty text")
		},
	}
}

func newDoneCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle done for a todo (1-based index from `ls`, or id)",
		Args:  exactArgs(1, "usage: todone done <ref>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withItem(opts, args[0], func(e *env, it *view.Item) error {
				if e.cmds.ToggleDone(it) {
					state := "active"
					if !it.Todo.Done {
						state = "done"
					}
					e.console.Info(fmt.Sprintf("%s: %s", state, it.Todo.Text))
				}
				return nil
			})
		},
	}
}

func newRemoveCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo after confirmation",
		Args:    exactArgs(1, "usage: todone rm <ref>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withItem(opts, args[0], func(e *env, it *view.Item) error {
				e.cmds.DeleteTodo(it)
				return nil
			})
		},
	}
}

func newClearCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all completed todos after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if !e.cmds.ClearCompleted() && e.cmds.Model == nil {
				return errReported
			}
			return nil
		},
	}
}

func newMoveCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <ref> [target-ref]",
		Short: "Move a todo onto another in the same section, or to the section end",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return usagef("usage: todone mv <ref> [target-ref]")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withItem(opts, args[0], func(e *env, it *view.Item) error {
				var target view.Node
				if len(args) == 2 {
					t, err := resolve(e, args[1])
					if err != nil {
						return err
					}
					target = t
				}
				if !e.cmds.Move(it, target) {
					return fmt.Errorf("nothing moved: target must be another todo in the same section")
				}
				e.console.Info("moved: " + it.Todo.Text)
				return nil
			})
		},
	}
}

func newPathCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the todo file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.store == nil {
				return errNoWorkspace
			}
			fmt.Fprintln(opts.Out, e.store.Path())
			return nil
		},
	}
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s", usage)
		}
		return nil
	}
}

// withItem opens the project, resolves ref and runs fn on the item node.
func withItem(opts *Options, ref string, fn func(*env, *view.Item) error) error {
	e, err := open(opts, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if e.cmds.Model == nil {
		return errNoWorkspace
	}
	it, err := resolve(e, ref)
	if err != nil {
		return err
	}
	return fn(e, it)
}

// resolve maps a 1-based display index (active items first, then done)
// or a todo id to its item node.
func resolve(e *env, ref string) (*view.Item, error) {
	todos := e.cmds.Model.Todos()
	items := append(view.Children(todos, view.SectionTodo, e.view), view.Children(todos, view.SectionDone, e.view)...)

	n, numErr := strconv.Atoi(ref)
	if numErr == nil && n >= 1 && n <= len(items) {
		return items[n-1], nil
	}
	for _, it := range items {
		if it.Todo.ID == ref {
			return it, nil
		}
	}
	if numErr == nil {
		return nil, usagef("index out of range: have %d, got %d (run `todone ls` to see valid indexes)", len(items), n)
	}
	return nil, usagef("no todo with id %q", ref)
}

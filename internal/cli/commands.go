package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/ui"
)

func exactID(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usage("usage: tasks %s <id>", cmd.Name())
	}
	return nil
}

func parseID(cmd *cobra.Command, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, usage("%s: not a number: %s", cmd.Name(), s)
	}
	return id, nil
}

// notFound turns a missing id into a usage error with a hint.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return usage("%w (run `tasks ls` to see valid ids)", err)
	}
	return err
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add <text...>",
		Short:   "Add a new task (text can be multiple words)",
		Example: `  tasks add "Buy milk"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage("usage: tasks add <text...>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.store.Create(strings.Join(args, " "))
			if err != nil {
				return usage("add: %w", err)
			}
			ui.OK(a.out, fmt.Sprintf("added #%d", it.ID))
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return usage("ls: %v", err)
			}
			fmt.Fprintln(a.out, renderList(a.store, f, group, a.now()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "show all, completed or pending tasks")
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group output by pending/done")
	return cmd
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle completion of a task",
		Args:    exactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(cmd, args[0])
			if err != nil {
				return err
			}
			it, err := a.store.Toggle(id)
			if err != nil {
				return notFound(err)
			}
			if it.Completed {
				ui.OK(a.out, fmt.Sprintf("completed #%d", it.ID))
			} else {
				ui.OK(a.out, fmt.Sprintf("reopened #%d", it.ID))
			}
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task (asks for confirmation)",
		Args:    exactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(cmd, args[0])
			if err != nil {
				return err
			}
			it, err := a.store.Get(id)
			if err != nil {
				return notFound(err)
			}
			if !yes && !a.confirm(fmt.Sprintf("Are you sure you want to delete %q?", it.Text)) {
				fmt.Fprintln(a.out, "cancelled")
				return nil
			}
			if err := a.store.Delete(id); err != nil {
				return notFound(err)
			}
			ui.OK(a.out, fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on the command's input.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total, completed and pending counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.store.Counts()
			fmt.Fprintf(a.out, "total %d  completed %d  pending %d\n", c.Total, c.Completed, c.Pending)
			return nil
		},
	}
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tui()
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect or create the configuration file",
		Annotations: map[string]string{"store": "none"},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "show",
			Short:       "Print the effective configuration",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{"store": "none"},
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintf(a.out, "backend: %s\ndir: %s\nkey: %s\ntheme: %s\ncolor: %t\nlog level: %s\n",
					a.cfg.Storage.Backend, a.cfg.Storage.Dir, a.cfg.Storage.Key,
					a.cfg.UI.Theme, a.cfg.UI.Color, a.cfg.Logging.Level)
				return nil
			},
		},
		&cobra.Command{
			Use:         "init",
			Short:       "Write the effective configuration to the config file",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{"store": "none"},
			RunE: func(cmd *cobra.Command, args []string) error {
				path := a.opt.ConfigPath
				if path == "" {
					path = config.DefaultPath()
				}
				if err := a.cfg.Save(path); err != nil {
					return failure(err)
				}
				ui.OK(a.out, "wrote "+path)
				return nil
			},
		},
	)
	return cmd
}

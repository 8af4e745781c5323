package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/notesync/notesync/internal/task"
	"github.com/spf13/cobra"
)

// defaultTaskDatabase is the config entry used when --database is not given.
const defaultTaskDatabase = "tasks"

func init() {
	rootCmd.AddCommand(newTaskCmd())
}

func newTaskCmd() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Quick helpers for a task database",
	}
	taskCmd.PersistentFlags().StringP("database", "d", defaultTaskDatabase, "Configured database holding the tasks")

	taskCmd.AddCommand(newTaskListCmd())
	taskCmd.AddCommand(newTaskAddCmd())
	taskCmd.AddCommand(newTaskCheckCmd(true))
	taskCmd.AddCommand(newTaskCheckCmd(false))
	return taskCmd
}

// taskService builds the service for the database named by --database. The
// returned closer tears down the app wiring.
func taskService(cmd *cobra.Command) (*task.Service, func(), error) {
	app, err := newApp(cmd)
	if err != nil {
		return nil, nil, err
	}

	name, _ := cmd.Flags().GetString("database")
	db, err := app.cfg.Database(name)
	if err != nil {
		app.close()
		return nil, nil, err
	}
	if db.ID == "" {
		app.close()
		return nil, nil, fmt.Errorf("database %q has no id configured", db.Name)
	}

	client, err := app.api()
	if err != nil {
		app.close()
		return nil, nil, err
	}

	return task.NewService(client, db.ID, db.TitleProperty, db.CheckboxProperty), app.close, nil
}

func newTaskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks with their positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeApp, err := taskService(cmd)
			if err != nil {
				return err
			}
			defer closeApp()

			tasks, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, t := range tasks {
				if t.Title == "" {
					continue
				}
				title := t.Title
				if t.Done {
					title = green(title)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d - %s\n", t.Index, title)
			}
			return nil
		},
	}
}

func newTaskAddCmd() *cobra.Command {
	var content string
	var contentFile string

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task with its checkbox unchecked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if contentFile != "" {
				data, err := os.ReadFile(contentFile)
				if err != nil {
					return fmt.Errorf("read content file: %w", err)
				}
				content = string(data)
			}

			svc, closeApp, err := taskService(cmd)
			if err != nil {
				return err
			}
			defer closeApp()

			page, err := svc.Add(cmd.Context(), args[0], content)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Task '%s' created successfully with ID: %s\n", args[0], green(page.ID))
			return nil
		},
	}

	addCmd.Flags().StringVar(&content, "content", "", "Markdown content for the task page")
	addCmd.Flags().StringVar(&contentFile, "content-file", "", "File with markdown content for the task page")
	return addCmd
}

func newTaskCheckCmd(done bool) *cobra.Command {
	use, short := "check <index>", "Check a task's checkbox by its list position"
	if !done {
		use, short = "uncheck <index>", "Uncheck a task's checkbox by its list position"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("task index must be a number, got %q", args[0])
			}

			svc, closeApp, err := taskService(cmd)
			if err != nil {
				return err
			}
			defer closeApp()

			t, err := svc.SetDone(cmd.Context(), index, done)
			if err != nil {
				return err
			}

			state := "Unchecked"
			if done {
				state = "Checked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s task %d - %s\n", state, t.Index, t.Title)
			return nil
		},
	}
}

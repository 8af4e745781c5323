package main

import (
	"github.com/notesync/notesync/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSyncCmd())
}

func newSyncCmd() *cobra.Command {
	var all bool

	syncCmd := &cobra.Command{
		Use:   "sync [database]",
		Short: "Pull remote changes, then push local edits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.close()

			return app.forEachDatabase(args, all, func(db *config.DatabaseConfig) error {
				return app.syncDatabase(cmd.Context(), db, syncOptions{pull: true, push: true})
			})
		},
	}

	syncCmd.Flags().BoolVarP(&all, "all", "a", false, "Sync every configured database")
	return syncCmd
}

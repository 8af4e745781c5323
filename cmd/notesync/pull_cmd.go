package main

import (
	"github.com/notesync/notesync/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPullCmd())
}

func newPullCmd() *cobra.Command {
	var all bool
	var full bool

	pullCmd := &cobra.Command{
		Use:   "pull [database]",
		Short: "Pull pages into local markdown files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.close()

			return app.forEachDatabase(args, all, func(db *config.DatabaseConfig) error {
				return app.syncDatabase(cmd.Context(), db, syncOptions{pull: true, full: full})
			})
		},
	}

	pullCmd.Flags().BoolVarP(&all, "all", "a", false, "Pull every configured database")
	pullCmd.Flags().BoolVar(&full, "full", false, "Fetch everything instead of changes since the last sync")
	return pullCmd
}

package main

import (
	"github.com/notesync/notesync/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPushCmd())
}

func newPushCmd() *cobra.Command {
	var all bool

	pushCmd := &cobra.Command{
		Use:   "push [database]",
		Short: "Push locally modified files back to their pages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.close()

			return app.forEachDatabase(args, all, func(db *config.DatabaseConfig) error {
				return app.syncDatabase(cmd.Context(), db, syncOptions{push: true})
			})
		},
	}

	pushCmd.Flags().BoolVarP(&all, "all", "a", false, "Push every configured database")
	return pushCmd
}

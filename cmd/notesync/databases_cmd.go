package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDatabasesCmd())
}

func newDatabasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List the configured databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available databases:")
			for _, db := range app.cfg.Databases {
				fmt.Fprintf(out, "  - %s\n", cyan(db.Name))
				fmt.Fprintf(out, "    ID: %s\n", db.ID)
				fmt.Fprintf(out, "    Output directory: %s\n", db.OutputDir)
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/notesync/notesync/internal/config"
	"github.com/notesync/notesync/internal/sync"
	"github.com/notesync/notesync/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	var all bool

	statusCmd := &cobra.Command{
		Use:   "status [database]",
		Short: "Show last sync time and locally modified files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.close()

			return app.forEachDatabase(args, all, func(db *config.DatabaseConfig) error {
				return printStatus(cmd, db)
			})
		},
	}

	statusCmd.Flags().BoolVarP(&all, "all", "a", false, "Check every configured database")
	return statusCmd
}

func printStatus(cmd *cobra.Command, db *config.DatabaseConfig) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status for database: %s\n", cyan(db.Name))

	dir, err := utils.ResolvePath(db.OutputDir)
	if err != nil {
		return err
	}
	if !utils.DirExists(dir) {
		fmt.Fprintln(out, "  Never synced")
		fmt.Fprintln(out)
		return nil
	}

	ledger, err := sync.OpenLedger(dir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	if last, ok := ledger.LastSyncTime(); ok {
		fmt.Fprintf(out, "  Last sync: %s (%s)\n", last.Format(time.RFC3339), humanize.Time(last))
	} else {
		fmt.Fprintln(out, "  Never synced")
	}
	fmt.Fprintf(out, "  Tracking %d files\n", ledger.Len())

	modified := ledger.DetectLocalChanges()
	if len(modified) == 0 {
		fmt.Fprintf(out, "  %s\n", green("No local changes since last sync"))
	} else {
		fmt.Fprintf(out, "  %d local files modified since last sync:\n", len(modified))
		for _, path := range modified {
			fmt.Fprintf(out, "    - %s\n", red(path))
		}
	}
	fmt.Fprintln(out)
	return nil
}

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one cycle of the main feed sync and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), buildOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		saved, err := a.syncService.Sync(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(saved)
	},
}

var syncGoldRatesCmd = &cobra.Command{
	Use:   "sync-gold-rates",
	Short: "Append one row to the gold_rates provenance table and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), buildOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		saved, err := a.syncService.SyncGoldRates(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(saved)
	},
}

var importRemoteCmd = &cobra.Command{
	Use:   "import-remote",
	Short: "Copy the latest reading from the remote database and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), buildOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		saved, usedTable, err := a.syncService.ImportFromRemote(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"rates":       saved,
			"sourceTable": usedTable,
		})
	},
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

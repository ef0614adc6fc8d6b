package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rate-service",
	Short: "Gold and silver rate synchronization service",
	Long: `rate-service keeps a jewellery storefront's gold and silver rates in
sync with third-party feeds. It polls upstream rate providers, normalizes
their payloads into a canonical shape and reconciles them into Postgres,
and serves the rates plus image metadata over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(syncGoldRatesCmd)
	rootCmd.AddCommand(importRemoteCmd)
	rootCmd.AddCommand(checkCmd)
}

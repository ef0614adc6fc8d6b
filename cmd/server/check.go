package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devi-jewellers/rate-service/internal/config"
)

// checkCmd verifies configuration and connectivity without writing anything.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration, database connectivity and the upstream feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("feed url:            %s\n", cfg.FeedURL)
		fmt.Printf("devi feed url:       %s\n", cfg.DeviFeedURL)
		fmt.Printf("database url:        %s\n", presence(cfg.DatabaseURL))
		fmt.Printf("remote database url: %s\n", presence(cfg.RemoteDatabaseURL))
		fmt.Printf("rest base url:       %s\n", presence(cfg.RESTBaseURL))

		a, err := buildApp(cmd.Context(), buildOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.pool.Ping(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("database:            ok")

		reading, err := a.syncService.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("feed:                ok (vedhani=%s silver=%s)\n", reading.Vedhani, reading.Silver)

		return nil
	},
}

func presence(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "set"
}

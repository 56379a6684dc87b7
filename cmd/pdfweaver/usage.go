package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sonucs12/pdf-weaver/internal/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show remaining generations in the current window",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHome()
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		state, err := openState(h)
		if err != nil {
			return err
		}
		defer state.Close()

		tracker := usage.NewTracker(state,
			cfg.Usage.MaxGenerations,
			time.Duration(cfg.Usage.WindowHours)*time.Hour)
		remaining, err := tracker.Remaining(cmd.Context())
		if err != nil {
			return err
		}
		if cfg.Usage.MaxGenerations <= 0 {
			fmt.Println("usage limit disabled")
			return nil
		}
		fmt.Printf("%d of %d generations remaining in the last %dh\n",
			remaining, cfg.Usage.MaxGenerations, cfg.Usage.WindowHours)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

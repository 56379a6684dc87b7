package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sonucs12/pdf-weaver/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats <run-id>",
	Short: "Show token usage for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHome()
		if err != nil {
			return err
		}
		state, err := openState(h)
		if err != nil {
			return err
		}
		defer state.Close()

		totals, err := metrics.NewRecorder(state).RunTotals(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if totals.Pages == 0 {
			fmt.Println("no metrics recorded for this run")
			return nil
		}
		fmt.Printf("pages:             %d\n", totals.Pages)
		fmt.Printf("prompt tokens:     %d\n", totals.PromptTokens)
		fmt.Printf("completion tokens: %d\n", totals.CompletionTokens)
		fmt.Printf("total tokens:      %d\n", totals.TotalTokens())
		fmt.Printf("model time:        %s\n", totals.Duration)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

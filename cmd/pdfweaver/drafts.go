package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sonucs12/pdf-weaver/internal/drafts"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Inspect drafts saved from interrupted runs",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts, newest first",
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

		list, err := drafts.NewStore(state).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("no drafts")
			return nil
		}
		for _, d := range list {
			fmt.Printf("%s  %s  %s  (%d chars)\n",
				d.ID, d.SavedAt.Format("2006-01-02 15:04"), d.SourceFile, len(d.Markdown))
		}
		return nil
	},
}

var draftsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a draft's markdown",
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

		d, err := drafts.NewStore(state).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(d.Markdown)
		return nil
	},
}

func init() {
	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsShowCmd)
	rootCmd.AddCommand(draftsCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	var clearHistory bool
	historyCmd := &cobra.Command{
		Use:   "history <conversation-id>",
		Short: "Print or clear the stored turns of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if clearHistory {
					if err := a.runner.Clear(cmd.Context(), args[0]); err != nil {
						return err
					}
					metaColor.Fprintf(cmd.OutOrStdout(), "conversation %s cleared\n", args[0])
					return nil
				}
				msgs, err := a.runner.History(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printHistory(cmd.OutOrStdout(), msgs)
				return nil
			})
		},
	}
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "Delete the conversation instead of printing it")
	return historyCmd
}

package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
)

func newChatCommand() *cobra.Command {
	var conversationID string
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Reads messages from stdin until "exit", "quit" or end of input.
Lookup failures are reported and the conversation continues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if conversationID == "" {
				conversationID = uuid.NewString()
			}
			return withApp(cmd, func(a *app) error {
				out := cmd.OutOrStdout()
				metaColor.Fprintf(out, "conversation %s (type exit to leave)\n", conversationID)

				scanner := bufio.NewScanner(cmd.InOrStdin())
				for {
					userColor.Fprint(out, "you> ")
					if !scanner.Scan() {
						fmt.Fprintln(out)
						return scanner.Err()
					}
					line := strings.TrimSpace(scanner.Text())
					switch strings.ToLower(line) {
					case "":
						continue
					case "exit", "quit":
						return nil
					}

					reply, err := a.runner.Invoke(cmd.Context(), model.QueryInput{ConversationID: conversationID, Query: line})
					if err != nil {
						color.New(color.FgRed).Fprintf(out, "error: %s\n", errx.MessageOf(err))
						continue
					}
					printReply(out, reply)
				}
			})
		},
	}
	chatCmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "Conversation id to continue")
	return chatCmd
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cloudwego/eino/schema"
	"github.com/fatih/color"

	"github.com/recipe-genie/server/internal/agent/model"
)

var (
	greetingColor  = color.New(color.FgCyan)
	assistantColor = color.New(color.FgGreen)
	userColor      = color.New(color.FgYellow)
	metaColor      = color.New(color.Faint)
)

func printReply(w io.Writer, reply *model.Reply) {
	if reply.Greeting != "" {
		greetingColor.Fprintln(w, reply.Greeting)
		fmt.Fprintln(w)
	}
	assistantColor.Fprintln(w, reply.Content)
	metaColor.Fprintf(w, "[%s via %s | conversation %s | $%.6f]\n", reply.Action, reply.Source, reply.ConversationID, reply.CostUSD)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printHistory(w io.Writer, msgs []*schema.Message) {
	if len(msgs) == 0 {
		metaColor.Fprintln(w, "(no messages)")
		return
	}
	for _, m := range msgs {
		if m == nil {
			continue
		}
		c := assistantColor
		if m.Role == schema.User {
			c = userColor
		}
		c.Fprintf(w, "%s: ", m.Role)
		fmt.Fprintln(w, m.Content)
	}
}

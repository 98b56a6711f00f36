package cmd

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/recipe-genie/server/internal/agent/model"
)

type askOptions struct {
	conversationID string
	ingredients    []string
	cuisine        string
	diet           []string
	mealType       string
	maxCalories    int
	asJSON         bool
}

func newAskCommand() *cobra.Command {
	opts := &askOptions{}
	askCmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Send one message and print the reply",
		Long: `Routes a single message through the assistant.

Examples:
  recipe-genie ask --ingredients chickpeas,spinach --cuisine indian
  recipe-genie ask how to make pad thai
  recipe-genie ask "analyze 2 eggs and a slice of toast"
  recipe-genie ask -c 3f0c... "something vegan instead?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := opts.input(args)
			return withApp(cmd, func(a *app) error {
				reply, err := a.runner.Invoke(cmd.Context(), in)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), reply)
				}
				printReply(cmd.OutOrStdout(), reply)
				return nil
			})
		},
	}

	askCmd.Flags().StringVarP(&opts.conversationID, "conversation", "c", "", "Conversation id to continue (a new one is generated when empty)")
	askCmd.Flags().StringSliceVarP(&opts.ingredients, "ingredients", "i", nil, "Comma separated ingredients")
	askCmd.Flags().StringVar(&opts.cuisine, "cuisine", "", "Cuisine, e.g. italian")
	askCmd.Flags().StringSliceVar(&opts.diet, "diet", nil, "Comma separated dietary restrictions")
	askCmd.Flags().StringVar(&opts.mealType, "meal-type", "", "Meal type, e.g. breakfast")
	askCmd.Flags().IntVar(&opts.maxCalories, "max-calories", 0, "Maximum calories per serving")
	askCmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full reply as JSON")
	return askCmd
}

func (o *askOptions) input(args []string) model.QueryInput {
	id := o.conversationID
	if id == "" {
		id = uuid.NewString()
	}
	return model.QueryInput{
		ConversationID:      id,
		Query:               strings.TrimSpace(strings.Join(args, " ")),
		Cuisine:             o.cuisine,
		Ingredients:         o.ingredients,
		DietaryRestrictions: o.diet,
		MealType:            o.mealType,
		MaxCalories:         o.maxCalories,
	}
}

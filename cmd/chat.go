package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/chat"
	"github.com/ferntree/sprout/internal/history"
	"github.com/ferntree/sprout/internal/tui"
)

var chatReview bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive plant chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		thread := chat.NewThread()

		if chatReview {
			s, err := openStore()
			if err != nil {
				return err
			}
			items := history.NewLedger(s).Items()
			if len(items) > 0 {
				// Seed the conversation with the newest entry so the user
				// can ask follow-up questions about it.
				item := items[0]
				thread.Append(chat.Message{
					Role: chat.RoleModel,
					Text: "Here is your latest entry. Ask me anything about it.",
					Card: &item,
				})
			}
		}

		return tui.Run(thread, assistant())
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatReview, "review", false, "start the chat with your latest history entry attached")
	rootCmd.AddCommand(chatCmd)
}

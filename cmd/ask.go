package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/ai"
	"github.com/ferntree/sprout/internal/photo"
)

var (
	askLang  string
	askPhoto string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a one-off question without opening the chat UI",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		var image, mime string
		if askPhoto != "" {
			var err error
			image, mime, err = photo.Encode(askPhoto)
			if err != nil {
				return err
			}
		}

		reply, err := assistant().Chat(cmd.Context(), nil, question, image, mime)
		if err != nil {
			// A failed turn is not an error the user can act on; show the
			// stock apology and leave nothing behind.
			cmd.Println(ai.FallbackReply)
			return nil
		}
		cmd.Println(reply)

		if askLang != "" {
			translated, err := assistant().Translate(cmd.Context(), reply, askLang)
			if err != nil {
				return fmt.Errorf("translating reply: %w", err)
			}
			cmd.Printf("\n[%s]\n%s\n", askLang, translated)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askLang, "lang", "", "also print the reply translated to this language")
	askCmd.Flags().StringVar(&askPhoto, "photo", "", "attach a photo to the question")
	rootCmd.AddCommand(askCmd)
}

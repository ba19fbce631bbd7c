package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/identity"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		user, ok := identity.NewManager(s).Current()
		if !ok {
			cmd.Println("Not signed in — run 'sprout init'.")
			return nil
		}
		cmd.Printf("Signed in as %s <%s>.\n", user.Name, user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

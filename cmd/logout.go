package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/identity"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out the local user",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		if err := identity.NewManager(s).SignOut(); err != nil {
			return err
		}
		cmd.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

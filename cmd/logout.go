package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createLogoutCmd())
}

func createLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forgets the cached notification service session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			err = a.gate.Logout()
			if err != nil {
				return formattedError("%v", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

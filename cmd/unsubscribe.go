package cmd

import (
	"fmt"

	"github.com/Daskott/govnotify/colors"
	"github.com/spf13/cobra"
)

var sourceArg string

func init() {
	rootCmd.AddCommand(createUnsubscribeCmd())
}

func createUnsubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unsubscribe",
		Short: "Deletes the organization's alert, keeping your contact channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := commandContext(cmd)

			a, err := newApp(out)
			if err != nil {
				return err
			}

			err = a.load(ctx)
			if err != nil {
				return err
			}

			removed, err := a.session.Unsubscribe(ctx, sourceArg)
			if err != nil {
				return formattedError("%v", err)
			}

			if !removed {
				fmt.Fprintf(out, "%v no alert to remove for %v\n", warningLabel, a.config.Organization.Name)
				return nil
			}

			fmt.Fprintln(out, colors.Green("unsubscribed from "+a.config.Organization.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceArg, "source", "s", "", "id of the source whose alert to delete (default is the first alert)")

	return cmd
}

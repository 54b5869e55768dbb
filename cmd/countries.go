package cmd

import (
	"fmt"

	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/dialcode"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createCountriesCmd())
}

func createCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "Lists the countries phone numbers can be registered for",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, country := range dialcode.All() {
				label := country.Code
				if country.Code == dialcode.DefaultCountryCode {
					label = colors.Bold(label)
				}
				fmt.Fprintf(out, "%v %-2v %-5v %v\n", country.Flag, label, country.DialCode, country.Name)
			}
			return nil
		},
	}
}

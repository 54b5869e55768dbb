package cmd

import (
	"fmt"
	"io"

	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/phone"
	"github.com/Daskott/govnotify/reconciler"
	"github.com/Daskott/govnotify/snapshot"
	"github.com/spf13/cobra"
)

const notSet = "-"

func init() {
	rootCmd.AddCommand(createShowCmd())
}

func createShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Shows the contact channels registered for the organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			err = a.load(commandContext(cmd))
			if err != nil {
				return err
			}

			printProfile(cmd.OutOrStdout(), a.config.Organization.Name, a.session)
			return nil
		},
	}
}

func printProfile(out io.Writer, orgName string, session *reconciler.Session) {
	profile := session.Profile()
	selection := session.Selection()

	fmt.Fprintf(out, "%v\n", colors.Bold(orgName))
	fmt.Fprintf(out, "  Email:    %v\n", valueOrNotSet(profile.Email))
	fmt.Fprintf(out, "  Phone:    %v\n", formatPhone(profile.Phone))
	fmt.Fprintf(out, "  Telegram: %v\n", valueOrNotSet(profile.Handle))

	if selection.Alert == nil {
		fmt.Fprintf(out, "  Alert:    %v\n", colors.Yellow("not subscribed"))
		return
	}

	fmt.Fprintf(out, "  Alert:    %v (%v)\n", colors.Green(selection.Alert.Name), selection.Alert.ID)
	for _, url := range snapshot.PendingConfirmations(selection.Alert.TargetGroup) {
		fmt.Fprintf(out, "  %v %v\n", warningLabel, "unconfirmed, open "+colors.Blue(url))
	}
}

func formatPhone(stored string) string {
	if stored == "" {
		return notSet
	}

	parts, err := phone.Split(stored)
	if err != nil {
		return fmt.Sprintf("%v %v", stored, colors.Red("(invalid)"))
	}

	return fmt.Sprintf("%v %v %v", parts.DialCode, parts.LocalDigits, parts.Country.Flag)
}

func valueOrNotSet(value string) string {
	if value == "" {
		return notSet
	}
	return value
}

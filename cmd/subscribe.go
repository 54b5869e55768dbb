package cmd

import (
	"fmt"

	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/dialcode"
	"github.com/spf13/cobra"
)

var (
	emailArg    string
	countryArg  string
	phoneArg    string
	telegramArg string
)

func init() {
	rootCmd.AddCommand(createSubscribeCmd())
}

func createSubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Saves contact channels and subscribes them to the organization's alerts",
		Long: `Saves the given contact channels for the organization in .govnotify.yaml.
The first save creates the alert, later saves update it. Channels not passed
as flags keep their current value, pass an empty value (e.g. --email "") to remove one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscribe(cmd)
		},
	}

	cmd.Flags().StringVarP(&emailArg, "email", "e", "", "email address to notify")
	cmd.Flags().StringVarP(&countryArg, "country", "c", dialcode.DefaultCountryCode, "country of the phone number, see 'govnotify countries'")
	cmd.Flags().StringVarP(&phoneArg, "phone", "p", "", "phone number without the dial code, up to 10 digits")
	cmd.Flags().StringVarP(&telegramArg, "telegram", "t", "", "telegram handle to notify")

	return cmd
}

func runSubscribe(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	ctx := commandContext(cmd)

	flags := cmd.Flags()
	if !flags.Changed("email") && !flags.Changed("phone") && !flags.Changed("telegram") {
		return formattedError("nothing to save, set at least one of --email, --phone or --telegram")
	}

	a, err := newApp(out)
	if err != nil {
		return err
	}

	err = a.load(ctx)
	if err != nil {
		return err
	}

	if _, err := a.session.LoadConfiguration(ctx); err != nil {
		fmt.Fprintf(out, "%v %v\n", warningLabel, err)
	}

	if flags.Changed("email") {
		a.session.SetEmail(emailArg)
	}

	if flags.Changed("phone") {
		err = a.session.SetPhone(countryArg, phoneArg)
		if err != nil {
			return formattedError("invalid phone %q: %v", phoneArg, err)
		}
	}

	if flags.Changed("telegram") {
		err = a.session.SetHandle(telegramArg)
		if err != nil {
			return formattedError("%v", err)
		}
	}

	result, err := a.session.Save(ctx)
	if err != nil {
		return formattedError("%v", err)
	}

	if result.DroppedPhone {
		fmt.Fprintf(out, "%v phone number is not valid and was not saved\n", warningLabel)
	}

	fmt.Fprintf(out, "%v\n", colors.Green(fmt.Sprintf("alert %v for %v", result.Action, a.config.Organization.Name)))
	printProfile(out, a.config.Organization.Name, a.session)

	return nil
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/snapshot"
	"github.com/Daskott/govnotify/watcher"
	"github.com/spf13/cobra"
)

var everyArg string

func init() {
	rootCmd.AddCommand(createWatchCmd())
}

func createWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keeps refreshing the subscription and reports pending confirmations",
		Long: `Refreshes the notification account on a schedule (watch.interval in .govnotify.yaml)
and prints the subscription whenever it changes, e.g. once a telegram handle got confirmed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			a, err := newApp(out)
			if err != nil {
				return err
			}

			every := a.config.Watch.Interval
			if cmd.Flags().Changed("every") {
				every = everyArg
			}

			interval, err := watcher.ParseInterval(every)
			if err != nil {
				return formattedError("%v", err)
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = a.load(ctx)
			if err != nil {
				return err
			}

			lastSummary := ""
			w := watcher.New(a.session, interval, a.config.Watch.TimeZone)
			w.Notify = func(err error) {
				if err != nil {
					fmt.Fprintf(out, "%v %v\n", warningLabel, err)
					return
				}

				summary := summarize(a.session.Selection())
				if summary != lastSummary {
					lastSummary = summary
					printProfile(out, a.config.Organization.Name, a.session)
				}
			}

			err = w.Start(ctx)
			if err != nil {
				return formattedError("%v", err)
			}
			defer w.Stop()

			<-ctx.Done()
			fmt.Fprintln(out, colors.Yellow("stopped watching"))
			return nil
		},
	}

	cmd.Flags().StringVar(&everyArg, "every", "", "refresh interval, e.g. 30s or 5m (default is watch.interval)")

	return cmd
}

// summarize captures what printProfile would show
func summarize(selection snapshot.Selection) string {
	summary := fmt.Sprintf("%v|%v|%v", selection.Email, selection.Phone, selection.Handle)
	if selection.Alert != nil {
		summary += fmt.Sprintf("|%v|%v", selection.Alert.ID, snapshot.PendingConfirmations(selection.Alert.TargetGroup))
	}
	return summary
}

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/Daskott/govnotify/auth"
	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/notifi"
	"github.com/Daskott/govnotify/phone"
	"github.com/Daskott/govnotify/reconciler"
	"github.com/Daskott/govnotify/shared"
	"github.com/Daskott/govnotify/signer"
	"github.com/Daskott/govnotify/twilio"
	"github.com/spf13/cobra"
)

// app is everything a command needs to talk to the notification service
type app struct {
	config  *shared.Config
	client  *notifi.Client
	gate    *auth.Gate
	session *reconciler.Session
}

// printOpener surfaces confirmation URLs by printing them
type printOpener struct {
	out io.Writer
}

func (p printOpener) Open(url string) error {
	_, err := fmt.Fprintf(p.out, "%v open %v to confirm this channel\n", warningLabel, colors.Blue(url))
	return err
}

func newApp(out io.Writer) (*app, error) {
	appConfig, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	client, err := notifi.NewClient(notifi.Config{
		Env:         notifi.Environment(appConfig.Notifi.Env),
		BaseURL:     appConfig.Notifi.URL,
		DappAddress: appConfig.Notifi.DappAddress,
	})
	if err != nil {
		return nil, err
	}

	wallet, err := signer.LoadKeyFile(appConfig.Wallet.KeyFile)
	if err != nil {
		return nil, formattedError("unable to load wallet from %v: %v", appConfig.Wallet.KeyFile, err)
	}

	var store auth.TokenStore
	if appConfig.Wallet.SessionFile != "" {
		fileStore, err := auth.NewFileStore(appConfig.Wallet.SessionFile)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	validator := phone.Validator{}
	if appConfig.Twilio.Enabled() {
		validator.Remote = twilio.NewClient(appConfig.Twilio)
	}

	gate := auth.NewGate(client, wallet, store)
	session := reconciler.NewSession(reconciler.Options{
		Backend:        client,
		Gate:           gate,
		Opener:         printOpener{out: out},
		PhoneValidator: validator,
		Organization: reconciler.Organization{
			Name:    appConfig.Organization.Name,
			Address: appConfig.Organization.Address,
		},
	})

	return &app{config: appConfig, client: client, gate: gate, session: session}, nil
}

// load signs in when needed and fetches the current account
func (a *app) load(ctx context.Context) error {
	_, loggedIn, err := a.gate.EnsureAuthenticated(ctx)
	if err != nil {
		return formattedError("%v", err)
	}

	if loggedIn {
		logg.Debug(colors.Prefix("cmd") + "signed in to the notification service")
	}

	err = a.session.Refresh(ctx)
	if err != nil {
		return formattedError("%v", err)
	}

	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

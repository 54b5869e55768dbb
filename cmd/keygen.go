package cmd

import (
	"fmt"

	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/signer"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createKeygenCmd())
}

func createKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Creates a new wallet key at wallet.keyFile",
		Long: `Creates a new ed25519 wallet key as a JWK at the wallet.keyFile path in .govnotify.yaml.
Only needed when you don't want to sign in with an existing wallet, e.g. in development.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyFile := config.GetString("wallet.keyFile")
			if keyFile == "" {
				return formattedError("must set 'wallet.keyFile' in %v", config.ConfigFileUsed())
			}

			wallet, err := signer.GenerateKeyFile(keyFile)
			if err != nil {
				return formattedError("%v", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %v for wallet %v\n", keyFile, colors.Green(wallet.PublicKey()))
			return nil
		},
	}
}

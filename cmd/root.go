/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	devConfig "github.com/Daskott/govnotify/dev/config"
	"github.com/Daskott/govnotify/logger"
	"github.com/Daskott/govnotify/shared"
	"github.com/Daskott/govnotify/utils"
	"github.com/Daskott/govnotify/version"
	"github.com/Daskott/govnotify/watcher"
	"github.com/fatih/color"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	config  *viper.Viper

	isDevEnv  bool
	isVerbose bool

	validate = newValidator()
	logg     = logger.NewLogger()

	yellow       = color.New(color.FgYellow).SprintFunc()
	red          = color.New(color.FgRed).SprintFunc()
	warningLabel = yellow("Warning:")
)

// rootCmd represents the base command when called without any subcommands
// It is created with the package vars so subcommand inits can register on it
var rootCmd = createRootCmd()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = fmt.Sprintf("v%s", version.Version)
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "govnotify",
		Short: `govnotify subscribes you to governance notifications of a DAO.

Register an email, phone number or telegram handle once, and get alerted
about new proposals, votes and results of the organization in .govnotify.yaml`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.govnotify.yaml)")
	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")
	cmd.PersistentFlags().BoolVarP(&isVerbose, "verbose", "v", false, "show debug logs")

	return cmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	logger.SetVerbose(isVerbose)
	config = viper.New()

	if cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(cfgFile)
	} else {
		configName, configDir, err := defaultCfgNameAndDir()
		cobra.CheckErr(err)

		// If config file is not found, create one using the default content
		configFilePath := filepath.Join(configDir, configName)
		exists, err := utils.FileExist(configFilePath)
		cobra.CheckErr(err)

		if !exists {
			err = os.WriteFile(configFilePath, []byte(defaultConfigValue()), 0600)
			cobra.CheckErr(err)
		}

		config.SetConfigFile(configFilePath)
	}
	config.SetConfigType("yaml")

	// Secrets can live in the environment instead of .govnotify.yaml
	// FYI: The env var overrides whatever is in the config file
	config.BindEnv("twilio.accountSid", "TWILIO_ACCOUNT_SID")
	config.BindEnv("twilio.authToken", "TWILIO_AUTH_TOKEN")

	// e.g. GOVNOTIFY_NOTIFI_ENV=devnet
	config.SetEnvPrefix("govnotify")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	if err := config.ReadInConfig(); err == nil {
		logg.Debugf("Using config file: %v", config.ConfigFileUsed())
	}
}

// loadAppConfig decodes and validates the config read by initConfig
func loadAppConfig() (*shared.Config, error) {
	if config == nil {
		initConfig()
	}

	appConfig := shared.Config{}
	err := config.Unmarshal(&appConfig)
	if err != nil {
		return nil, formattedError("unable to decode %v: %v", config.ConfigFileUsed(), err)
	}

	err = validate.Struct(appConfig)
	if err != nil {
		return nil, formattedError("invalid config in %v:\n%v", config.ConfigFileUsed(), err)
	}

	return &appConfig, nil
}

func defaultCfgNameAndDir() (configName string, configDir string, err error) {
	configName = ".govnotify.yaml"

	// Use home directory for production
	configDir, err = os.UserHomeDir()
	if err != nil {
		return "", "", err
	}

	if isDevEnv {
		configName = ".govnotify.dev.yaml"
		configDir, err = os.Getwd()
		if err != nil {
			return "", "", err
		}
	}

	return configName, configDir, err
}

// defaultConfigValue returns the default content for .govnotify.yaml
func defaultConfigValue() string {
	if isDevEnv {
		return devConfig.DEV_YML
	}

	return `notifi:
  # one of mainnet, devnet or localnet
  env: mainnet
  dappAddress: solanarealmsdao
  # url overrides the endpoint picked by env
  url:

# The organization you want to get notifications for
organization:
  name: <The name of the DAO>
  address: <The DAO's realm address>

# Your wallet is used to sign in to the notification service.
# keyFile can be an ed25519 JWK or a solana keypair file.
wallet:
  keyFile: ~/.config/solana/id.json
  sessionFile: ~/.govnotify.session.json

# Optional: check phone numbers with Twilio Lookup before saving them.
# Both values can also be set with TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN.
twilio:
  accountSid:
  authToken:

# Used by 'govnotify watch'
watch:
  interval: 5m
  timeZone: "America/Toronto"
`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := watcher.ParseInterval(fl.Field().String())
		return err == nil
	})

	return v
}

func formattedError(format string, a ...interface{}) error {
	return errors.New(red(fmt.Sprintf(format, a...)))
}

package shared

type Config struct {
	Notifi       NotifiConfig       `mapstructure:"notifi" validate:"required"`
	Organization OrganizationConfig `mapstructure:"organization" validate:"required"`
	Wallet       WalletConfig       `mapstructure:"wallet" validate:"required"`
	Twilio       TwilioConfig       `mapstructure:"twilio"`
	Watch        WatchConfig        `mapstructure:"watch"`
}

type NotifiConfig struct {
	Env         string `mapstructure:"env" validate:"required,oneof=mainnet devnet localnet"`
	DappAddress string `mapstructure:"dappAddress" validate:"required"`
	URL         string `mapstructure:"url" validate:"omitempty,url"`
}

type OrganizationConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Address string `mapstructure:"address"`
}

type WalletConfig struct {
	KeyFile     string `mapstructure:"keyFile" validate:"required"`
	SessionFile string `mapstructure:"sessionFile"`
}

// TwilioConfig enables the Lookup check of phone numbers when both values are set
type TwilioConfig struct {
	AccountSid string `mapstructure:"accountSid" validate:"required_with=AuthToken"`
	AuthToken  string `mapstructure:"authToken" validate:"required_with=AccountSid"`
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSid != "" && c.AuthToken != ""
}

type WatchConfig struct {
	Interval string `mapstructure:"interval" validate:"omitempty,duration"`
	TimeZone string `mapstructure:"timeZone"`
}

package notifi

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Environment string

const (
	Mainnet  Environment = "mainnet"
	Devnet   Environment = "devnet"
	Localnet Environment = "localnet"
)

var (
	ErrUnknownEnvironment = errors.New("unknown notification environment")

	endpoints = map[Environment]string{
		Mainnet:  "https://api.notifi.network/gql",
		Devnet:   "https://api.dev.notifi.network/gql",
		Localnet: "http://localhost:5000/gql",
	}
)

// URL returns the GraphQL endpoint of the environment
func (e Environment) URL() (string, error) {
	url, ok := endpoints[e]
	if !ok {
		return "", errors.Wrapf(ErrUnknownEnvironment, "%q", string(e))
	}
	return url, nil
}

type Configuration struct {
	SupportedTargetTypes []string `json:"supportedTargetTypes"`
}

// Supports reports whether targetType (e.g. "TELEGRAM") can receive alerts
func (c Configuration) Supports(targetType string) bool {
	for _, supported := range c.SupportedTargetTypes {
		if supported == targetType {
			return true
		}
	}
	return false
}

// Nil, for the contact fields below, clears the channel on the backend.
type CreateAlertInput struct {
	Name         string  `json:"name"`
	EmailAddress *string `json:"emailAddress"`
	PhoneNumber  *string `json:"phoneNumber"`
	TelegramID   *string `json:"telegramId"`
	SourceID     string  `json:"sourceId"`
	FilterID     string  `json:"filterId"`
}

type UpdateAlertInput struct {
	AlertID      string  `json:"alertId"`
	EmailAddress *string `json:"emailAddress"`
	PhoneNumber  *string `json:"phoneNumber"`
	TelegramID   *string `json:"telegramId"`
}

type DeleteAlertInput struct {
	AlertID         string `json:"alertId"`
	KeepSourceGroup bool   `json:"keepSourceGroup"`
	KeepTargetGroup bool   `json:"keepTargetGroup"`
}

type LoginInput struct {
	WalletPublicKey string `json:"walletPublicKey"`
	DappAddress     string `json:"dappAddress"`
	Timestamp       int64  `json:"timestamp"`
	Signature       string `json:"signature"`
}

// GqlError is returned when the backend refuses an operation
type GqlError struct {
	Operation  string
	StatusCode int
	Messages   []string
}

func (e *GqlError) Error() string {
	if len(e.Messages) == 0 {
		return "Unknown error"
	}
	return fmt.Sprintf("%v failed: %v", e.Operation, strings.Join(e.Messages, ", "))
}

// NullableString maps "" to nil
func NullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

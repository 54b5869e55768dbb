// Package twilio checks phone numbers with the Twilio Lookup API before
// they are registered as SMS targets.
package twilio

import (
	"context"

	"github.com/Daskott/govnotify/shared"
	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	lookups "github.com/twilio/twilio-go/rest/lookups/v2"
)

type lookupAPI interface {
	FetchPhoneNumber(phoneNumber string, params *lookups.FetchPhoneNumberParams) (*lookups.LookupsV2PhoneNumber, error)
}

type ClientWrapper struct {
	lookup lookupAPI
}

func NewClient(config shared.TwilioConfig) *ClientWrapper {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.AccountSid,
		Password: config.AuthToken,
	})

	return &ClientWrapper{lookup: client.LookupsV2}
}

// Check reports whether Twilio considers number a valid phone number
func (cw *ClientWrapper) Check(ctx context.Context, number string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	resp, err := cw.lookup.FetchPhoneNumber(number, &lookups.FetchPhoneNumberParams{})
	if err != nil {
		return false, errors.Wrap(err, "twilio lookup failed")
	}

	if resp.Valid == nil {
		return false, errors.New("twilio lookup returned no validity")
	}

	return *resp.Valid, nil
}

package twilio

import (
	"context"
	"testing"

	"github.com/Daskott/govnotify/phone"
	"github.com/Daskott/govnotify/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	lookups "github.com/twilio/twilio-go/rest/lookups/v2"
)

type lookupStub struct {
	valid  *bool
	err    error
	called []string
}

func (l *lookupStub) FetchPhoneNumber(phoneNumber string, params *lookups.FetchPhoneNumberParams) (*lookups.LookupsV2PhoneNumber, error) {
	l.called = append(l.called, phoneNumber)
	if l.err != nil {
		return nil, l.err
	}
	return &lookups.LookupsV2PhoneNumber{Valid: l.valid}, nil
}

func boolPtr(b bool) *bool { return &b }

var _ phone.Checker = (*ClientWrapper)(nil)

func TestCheck(t *testing.T) {
	cases := []struct {
		description string
		stub        *lookupStub
		valid       bool
		hasErr      bool
	}{
		{"Should report valid numbers", &lookupStub{valid: boolPtr(true)}, true, false},
		{"Should report invalid numbers", &lookupStub{valid: boolPtr(false)}, false, false},
		{"Should fail when validity is missing", &lookupStub{}, false, true},
		{"Should fail when lookup fails", &lookupStub{err: errors.New("401 Unauthorized")}, false, true},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			client := &ClientWrapper{lookup: c.stub}

			valid, err := client.Check(context.Background(), "+15551234567")
			assert.Equal(t, c.valid, valid)
			assert.Equal(t, c.hasErr, err != nil)
			assert.Equal(t, []string{"+15551234567"}, c.stub.called)
		})
	}
}

func TestCheckCancelled(t *testing.T) {
	stub := &lookupStub{valid: boolPtr(true)}
	client := &ClientWrapper{lookup: stub}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Check(ctx, "+15551234567")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, stub.called)
}

func TestNewClient(t *testing.T) {
	client := NewClient(shared.TwilioConfig{AccountSid: "AC123", AuthToken: "secret"})
	assert.NotNil(t, client.lookup)
}

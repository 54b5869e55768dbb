package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPrefersTargetGroups(t *testing.T) {
	s := &Snapshot{
		TargetGroups: []TargetGroup{{
			EmailTargets:    []EmailTarget{{EmailAddress: "group@dao.org"}},
			SmsTargets:      []SmsTarget{{PhoneNumber: "+447911123456"}},
			TelegramTargets: []TelegramTarget{{TelegramID: "group_handle"}},
		}},
		EmailTargets:    []EmailTarget{{EmailAddress: "flat@dao.org"}},
		SmsTargets:      []SmsTarget{{PhoneNumber: "+12025550100"}},
		TelegramTargets: []TelegramTarget{{TelegramID: "flat_handle"}},
	}

	selection := Select(s)

	assert.Equal(t, GroupedShape, selection.Shape)
	assert.Equal(t, "group@dao.org", selection.Email)
	assert.Equal(t, "+447911123456", selection.Phone)
	assert.Equal(t, "group_handle", selection.Handle)
}

func TestSelectGroupIgnoresFlatListsEvenWhenGroupIsEmpty(t *testing.T) {
	s := &Snapshot{
		TargetGroups: []TargetGroup{{}},
		EmailTargets: []EmailTarget{{EmailAddress: "flat@dao.org"}},
		SmsTargets:   []SmsTarget{{PhoneNumber: "+12025550100"}},
	}

	selection := Select(s)

	assert.Equal(t, GroupedShape, selection.Shape)
	assert.Empty(t, selection.Email)
	assert.Empty(t, selection.Phone)
}

func TestSelectFallsBackToFlatLists(t *testing.T) {
	s := &Snapshot{
		TargetGroups:    []TargetGroup{},
		EmailTargets:    []EmailTarget{{EmailAddress: "flat@dao.org"}, {EmailAddress: "second@dao.org"}},
		SmsTargets:      []SmsTarget{{PhoneNumber: "+12025550100"}},
		TelegramTargets: []TelegramTarget{{TelegramID: "flat_handle"}},
	}

	selection := Select(s)

	assert.Equal(t, FlatShape, selection.Shape)
	assert.Equal(t, "flat@dao.org", selection.Email, "first element in backend order")
	assert.Equal(t, "+12025550100", selection.Phone)
	assert.Equal(t, "flat_handle", selection.Handle)
}

func TestSelectEmpty(t *testing.T) {
	for description, s := range map[string]*Snapshot{"nil snapshot": nil, "empty snapshot": {}} {
		t.Run(description, func(t *testing.T) {
			selection := Select(s)

			assert.Equal(t, "", selection.Email)
			assert.Equal(t, "", selection.Phone)
			assert.Equal(t, "", selection.Handle)
			assert.Nil(t, selection.Alert)
			assert.Nil(t, selection.Source)
			assert.Nil(t, selection.Filter)
		})
	}
}

func TestSelectFromBackendJSON(t *testing.T) {
	body := `{
		"targetGroups": [{"emailTargets": [{"emailAddress": "a@b.com"}], "smsTargets": [], "telegramTargets": []}],
		"alerts": [],
		"sources": [{"id": "source-1"}, {"id": "source-2"}],
		"filters": [{"id": "filter-1"}]
	}`

	s := &Snapshot{}
	require.Nil(t, json.Unmarshal([]byte(body), s))

	selection := Select(s)

	assert.Equal(t, "a@b.com", selection.Email)
	assert.Equal(t, "", selection.Phone)
	assert.Equal(t, "", selection.Handle)
	assert.Nil(t, selection.Alert)
	require.NotNil(t, selection.Source)
	assert.Equal(t, "source-1", selection.Source.ID)
	require.NotNil(t, selection.Filter)
	assert.Equal(t, "filter-1", selection.Filter.ID)
}

func TestSelectReturnsCopies(t *testing.T) {
	s := &Snapshot{Alerts: []Alert{{ID: "alert-1"}}}

	selection := Select(s)
	selection.Alert.ID = "changed"

	assert.Equal(t, "alert-1", s.Alerts[0].ID)
}

func TestHasActiveAlert(t *testing.T) {
	assert.False(t, HasActiveAlert(nil))
	assert.False(t, HasActiveAlert(&Snapshot{Sources: []Source{{ID: "source-1"}}}))
	assert.True(t, HasActiveAlert(&Snapshot{Alerts: []Alert{{ID: "alert-1"}}}),
		"a single alert completes setup regardless of how many sources exist")
}

func TestAlertForSource(t *testing.T) {
	s := &Snapshot{
		Alerts: []Alert{
			{ID: "alert-1", SourceGroup: SourceGroup{Sources: []Source{{ID: "source-1"}}}},
			{ID: "alert-2", SourceGroup: SourceGroup{Sources: []Source{{ID: "source-2"}, {ID: "source-3"}}}},
		},
	}

	alert, ok := AlertForSource(s, "source-3")
	require.True(t, ok)
	assert.Equal(t, "alert-2", alert.ID)

	_, ok = AlertForSource(s, "source-4")
	assert.False(t, ok)

	_, ok = AlertForSource(nil, "source-1")
	assert.False(t, ok)
}

func TestPendingConfirmations(t *testing.T) {
	cases := []struct {
		description string
		group       TargetGroup
		expected    []string
	}{
		{
			description: "Should return the URL of an unconfirmed telegram target",
			group: TargetGroup{
				TelegramTargets: []TelegramTarget{{IsConfirmed: false, ConfirmationURL: "https://x"}},
			},
			expected: []string{"https://x"},
		},
		{
			description: "Should skip confirmed targets",
			group: TargetGroup{
				EmailTargets:    []EmailTarget{{IsConfirmed: true, ConfirmationURL: "https://email"}},
				TelegramTargets: []TelegramTarget{{IsConfirmed: true, ConfirmationURL: "https://x"}},
			},
			expected: []string{},
		},
		{
			description: "Should skip unconfirmed targets without a URL",
			group:       TargetGroup{SmsTargets: []SmsTarget{{IsConfirmed: false}}},
			expected:    []string{},
		},
		{
			description: "Should only inspect the first entry of each list",
			group: TargetGroup{
				TelegramTargets: []TelegramTarget{
					{IsConfirmed: true},
					{IsConfirmed: false, ConfirmationURL: "https://second"},
				},
			},
			expected: []string{},
		},
		{
			description: "Should return each URL once",
			group: TargetGroup{
				EmailTargets:    []EmailTarget{{IsConfirmed: false, ConfirmationURL: "https://same"}},
				TelegramTargets: []TelegramTarget{{IsConfirmed: false, ConfirmationURL: "https://same"}},
			},
			expected: []string{"https://same"},
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			assert.Equal(t, c.expected, PendingConfirmations(c.group))
		})
	}
}

func TestSourceForAddress(t *testing.T) {
	s := &Snapshot{Sources: []Source{
		{ID: "s0", BlockchainAddress: "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi"},
		{ID: "s1", BlockchainAddress: "DPiH3H3c7t47BMxqTxLsuPQpEC6Kne8GA9VXbxpnZxFE"},
	}}

	cases := []struct {
		description string
		snapshot    *Snapshot
		address     string
		expected    string
	}{
		{"Should pick the source with the address", s, "DPiH3H3c7t47BMxqTxLsuPQpEC6Kne8GA9VXbxpnZxFE", "s1"},
		{"Should fall back to the first source for an unknown address", s, "unknown", "s0"},
		{"Should fall back to the first source without an address", s, "", "s0"},
		{"Should return nothing without sources", &Snapshot{}, "unknown", ""},
		{"Should return nothing for a nil snapshot", nil, "", ""},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			source := SourceForAddress(c.snapshot, c.address)
			if c.expected == "" {
				assert.Nil(t, source)
				return
			}
			require.NotNil(t, source)
			assert.Equal(t, c.expected, source.ID)
		})
	}
}

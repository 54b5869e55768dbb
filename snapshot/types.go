// Package snapshot models the notification account returned by the
// backend and picks the values a subscriber edits out of it.
package snapshot

type EmailTarget struct {
	ID              string `json:"id"`
	Name            string `json:"name,omitempty"`
	EmailAddress    string `json:"emailAddress"`
	IsConfirmed     bool   `json:"isConfirmed"`
	ConfirmationURL string `json:"confirmationUrl,omitempty"`
}

type SmsTarget struct {
	ID              string `json:"id"`
	Name            string `json:"name,omitempty"`
	PhoneNumber     string `json:"phoneNumber"`
	IsConfirmed     bool   `json:"isConfirmed"`
	ConfirmationURL string `json:"confirmationUrl,omitempty"`
}

type TelegramTarget struct {
	ID              string `json:"id"`
	Name            string `json:"name,omitempty"`
	TelegramID      string `json:"telegramId"`
	IsConfirmed     bool   `json:"isConfirmed"`
	ConfirmationURL string `json:"confirmationUrl,omitempty"`
}

type TargetGroup struct {
	ID              string           `json:"id"`
	Name            string           `json:"name,omitempty"`
	EmailTargets    []EmailTarget    `json:"emailTargets"`
	SmsTargets      []SmsTarget      `json:"smsTargets"`
	TelegramTargets []TelegramTarget `json:"telegramTargets"`
}

type Source struct {
	ID                string `json:"id"`
	Name              string `json:"name,omitempty"`
	Type              string `json:"type,omitempty"`
	BlockchainAddress string `json:"blockchainAddress,omitempty"`
}

type SourceGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Sources []Source `json:"sources"`
}

type Filter struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	FilterType string `json:"filterType,omitempty"`
}

// Alert binds a source group and filter to a target group. Create and
// update calls answer with the resulting Alert.
type Alert struct {
	ID          string      `json:"id"`
	Name        string      `json:"name,omitempty"`
	SourceGroup SourceGroup `json:"sourceGroup"`
	TargetGroup TargetGroup `json:"targetGroup"`
	Filter      Filter      `json:"filter"`
}

// Snapshot is the account as returned by the backend. Older backends
// return flat target lists, newer ones return TargetGroups.
type Snapshot struct {
	Alerts          []Alert          `json:"alerts"`
	Sources         []Source         `json:"sources"`
	Filters         []Filter         `json:"filters"`
	TargetGroups    []TargetGroup    `json:"targetGroups"`
	EmailTargets    []EmailTarget    `json:"emailTargets"`
	SmsTargets      []SmsTarget      `json:"smsTargets"`
	TelegramTargets []TelegramTarget `json:"telegramTargets"`
}

package snapshot

import "strings"

// Shape tells which of the two snapshot layouts the targets came from
type Shape int

const (
	FlatShape Shape = iota
	GroupedShape
)

func (s Shape) String() string {
	if s == GroupedShape {
		return "grouped"
	}
	return "flat"
}

// Targets is the resolved view of a snapshot's delivery targets. It is
// either GroupedTargets or FlatTargets.
type Targets interface {
	Shape() Shape
	Email() string
	Phone() string
	Handle() string
	isTargets()
}

type GroupedTargets struct {
	Group TargetGroup
}

func (g GroupedTargets) Shape() Shape { return GroupedShape }

func (g GroupedTargets) Email() string { return firstEmail(g.Group.EmailTargets) }

func (g GroupedTargets) Phone() string { return firstPhone(g.Group.SmsTargets) }

func (g GroupedTargets) Handle() string { return firstHandle(g.Group.TelegramTargets) }

func (GroupedTargets) isTargets() {}

type FlatTargets struct {
	EmailTargets    []EmailTarget
	SmsTargets      []SmsTarget
	TelegramTargets []TelegramTarget
}

func (f FlatTargets) Shape() Shape { return FlatShape }

func (f FlatTargets) Email() string { return firstEmail(f.EmailTargets) }

func (f FlatTargets) Phone() string { return firstPhone(f.SmsTargets) }

func (f FlatTargets) Handle() string { return firstHandle(f.TelegramTargets) }

func (FlatTargets) isTargets() {}

// ResolveTargets decides once which layout is authoritative: the first
// target group when there is one, the flat lists otherwise.
func ResolveTargets(s *Snapshot) Targets {
	if s == nil {
		return FlatTargets{}
	}

	if len(s.TargetGroups) > 0 {
		return GroupedTargets{Group: s.TargetGroups[0]}
	}

	return FlatTargets{
		EmailTargets:    s.EmailTargets,
		SmsTargets:      s.SmsTargets,
		TelegramTargets: s.TelegramTargets,
	}
}

// Selection is what a subscriber sees and edits. Strings are "" when the
// snapshot has no such target; Alert, Source and Filter are nil when absent.
type Selection struct {
	Email  string
	Phone  string
	Handle string
	Alert  *Alert
	Source *Source
	Filter *Filter
	Shape  Shape
}

// Select picks the first element of each collection, in backend order
func Select(s *Snapshot) Selection {
	targets := ResolveTargets(s)
	selection := Selection{
		Email:  targets.Email(),
		Phone:  targets.Phone(),
		Handle: targets.Handle(),
		Shape:  targets.Shape(),
	}

	if s == nil {
		return selection
	}

	if len(s.Alerts) > 0 {
		alert := s.Alerts[0]
		selection.Alert = &alert
	}

	if len(s.Sources) > 0 {
		source := s.Sources[0]
		selection.Source = &source
	}

	if len(s.Filters) > 0 {
		filter := s.Filters[0]
		selection.Filter = &filter
	}

	return selection
}

// HasActiveAlert reports whether the subscriber finished setup, i.e. the
// account holds at least one alert.
func HasActiveAlert(s *Snapshot) bool {
	return s != nil && len(s.Alerts) > 0
}

// AlertForSource returns the first alert whose source group contains sourceID
func AlertForSource(s *Snapshot, sourceID string) (*Alert, bool) {
	if s == nil {
		return nil, false
	}

	for _, alert := range s.Alerts {
		for _, source := range alert.SourceGroup.Sources {
			if source.ID == sourceID {
				found := alert
				return &found, true
			}
		}
	}

	return nil, false
}

// SourceForAddress returns the source whose blockchain address is address,
// falling back to the first source.
func SourceForAddress(s *Snapshot, address string) *Source {
	if s == nil || len(s.Sources) == 0 {
		return nil
	}

	if address != "" {
		for _, source := range s.Sources {
			if strings.EqualFold(source.BlockchainAddress, address) {
				found := source
				return &found
			}
		}
	}

	first := s.Sources[0]
	return &first
}

// PendingConfirmations looks at the first target of every non-empty list
// and returns the confirmation URLs of unconfirmed ones, without repeats.
func PendingConfirmations(group TargetGroup) []string {
	urls := []string{}
	add := func(isConfirmed bool, url string) {
		if isConfirmed || url == "" {
			return
		}
		for _, existing := range urls {
			if existing == url {
				return
			}
		}
		urls = append(urls, url)
	}

	if len(group.EmailTargets) > 0 {
		add(group.EmailTargets[0].IsConfirmed, group.EmailTargets[0].ConfirmationURL)
	}
	if len(group.SmsTargets) > 0 {
		add(group.SmsTargets[0].IsConfirmed, group.SmsTargets[0].ConfirmationURL)
	}
	if len(group.TelegramTargets) > 0 {
		add(group.TelegramTargets[0].IsConfirmed, group.TelegramTargets[0].ConfirmationURL)
	}

	return urls
}

func firstEmail(targets []EmailTarget) string {
	if len(targets) == 0 {
		return ""
	}
	return targets[0].EmailAddress
}

func firstPhone(targets []SmsTarget) string {
	if len(targets) == 0 {
		return ""
	}
	return targets[0].PhoneNumber
}

func firstHandle(targets []TelegramTarget) string {
	if len(targets) == 0 {
		return ""
	}
	return targets[0].TelegramID
}

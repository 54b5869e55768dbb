// Package reconciler merges a subscriber's unsaved contact edits with the
// backend account and turns a save into exactly one backend mutation.
package reconciler

import (
	"context"
	"fmt"
	"sync"

	"github.com/Daskott/govnotify/auth"
	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/dialcode"
	"github.com/Daskott/govnotify/logger"
	"github.com/Daskott/govnotify/notifi"
	"github.com/Daskott/govnotify/phone"
	"github.com/Daskott/govnotify/snapshot"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const handleTargetType = "TELEGRAM"

var logg = logger.NewLogger()

type Backend interface {
	FetchConfiguration(ctx context.Context) (*notifi.Configuration, error)
	FetchSnapshot(ctx context.Context) (*snapshot.Snapshot, error)
	CreateAlert(ctx context.Context, input notifi.CreateAlertInput) (*snapshot.Alert, error)
	UpdateAlert(ctx context.Context, input notifi.UpdateAlertInput) (*snapshot.Alert, error)
	DeleteAlert(ctx context.Context, input notifi.DeleteAlertInput) error
}

type AuthGate interface {
	EnsureAuthenticated(ctx context.Context) (*auth.Session, bool, error)
}

// URLOpener shows a confirmation URL to the subscriber
type URLOpener interface {
	Open(url string) error
}

type PhoneValidator interface {
	IsValid(ctx context.Context, number string) bool
}

// Profile holds the contact channels being edited. "" means not set.
type Profile struct {
	Email  string
	Phone  string
	Handle string
}

// Organization identifies whose governance events the alert is for
type Organization struct {
	Name    string
	Address string
}

type SaveResult struct {
	Action           Action
	Alert            *snapshot.Alert
	ConfirmationURLs []string

	// DroppedPhone is set when the edited phone was invalid and sent as null
	DroppedPhone bool
}

type Options struct {
	Backend        Backend
	Gate           AuthGate
	Opener         URLOpener
	PhoneValidator PhoneValidator
	Organization   Organization
}

// Session is one editing session of a subscriber's contact profile
type Session struct {
	backend   Backend
	gate      AuthGate
	opener    URLOpener
	validator PhoneValidator
	org       Organization

	mu         sync.Mutex
	profile    Profile
	dirty      bool
	edits      uint64
	account    *snapshot.Snapshot
	selection  snapshot.Selection
	generation uint64
	mutating   bool
	closed     bool
	config     *notifi.Configuration
	state      State
	listeners  []func(SaveResult)
}

func NewSession(options Options) *Session {
	validator := options.PhoneValidator
	if validator == nil {
		validator = phone.Validator{}
	}

	return &Session{
		backend:   options.Backend,
		gate:      options.Gate,
		opener:    options.Opener,
		validator: validator,
		org:       options.Organization,
		state:     Idle,
	}
}

func (s *Session) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profile
}

// Dirty reports unsaved edits
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirty
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Selection is what was last selected from the backend account
func (s *Session) Selection() snapshot.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection
}

func (s *Session) HasActiveAlert() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot.HasActiveAlert(s.account)
}

// OnSettled registers listener to be called after every successful save or
// unsubscribe
func (s *Session) OnSettled(listener func(SaveResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, listener)
}

// Close ends the editing session. A save that is still running completes,
// but its confirmation URLs are no longer opened.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
}

func (s *Session) SetEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.Email = email
	s.markDirty()
}

// SetPhone composes the phone from a country code ("GB") and the digits the
// subscriber typed. Empty digits clear the phone. Invalid input is rejected
// and leaves the profile unchanged.
func (s *Session) SetPhone(countryCode, digits string) error {
	country, ok := dialcode.ByCode(countryCode)
	if !ok {
		return newError(ErrInvalidPhone, errors.Wrapf(phone.ErrInvalidPhone, "unknown country %q", countryCode))
	}

	number, err := phone.ComposeInput(country.DialCode, digits)
	if err != nil {
		return newError(ErrInvalidPhone, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.Phone = number
	s.markDirty()
	return nil
}

func (s *Session) SetHandle(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handle != "" && s.config != nil && !s.config.Supports(handleTargetType) {
		return newError(ErrChannelUnsupported, nil)
	}

	s.profile.Handle = handle
	s.markDirty()
	return nil
}

// LoadConfiguration fetches which target types the backend supports
func (s *Session) LoadConfiguration(ctx context.Context) (*notifi.Configuration, error) {
	config, err := s.backend.FetchConfiguration(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load supported channels")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = config
	return config, nil
}

// HandleSupported is false until a loaded configuration lists TELEGRAM
func (s *Session) HandleSupported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.config != nil && s.config.Supports(handleTargetType)
}

// Refresh signs in again if the session expired, then fetches the account.
// Remote values replace the profile only when there are no unsaved edits.
func (s *Session) Refresh(ctx context.Context) error {
	if s.gate != nil {
		if _, _, err := s.gate.EnsureAuthenticated(ctx); err != nil {
			return newError(ErrAuthFailed, err)
		}
	}

	_, applied, err := s.fetch(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch account")
	}

	if !applied {
		return newError(ErrStaleSnapshot, nil)
	}

	return nil
}

// Save upserts the organization's alert with the edited profile
func (s *Session) Save(ctx context.Context) (*SaveResult, error) {
	if err := s.beginMutation(); err != nil {
		return nil, err
	}
	defer s.endMutation()

	saveID := uuid.New().String()
	log := logg.With("save", saveID)
	log.Debug(colors.Prefix("reconciler") + "save started")

	result, err := s.save(ctx, log)
	if err != nil {
		s.setState(Failed)
		log.Warnf(colors.Prefix("reconciler")+"save failed: %v", err)
		return nil, err
	}

	s.settle(ctx, result)
	log.Infof(colors.Prefix("reconciler")+"alert %v %v", result.Action, result.Alert.ID)

	return result, nil
}

// Unsubscribe deletes the alert bound to sourceID. When sourceID is "" it
// deletes the alert of the organization's source, or the first alert. It
// reports false when there was nothing to delete.
func (s *Session) Unsubscribe(ctx context.Context, sourceID string) (bool, error) {
	if err := s.beginMutation(); err != nil {
		return false, err
	}
	defer s.endMutation()

	account, err := s.authenticatedAccount(ctx)
	if err != nil {
		s.setState(Failed)
		return false, err
	}

	var alert *snapshot.Alert
	if sourceID == "" {
		if source := snapshot.SourceForAddress(account, s.org.Address); source != nil {
			alert, _ = snapshot.AlertForSource(account, source.ID)
		}
		if alert == nil {
			alert = snapshot.Select(account).Alert
		}
	} else {
		alert, _ = snapshot.AlertForSource(account, sourceID)
	}

	if alert == nil {
		s.setState(Settled)
		return false, nil
	}

	s.setState(Updating)
	err = s.backend.DeleteAlert(ctx, notifi.DeleteAlertInput{
		AlertID:         alert.ID,
		KeepSourceGroup: true,
		KeepTargetGroup: true,
	})
	if err != nil {
		s.setState(Failed)
		return false, newError(ErrMutationFailed, err)
	}

	s.settle(ctx, &SaveResult{Action: ActionDeleted, Alert: alert, ConfirmationURLs: []string{}})
	return true, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (s *Session) save(ctx context.Context, log *zap.SugaredLogger) (*SaveResult, error) {
	account, err := s.authenticatedAccount(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state = Deciding
	profile, edits := s.profile, s.edits
	s.mu.Unlock()

	selection := snapshot.Select(account)
	result := &SaveResult{}

	phoneNumber := notifi.NullableString(profile.Phone)
	if profile.Phone != "" && !s.validator.IsValid(ctx, profile.Phone) {
		log.Warnf(colors.Prefix("reconciler")+"dropping invalid phone %v", profile.Phone)
		phoneNumber = nil
		result.DroppedPhone = true
	}

	var alert *snapshot.Alert
	if selection.Alert != nil {
		s.setState(Updating)
		result.Action = ActionUpdated

		alert, err = s.backend.UpdateAlert(ctx, notifi.UpdateAlertInput{
			AlertID:      selection.Alert.ID,
			EmailAddress: notifi.NullableString(profile.Email),
			PhoneNumber:  phoneNumber,
			TelegramID:   notifi.NullableString(profile.Handle),
		})
	} else {
		source := snapshot.SourceForAddress(account, s.org.Address)
		if source == nil || selection.Filter == nil {
			return nil, newError(ErrNoSourceAvailable, nil)
		}

		s.setState(Creating)
		result.Action = ActionCreated

		alert, err = s.backend.CreateAlert(ctx, notifi.CreateAlertInput{
			Name:         fmt.Sprintf("%v notifications", s.org.Name),
			EmailAddress: notifi.NullableString(profile.Email),
			PhoneNumber:  phoneNumber,
			TelegramID:   notifi.NullableString(profile.Handle),
			SourceID:     source.ID,
			FilterID:     selection.Filter.ID,
		})
	}

	if err != nil {
		return nil, newError(ErrMutationFailed, err)
	}
	if alert == nil {
		return nil, newError(ErrMutationFailed, errors.New("backend returned no alert"))
	}

	s.setState(Interpreting)
	result.Alert = alert
	result.ConfirmationURLs = snapshot.PendingConfirmations(alert.TargetGroup)
	s.openConfirmations(result.ConfirmationURLs)

	s.mu.Lock()
	// Edits made while the mutation ran stay unsaved
	if s.edits == edits {
		s.dirty = false
	}
	s.mu.Unlock()

	log.Debugf(colors.Prefix("reconciler")+"%v pending confirmation(s)", len(result.ConfirmationURLs))
	return result, nil
}

// authenticatedAccount makes sure a session exists and returns the account to
// decide on. A fresh login always refetches.
func (s *Session) authenticatedAccount(ctx context.Context) (*snapshot.Snapshot, error) {
	s.setState(Authenticating)

	if s.gate != nil {
		_, loggedIn, err := s.gate.EnsureAuthenticated(ctx)
		if err != nil {
			return nil, newError(ErrAuthFailed, err)
		}

		if loggedIn {
			return s.fetchForMutation(ctx)
		}
	}

	s.mu.Lock()
	account := s.account
	s.mu.Unlock()

	if account != nil {
		return account, nil
	}

	return s.fetchForMutation(ctx)
}

func (s *Session) fetchForMutation(ctx context.Context) (*snapshot.Snapshot, error) {
	account, _, err := s.fetch(ctx)
	if err != nil {
		return nil, newError(ErrMutationFailed, err)
	}
	return account, nil
}

// fetch takes a new generation, then records the account only when no newer
// fetch or mutation started meanwhile.
func (s *Session) fetch(ctx context.Context) (account *snapshot.Snapshot, applied bool, err error) {
	gen := s.nextGeneration()

	account, err = s.backend.FetchSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		logg.Debugf(colors.Prefix("reconciler")+"discarding stale account (generation %v < %v)", gen, s.generation)
		return account, false, nil
	}

	s.account = account
	s.selection = snapshot.Select(account)
	if !s.dirty {
		s.profile = Profile{
			Email:  s.selection.Email,
			Phone:  s.selection.Phone,
			Handle: s.selection.Handle,
		}
	}

	return account, true, nil
}

func (s *Session) settle(ctx context.Context, result *SaveResult) {
	if _, _, err := s.fetch(ctx); err != nil {
		logg.Warnf(colors.Prefix("reconciler")+"unable to refresh account after save: %v", err)
		s.fold(result)
	}

	s.mu.Lock()
	s.state = Settled
	listeners := append([]func(SaveResult){}, s.listeners...)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(*result)
	}
}

// fold applies a mutation result to the cached account so the next save
// decides on what the backend now holds.
func (s *Session) fold(result *SaveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := &snapshot.Snapshot{}
	if s.account != nil {
		*account = *s.account
	}

	alerts := []snapshot.Alert{}
	if result.Action != ActionDeleted {
		alerts = append(alerts, *result.Alert)
	}
	for _, alert := range account.Alerts {
		if alert.ID != result.Alert.ID {
			alerts = append(alerts, alert)
		}
	}
	account.Alerts = alerts

	if result.Action != ActionDeleted && result.Alert.TargetGroup.ID != "" {
		groups := []snapshot.TargetGroup{result.Alert.TargetGroup}
		for _, group := range account.TargetGroups {
			if group.ID != result.Alert.TargetGroup.ID {
				groups = append(groups, group)
			}
		}
		account.TargetGroups = groups
	}

	s.account = account
	s.selection = snapshot.Select(account)
}

func (s *Session) openConfirmations(urls []string) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed || s.opener == nil {
		return
	}

	for _, url := range urls {
		if err := s.opener.Open(url); err != nil {
			logg.Warnf(colors.Prefix("reconciler")+"unable to open %v: %v", url, err)
		}
	}
}

func (s *Session) beginMutation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mutating {
		return newError(ErrSaveInProgress, nil)
	}

	s.mutating = true
	s.generation++
	return nil
}

func (s *Session) endMutation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mutating = false
}

func (s *Session) nextGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.generation
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

func (s *Session) markDirty() {
	s.dirty = true
	s.edits++
}

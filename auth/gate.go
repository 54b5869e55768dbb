// Package auth makes sure a valid backend session exists before anything
// mutates the subscriber's account.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/logger"
	"github.com/pkg/errors"
)

var (
	ErrNoSigner = errors.New("no wallet connected to sign in with")

	logg = logger.NewLogger()
)

// Authenticator is the backend side of login
type Authenticator interface {
	Login(ctx context.Context, signer Signer) (*Session, error)
	UseSession(session *Session)
}

type Gate struct {
	mu            sync.Mutex
	authenticator Authenticator
	signer        Signer
	store         TokenStore
	session       *Session
	now           func() time.Time
}

// NewGate restores a still valid session from store, if any. store may be nil.
func NewGate(authenticator Authenticator, signer Signer, store TokenStore) *Gate {
	gate := &Gate{
		authenticator: authenticator,
		signer:        signer,
		store:         store,
		now:           time.Now,
	}
	gate.restore()

	return gate
}

func (g *Gate) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.session.Valid(g.now())
}

// EnsureAuthenticated returns the current session when it is still valid.
// Otherwise it logs in with the signer; loggedIn is true in that case.
// Failures are not remembered, the next call tries again.
func (g *Gate) EnsureAuthenticated(ctx context.Context) (session *Session, loggedIn bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session.Valid(g.now()) {
		return g.session, false, nil
	}

	if g.signer == nil {
		return nil, false, ErrNoSigner
	}

	logg.Debugf(colors.Prefix("auth")+"signing in as %v", g.signer.PublicKey())
	session, err = g.authenticator.Login(ctx, g.signer)
	if err != nil {
		return nil, false, err
	}

	g.session = session
	g.authenticator.UseSession(session)

	if g.store != nil {
		if err := g.store.Save(session); err != nil {
			logg.Warnf(colors.Prefix("auth")+"unable to cache session: %v", err)
		}
	}

	return session, true, nil
}

// Logout forgets the current session, including the cached copy
func (g *Gate) Logout() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.session = nil
	g.authenticator.UseSession(nil)

	if g.store == nil {
		return nil
	}
	return g.store.Clear()
}

func (g *Gate) restore() {
	if g.store == nil {
		return
	}

	session, err := g.store.Load()
	if err != nil {
		logg.Warnf(colors.Prefix("auth")+"ignoring cached session: %v", err)
		return
	}

	if !session.Valid(g.now()) {
		return
	}

	g.session = session
	g.authenticator.UseSession(session)
}

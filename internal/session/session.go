// Package session signs admins and board members into the panel and keeps
// their backend token and user snapshot in the local session store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/metrics"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrAccessDenied: the account's role may not use the panel.
	ErrAccessDenied = errors.New("session: access denied")
	// ErrAccountStatus: the account exists but is not active.
	ErrAccountStatus = errors.New("session: account not active")
	// ErrNoSession: no live session for the id (missing, expired or revoked).
	ErrNoSession = errors.New("session: no session")
)

// StatusError names the offending account status.
type StatusError struct {
	Status models.UserStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("account status is %q", e.Status)
}

func (e *StatusError) Unwrap() error { return ErrAccountStatus }

// Authenticator is the slice of the backend the provider needs.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.LoginResult, error)
	Me(ctx context.Context) (*models.User, error)
}

// State is a live session as handlers see it.
type State struct {
	ID                 string
	Token              string
	User               models.User
	SelectedBuildingID models.ID
	ExpiresAt          time.Time
}

type Options struct {
	TokenKey string
	// TTL applies to tokens without an exp claim.
	TTL time.Duration
	// Refresh is how old the user snapshot may be before /users/me is re-read.
	Refresh time.Duration
	Metrics *metrics.Metrics
}

type Provider struct {
	store   *Store
	auth    Authenticator
	cipher  *tokenCipher
	ttl     time.Duration
	refresh time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewProvider(db *gorm.DB, auth Authenticator, opts Options) *Provider {
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	return &Provider{
		store:   NewStore(db),
		auth:    auth,
		cipher:  newTokenCipher(opts.TokenKey),
		ttl:     opts.TTL,
		refresh: opts.Refresh,
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

// Login signs in against the backend and persists a session. Only admins
// and board members with an active account get one; for anyone else nothing
// is stored.
func (p *Provider) Login(ctx context.Context, email, password string) (*State, error) {
	res, err := p.auth.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		p.metrics.Login("failed")
		return nil, err
	}
	user := res.User
	if !user.PanelRole() {
		p.metrics.Login("denied")
		logging.Logger.WithField("role", user.Role).Info("panel access denied")
		return nil, ErrAccessDenied
	}
	if !user.IsActive() {
		p.metrics.Login("inactive")
		return nil, &StatusError{Status: user.Status}
	}

	now := p.now()
	id := uuid.NewString()
	sealed, err := p.cipher.seal(id, res.Token)
	if err != nil {
		return nil, err
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	row := &models.Session{
		ID:              id,
		TokenCiphertext: sealed,
		ExpiresAt:       tokenExpiry(res.Token, now, p.ttl),
		UserJSON:        userJSON,
		RefreshedAt:     now,
	}
	if !row.ExpiresAt.After(now) {
		p.metrics.Login("expired")
		return nil, ErrNoSession
	}
	if err := p.store.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	p.metrics.Login("ok")
	return &State{ID: id, Token: res.Token, User: user, ExpiresAt: row.ExpiresAt}, nil
}

// Current loads a live session, refreshing the user snapshot through
// /users/me when it is stale. A 401 on refresh revokes the session.
func (p *Provider) Current(ctx context.Context, id string) (*State, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	row, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := p.now()
	if !row.ExpiresAt.After(now) {
		_ = p.store.Delete(ctx, id)
		return nil, ErrNoSession
	}
	token, err := p.cipher.open(id, row.TokenCiphertext)
	if err != nil {
		logging.Logger.WithError(err).Warn("dropping session with unreadable token")
		_ = p.store.Delete(ctx, id)
		return nil, ErrNoSession
	}
	st := &State{
		ID:                 id,
		Token:              token,
		SelectedBuildingID: models.ID(row.SelectedBuildingID),
		ExpiresAt:          row.ExpiresAt,
	}
	if err := json.Unmarshal(row.UserJSON, &st.User); err != nil {
		return nil, fmt.Errorf("decode user snapshot: %w", err)
	}

	if p.refresh > 0 && now.Sub(row.RefreshedAt) >= p.refresh {
		if err := p.Refresh(ctx, st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Refresh re-reads the user from the backend into st. Errors other than 401
// keep the stale snapshot.
func (p *Provider) Refresh(ctx context.Context, st *State) error {
	me, err := p.auth.Me(api.WithToken(ctx, st.Token))
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		logging.Logger.WithField("session", st.ID).Info("backend rejected token, signing out")
		_ = p.store.Delete(ctx, st.ID)
		return ErrNoSession
	case err != nil:
		logging.Logger.WithError(err).Warn("user refresh failed, keeping snapshot")
		return nil
	}
	userJSON, err := json.Marshal(me)
	if err != nil {
		return err
	}
	if err := p.store.SaveUser(ctx, st.ID, userJSON, p.now()); err != nil {
		logging.Logger.WithError(err).Warn("saving refreshed user failed")
	}
	st.User = *me
	return nil
}

// Logout deletes the session. Unknown ids are not an error.
func (p *Provider) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return p.store.Delete(ctx, id)
}

// SelectBuilding persists the chosen building for the session. Callers check
// the id against the available set first.
func (p *Provider) SelectBuilding(ctx context.Context, id string, buildingID models.ID) error {
	return p.store.SaveSelection(ctx, id, buildingID.String())
}

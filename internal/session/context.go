package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/logging"
)

type stateKey struct{}

// WithState stores st in ctx and attaches its token for backend calls.
func WithState(ctx context.Context, st *State) context.Context {
	ctx = context.WithValue(ctx, stateKey{}, st)
	return api.WithToken(ctx, st.Token)
}

func FromContext(ctx context.Context) (*State, bool) {
	st, ok := ctx.Value(stateKey{}).(*State)
	return st, ok && st != nil
}

// Middleware resolves the signed session cookie (see auth.Middleware) into a
// State. Dead sessions get their cookie cleared; the request continues
// anonymously and RequireSession decides what to do.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.SessionIDFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		st, err := p.Current(r.Context(), id)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				logging.Logger.WithError(err).Error("loading session")
			}
			auth.ClearSession(w)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithState(r.Context(), st)))
	})
}

// RequireSession sends anonymous requests to /login (401 for JSON clients).
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			auth.Unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

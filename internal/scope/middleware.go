package scope

import (
	"context"
	"net/http"

	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/internal/session"
)

// SelectionStore persists a session's selected building.
type SelectionStore interface {
	SelectBuilding(ctx context.Context, sessionID string, buildingID models.ID) error
}

type ctxKey struct{}

func WithContext(ctx context.Context, sc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

func FromContext(ctx context.Context) Context {
	sc, _ := ctx.Value(ctxKey{}).(Context)
	return sc
}

// Middleware resolves the scope for signed-in requests and writes a changed
// selection back to the session, so a stale id never outlives one request.
// A degraded scope is used for the request but never persisted.
func (r *Resolver) Middleware(store SelectionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			st, ok := session.FromContext(req.Context())
			if !ok {
				next.ServeHTTP(w, req)
				return
			}
			sc := r.Resolve(req.Context(), &st.User, st.SelectedBuildingID)
			if sc.Selected != st.SelectedBuildingID && !sc.Degraded {
				if err := store.SelectBuilding(req.Context(), st.ID, sc.Selected); err != nil {
					logging.Logger.WithError(err).Warn("persisting building selection")
				}
				st.SelectedBuildingID = sc.Selected
			}
			next.ServeHTTP(w, req.WithContext(WithContext(req.Context(), sc)))
		})
	}
}

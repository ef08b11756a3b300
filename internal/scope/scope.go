// Package scope works out which buildings a signed-in user may work on and
// which one is currently selected.
package scope

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/diewo77/condo-admin/i18n"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/metrics"
	"github.com/diewo77/condo-admin/internal/models"
)

// BuildingSource is the part of the backend the resolver reads.
type BuildingSource interface {
	List(ctx context.Context) ([]models.Building, error)
	Get(ctx context.Context, id models.ID) (*models.Building, error)
}

// Context is the building scope for one request.
type Context struct {
	Available []models.Building
	Selected  models.ID
	// Degraded is set when the building list could not be fetched, so
	// Available is empty for this request only.
	Degraded bool
}

// SelectedBuilding returns the selected entry of Available.
func (c Context) SelectedBuilding() (models.Building, bool) {
	for _, b := range c.Available {
		if b.ID == c.Selected {
			return b, true
		}
	}
	return models.Building{}, false
}

func (c Context) Has(id models.ID) bool {
	return contains(c.Available, id)
}

const nameWorkers = 4

type Resolver struct {
	source  BuildingSource
	names   *lru.LRU[models.ID, string]
	all     *lru.LRU[string, []models.Building]
	metrics *metrics.Metrics
}

// NewResolver caches building names (and the admin building list) for ttl.
func NewResolver(source BuildingSource, size int, ttl time.Duration, m *metrics.Metrics) *Resolver {
	if size <= 0 {
		size = 256
	}
	return &Resolver{
		source:  source,
		names:   lru.NewLRU[models.ID, string](size, nil, ttl),
		all:     lru.NewLRU[string, []models.Building](1, nil, ttl),
		metrics: m,
	}
}

// Invalidate drops cached names and lists after a building mutation.
func (r *Resolver) Invalidate() {
	r.names.Purge()
	r.all.Purge()
}

// Resolve computes the available buildings and reconciles the current
// selection against them. An empty selection gets the default one.
func (r *Resolver) Resolve(ctx context.Context, user *models.User, selected models.ID) Context {
	available, ok := r.available(ctx, user)
	sc := Context{Available: available, Degraded: !ok}
	if selected == "" {
		sc.Selected = DefaultSelection(user, available)
	} else {
		sc.Selected = Reconcile(selected, available)
	}
	return sc
}

// Available lists the buildings the user may scope to: every building for an
// admin, board buildings otherwise. Failures degrade to an empty list.
func (r *Resolver) Available(ctx context.Context, user *models.User) []models.Building {
	list, _ := r.available(ctx, user)
	return list
}

// available is Available that also reports whether the list is real (false
// after a failed backend fetch).
func (r *Resolver) available(ctx context.Context, user *models.User) ([]models.Building, bool) {
	switch {
	case user == nil:
		return nil, true
	case user.IsAdmin():
		return r.allBuildings(ctx)
	default:
		return r.boardBuildings(ctx, user), true
	}
}

const allKey = "all"

func (r *Resolver) allBuildings(ctx context.Context) ([]models.Building, bool) {
	if list, ok := r.all.Get(allKey); ok {
		r.metrics.CacheHit()
		return list, true
	}
	r.metrics.CacheMiss()
	list, err := r.source.List(ctx)
	if err != nil {
		logging.Logger.WithError(err).Warn("listing buildings for scope")
		return nil, false
	}
	for _, b := range list {
		if b.Name != "" {
			r.names.Add(b.ID, b.Name)
		}
	}
	r.all.Add(allKey, list)
	return list, true
}

func (r *Resolver) boardBuildings(ctx context.Context, user *models.User) []models.Building {
	ids := user.BoardBuildings()
	if len(ids) == 0 && user.IsBoard() && user.BuildingID != "" {
		ids = []models.ID{user.BuildingID}
	}
	if len(ids) == 0 {
		return nil
	}

	known := make(map[models.ID]string)
	for _, m := range user.Units {
		if m.BuildingName != "" {
			known[m.BuildingID] = m.BuildingName
		}
	}

	out := make([]models.Building, len(ids))
	eg := new(errgroup.Group)
	eg.SetLimit(nameWorkers)
	for i, id := range ids {
		out[i].ID = id
		if name, ok := known[id]; ok {
			out[i].Name = name
			r.names.Add(id, name)
			continue
		}
		if name, ok := r.names.Get(id); ok {
			r.metrics.CacheHit()
			out[i].Name = name
			continue
		}
		r.metrics.CacheMiss()
		eg.Go(func() error {
			b, err := r.source.Get(ctx, id)
			if err != nil || b == nil || b.Name == "" {
				logging.Logger.WithField("building", id).WithError(err).Debug("building name lookup failed")
				out[i].Name = placeholder(ctx, id)
				return nil
			}
			out[i] = *b
			out[i].ID = id
			r.names.Add(id, b.Name)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

func placeholder(ctx context.Context, id models.ID) string {
	return i18n.T(i18n.LangFromContext(ctx), "building.placeholder") + " " + id.String()
}

// DefaultSelection picks the building of the user's primary unit when it is
// available, else the first available building, else none.
func DefaultSelection(user *models.User, available []models.Building) models.ID {
	if primary, ok := user.PrimaryUnit(); ok && contains(available, primary.BuildingID) {
		return primary.BuildingID
	}
	if len(available) > 0 {
		return available[0].ID
	}
	return ""
}

// Reconcile keeps selected when it is available, otherwise falls back to the
// first available building, or to none when nothing is available.
func Reconcile(selected models.ID, available []models.Building) models.ID {
	if selected != "" && contains(available, selected) {
		return selected
	}
	if len(available) > 0 {
		return available[0].ID
	}
	return ""
}

func contains(list []models.Building, id models.ID) bool {
	for _, b := range list {
		if b.ID == id {
			return true
		}
	}
	return false
}

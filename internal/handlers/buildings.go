package handlers

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/internal/scope"
	"github.com/diewo77/condo-admin/validation"
)

type BuildingAPI interface {
	Get(ctx context.Context, id models.ID) (*models.Building, error)
	Create(ctx context.Context, in api.BuildingInput) (*models.Building, error)
	Update(ctx context.Context, id models.ID, in api.BuildingInput) (*models.Building, error)
	Delete(ctx context.Context, id models.ID) error
	Units(ctx context.Context, buildingID models.ID) ([]models.Unit, error)
	CreateUnit(ctx context.Context, buildingID models.ID, in api.UnitInput) (*models.Unit, error)
}

// Invalidator drops cached building data after a mutation.
type Invalidator interface {
	Invalidate()
}

type BuildingHandler struct {
	base
	buildings BuildingAPI
	cache     Invalidator
}

func NewBuildingHandler(sessions SessionEnder, buildings BuildingAPI, cache Invalidator) *BuildingHandler {
	return &BuildingHandler{base: base{sessions: sessions}, buildings: buildings, cache: cache}
}

// List shows the buildings in the user's scope: all of them for admins,
// board buildings otherwise.
func (h *BuildingHandler) List(w http.ResponseWriter, r *http.Request) {
	available := scope.FromContext(r.Context()).Available
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	list := available
	if query != "" {
		list = nil
		for _, b := range available {
			if strings.Contains(strings.ToLower(b.Name), query) || strings.Contains(strings.ToLower(b.Address), query) {
				list = append(list, b)
			}
		}
	}
	respond(w, r, "buildings/index.html", map[string]any{
		"Buildings": list,
		"Query":     query,
	}, list)
}

func (h *BuildingHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "buildings/form.html", map[string]any{"Building": api.BuildingInput{}})
}

func buildingInput(r *http.Request, v validation.Violations) (api.BuildingInput, error) {
	var in api.BuildingInput
	err := bind(r, &in, func() {
		in.Name = strings.TrimSpace(r.FormValue("name"))
		in.Address = strings.TrimSpace(r.FormValue("address"))
		in.RIF = strings.ToUpper(strings.TrimSpace(r.FormValue("rif")))
		if strings.TrimSpace(r.FormValue("monthly_fee")) != "" {
			fee := formDecimal(r, "monthly_fee", v)
			in.MonthlyFee = &fee
		}
	})
	return in, err
}

func validateBuilding(in api.BuildingInput, v validation.Violations) {
	for k, code := range validation.Struct(in) {
		v[k] = code
	}
	if in.MonthlyFee != nil && in.MonthlyFee.IsNegative() {
		v["monthly_fee"] = "must_be_positive"
	}
}

func (h *BuildingHandler) Create(w http.ResponseWriter, r *http.Request) {
	v := make(validation.Violations)
	in, err := buildingInput(r, v)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	validateBuilding(in, v)
	if !v.Empty() {
		invalid(w, r, "buildings/form.html", map[string]any{"Building": in}, v)
		return
	}
	b, err := h.buildings.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "/buildings/new")
		return
	}
	h.cache.Invalidate()
	done(w, r, http.StatusCreated, b, "building.created", "/buildings/"+b.ID.String())
}

// Show renders a building with its units; both are fetched together.
func (h *BuildingHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var (
		b     *models.Building
		units []models.Unit
	)
	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() error {
		var err error
		b, err = h.buildings.Get(ctx, id)
		return err
	})
	eg.Go(func() error {
		var err error
		units, err = h.buildings.Units(ctx, id)
		return err
	})
	if err := eg.Wait(); err != nil {
		h.fail(w, r, err, "/buildings")
		return
	}
	respond(w, r, "buildings/show.html", map[string]any{
		"Building": b,
		"Units":    units,
		"Unit":     api.UnitInput{},
	}, map[string]any{"building": b, "units": units})
}

func (h *BuildingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b, err := h.buildings.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/buildings")
		return
	}
	render(w, r, http.StatusOK, "buildings/form.html", map[string]any{
		"ID": id,
		"Building": api.BuildingInput{
			Name:       b.Name,
			Address:    b.Address,
			RIF:        b.RIF,
			MonthlyFee: b.MonthlyFee,
		},
	})
}

func (h *BuildingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	v := make(validation.Violations)
	in, err := buildingInput(r, v)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	validateBuilding(in, v)
	if !v.Empty() {
		invalid(w, r, "buildings/form.html", map[string]any{"ID": id, "Building": in}, v)
		return
	}
	b, err := h.buildings.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err, "/buildings/"+id.String()+"/edit")
		return
	}
	h.cache.Invalidate()
	done(w, r, http.StatusOK, b, "building.updated", "/buildings/"+id.String())
}

func (h *BuildingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if err := h.buildings.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "/buildings/"+id.String())
		return
	}
	h.cache.Invalidate()
	done(w, r, http.StatusOK, map[string]any{"deleted": id}, "building.deleted", "/buildings")
}

// Units lists a building's units; browsers get the building page.
func (h *BuildingHandler) Units(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	units, err := h.buildings.Units(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/buildings")
		return
	}
	respond(w, r, "buildings/units.html", map[string]any{"BuildingID": id, "Units": units}, units)
}

func (h *BuildingHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	v := make(validation.Violations)
	var in api.UnitInput
	if err := bind(r, &in, func() {
		in.Name = strings.TrimSpace(r.FormValue("name"))
		in.Floor = strings.TrimSpace(r.FormValue("floor"))
		in.Aliquot = formDecimal(r, "aliquot", v)
	}); err != nil {
		badRequest(w, r, err)
		return
	}
	for k, code := range validation.Struct(in) {
		v[k] = code
	}
	validation.RangeDecimal("aliquot", in.Aliquot, zero, hundred, v)
	if !v.Empty() {
		units, _ := h.buildings.Units(r.Context(), id)
		invalid(w, r, "buildings/units.html", map[string]any{"BuildingID": id, "Units": units, "Unit": in}, v)
		return
	}
	u, err := h.buildings.CreateUnit(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err, "/buildings/"+id.String())
		return
	}
	done(w, r, http.StatusCreated, u, "unit.created", "/buildings/"+id.String())
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/httpx"
	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/internal/session"
	"github.com/diewo77/condo-admin/validation"
)

type UserAPI interface {
	List(ctx context.Context, f api.UserFilter) ([]models.User, error)
	Get(ctx context.Context, id models.ID) (*models.User, error)
	Create(ctx context.Context, in api.UserInput) (*models.User, error)
	Update(ctx context.Context, id models.ID, in api.UserInput) (*models.User, error)
	SetStatus(ctx context.Context, id models.ID, status models.UserStatus) error
	Delete(ctx context.Context, id models.ID) error
}

type UnitLister interface {
	Units(ctx context.Context, buildingID models.ID) ([]models.Unit, error)
}

type UserHandler struct {
	base
	users UserAPI
	units UnitLister
}

func NewUserHandler(sessions SessionEnder, users UserAPI, units UnitLister) *UserHandler {
	return &UserHandler{base: base{sessions: sessions}, users: users, units: units}
}

func currentUser(r *http.Request) *models.User {
	if st, ok := session.FromContext(r.Context()); ok {
		return &st.User
	}
	return nil
}

func isSelf(r *http.Request, id models.ID) bool {
	u := currentUser(r)
	return u != nil && u.ID == id
}

// List shows the residents and board members of the selected building,
// optionally narrowed by role and status.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := api.UserFilter{
		BuildingID: selected(r),
		Role:       models.Role(q.Get("role")),
		Status:     models.UserStatus(q.Get("status")),
	}
	users, err := h.users.List(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "/dashboard")
		return
	}
	respond(w, r, "users/index.html", map[string]any{
		"Users":  users,
		"Filter": f,
	}, users)
}

func (h *UserHandler) formData(r *http.Request, in api.UserInput) map[string]any {
	data := map[string]any{
		"Form":  in,
		"Roles": assignableRoles(currentUser(r)),
	}
	if b := selected(r); b != "" && h.units != nil {
		units, err := h.units.Units(r.Context(), b)
		if err != nil {
			logging.Logger.WithError(err).WithField("building", b).Warn("loading units for user form")
		}
		data["Units"] = units
	}
	return data
}

// assignableRoles lists the roles u may hand out; only admins create admins.
func assignableRoles(u *models.User) []models.Role {
	roles := []models.Role{models.RoleResident, models.RoleBoard}
	if u.IsAdmin() {
		roles = append(roles, models.RoleAdmin)
	}
	return roles
}

func (h *UserHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "users/form.html", h.formData(r, api.UserInput{Role: string(models.RoleResident)}))
}

func userInput(r *http.Request) (api.UserInput, error) {
	var in api.UserInput
	err := bind(r, &in, func() {
		in.Name = strings.TrimSpace(r.FormValue("name"))
		in.Email = strings.TrimSpace(r.FormValue("email"))
		in.Role = strings.ToLower(r.FormValue("role"))
		in.Status = r.FormValue("status")
		in.Password = r.FormValue("password")
		in.UnitID = models.ID(r.FormValue("unit_id"))
	})
	return in, err
}

func (h *UserHandler) validate(r *http.Request, in api.UserInput) validation.Violations {
	v := validation.Struct(in)
	if _, ok := v["role"]; !ok && models.Role(in.Role) == models.RoleAdmin && !currentUser(r).IsAdmin() {
		v["role"] = "invalid_choice"
	}
	return v
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := userInput(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if in.BuildingID == "" {
		in.BuildingID = selected(r)
	}
	v := h.validate(r, in)
	if in.Password == "" {
		v["password"] = "required"
	}
	if !v.Empty() {
		in.Password = ""
		invalid(w, r, "users/form.html", h.formData(r, in), v)
		return
	}
	u, err := h.users.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "/users/new")
		return
	}
	done(w, r, http.StatusCreated, u, "user.created", "/users")
}

func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/users")
		return
	}
	in := api.UserInput{
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role.Normalize()),
		Status: string(u.Status),
	}
	if pu, ok := u.PrimaryUnit(); ok {
		in.UnitID = pu.UnitID
	}
	data := h.formData(r, in)
	data["ID"] = id
	render(w, r, http.StatusOK, "users/form.html", data)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	in, err := userInput(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if v := h.validate(r, in); !v.Empty() {
		in.Password = ""
		data := h.formData(r, in)
		data["ID"] = id
		invalid(w, r, "users/form.html", data, v)
		return
	}
	if err := h.guardUpdate(r, id, in); err != nil {
		h.fail(w, r, err, "/users")
		return
	}
	u, err := h.users.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err, "/users/"+id.String()+"/edit")
		return
	}
	done(w, r, http.StatusOK, u, "user.updated", "/users")
}

// guardUpdate rejects edits that change the caller's own role or status and
// edits of admin accounts by non-admins.
func (h *UserHandler) guardUpdate(r *http.Request, id models.ID, in api.UserInput) error {
	me := currentUser(r)
	if isSelf(r, id) {
		if in.Status != "" && models.UserStatus(strings.ToLower(in.Status)) != me.Status {
			return &api.Error{Status: http.StatusConflict, Message: tr(r, "user.self_status")}
		}
		if in.Role != "" && models.Role(in.Role).Normalize() != me.Role.Normalize() {
			return &api.Error{Status: http.StatusConflict, Message: tr(r, "user.self_role")}
		}
	}
	if me.IsAdmin() {
		return nil
	}
	target, err := h.users.Get(r.Context(), id)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return &api.Error{Status: http.StatusForbidden, Message: tr(r, "user.admin_protected")}
	}
	return nil
}

// SetStatus approves, rejects or deactivates an account.
func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var in struct {
		Status string `json:"status" form:"status" validate:"required,oneof=pending active inactive rejected"`
	}
	if err := bind(r, &in, func() { in.Status = strings.ToLower(r.FormValue("status")) }); err != nil {
		badRequest(w, r, err)
		return
	}
	if v := validation.Struct(in); !v.Empty() {
		if auth.WantsJSON(r) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
			return
		}
		auth.SetFlash(w, auth.FlashError, tr(r, "invalid_choice"))
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	if isSelf(r, id) {
		h.fail(w, r, &api.Error{Status: http.StatusConflict, Message: tr(r, "user.self_status")}, "/users")
		return
	}
	if err := h.users.SetStatus(r.Context(), id, models.UserStatus(in.Status)); err != nil {
		h.fail(w, r, err, "/users")
		return
	}
	done(w, r, http.StatusOK, map[string]any{"id": id, "status": in.Status}, "user.status_changed", "/users")
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if isSelf(r, id) {
		h.fail(w, r, &api.Error{Status: http.StatusConflict, Message: tr(r, "user.self_delete")}, "/users")
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "/users")
		return
	}
	done(w, r, http.StatusOK, map[string]any{"deleted": id}, "user.deleted", "/users")
}

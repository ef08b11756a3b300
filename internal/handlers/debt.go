package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/httpx"
	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/scope"
	"github.com/diewo77/condo-admin/validation"
)

type DebtGenerator interface {
	GenerateDebt(ctx context.Context, in api.DebtInput) (*api.DebtResult, error)
}

type DebtHandler struct {
	base
	billing DebtGenerator
	now     func() time.Time
}

func NewDebtHandler(sessions SessionEnder, billing DebtGenerator) *DebtHandler {
	return &DebtHandler{base: base{sessions: sessions}, billing: billing, now: time.Now}
}

func (h *DebtHandler) New(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	in := api.DebtInput{BuildingID: selected(r), Year: now.Year(), Month: int(now.Month())}
	data := map[string]any{"Form": in}
	if b, ok := scope.FromContext(r.Context()).SelectedBuilding(); ok {
		if b.MonthlyFee != nil {
			in.Amount = *b.MonthlyFee
			data["Form"] = in
		}
		data["Building"] = b
	}
	render(w, r, http.StatusOK, "debt/new.html", data)
}

// Create issues the period's invoices for the building in scope. The
// building always comes from the selection, which the route already checked.
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	v := make(validation.Violations)
	var in api.DebtInput
	if err := bind(r, &in, func() {
		in.Year, _ = strconv.Atoi(r.FormValue("year"))
		in.Month, _ = strconv.Atoi(r.FormValue("month"))
		in.Amount = formDecimal(r, "amount", v)
		in.DueDate = strings.TrimSpace(r.FormValue("due_date"))
		in.Description = strings.TrimSpace(r.FormValue("description"))
	}); err != nil {
		badRequest(w, r, err)
		return
	}
	in.BuildingID = selected(r)
	for k, code := range validation.Struct(in) {
		if _, seen := v[k]; !seen {
			v[k] = code
		}
	}
	if _, seen := v["amount"]; !seen {
		validation.PositiveDecimal("amount", in.Amount, v)
	}
	if !v.Empty() {
		invalid(w, r, "debt/new.html", map[string]any{"Form": in}, v)
		return
	}
	res, err := h.billing.GenerateDebt(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "/debt/new")
		return
	}
	if auth.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, res)
		return
	}
	auth.SetFlash(w, auth.FlashSuccess, fmt.Sprintf("%s (%d)", tr(r, "debt.generated"), res.Created))
	http.Redirect(w, r, "/invoices", http.StatusSeeOther)
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/validation"
)

type PaymentAPI interface {
	List(ctx context.Context, f api.PaymentFilter) ([]models.Payment, error)
	Review(ctx context.Context, id models.ID, in api.ReviewInput) error
}

type PaymentHandler struct {
	base
	payments PaymentAPI
}

func NewPaymentHandler(sessions SessionEnder, payments PaymentAPI) *PaymentHandler {
	return &PaymentHandler{base: base{sessions: sessions}, payments: payments}
}

// List shows the selected building's payments. Without a status filter the
// review queue (pending payments) is shown.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	status := strings.ToUpper(r.URL.Query().Get("status"))
	switch status {
	case "":
		status = string(models.PaymentPending)
	case "ALL":
		status = ""
	}
	f := api.PaymentFilter{BuildingID: selected(r), Status: models.PaymentStatus(status)}
	payments, err := h.payments.List(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "/dashboard")
		return
	}
	respond(w, r, "payments/index.html", map[string]any{
		"Payments": payments,
		"Filter":   f,
	}, payments)
}

// Review approves or rejects a payment. Rejections need a reason.
func (h *PaymentHandler) Review(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var in api.ReviewInput
	if err := bind(r, &in, func() {
		in.Status = models.PaymentStatus(strings.ToUpper(r.FormValue("status")))
		in.Reason = strings.TrimSpace(r.FormValue("reason"))
	}); err != nil {
		badRequest(w, r, err)
		return
	}
	v := validation.Struct(in)
	if in.Status == models.PaymentRejected {
		validation.Required("reason", in.Reason, v)
	}
	if !v.Empty() {
		h.rejectForm(w, r, v)
		return
	}
	if err := h.payments.Review(r.Context(), id, in); err != nil {
		h.fail(w, r, err, "/payments")
		return
	}
	code := "payment.approved"
	if in.Status == models.PaymentRejected {
		code = "payment.rejected"
	}
	done(w, r, http.StatusOK, map[string]any{"id": id, "status": in.Status}, code, "/payments")
}

func (h *PaymentHandler) rejectForm(w http.ResponseWriter, r *http.Request, v validation.Violations) {
	payments, err := h.payments.List(r.Context(), api.PaymentFilter{BuildingID: selected(r), Status: models.PaymentPending})
	if err != nil {
		h.fail(w, r, err, "/payments")
		return
	}
	invalid(w, r, "payments/index.html", map[string]any{
		"Payments": payments,
		"ReviewID": pathID(r, "id"),
	}, v)
}

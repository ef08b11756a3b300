package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/internal/services"
)

type InvoiceLister interface {
	Invoices(ctx context.Context, f api.InvoiceFilter) ([]models.Invoice, error)
}

// Reconciler builds the invoice and payment views.
type Reconciler interface {
	InvoiceDetail(ctx context.Context, id models.ID) (*services.InvoiceDetail, error)
	PaymentSpread(ctx context.Context, paymentID, invoiceID models.ID) (*services.PaymentSpread, error)
	UnitStatement(ctx context.Context, unitID models.ID) (*services.UnitStatement, error)
}

type InvoiceHandler struct {
	base
	invoices InvoiceLister
	recon    Reconciler
}

func NewInvoiceHandler(sessions SessionEnder, invoices InvoiceLister, recon Reconciler) *InvoiceHandler {
	return &InvoiceHandler{base: base{sessions: sessions}, invoices: invoices, recon: recon}
}

// invoiceRow pairs an invoice with its payment progress for listing.
type invoiceRow struct {
	models.Invoice
	Progress services.Progress
}

// List shows the selected building's invoices, optionally by status or unit.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := api.InvoiceFilter{
		BuildingID: selected(r),
		UnitID:     models.ID(q.Get("unit_id")),
		Status:     models.InvoiceStatus(strings.ToUpper(q.Get("status"))),
	}
	if f.BuildingID == "" {
		respond(w, r, "invoices/index.html", map[string]any{"Filter": f}, []models.Invoice{})
		return
	}
	invoices, err := h.invoices.Invoices(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "/dashboard")
		return
	}
	rows := make([]invoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, invoiceRow{Invoice: inv, Progress: services.InvoiceProgress(inv)})
	}
	respond(w, r, "invoices/index.html", map[string]any{
		"Invoices": rows,
		"Filter":   f,
	}, invoices)
}

func (h *InvoiceHandler) Show(w http.ResponseWriter, r *http.Request) {
	d, err := h.recon.InvoiceDetail(r.Context(), pathID(r, "id"))
	if err != nil {
		h.fail(w, r, err, "/invoices")
		return
	}
	respond(w, r, "invoices/show.html", map[string]any{"Detail": d}, map[string]any{
		"invoice":         d.Invoice,
		"progress":        d.Progress,
		"payments":        d.Payments,
		"allocated_total": d.AllocatedTotal,
		"consistent":      d.Consistent,
	})
}

// Payment drills into one payment of an invoice and shows how it was spread.
func (h *InvoiceHandler) Payment(w http.ResponseWriter, r *http.Request) {
	invoiceID := pathID(r, "id")
	spread, err := h.recon.PaymentSpread(r.Context(), pathID(r, "paymentID"), invoiceID)
	if err != nil {
		h.fail(w, r, err, "/invoices/"+invoiceID.String())
		return
	}
	respond(w, r, "invoices/payment.html", map[string]any{
		"InvoiceID": invoiceID,
		"Spread":    spread,
	}, map[string]any{
		"payment":         spread.Payment,
		"allocations":     spread.Allocations,
		"partial":         spread.Partial,
		"allocated_total": spread.AllocatedTotal,
		"unallocated":     spread.Unallocated(),
	})
}

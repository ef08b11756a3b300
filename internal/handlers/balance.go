package handlers

import (
	"net/http"
)

type BalanceHandler struct {
	base
	recon Reconciler
}

func NewBalanceHandler(sessions SessionEnder, recon Reconciler) *BalanceHandler {
	return &BalanceHandler{base: base{sessions: sessions}, recon: recon}
}

// Show renders a unit's balance, solvency and pending invoices.
func (h *BalanceHandler) Show(w http.ResponseWriter, r *http.Request) {
	st, err := h.recon.UnitStatement(r.Context(), pathID(r, "id"))
	if err != nil {
		h.fail(w, r, err, "/dashboard")
		return
	}
	respond(w, r, "units/balance.html", map[string]any{"Statement": st}, map[string]any{
		"balance": st.Balance,
		"solvent": st.Solvent(),
		"pending": st.Pending,
	})
}

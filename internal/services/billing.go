// Package services turns raw backend records into the views the panel shows:
// invoice progress, allocation reconciliation and dashboard figures.
package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Progress is how much of an invoice has been paid.
type Progress struct {
	// Percent is paid/amount*100, unclamped.
	Percent decimal.Decimal
	// Width is Percent clamped to [0,100] for progress bars.
	Width    float64
	Overpaid bool
}

// InvoiceProgress computes the paid share of inv. A zero amount is 0%.
func InvoiceProgress(inv models.Invoice) Progress {
	if !inv.Amount.IsPositive() {
		return Progress{Percent: decimal.Zero}
	}
	pct := inv.PaidAmount.Div(inv.Amount).Mul(hundred).Round(2)
	width := pct
	switch {
	case width.GreaterThan(hundred):
		width = hundred
	case width.IsNegative():
		width = decimal.Zero
	}
	return Progress{
		Percent:  pct,
		Width:    width.InexactFloat64(),
		Overpaid: inv.PaidAmount.GreaterThan(inv.Amount),
	}
}

type BillingReader interface {
	Invoices(ctx context.Context, f api.InvoiceFilter) ([]models.Invoice, error)
	Invoice(ctx context.Context, id models.ID) (*models.Invoice, error)
	InvoicePayments(ctx context.Context, id models.ID) ([]models.InvoicePayment, error)
	UnitBalance(ctx context.Context, unitID models.ID) (*models.UnitBalance, error)
}

type PaymentReader interface {
	List(ctx context.Context, f api.PaymentFilter) ([]models.Payment, error)
	Get(ctx context.Context, id models.ID) (*models.Payment, error)
	Allocations(ctx context.Context, id models.ID) ([]models.Allocation, error)
}

// Reconciler joins invoices with the payments allocated to them.
type Reconciler struct {
	billing  BillingReader
	payments PaymentReader
}

func NewReconciler(billing BillingReader, payments PaymentReader) *Reconciler {
	return &Reconciler{billing: billing, payments: payments}
}

// InvoiceDetail is an invoice with its payment rows. Each row's
// AllocatedAmount is this invoice's share of the payment.
type InvoiceDetail struct {
	Invoice        models.Invoice
	Progress       Progress
	Payments       []models.InvoicePayment
	AllocatedTotal decimal.Decimal
	// Consistent is true when the allocations add up to the invoice's
	// paid amount.
	Consistent bool
}

// Difference is paid amount minus allocated total.
func (d InvoiceDetail) Difference() decimal.Decimal {
	return d.Invoice.PaidAmount.Sub(d.AllocatedTotal)
}

// InvoiceDetail fetches the invoice and its payment rows concurrently.
func (r *Reconciler) InvoiceDetail(ctx context.Context, id models.ID) (*InvoiceDetail, error) {
	var (
		inv  *models.Invoice
		rows []models.InvoicePayment
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		inv, err = r.billing.Invoice(ctx, id)
		return err
	})
	eg.Go(func() error {
		var err error
		rows, err = r.billing.InvoicePayments(ctx, id)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return buildInvoiceDetail(*inv, rows), nil
}

func buildInvoiceDetail(inv models.Invoice, rows []models.InvoicePayment) *InvoiceDetail {
	total := decimal.Zero
	for _, row := range rows {
		// only approved money counts towards paid_amount
		if row.Status == models.PaymentRejected || row.Status == models.PaymentPending {
			continue
		}
		total = total.Add(row.AllocatedAmount)
	}
	return &InvoiceDetail{
		Invoice:        inv,
		Progress:       InvoiceProgress(inv),
		Payments:       rows,
		AllocatedTotal: total,
		Consistent:     total.Equal(inv.PaidAmount),
	}
}

// SpreadRow is one allocation of a payment; Current marks the invoice the
// user drilled down from.
type SpreadRow struct {
	models.Allocation
	Current bool
}

// PaymentSpread shows how one payment was spread across invoices.
type PaymentSpread struct {
	Payment     models.Payment
	Allocations []SpreadRow
	// Partial is set when only the payment detail could be loaded.
	Partial        bool
	AllocatedTotal decimal.Decimal
}

// Unallocated is the part of the payment not assigned to any invoice.
func (s PaymentSpread) Unallocated() decimal.Decimal {
	return s.Payment.Amount.Sub(s.AllocatedTotal)
}

// PaymentSpread loads a payment and its allocations concurrently. If that
// fails it retries the payment alone and returns a partial spread; an error
// comes back only when the payment itself cannot be read.
func (r *Reconciler) PaymentSpread(ctx context.Context, paymentID, invoiceID models.ID) (*PaymentSpread, error) {
	var (
		pay    *models.Payment
		allocs []models.Allocation
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		pay, err = r.payments.Get(egCtx, paymentID)
		return err
	})
	eg.Go(func() error {
		var err error
		allocs, err = r.payments.Allocations(egCtx, paymentID)
		return err
	})
	if err := eg.Wait(); err != nil {
		logging.Logger.WithError(err).WithField("payment", paymentID).Warn("payment spread incomplete, retrying detail only")
		pay, err = r.payments.Get(ctx, paymentID)
		if err != nil {
			return nil, fmt.Errorf("payment %s: %w", paymentID, err)
		}
		return &PaymentSpread{Payment: *pay, Partial: true, AllocatedTotal: decimal.Zero}, nil
	}

	spread := &PaymentSpread{Payment: *pay, AllocatedTotal: decimal.Zero}
	for _, a := range allocs {
		spread.Allocations = append(spread.Allocations, SpreadRow{Allocation: a, Current: a.InvoiceID == invoiceID})
		spread.AllocatedTotal = spread.AllocatedTotal.Add(a.AllocatedAmount)
	}
	return spread, nil
}

// UnitStatement is a unit's balance with the invoices still owed.
type UnitStatement struct {
	Balance models.UnitBalance
	Pending []models.Invoice
}

func (s UnitStatement) Solvent() bool { return s.Balance.Solvent() }

// UnitStatement fetches the unit balance and its pending invoices together.
func (r *Reconciler) UnitStatement(ctx context.Context, unitID models.ID) (*UnitStatement, error) {
	var (
		bal     *models.UnitBalance
		pending []models.Invoice
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		bal, err = r.billing.UnitBalance(ctx, unitID)
		return err
	})
	eg.Go(func() error {
		var err error
		pending, err = r.billing.Invoices(ctx, api.InvoiceFilter{UnitID: unitID, Status: models.InvoicePending})
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &UnitStatement{Balance: *bal, Pending: pending}, nil
}

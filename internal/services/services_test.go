package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeBilling struct {
	invoice     *models.Invoice
	invoiceErr  error
	rows        []models.InvoicePayment
	rowsErr     error
	invoices    []models.Invoice
	invoicesErr error
	balance     *models.UnitBalance
	lastFilter  api.InvoiceFilter
}

func (f *fakeBilling) Invoices(_ context.Context, flt api.InvoiceFilter) ([]models.Invoice, error) {
	f.lastFilter = flt
	return f.invoices, f.invoicesErr
}
func (f *fakeBilling) Invoice(context.Context, models.ID) (*models.Invoice, error) {
	return f.invoice, f.invoiceErr
}
func (f *fakeBilling) InvoicePayments(context.Context, models.ID) ([]models.InvoicePayment, error) {
	return f.rows, f.rowsErr
}
func (f *fakeBilling) UnitBalance(context.Context, models.ID) (*models.UnitBalance, error) {
	return f.balance, nil
}

type fakePayments struct {
	mu       sync.Mutex
	payment  *models.Payment
	getErrs  []error
	gets     int
	allocs   []models.Allocation
	allocErr error
	list     []models.Payment
}

func (f *fakePayments) List(context.Context, api.PaymentFilter) ([]models.Payment, error) {
	return f.list, nil
}
func (f *fakePayments) Get(context.Context, models.ID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	if f.gets < len(f.getErrs) {
		err = f.getErrs[f.gets]
	}
	f.gets++
	if err != nil {
		return nil, err
	}
	return f.payment, nil
}
func (f *fakePayments) Allocations(context.Context, models.ID) ([]models.Allocation, error) {
	return f.allocs, f.allocErr
}

func TestInvoiceProgress(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		paid     string
		percent  string
		width    float64
		overpaid bool
	}{
		{"quarter paid", "100", "25", "25", 25, false},
		{"unpaid", "80", "0", "0", 0, false},
		{"fully paid", "80", "80", "100", 100, false},
		{"zero amount", "0", "10", "0", 0, false},
		{"overpaid clamps bar", "100", "150", "150", 100, true},
		{"fractional", "300", "100", "33.33", 33.33, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := InvoiceProgress(models.Invoice{Amount: d(tt.amount), PaidAmount: d(tt.paid)})
			assert.True(t, p.Percent.Equal(d(tt.percent)), "percent %s", p.Percent)
			assert.InDelta(t, tt.width, p.Width, 0.001)
			assert.Equal(t, tt.overpaid, p.Overpaid)
		})
	}
}

func TestInvoiceDetail_Consistency(t *testing.T) {
	inv := &models.Invoice{ID: "X", Amount: d("100"), PaidAmount: d("60")}
	rows := []models.InvoicePayment{
		{PaymentID: "p1", Amount: d("500"), AllocatedAmount: d("40"), Status: models.PaymentApproved},
		{PaymentID: "p2", Amount: d("20"), AllocatedAmount: d("20"), Status: models.PaymentApproved},
		{PaymentID: "p3", Amount: d("30"), AllocatedAmount: d("30"), Status: models.PaymentRejected},
	}
	r := NewReconciler(&fakeBilling{invoice: inv, rows: rows}, &fakePayments{})

	got, err := r.InvoiceDetail(context.Background(), "X")
	require.NoError(t, err)
	assert.True(t, got.AllocatedTotal.Equal(d("60")))
	assert.True(t, got.Consistent)
	assert.True(t, got.Difference().IsZero())
	assert.Len(t, got.Payments, 3)

	inv.PaidAmount = d("70")
	got, err = r.InvoiceDetail(context.Background(), "X")
	require.NoError(t, err)
	assert.False(t, got.Consistent, "mismatch must be flagged")
	assert.True(t, got.Difference().Equal(d("10")))
}

func TestInvoiceDetail_BothFetchesMustSucceed(t *testing.T) {
	r := NewReconciler(&fakeBilling{invoice: &models.Invoice{ID: "X"}, rowsErr: errors.New("down")}, &fakePayments{})
	_, err := r.InvoiceDetail(context.Background(), "X")
	assert.Error(t, err)
}

func TestPaymentSpread_MarksCurrentInvoice(t *testing.T) {
	pay := &models.Payment{ID: "p1", Amount: d("150")}
	allocs := []models.Allocation{
		{ID: "a1", PaymentID: "p1", InvoiceID: "i1", AllocatedAmount: d("100")},
		{ID: "a2", PaymentID: "p1", InvoiceID: "i2", AllocatedAmount: d("40")},
	}
	r := NewReconciler(&fakeBilling{}, &fakePayments{payment: pay, allocs: allocs})

	s, err := r.PaymentSpread(context.Background(), "p1", "i2")
	require.NoError(t, err)
	assert.False(t, s.Partial)
	require.Len(t, s.Allocations, 2)
	assert.False(t, s.Allocations[0].Current)
	assert.True(t, s.Allocations[1].Current)
	assert.True(t, s.AllocatedTotal.Equal(d("140")))
	assert.True(t, s.Unallocated().Equal(d("10")))
}

func TestPaymentSpread_FallsBackToDetailOnly(t *testing.T) {
	fp := &fakePayments{payment: &models.Payment{ID: "p1", Amount: d("50")}, allocErr: errors.New("allocations down")}
	r := NewReconciler(&fakeBilling{}, fp)

	s, err := r.PaymentSpread(context.Background(), "p1", "i1")
	require.NoError(t, err)
	assert.True(t, s.Partial)
	assert.Empty(t, s.Allocations)
	assert.Equal(t, models.ID("p1"), s.Payment.ID)
	assert.Equal(t, 2, fp.gets, "detail is retried alone")
}

func TestPaymentSpread_ErrorWhenDetailFailsTwice(t *testing.T) {
	boom := errors.New("payments down")
	fp := &fakePayments{getErrs: []error{boom, boom}}
	r := NewReconciler(&fakeBilling{}, fp)

	_, err := r.PaymentSpread(context.Background(), "p1", "i1")
	assert.ErrorIs(t, err, boom)
}

func TestUnitStatement(t *testing.T) {
	fb := &fakeBilling{
		balance:  &models.UnitBalance{UnitID: "u1", Balance: d("45")},
		invoices: []models.Invoice{{ID: "i1", Amount: d("45")}},
	}
	r := NewReconciler(fb, &fakePayments{})
	st, err := r.UnitStatement(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, st.Solvent())
	assert.Len(t, st.Pending, 1)
	assert.Equal(t, api.InvoiceFilter{UnitID: "u1", Status: models.InvoicePending}, fb.lastFilter)
}

type fakeUnits struct {
	units []models.Unit
	err   error
}

func (f fakeUnits) Units(context.Context, models.ID) ([]models.Unit, error) { return f.units, f.err }

type fakeUsers struct{ users []models.User }

func (f fakeUsers) List(context.Context, api.UserFilter) ([]models.User, error) { return f.users, nil }

func TestDashboard_Aggregates(t *testing.T) {
	units := fakeUnits{units: []models.Unit{{ID: "u1", Name: "1A"}, {ID: "u2", Name: "1B"}, {ID: "u3", Name: "2A"}}}
	users := fakeUsers{users: []models.User{{ID: "r1"}, {ID: "r2"}}}
	billing := &fakeBilling{invoices: []models.Invoice{
		{ID: "i1", UnitID: "u1", Amount: d("100"), PaidAmount: d("100"), Status: models.InvoicePaid},
		{ID: "i2", UnitID: "u2", Amount: d("100"), PaidAmount: d("25"), Status: models.InvoicePending},
		{ID: "i3", UnitID: "u2", Amount: d("50"), PaidAmount: d("0"), Status: models.InvoicePending},
		{ID: "i4", UnitID: "u3", Amount: d("70"), PaidAmount: d("0"), Status: models.InvoiceCancelled},
	}}
	payments := &fakePayments{list: []models.Payment{{ID: "p1", Amount: d("30")}, {ID: "p2", Amount: d("12.5")}}}

	dash := NewDashboardService(units, users, billing, payments).Build(context.Background(), "b1")

	assert.Equal(t, 3, dash.Units)
	assert.Equal(t, 2, dash.Residents)
	assert.Equal(t, 4, dash.Invoices)
	assert.Equal(t, 2, dash.PendingInvoices)
	assert.True(t, dash.Billed.Equal(d("250")))
	assert.True(t, dash.Collected.Equal(d("125")))
	assert.True(t, dash.Outstanding.Equal(d("125")))
	assert.True(t, dash.CollectionRate.Equal(d("50")))
	assert.Equal(t, 2, dash.PendingPayments)
	assert.True(t, dash.PendingPaymentsTotal.Equal(d("42.5")))
	assert.Equal(t, 2, dash.SolventUnits)
	require.Len(t, dash.UnitSolvency, 3)
	assert.Equal(t, models.ID("u2"), dash.UnitSolvency[0].Unit.ID)
	assert.Equal(t, 2, dash.UnitSolvency[0].Pending)
	assert.Len(t, dash.RecentInvoices, 4)
}

func TestDashboard_PartialFailuresDegrade(t *testing.T) {
	units := fakeUnits{err: errors.New("units down")}
	billing := &fakeBilling{invoicesErr: errors.New("billing down")}
	dash := NewDashboardService(units, fakeUsers{}, billing, &fakePayments{}).Build(context.Background(), "b1")

	assert.Zero(t, dash.Units)
	assert.Zero(t, dash.Invoices)
	assert.True(t, dash.CollectionRate.IsZero())
	assert.True(t, dash.Outstanding.IsZero())
}

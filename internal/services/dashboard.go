package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/models"
)

type UnitLister interface {
	Units(ctx context.Context, buildingID models.ID) ([]models.Unit, error)
}

type UserLister interface {
	List(ctx context.Context, f api.UserFilter) ([]models.User, error)
}

// UnitSolvency is one unit's position in the dashboard.
type UnitSolvency struct {
	Unit        models.Unit
	Outstanding decimal.Decimal
	Pending     int
}

func (u UnitSolvency) Solvent() bool { return !u.Outstanding.IsPositive() }

type Dashboard struct {
	BuildingID           models.ID
	Units                int
	Residents            int
	Invoices             int
	PendingInvoices      int
	Billed               decimal.Decimal
	Collected            decimal.Decimal
	Outstanding          decimal.Decimal
	CollectionRate       decimal.Decimal
	PendingPayments      int
	PendingPaymentsTotal decimal.Decimal
	SolventUnits         int
	UnitSolvency         []UnitSolvency
	RecentInvoices       []models.Invoice
}

type DashboardService struct {
	units    UnitLister
	users    UserLister
	billing  BillingReader
	payments PaymentReader
}

func NewDashboardService(units UnitLister, users UserLister, billing BillingReader, payments PaymentReader) *DashboardService {
	return &DashboardService{units: units, users: users, billing: billing, payments: payments}
}

const recentInvoices = 5

// Build aggregates the building's figures. The four fetches run concurrently;
// any that fails is logged and counts as empty.
func (s *DashboardService) Build(ctx context.Context, buildingID models.ID) *Dashboard {
	var (
		units     []models.Unit
		residents []models.User
		invoices  []models.Invoice
		pending   []models.Payment
	)
	logFailure := func(what string, err error) {
		if err != nil {
			logging.Logger.WithError(err).WithField("building", buildingID).Warnf("dashboard: %s unavailable", what)
		}
	}

	eg := new(errgroup.Group)
	if buildingID != "" {
		eg.Go(func() error {
			var err error
			units, err = s.units.Units(ctx, buildingID)
			logFailure("units", err)
			return nil
		})
	}
	eg.Go(func() error {
		var err error
		residents, err = s.users.List(ctx, api.UserFilter{BuildingID: buildingID, Role: models.RoleResident})
		logFailure("residents", err)
		return nil
	})
	eg.Go(func() error {
		var err error
		invoices, err = s.billing.Invoices(ctx, api.InvoiceFilter{BuildingID: buildingID})
		logFailure("invoices", err)
		return nil
	})
	eg.Go(func() error {
		var err error
		pending, err = s.payments.List(ctx, api.PaymentFilter{BuildingID: buildingID, Status: models.PaymentPending})
		logFailure("payments", err)
		return nil
	})
	_ = eg.Wait()

	return aggregate(buildingID, units, residents, invoices, pending)
}

func aggregate(buildingID models.ID, units []models.Unit, residents []models.User, invoices []models.Invoice, pending []models.Payment) *Dashboard {
	d := &Dashboard{
		BuildingID:           buildingID,
		Units:                len(units),
		Residents:            len(residents),
		Invoices:             len(invoices),
		Billed:               decimal.Zero,
		Collected:            decimal.Zero,
		Outstanding:          decimal.Zero,
		CollectionRate:       decimal.Zero,
		PendingPaymentsTotal: decimal.Zero,
		PendingPayments:      len(pending),
	}

	byUnit := make(map[models.ID]*UnitSolvency, len(units))
	for _, u := range units {
		byUnit[u.ID] = &UnitSolvency{Unit: u, Outstanding: decimal.Zero}
	}

	for _, inv := range invoices {
		if inv.Status == models.InvoiceCancelled {
			continue
		}
		d.Billed = d.Billed.Add(inv.Amount)
		d.Collected = d.Collected.Add(inv.PaidAmount)
		owed := inv.Outstanding()
		d.Outstanding = d.Outstanding.Add(owed)
		if inv.Status == models.InvoicePending {
			d.PendingInvoices++
		}
		if us, ok := byUnit[inv.UnitID]; ok && owed.IsPositive() {
			us.Outstanding = us.Outstanding.Add(owed)
			us.Pending++
		}
	}
	if d.Billed.IsPositive() {
		d.CollectionRate = d.Collected.Div(d.Billed).Mul(hundred).Round(1)
	}
	for _, p := range pending {
		d.PendingPaymentsTotal = d.PendingPaymentsTotal.Add(p.Amount)
	}

	for _, u := range units {
		us := byUnit[u.ID]
		if us.Solvent() {
			d.SolventUnits++
		}
		d.UnitSolvency = append(d.UnitSolvency, *us)
	}
	sort.SliceStable(d.UnitSolvency, func(i, j int) bool {
		return d.UnitSolvency[i].Outstanding.GreaterThan(d.UnitSolvency[j].Outstanding)
	})

	recent := append([]models.Invoice(nil), invoices...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].IssueDate.After(recent[j].IssueDate.Time) })
	if len(recent) > recentInvoices {
		recent = recent[:recentInvoices]
	}
	d.RecentInvoices = recent
	return d
}

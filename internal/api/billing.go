package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diewo77/condo-admin/internal/models"
	"github.com/shopspring/decimal"
)

type BillingService struct{ c *Client }

type InvoiceFilter struct {
	BuildingID models.ID
	UnitID     models.ID
	Status     models.InvoiceStatus
}

func (f InvoiceFilter) query() url.Values {
	q := url.Values{}
	if f.BuildingID != "" {
		q.Set("building_id", f.BuildingID.String())
	}
	if f.UnitID != "" {
		q.Set("unit_id", f.UnitID.String())
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

// DebtInput asks the backend to issue one invoice per unit of a building
// for a period, split by aliquot.
type DebtInput struct {
	BuildingID  models.ID       `json:"building_id" form:"building_id" validate:"required"`
	Year        int             `json:"year" form:"year" validate:"required,gte=2000,lte=2100"`
	Month       int             `json:"month" form:"month" validate:"required,gte=1,lte=12"`
	Amount      decimal.Decimal `json:"amount" form:"amount"`
	DueDate     string          `json:"due_date,omitempty" form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Description string          `json:"description,omitempty" form:"description" validate:"max=255"`
}

type DebtResult struct {
	Created int `json:"created"`
}

func (s *BillingService) Invoices(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	return getList[models.Invoice](ctx, s.c, "/billing/invoices", f.query())
}

func (s *BillingService) Invoice(ctx context.Context, id models.ID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.c.get(ctx, "/billing/invoices/"+pathID(id), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// InvoicePayments lists the allocation rows paying into one invoice.
func (s *BillingService) InvoicePayments(ctx context.Context, id models.ID) ([]models.InvoicePayment, error) {
	return getList[models.InvoicePayment](ctx, s.c, "/billing/invoices/"+pathID(id)+"/payments", nil)
}

func (s *BillingService) UnitBalance(ctx context.Context, unitID models.ID) (*models.UnitBalance, error) {
	var b models.UnitBalance
	if err := s.c.get(ctx, "/billing/units/"+pathID(unitID)+"/balance", nil, &b); err != nil {
		return nil, err
	}
	if b.UnitID == "" {
		b.UnitID = unitID
	}
	return &b, nil
}

func (s *BillingService) GenerateDebt(ctx context.Context, in DebtInput) (*DebtResult, error) {
	var res DebtResult
	if err := s.c.do(ctx, http.MethodPost, "/billing/debt", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

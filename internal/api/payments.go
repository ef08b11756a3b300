package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diewo77/condo-admin/internal/models"
)

type PaymentService struct{ c *Client }

type PaymentFilter struct {
	BuildingID models.ID
	Status     models.PaymentStatus
}

func (f PaymentFilter) query() url.Values {
	q := url.Values{}
	if f.BuildingID != "" {
		q.Set("building_id", f.BuildingID.String())
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

type ReviewInput struct {
	Status models.PaymentStatus `json:"status" form:"status" validate:"required,oneof=APPROVED REJECTED"`
	Reason string               `json:"reason,omitempty" form:"reason" validate:"max=255"`
}

const adminPayments = "/payments/admin/payments"

func (s *PaymentService) List(ctx context.Context, f PaymentFilter) ([]models.Payment, error) {
	return getList[models.Payment](ctx, s.c, adminPayments, f.query())
}

func (s *PaymentService) Get(ctx context.Context, id models.ID) (*models.Payment, error) {
	var p models.Payment
	if err := s.c.get(ctx, adminPayments+"/"+pathID(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Allocations lists how a payment was spread across invoices.
func (s *PaymentService) Allocations(ctx context.Context, id models.ID) ([]models.Allocation, error) {
	return getList[models.Allocation](ctx, s.c, adminPayments+"/"+pathID(id)+"/allocations", nil)
}

// Review approves or rejects a pending payment.
func (s *PaymentService) Review(ctx context.Context, id models.ID, in ReviewInput) error {
	return s.c.do(ctx, http.MethodPatch, adminPayments+"/"+pathID(id), in, nil)
}

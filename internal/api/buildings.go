package api

import (
	"context"
	"net/http"

	"github.com/diewo77/condo-admin/internal/models"
	"github.com/shopspring/decimal"
)

type BuildingService struct{ c *Client }

type BuildingInput struct {
	Name       string           `json:"name" form:"name" validate:"required,max=120"`
	Address    string           `json:"address" form:"address" validate:"required,max=255"`
	RIF        string           `json:"rif,omitempty" form:"rif" validate:"omitempty,max=20"`
	MonthlyFee *decimal.Decimal `json:"monthly_fee,omitempty" form:"monthly_fee"`
}

type UnitInput struct {
	Name    string          `json:"name" form:"name" validate:"required,max=40"`
	Floor   string          `json:"floor" form:"floor" validate:"max=20"`
	Aliquot decimal.Decimal `json:"aliquot" form:"aliquot"`
}

func (s *BuildingService) List(ctx context.Context) ([]models.Building, error) {
	return getList[models.Building](ctx, s.c, "/buildings", nil)
}

func (s *BuildingService) Get(ctx context.Context, id models.ID) (*models.Building, error) {
	var b models.Building
	if err := s.c.get(ctx, "/buildings/"+pathID(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BuildingService) Create(ctx context.Context, in BuildingInput) (*models.Building, error) {
	var b models.Building
	if err := s.c.do(ctx, http.MethodPost, "/buildings", in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BuildingService) Update(ctx context.Context, id models.ID, in BuildingInput) (*models.Building, error) {
	var b models.Building
	if err := s.c.do(ctx, http.MethodPut, "/buildings/"+pathID(id), in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BuildingService) Delete(ctx context.Context, id models.ID) error {
	return s.c.do(ctx, http.MethodDelete, "/buildings/"+pathID(id), nil, nil)
}

func (s *BuildingService) Units(ctx context.Context, buildingID models.ID) ([]models.Unit, error) {
	return getList[models.Unit](ctx, s.c, "/buildings/"+pathID(buildingID)+"/units", nil)
}

func (s *BuildingService) CreateUnit(ctx context.Context, buildingID models.ID, in UnitInput) (*models.Unit, error) {
	var u models.Unit
	if err := s.c.do(ctx, http.MethodPost, "/buildings/"+pathID(buildingID)+"/units", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diewo77/condo-admin/internal/models"
)

type UserService struct{ c *Client }

type UserFilter struct {
	BuildingID models.ID
	Role       models.Role
	Status     models.UserStatus
}

func (f UserFilter) query() url.Values {
	q := url.Values{}
	if f.BuildingID != "" {
		q.Set("building_id", f.BuildingID.String())
	}
	if f.Role != "" {
		q.Set("role", string(f.Role))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

// UserInput is the create/update payload. Password is only sent when set.
type UserInput struct {
	Name       string    `json:"name" form:"name" validate:"required,max=120"`
	Email      string    `json:"email" form:"email" validate:"required,email"`
	Role       string    `json:"role" form:"role" validate:"required,oneof=resident board admin"`
	Status     string    `json:"status,omitempty" form:"status" validate:"omitempty,oneof=pending active inactive rejected"`
	Password   string    `json:"password,omitempty" form:"password" validate:"omitempty,min=8"`
	BuildingID models.ID `json:"building_id,omitempty" form:"building_id"`
	UnitID     models.ID `json:"unit_id,omitempty" form:"unit_id"`
}

func (s *UserService) List(ctx context.Context, f UserFilter) ([]models.User, error) {
	return getList[models.User](ctx, s.c, "/users", f.query())
}

func (s *UserService) Get(ctx context.Context, id models.ID) (*models.User, error) {
	var u models.User
	if err := s.c.get(ctx, "/users/"+pathID(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	var u models.User
	if err := s.c.do(ctx, http.MethodPost, "/users", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Update(ctx context.Context, id models.ID, in UserInput) (*models.User, error) {
	var u models.User
	if err := s.c.do(ctx, http.MethodPatch, "/users/"+pathID(id), in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetStatus approves, rejects or deactivates an account.
func (s *UserService) SetStatus(ctx context.Context, id models.ID, status models.UserStatus) error {
	body := map[string]string{"status": string(status)}
	return s.c.do(ctx, http.MethodPatch, "/users/"+pathID(id), body, nil)
}

func (s *UserService) Delete(ctx context.Context, id models.ID) error {
	return s.c.do(ctx, http.MethodDelete, "/users/"+pathID(id), nil, nil)
}

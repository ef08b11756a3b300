package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/condo-admin/internal/models"
)

type AuthService struct{ c *Client }

type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResult is what the backend hands back on a successful sign-in.
type LoginResult struct {
	Token string
	User  models.User
}

// Login exchanges credentials for a bearer token. Both access_token and
// token are accepted as the token field.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var resp struct {
		AccessToken string      `json:"access_token"`
		Token       string      `json:"token"`
		User        models.User `json:"user"`
	}
	if err := s.c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}
	if token == "" {
		return nil, errors.New("POST /auth/login: response carries no token")
	}
	return &LoginResult{Token: token, User: resp.User}, nil
}

// Me returns the user owning the token in ctx.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := s.c.get(ctx, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

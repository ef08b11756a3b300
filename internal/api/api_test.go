package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/condo-admin/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T, h http.HandlerFunc) *Services {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewServices(NewClient(srv.URL, 5*time.Second, nil))
}

func TestLoginAcceptsBothTokenFields(t *testing.T) {
	for _, field := range []string{"access_token", "token"} {
		t.Run(field, func(t *testing.T) {
			svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "POST /auth/login", r.Method+" "+r.URL.Path)
				var creds Credentials
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "ana@example.com", creds.Email)
				_ = json.NewEncoder(w).Encode(map[string]any{
					field:  "tok-123",
					"user": map[string]any{"id": 1, "role": "admin", "status": "active"},
				})
			})
			res, err := svc.Auth.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "secret"})
			require.NoError(t, err)
			assert.Equal(t, "tok-123", res.Token)
			assert.Equal(t, models.ID("1"), res.User.ID)
		})
	}
}

func TestBearerTokenIsSent(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-xyz", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":"u1","role":"board","status":"active"}`)
	})
	ctx := WithToken(context.Background(), "tok-xyz")
	u, err := svc.Auth.Me(ctx)
	require.NoError(t, err)
	assert.True(t, u.IsBoard())
}

func TestListUnwrapping(t *testing.T) {
	bodies := map[string]string{
		"bare":  `[{"id":"b1","name":"Torre A"},{"id":"b2","name":"Torre B"}]`,
		"data":  `{"data":[{"id":"b1","name":"Torre A"},{"id":"b2","name":"Torre B"}],"total":2}`,
		"items": `{"items":[{"id":"b1","name":"Torre A"},{"id":"b2","name":"Torre B"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			got, err := svc.Buildings.List(context.Background())
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "Torre B", got[1].Name)
		})
	}
}

func TestSingleResourceWrappedInData(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/billing/invoices/42", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{"id":42,"number":"F-0042","amount":"100","paid_amount":"25"}}`)
	})
	inv, err := svc.Billing.Invoice(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "F-0042", inv.Number)
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(25)))
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message string", 400, `{"message":"Email already taken"}`, "Email already taken"},
		{"message list", 422, `{"message":["name should not be empty","email must be an email"]}`, "name should not be empty; email must be an email"},
		{"error field", 409, `{"error":"Conflict detected"}`, "Conflict detected"},
		{"detail field", 400, `{"detail":"Bad period"}`, "Bad period"},
		{"no body", 500, ``, "Internal Server Error"},
		{"non json", 502, `<html>gateway</html>`, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := svc.Users.Create(context.Background(), UserInput{Name: "x"})
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, "POST /users", apiErr.Endpoint)
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestUnauthorizedIsMatchable(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Token expired"}`)
	})
	_, err := svc.Auth.Me(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFiltersAndMutations(t *testing.T) {
	var seen []string
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		switch r.Method {
		case http.MethodPatch:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"status":"APPROVED"}`, string(body))
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	})
	ctx := context.Background()

	_, err := svc.Billing.Invoices(ctx, InvoiceFilter{BuildingID: "b1", Status: models.InvoicePending})
	require.NoError(t, err)
	_, err = svc.Payments.List(ctx, PaymentFilter{Status: models.PaymentPending})
	require.NoError(t, err)
	require.NoError(t, svc.Payments.Review(ctx, "p9", ReviewInput{Status: models.PaymentApproved}))

	assert.Equal(t, []string{
		"GET /billing/invoices?building_id=b1&status=PENDING",
		"GET /payments/admin/payments?status=PENDING",
		"PATCH /payments/admin/payments/p9",
	}, seen)
}

func TestUnitBalanceFillsUnitID(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"total_invoiced":"300","total_paid":"300","balance":"0"}`)
	})
	b, err := svc.Billing.UnitBalance(context.Background(), "u7")
	require.NoError(t, err)
	assert.Equal(t, models.ID("u7"), b.UnitID)
	assert.True(t, b.Solvent())
}

func TestContextCancellationAbortsCall(t *testing.T) {
	release := make(chan struct{})
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Buildings.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/billing/invoices/:id/payments", routeLabel("/billing/invoices/123/payments"))
	assert.Equal(t, "/payments/admin/payments/:id", routeLabel("/payments/admin/payments/3f2a9c1e-8b7d-4e6f-9a0b-1c2d3e4f5a6b"))
	assert.Equal(t, "/users/me", routeLabel("/users/me?x=1"))
}

package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/condo-admin/i18n"
	"github.com/diewo77/condo-admin/internal/models"
)

func TestMoney(t *testing.T) {
	cases := map[string]any{
		"0.00":          decimal.Zero,
		"1,234.50":      decimal.RequireFromString("1234.5"),
		"-1,000,000.00": decimal.NewFromInt(-1000000),
		"12.00":         12,
		"999.99":        999.99,
		"":              (*decimal.Decimal)(nil),
	}
	for want, in := range cases {
		assert.Equal(t, want, Money(in))
	}
}

func TestRenderLoginUsesRequestLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(i18n.WithLang(req.Context(), "en"))
	rr := httptest.NewRecorder()

	require.NoError(t, RenderStatus(rr, req, http.StatusOK, "login.html", map[string]any{"Email": "a@b.c"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Sign in")
	assert.Contains(t, body, `value="a@b.c"`)
	assert.NotContains(t, body, "/logout")
}

func TestRenderStatusShowsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rr := httptest.NewRecorder()

	err := RenderStatus(rr, req, http.StatusUnprocessableEntity, "login.html", map[string]any{
		"Errors": map[string]string{"email": "invalid_email"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Correo inválido")
}

func TestLayoutNavFollowsPermissions(t *testing.T) {
	SetCanResolver(func(_ *http.Request, resource, action string) bool {
		return resource == "building" && action == "list"
	})
	SetDefaultsResolver(func(http.ResponseWriter, *http.Request) map[string]any {
		return map[string]any{"User": &models.User{Name: "Ana", Role: models.RoleBoard}}
	})
	t.Cleanup(func() {
		canResolver = nil
		SetDefaultsResolver(nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	require.NoError(t, RenderStatus(rr, req, http.StatusOK, "dashboard.html", map[string]any{"Empty": true}))

	body := rr.Body.String()
	assert.Contains(t, body, `href="/buildings"`)
	assert.NotContains(t, body, `href="/users"`)
	assert.Contains(t, body, "Ana")
	assert.Contains(t, body, "Junta de condominio")
	assert.Contains(t, body, "/logout")
}

func TestRenderUnknownTemplate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	assert.Error(t, RenderStatus(rr, req, http.StatusOK, "missing.html", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestStatusAndDictFuncs(t *testing.T) {
	f := Funcs(nil)
	assert.Equal(t, "Pendiente", f["status"].(func(any) string)(models.InvoicePending))
	d := f["dict"].(func(...any) map[string]any)("a", 1, "b", "x")
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, d)
	assert.Nil(t, f["dict"].(func(...any) map[string]any)("odd"))
}

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/condo-admin/internal/config"
	"github.com/diewo77/condo-admin/internal/db"
)

const boardLogin = `{"access_token":"tok-1","user":{"id":"u1","name":"Ana","role":"board","status":"active",
"units":[{"unit_id":"10","unit_name":"1A","building_id":"b1","building_name":"Torre Norte","building_role":"board","is_primary":true}]}}`

// fakeBackend answers the endpoints the dashboard flow touches.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/auth/login" {
			_, _ = io.WriteString(w, boardLogin)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"invalid token"}`)
			return
		}
		switch r.URL.Path {
		case "/buildings/b1/units":
			_, _ = io.WriteString(w, `[{"id":"10","name":"1A","aliquot":"50","building_id":"b1"},{"id":"11","name":"1B","aliquot":"50","building_id":"b1"}]`)
		case "/users":
			_, _ = io.WriteString(w, `{"data":[{"id":"u2","name":"Luis","role":"resident","status":"active"}]}`)
		case "/billing/invoices":
			_, _ = io.WriteString(w, `[{"id":"i1","number":"F-1","amount":"100","paid_amount":"25","status":"PENDING","unit_id":"10"}]`)
		case "/payments/admin/payments":
			_, _ = io.WriteString(w, `{"items":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"not found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupApp(t *testing.T) *App {
	t.Helper()
	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:app_"+name+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	cfg := config.Load()
	cfg.API.BaseURL = fakeBackend(t).URL
	cfg.API.Timeout = 5 * time.Second
	cfg.Session.Refresh = time.Hour
	cfg.Server.CORSOrigins = nil
	return NewApp(cfg, conn)
}

func serve(app http.Handler, method, target string, body string, cookies []*http.Cookie, jsonClient bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if jsonClient {
		req.Header.Set("Accept", "application/json")
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	return rr
}

func sessionCookies(rr *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			out = append(out, c)
		}
	}
	return out
}

func TestBoardDashboardFlowE2E(t *testing.T) {
	app := setupApp(t)

	rr := serve(app, http.MethodGet, "/dashboard", "", nil, true)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(app, http.MethodPost, "/login", `{"email":"ana@example.com","password":"secret"}`, nil, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cookies := sessionCookies(rr)
	require.Len(t, cookies, 1)

	rr = serve(app, http.MethodGet, "/dashboard", "", cookies, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var dash map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dash))
	assert.Equal(t, "b1", dash["BuildingID"])
	assert.EqualValues(t, 2, dash["Units"])
	assert.EqualValues(t, 1, dash["Residents"])
	assert.Equal(t, "75", dash["Outstanding"])
	assert.Equal(t, "25", dash["Collected"])

	rr = serve(app, http.MethodGet, "/dashboard", "", cookies, false)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Torre Norte")
	assert.Contains(t, body, "F-1")
	assert.Contains(t, body, `href="/users"`)

	rr = serve(app, http.MethodGet, "/buildings/new", "", cookies, true)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = serve(app, http.MethodPost, "/logout", "", cookies, true)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = serve(app, http.MethodGet, "/dashboard", "", cookies, true)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupApp(t)

	rr := serve(app, http.MethodGet, "/health", "", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	rr = serve(app, http.MethodGet, "/metrics", "", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `condo_admin_http_requests_total{method="GET",route="GET /health",status="200"} 1`)
}

func TestLanguagePreference(t *testing.T) {
	app := setupApp(t)

	rr := serve(app, http.MethodGet, "/login?lang=en", "", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Sign in")
	var langCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "lang" {
			langCookie = c
		}
	}
	require.NotNil(t, langCookie)

	rr = serve(app, http.MethodGet, "/login", "", []*http.Cookie{langCookie}, false)
	assert.Contains(t, rr.Body.String(), "Sign in")

	rr = serve(app, http.MethodGet, "/login", "", nil, false)
	assert.Contains(t, rr.Body.String(), "Iniciar sesión")
}

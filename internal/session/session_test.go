package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Session{}))
	return db
}

type fakeAuth struct {
	login    *api.LoginResult
	loginErr error
	me       *models.User
	meErr    error
	meCalls  int
	meToken  string
}

func (f *fakeAuth) Login(context.Context, api.Credentials) (*api.LoginResult, error) {
	return f.login, f.loginErr
}

func (f *fakeAuth) Me(ctx context.Context) (*models.User, error) {
	f.meCalls++
	f.meToken, _ = api.TokenFromContext(ctx)
	return f.me, f.meErr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()}).
		SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func newProvider(db *gorm.DB, fa *fakeAuth) *Provider {
	return NewProvider(db, fa, Options{TokenKey: "k", TTL: time.Hour, Refresh: 5 * time.Minute})
}

func TestLogin_DeniesRolesOutsidePanel(t *testing.T) {
	for _, role := range []models.Role{models.RoleResident, "owner", ""} {
		t.Run(string(role), func(t *testing.T) {
			db := setupTestDB(t)
			fa := &fakeAuth{login: &api.LoginResult{Token: "tok", User: models.User{ID: "1", Role: role, Status: models.StatusActive}}}
			p := newProvider(db, fa)

			st, err := p.Login(context.Background(), "r@example.com", "pw")
			assert.ErrorIs(t, err, ErrAccessDenied)
			assert.Nil(t, st)

			n, err := p.store.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n, "no session must be persisted")
		})
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	db := setupTestDB(t)
	fa := &fakeAuth{login: &api.LoginResult{Token: "tok", User: models.User{ID: "1", Role: models.RoleBoard, Status: models.StatusPending}}}
	p := newProvider(db, fa)

	_, err := p.Login(context.Background(), "b@example.com", "pw")
	assert.ErrorIs(t, err, ErrAccountStatus)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.StatusPending, se.Status)

	n, _ := p.store.Count(context.Background())
	assert.Zero(t, n)
}

func TestLogin_BackendErrorPassesThrough(t *testing.T) {
	db := setupTestDB(t)
	fa := &fakeAuth{loginErr: &api.Error{Status: 401, Message: "Invalid credentials", Endpoint: "POST /auth/login"}}
	p := newProvider(db, fa)

	_, err := p.Login(context.Background(), "x@example.com", "bad")
	assert.Equal(t, "Invalid credentials", api.Message(err))
}

func TestLogin_PersistsEncryptedTokenWithJWTExpiry(t *testing.T) {
	db := setupTestDB(t)
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := signedToken(t, exp)
	fa := &fakeAuth{login: &api.LoginResult{Token: token, User: models.User{ID: "1", Role: "SuperAdmin", Status: "active"}}}
	p := newProvider(db, fa)

	st, err := p.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, st.ExpiresAt.Equal(exp), "expiry from exp claim")

	row, err := p.store.Get(context.Background(), st.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(row.TokenCiphertext), token)

	cur, err := p.Current(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, token, cur.Token)
	assert.True(t, cur.User.IsAdmin())
	assert.Zero(t, fa.meCalls, "fresh snapshot needs no refresh")
}

func TestCurrent_ExpiredSessionIsRemoved(t *testing.T) {
	db := setupTestDB(t)
	fa := &fakeAuth{login: &api.LoginResult{Token: "opaque", User: models.User{ID: "1", Role: "board", Status: "active"}}}
	p := newProvider(db, fa)
	st, err := p.Login(context.Background(), "b@example.com", "pw")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.Current(context.Background(), st.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = p.store.Get(context.Background(), st.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCurrent_RefreshesStaleSnapshot(t *testing.T) {
	db := setupTestDB(t)
	fa := &fakeAuth{
		login: &api.LoginResult{Token: "opaque", User: models.User{ID: "1", Name: "Old", Role: "board", Status: "active"}},
		me:    &models.User{ID: "1", Name: "New", Role: "board", Status: "active"},
	}
	p := newProvider(db, fa)
	st, err := p.Login(context.Background(), "b@example.com", "pw")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	cur, err := p.Current(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", cur.User.Name)
	assert.Equal(t, 1, fa.meCalls)
	assert.Equal(t, "opaque", fa.meToken)
}

func TestCurrent_UnauthorizedRefreshForcesLogout(t *testing.T) {
	db := setupTestDB(t)
	fa := &fakeAuth{
		login: &api.LoginResult{Token: "opaque", User: models.User{ID: "1", Role: "admin", Status: "active"}},
		meErr: &api.Error{Status: http.StatusUnauthorized, Message: "expired", Endpoint: "GET /users/me"},
	}
	p := newProvider(db, fa)
	st, err := p.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	_, err = p.Current(context.Background(), st.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	n, _ := p.store.Count(context.Background())
	assert.Zero(t, n)
}

func TestCurrent_OtherRefreshErrorsKeepSnapshot(t *testing.T) {
	db := setupTestDB(t)
	fa := &fakeAuth{
		login: &api.LoginResult{Token: "opaque", User: models.User{ID: "1", Name: "Kept", Role: "admin", Status: "active"}},
		meErr: errors.New("connection refused"),
	}
	p := newProvider(db, fa)
	st, err := p.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	cur, err := p.Current(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kept", cur.User.Name)
}

func TestSelectBuildingAndLogout(t *testing.T) {
	db := setupTestDB(t)
	fa := &fakeAuth{login: &api.LoginResult{Token: "opaque", User: models.User{ID: "1", Role: "admin", Status: "active"}}}
	p := newProvider(db, fa)
	st, err := p.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, p.SelectBuilding(context.Background(), st.ID, "b7"))
	cur, err := p.Current(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ID("b7"), cur.SelectedBuildingID)

	require.NoError(t, p.Logout(context.Background(), st.ID))
	require.NoError(t, p.Logout(context.Background(), st.ID))
	_, err = p.Current(context.Background(), st.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestTokenCipherBindsSessionID(t *testing.T) {
	c := newTokenCipher("key")
	sealed, err := c.seal("s1", "secret-token")
	require.NoError(t, err)

	plain, err := c.open("s1", sealed)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", plain)

	_, err = c.open("s2", sealed)
	assert.Error(t, err)
	_, err = newTokenCipher("other").open("s1", sealed)
	assert.Error(t, err)
}

func TestTokenExpiryFallback(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(time.Hour), tokenExpiry("not-a-jwt", now, time.Hour))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), tokenExpiry(noExp, now, time.Hour))
}

func TestMiddleware(t *testing.T) {
	db := setupTestDB(t)
	fa := &fakeAuth{login: &api.LoginResult{Token: "opaque", User: models.User{ID: "1", Role: "admin", Status: "active"}}}
	p := newProvider(db, fa)
	st, err := p.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	var seen *State
	h := auth.Middleware(p.Middleware(RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		tok, _ := api.TokenFromContext(r.Context())
		assert.Equal(t, "opaque", tok)
	}))))

	// cookie for a live session
	cw := httptest.NewRecorder()
	auth.CreateSession(cw, st.ID, st.ExpiresAt)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cw.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.NotNil(t, seen)
	assert.Equal(t, st.ID, seen.ID)

	// same cookie after logout: redirected and cookie cleared
	require.NoError(t, p.Logout(context.Background(), st.ID))
	seen = nil
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

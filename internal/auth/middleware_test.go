package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minifigstore/api/internal/user"
)

func TestAuthenticate_NoCredentials(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	counter := &countingUsers{Repository: e.users}
	e.gate.Users = counter

	next := &okHandler{}
	rec := httptest.NewRecorder()
	e.gate.Authenticate(next).ServeHTTP(rec, httptest.NewRequest("GET", "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.ran)
	assert.Zero(t, counter.findByID, "rejecting a bare request must not hit the database")
}

func TestAuthenticate_ValidAccessCookie(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	access, err := e.codec.IssueAccess(u.ID)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: access})

	next := &okHandler{}
	rec := httptest.NewRecorder()
	e.gate.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, next.hasUser)
	assert.Equal(t, u.ID, next.identity.ID)
	assert.Equal(t, u.Email, next.identity.Email)
}

func TestAuthenticate_BearerFallback(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	access, err := e.codec.IssueAccess(u.ID)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)

	next := &okHandler{}
	rec := httptest.NewRecorder()
	e.gate.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, next.ran)
}

func TestAuthenticate_InactiveAccount(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t, func(u *user.User) { u.IsActive = false })

	access, err := e.codec.IssueAccess(u.ID)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: access})

	next := &okHandler{}
	rec := httptest.NewRecorder()
	e.gate.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, next.ran)
}

// Expired access + valid, matching, unexpired refresh: the request succeeds,
// both cookies are rewritten and the stored refresh token changes.
func TestAuthenticate_SilentRenewalRotates(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	refresh, err := e.codec.IssueRefresh(u.ID)
	require.NoError(t, err)
	require.NoError(t, e.users.SetRefreshToken(e.db, u.ID, refresh, time.Now().Add(7*24*time.Hour)))

	expiredAccess, err := signToken(u.ID, e.codec.accessSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh})

	next := &okHandler{}
	rec := httptest.NewRecorder()
	e.gate.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, next.hasUser)
	assert.Equal(t, u.ID, next.identity.ID)

	newAccess := cookieByName(t, rec, AccessCookie)
	newRefresh := cookieByName(t, rec, RefreshCookie)
	require.NotNil(t, newAccess)
	require.NotNil(t, newRefresh)
	assert.NotEqual(t, expiredAccess, newAccess.Value)
	assert.NotEqual(t, refresh, newRefresh.Value)

	stored := e.reload(t, u.ID)
	require.NotNil(t, stored.RefreshToken)
	assert.NotEqual(t, refresh, *stored.RefreshToken)
	assert.Equal(t, newRefresh.Value, *stored.RefreshToken)
}

// Replaying the pre-rotation refresh token is an anomaly: rejected, and the
// stored pair is cleared so the session is dead for good.
func TestAuthenticate_RefreshReuseRevokes(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	oldRefresh, err := e.codec.IssueRefresh(u.ID)
	require.NoError(t, err)
	require.NoError(t, e.users.SetRefreshToken(e.db, u.ID, oldRefresh, time.Now().Add(7*24*time.Hour)))

	expiredAccess, err := signToken(u.ID, e.codec.accessSecret, -time.Minute)
	require.NoError(t, err)

	// First renewal rotates.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: oldRefresh})
	rec := httptest.NewRecorder()
	e.gate.Authenticate(&okHandler{}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Replay of the old token must fail and revoke.
	replay := httptest.NewRequest("GET", "/", nil)
	replay.AddCookie(&http.Cookie{Name: AccessCookie, Value: expiredAccess})
	replay.AddCookie(&http.Cookie{Name: RefreshCookie, Value: oldRefresh})
	next := &okHandler{}
	rec = httptest.NewRecorder()
	e.gate.Authenticate(next).ServeHTTP(rec, replay)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.ran)

	stored := e.reload(t, u.ID)
	assert.Nil(t, stored.RefreshToken)
	assert.Nil(t, stored.RefreshTokenExpiry)
}

func TestAuthenticate_StoredExpiryInPast(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	refresh, err := e.codec.IssueRefresh(u.ID)
	require.NoError(t, err)
	require.NoError(t, e.users.SetRefreshToken(e.db, u.ID, refresh, time.Now().Add(-time.Second)))

	expiredAccess, err := signToken(u.ID, e.codec.accessSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh})

	rec := httptest.NewRecorder()
	e.gate.Authenticate(&okHandler{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	stored := e.reload(t, u.ID)
	assert.Nil(t, stored.RefreshToken)
	assert.Nil(t, stored.RefreshTokenExpiry)

	// Both cookies were expired along with the session.
	for _, name := range []string{AccessCookie, RefreshCookie} {
		c := cookieByName(t, rec, name)
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestAuthenticate_StoredExpiryJustAhead(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	refresh, err := e.codec.IssueRefresh(u.ID)
	require.NoError(t, err)
	require.NoError(t, e.users.SetRefreshToken(e.db, u.ID, refresh, time.Now().Add(time.Second)))

	expiredAccess, err := signToken(u.ID, e.codec.accessSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh})

	rec := httptest.NewRecorder()
	e.gate.Authenticate(&okHandler{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// A verifiable refresh token that is not the stored one clears the stored
// pair before rejecting.
func TestAuthenticate_RefreshMismatchRevokes(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	stored, err := e.codec.IssueRefresh(u.ID)
	require.NoError(t, err)
	require.NoError(t, e.users.SetRefreshToken(e.db, u.ID, stored, time.Now().Add(7*24*time.Hour)))

	presented, err := e.codec.IssueRefresh(u.ID)
	require.NoError(t, err)
	require.NotEqual(t, stored, presented)

	expiredAccess, err := signToken(u.ID, e.codec.accessSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: presented})

	rec := httptest.NewRecorder()
	e.gate.Authenticate(&okHandler{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	reloaded := e.reload(t, u.ID)
	assert.Nil(t, reloaded.RefreshToken)
	assert.Nil(t, reloaded.RefreshTokenExpiry)
}

func TestAuthenticate_ExpiredAccessWithoutRefresh(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	expiredAccess, err := signToken(u.ID, e.codec.accessSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expiredAccess})

	rec := httptest.NewRecorder()
	e.gate.Authenticate(&okHandler{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InactiveAccountDuringRenewal(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t, func(u *user.User) { u.IsActive = false })

	refresh, err := e.codec.IssueRefresh(u.ID)
	require.NoError(t, err)
	require.NoError(t, e.users.SetRefreshToken(e.db, u.ID, refresh, time.Now().Add(7*24*time.Hour)))

	expiredAccess, err := signToken(u.ID, e.codec.accessSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh})

	rec := httptest.NewRecorder()
	e.gate.Authenticate(&okHandler{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	u := e.seedUser(t)

	// Anonymous passes through without identity.
	next := &okHandler{}
	rec := httptest.NewRecorder()
	e.gate.OptionalAuth(next).ServeHTTP(rec, httptest.NewRequest("GET", "/api/products", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, next.ran)
	assert.False(t, next.hasUser)

	// A valid token attaches identity.
	access, err := e.codec.IssueAccess(u.ID)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/api/products", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: access})
	next = &okHandler{}
	e.gate.OptionalAuth(next).ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, next.hasUser)
	assert.Equal(t, u.ID, next.identity.ID)

	// A broken token is ignored, not rejected.
	req = httptest.NewRequest("GET", "/api/products", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "garbage"})
	next = &okHandler{}
	rec = httptest.NewRecorder()
	e.gate.OptionalAuth(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, next.hasUser)
}

func withIdentity(r *http.Request, u user.SafeUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userCtxKey, u))
}

func TestRequireVerified(t *testing.T) {
	t.Parallel()

	next := &okHandler{}
	rec := httptest.NewRecorder()
	RequireVerified(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := withIdentity(httptest.NewRequest("GET", "/", nil), user.SafeUser{ID: 1, IsVerified: false})
	RequireVerified(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	next = &okHandler{}
	rec = httptest.NewRecorder()
	req = withIdentity(httptest.NewRequest("GET", "/", nil), user.SafeUser{ID: 1, IsVerified: true})
	RequireVerified(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, next.ran)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	guard := RequireRole(user.RoleAdmin, user.RoleSeller)

	rec := httptest.NewRecorder()
	req := withIdentity(httptest.NewRequest("GET", "/", nil), user.SafeUser{ID: 1, Role: user.RoleCustomer})
	guard(&okHandler{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	next := &okHandler{}
	rec = httptest.NewRecorder()
	req = withIdentity(httptest.NewRequest("GET", "/", nil), user.SafeUser{ID: 1, Role: user.RoleSeller})
	guard(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, next.ran)
}

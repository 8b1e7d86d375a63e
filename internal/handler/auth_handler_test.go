package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"digistore/internal/model"
	"digistore/internal/service"
)

type authFixture struct {
	auth    *MockAuthService
	users   *MockUserService
	carts   *MockCartService
	handler *AuthHandler
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		auth:  new(MockAuthService),
		users: new(MockUserService),
		carts: new(MockCartService),
	}
	f.handler = NewAuthHandler(f.auth, f.users, f.carts, false)
	return f
}

func cookiesByName(rec interface{ Result() *http.Response }) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, cookie := range rec.Result().Cookies() {
		out[cookie.Name] = cookie
	}
	return out
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("creates the user", func(t *testing.T) {
		f := newAuthFixture()
		user := &model.User{ID: 3, Name: "Ann", Email: "ann@example.com", Role: model.RoleCustomer}
		f.auth.On("Register", mock.Anything, "Ann", "ann@example.com", "secret1").Return(user, nil)

		c, rec := newTestContext(http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
		require.NoError(t, f.handler.Register(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got model.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, uint(3), got.ID)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newAuthFixture()
		f.auth.On("Register", mock.Anything, "Ann", "ann@example.com", "secret1").Return(nil, service.ErrUserAlreadyExists)

		c, _ := newTestContext(http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
		requireHTTPError(t, f.handler.Register(c), http.StatusConflict, "USER_ALREADY_EXISTS")
	})

	t.Run("short password is rejected before the service", func(t *testing.T) {
		f := newAuthFixture()

		c, _ := newTestContext(http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@example.com","password":"123"}`)
		requireHTTPError(t, f.handler.Register(c), http.StatusBadRequest, "VALIDATION_ERROR")
		f.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	user := &model.User{ID: 9, Name: "Bo", Email: "bo@example.com", Role: model.RoleCustomer}

	t.Run("sets cookies and merges the guest cart", func(t *testing.T) {
		f := newAuthFixture()
		f.auth.On("Login", mock.Anything, "bo@example.com", "hunter22").Return("access-tok", "refresh-tok", user, nil)
		f.carts.On("MergeGuestCart", mock.Anything, "sess-1", uint(9)).Return(nil)

		c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"bo@example.com","password":"hunter22"}`)
		c.Set(SessionContextKey, "sess-1")
		require.NoError(t, f.handler.Login(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "access-tok", body.AccessToken)
		assert.Equal(t, "refresh-tok", body.RefreshToken)

		cookies := cookiesByName(rec)
		require.Contains(t, cookies, accessTokenCookie)
		require.Contains(t, cookies, refreshTokenCookie)
		assert.Equal(t, "access-tok", cookies[accessTokenCookie].Value)
		assert.True(t, cookies[accessTokenCookie].HttpOnly)
		assert.Equal(t, refreshCookiePath, cookies[refreshTokenCookie].Path)
		f.carts.AssertExpectations(t)
	})

	t.Run("merge failure does not fail login", func(t *testing.T) {
		f := newAuthFixture()
		f.auth.On("Login", mock.Anything, "bo@example.com", "hunter22").Return("access-tok", "refresh-tok", user, nil)
		f.carts.On("MergeGuestCart", mock.Anything, "sess-1", uint(9)).Return(fmt.Errorf("db down"))

		c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"bo@example.com","password":"hunter22"}`)
		c.Set(SessionContextKey, "sess-1")
		require.NoError(t, f.handler.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		f := newAuthFixture()
		f.auth.On("Login", mock.Anything, "bo@example.com", "nope").Return("", "", nil, service.ErrInvalidCredentials)

		c, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"bo@example.com","password":"nope"}`)
		requireHTTPError(t, f.handler.Login(c), http.StatusUnauthorized, "INVALID_CREDENTIALS")
		f.carts.AssertNotCalled(t, "MergeGuestCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("database failure is a server error", func(t *testing.T) {
		f := newAuthFixture()
		f.auth.On("Login", mock.Anything, "bo@example.com", "hunter22").Return("", "", nil, assert.AnError)

		c, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"bo@example.com","password":"hunter22"}`)
		requireHTTPError(t, f.handler.Login(c), http.StatusInternalServerError, "LOGIN_FAILED")
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("reads the refresh cookie", func(t *testing.T) {
		f := newAuthFixture()
		f.auth.On("RefreshToken", mock.Anything, "refresh-tok").Return("new-access", nil)

		c, rec := newTestContext(http.MethodPost, "/api/auth/refresh", "")
		c.Request().AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "refresh-tok"})
		require.NoError(t, f.handler.Refresh(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "new-access", cookiesByName(rec)[accessTokenCookie].Value)
	})

	t.Run("missing token is a bad request", func(t *testing.T) {
		f := newAuthFixture()

		c, _ := newTestContext(http.MethodPost, "/api/auth/refresh", "")
		requireHTTPError(t, f.handler.Refresh(c), http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("revoked token is unauthorized", func(t *testing.T) {
		f := newAuthFixture()
		f.auth.On("RefreshToken", mock.Anything, "stale").Return("", service.ErrInvalidRefreshToken)

		c, _ := newTestContext(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"stale"}`)
		requireHTTPError(t, f.handler.Refresh(c), http.StatusUnauthorized, "INVALID_REFRESH_TOKEN")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newAuthFixture()

	c, rec := newTestContext(http.MethodPost, "/api/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "refresh-tok"})
	claims := withClaims(c, 9, "customer")
	f.auth.On("Logout", mock.Anything, "refresh-tok", "jti-1", claims.ExpiresAt.Time).Return(nil)

	require.NoError(t, f.handler.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := cookiesByName(rec)
	require.Contains(t, cookies, accessTokenCookie)
	assert.Empty(t, cookies[accessTokenCookie].Value)
	assert.Less(t, cookies[accessTokenCookie].MaxAge, 0)
	f.auth.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetUser", mock.Anything, uint(9)).Return(&model.User{ID: 9, Email: "bo@example.com"}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/auth/me", "")
	withClaims(c, 9, "customer")
	require.NoError(t, f.handler.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	anonymous, _ := newTestContext(http.MethodGet, "/api/auth/me", "")
	requireHTTPError(t, f.handler.Me(anonymous), http.StatusUnauthorized, "UNAUTHORIZED")
}

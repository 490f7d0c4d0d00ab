package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"delivery-marketplace/internal/domain"
)

type stubUsers struct {
	byID map[int64]*domain.User
}

func (s *stubUsers) Get(_ context.Context, id int64) (*domain.User, error) {
	return s.byID[id], nil
}

func newTestIdentity() *Identity {
	return NewIdentity("test-secret", &stubUsers{byID: map[int64]*domain.User{
		1: {ID: 1, Role: domain.RoleClient, IsActive: true},
		2: {ID: 2, Role: domain.RoleCourier, IsActive: false},
	}})
}

func TestResolve_ValidToken(t *testing.T) {
	t.Parallel()

	identity := newTestIdentity()
	token, err := identity.IssueToken(1, time.Minute)
	require.NoError(t, err)

	u, err := identity.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, domain.RoleClient, u.Role)
}

func TestResolve_ExpiredToken(t *testing.T) {
	t.Parallel()

	identity := newTestIdentity()
	token, err := identity.IssueToken(1, -time.Minute)
	require.NoError(t, err)

	_, err = identity.Resolve(context.Background(), token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResolve_WrongSecret(t *testing.T) {
	t.Parallel()

	other := NewIdentity("another-secret", &stubUsers{byID: map[int64]*domain.User{}})
	token, err := other.IssueToken(1, time.Minute)
	require.NoError(t, err)

	_, err = newTestIdentity().Resolve(context.Background(), token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResolve_WrongAlgorithmRejected(t *testing.T) {
	t.Parallel()

	// alg=none with a valid-looking subject must never pass
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestIdentity().Resolve(context.Background(), raw)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResolve_InactiveUser(t *testing.T) {
	t.Parallel()

	identity := newTestIdentity()
	token, err := identity.IssueToken(2, time.Minute)
	require.NoError(t, err)

	_, err = identity.Resolve(context.Background(), token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResolve_UnknownUser(t *testing.T) {
	t.Parallel()

	identity := newTestIdentity()
	token, err := identity.IssueToken(999, time.Minute)
	require.NoError(t, err)

	_, err = identity.Resolve(context.Background(), token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMiddleware_StoresUserInContext(t *testing.T) {
	t.Parallel()

	identity := newTestIdentity()
	token, err := identity.IssueToken(1, time.Minute)
	require.NoError(t, err)

	var got *domain.User
	h := Middleware(identity)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		got = u
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, int64(1), got.ID)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	t.Parallel()

	h := Middleware(newTestIdentity())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Body.String(), "401 carries no body")
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	t.Parallel()

	h := Middleware(newTestIdentity())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

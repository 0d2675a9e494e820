package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	svc, err := NewTokenService("s3cret")
	require.NoError(t, err)

	token, err := svc.Issue("farmer-7", "farmer", time.Hour)
	require.NoError(t, err)

	identity, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: "farmer-7", Role: "farmer"}, identity)
}

func TestValidateRejects(t *testing.T) {
	svc, err := NewTokenService("s3cret")
	require.NoError(t, err)
	other, err := NewTokenService("different")
	require.NoError(t, err)

	expired, err := svc.Issue("u1", "farmer", -time.Minute)
	require.NoError(t, err)
	_, err = svc.Validate(expired)
	assert.Error(t, err)

	foreign, err := other.Issue("u1", "farmer", time.Hour)
	require.NoError(t, err)
	_, err = svc.Validate(foreign)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: "farmer", RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validate(unsigned)
	assert.Error(t, err)

	_, err = NewTokenService("  ")
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	svc, err := NewTokenService("s3cret")
	require.NoError(t, err)
	token, err := svc.Issue("u1", "farmer", time.Hour)
	require.NoError(t, err)

	e := echo.New()
	handler := RequireAuth(svc)(func(c echo.Context) error {
		identity, ok := FromContext(c)
		require.True(t, ok)
		return c.String(http.StatusOK, identity.UserID)
	})

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"bearer header", "/", "Bearer " + token, http.StatusOK},
		{"query token", "/?token=" + token, "", http.StatusOK},
		{"missing", "/", "", http.StatusUnauthorized},
		{"garbage", "/", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "/", "Basic " + token, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			err := handler(e.NewContext(req, rec))
			if tc.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, "u1", rec.Body.String())
				return
			}
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tc.status, he.Code)
		})
	}
}

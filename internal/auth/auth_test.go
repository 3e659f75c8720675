package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func TestGenerateJWT_Success(t *testing.T) {
	a := New(testSecret)

	token, err := a.GenerateJWT("user-123", "test@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT should have 3 parts")
}

func TestGenerateJWT_MissingSecret(t *testing.T) {
	_, err := New("").GenerateJWT("user-123", "test@example.com")

	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestGenerateJWT_MissingUserID(t *testing.T) {
	_, err := New(testSecret).GenerateJWT("", "test@example.com")

	assert.Error(t, err)
}

func TestValidateJWT_ValidToken(t *testing.T) {
	a := New(testSecret)

	token, err := a.GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	claims, err := a.ValidateJWT(token)

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	a := New(testSecret)
	a.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, err := a.GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	_, err = New(testSecret).ValidateJWT(token)

	assert.Error(t, err, "expired token should be rejected")
}

func TestValidateJWT_TamperedToken(t *testing.T) {
	a := New(testSecret)

	token, err := a.GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	tamperedToken := token[:len(token)-5] + "XXXXX"

	_, err = a.ValidateJWT(tamperedToken)
	assert.Error(t, err, "tampered token should be rejected")
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := New(testSecret).GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	_, err = New("different-secret-key").ValidateJWT(token)

	assert.Error(t, err, "token signed with different secret should be rejected")
}

func TestValidateJWT_NoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: "attacker",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType) //nolint:errcheck // test code

	_, err := New(testSecret).ValidateJWT(tokenString)
	assert.Error(t, err, "token with 'none' algorithm should be rejected")
}

func TestValidateJWT_MalformedToken(t *testing.T) {
	a := New(testSecret)

	for _, token := range []string{"", "not.a.jwt", "only.two", "<script>alert('xss')</script>"} {
		_, err := a.ValidateJWT(token)
		assert.Error(t, err, "malformed token '%s' should be rejected", token)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := New(testSecret)

	valid, err := a.GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/me", a.Middleware(), func(c *gin.Context) {
				userID, ok := GetUserID(c)
				require.True(t, ok)
				c.String(http.StatusOK, userID)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-123", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"error":"unauthenticated"`)
			}
		})
	}
}

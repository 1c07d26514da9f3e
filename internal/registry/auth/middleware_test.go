package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	const (
		validSecret   = "test-secret"
		invalidSecret = "wrong-secret"
		userID        = "test-user"
	)

	// Helper to generate test tokens
	generateToken := func(secret string, expiresAt time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID,
			"exp": expiresAt.Unix(),
		})
		tokenString, _ := token.SignedString([]byte(secret))
		return tokenString
	}

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{
			name:       "create dog valid token",
			method:     http.MethodPost,
			path:       "/dogs",
			token:      generateToken(validSecret, time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
		},
		{
			name:       "create dog invalid token",
			method:     http.MethodPost,
			path:       "/dogs",
			token:      generateToken(invalidSecret, time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "update supplier expired token",
			method:     http.MethodPut,
			path:       "/supplier/1",
			token:      generateToken(validSecret, time.Now().Add(-time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "delete dog missing header",
			method:     http.MethodDelete,
			path:       "/dogs/1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "get dog no token",
			method:     http.MethodGet,
			path:       "/dogs/1",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if isProtectedRequest(r) {
					if Subject(r.Context()) != userID {
						w.WriteHeader(http.StatusInternalServerError)
						return
					}
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			Middleware(validSecret)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), `"status":401`)
			}
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{
			name:      "valid authorization header",
			header:    "Bearer valid-token",
			wantToken: "valid-token",
		},
		{
			name:    "missing authorization header",
			wantErr: errMissingHeader,
		},
		{
			name:    "malformed authorization header",
			header:  "InvalidPrefix valid-token",
			wantErr: errBadFormat,
		},
		{
			name:    "empty bearer token",
			header:  "Bearer ",
			wantErr: errBadFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/dogs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := extractTokenFromHeader(req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestValidateToken(t *testing.T) {
	const validSecret = "test-secret"
	validTokenString, err := GenerateToken("user123", validSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name        string
		tokenString string
		secret      string
		wantValid   bool
	}{
		{
			name:        "valid token",
			tokenString: validTokenString,
			secret:      validSecret,
			wantValid:   true,
		},
		{
			name:        "invalid signature",
			tokenString: validTokenString,
			secret:      "wrong-secret",
			wantValid:   false,
		},
		{
			name: "expired token",
			tokenString: func() string {
				tokenString, _ := GenerateToken("user123", validSecret, -time.Hour)
				return tokenString
			}(),
			secret:    validSecret,
			wantValid: false,
		},
		{
			name:        "malformed token",
			tokenString: "invalid.token.string",
			secret:      validSecret,
			wantValid:   false,
		},
		{
			name: "unexpected signing method",
			tokenString: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user123"})
				tokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
				return tokenString
			}(),
			secret:    validSecret,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := validateToken(tt.tokenString, tt.secret)

			if tt.wantValid {
				require.NoError(t, err)
				assert.Equal(t, "user123", claims["sub"])
				assert.Equal(t, Issuer, claims["iss"])
				return
			}
			assert.Error(t, err)
		})
	}
}

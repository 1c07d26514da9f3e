// This is a **mock authentication service**, designed to provide JWT tokens
// for the registry's mutating endpoints, simulating user authentication.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gartstein/k9registry/internal/registry/auth"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultPort   = "8081"       // Default port for the authentication service
	defaultSecret = "jwt_secret" // Secret for signing JWT
	tokenTTL      = 24 * time.Hour
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// tokenHandler generates a JWT and returns it in JSON response
func tokenHandler(secret string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Simulate a user ID for the token unless the caller names one
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = "12345"
		}

		token, err := auth.GenerateToken(userID, secret, tokenTTL)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp := TokenResponse{Token: token, ExpiresIn: int64(tokenTTL.Seconds())}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("Failed to encode token", zap.Error(err))
		}
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	// The .env file is optional here; the registry shares JWT_SECRET through it.
	_ = godotenv.Load()

	secret := envOr("JWT_SECRET", defaultSecret)
	port := envOr("AUTH_PORT", defaultPort)

	r := chi.NewRouter()
	r.Get("/token", tokenHandler(secret, logger))

	logger.Info("Authentication service running", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal("Authentication service stopped", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

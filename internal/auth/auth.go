package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"nutriplan/pkg/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

// Authenticator validates bearer tokens on protected routes.
type Authenticator struct {
	secret []byte
	logger *logger.Logger
}

func NewAuthenticator(secret string, log *logger.Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		logger: log.WithComponent("auth"),
	}
}

// ParseToken validates an HS256 bearer token and extracts the identity
// from its claims (user ID in "sub", optional "role").
func (a *Authenticator) ParseToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	identity := &Identity{UserID: userID}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}

	return identity, nil
}

// RequireAuth wraps a handler, rejecting requests without a valid
// bearer token and storing the identity on the request context.
func (a *Authenticator) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			a.logger.Warn("Missing bearer token", "path", r.URL.Path)
			writeAuthError(w, "authentication required")
			return
		}

		identity, err := a.ParseToken(tokenString)
		if err != nil {
			a.logger.Warn("Rejected bearer token", "path", r.URL.Path, "error", err)
			writeAuthError(w, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin wraps a handler, additionally requiring the admin role.
func (a *Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := FromContext(r.Context())
		if !identity.IsAdmin() {
			a.logger.Warn("Rejected non-admin caller", "path", r.URL.Path, "user_id", identity.UserID)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   "admin role required",
			})
			return
		}
		next(w, r)
	})
}

// FromContext retrieves the authenticated identity, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"swiftremind/internal/config"
	"swiftremind/internal/pkg/authz"
)

type contextKey string

const viewerContextKey contextKey = "viewer"

// Claims is the JWT payload issued at login and verified here.
type Claims struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganisationID int64  `json:"organisationId"`
	jwt.RegisteredClaims
}

// ViewerFrom returns the authenticated viewer stored by AuthMiddleware.
func ViewerFrom(ctx context.Context) (authz.Viewer, bool) {
	viewer, ok := ctx.Value(viewerContextKey).(authz.Viewer)
	return viewer, ok
}

// WithViewer is used by tests to exercise handlers without a token.
func WithViewer(ctx context.Context, viewer authz.Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey, viewer)
}

func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		// Development mode: every request acts as an unscoped superadmin.
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := WithViewer(r.Context(), authz.Viewer{Name: "anonymous", Role: authz.RoleSuperadmin})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := verifyJWT(r, cfg.JWTSecret, logger)
			if !ok {
				http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

// RequireRole rejects requests whose viewer has none of the given roles.
func RequireRole(logger *slog.Logger, roles ...authz.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := ViewerFrom(r.Context())
			if !ok {
				http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if viewer.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logger.Warn("RequireRole: Access denied", "role", string(viewer.Role), "path", r.URL.Path)
			http.Error(w, `{"error":{"message":"Forbidden"}}`, http.StatusForbidden)
		})
	}
}

func verifyJWT(r *http.Request, secret string, logger *slog.Logger) (authz.Viewer, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.Warn("AuthMiddleware: Missing Authorization header")
		return authz.Viewer{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		logger.Warn("AuthMiddleware: Invalid Authorization header format")
		return authz.Viewer{}, false
	}
	tokenString := parts[1]

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			logger.Warn("AuthMiddleware: Unexpected signing method")
			return nil, http.ErrAbortHandler
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		logger.Warn("AuthMiddleware: Invalid token", "error", err)
		return authz.Viewer{}, false
	}

	// Subject carries the user ID issued at login.
	userID, _ := strconv.ParseInt(claims.Subject, 10, 64)

	return authz.Viewer{
		UserID:         userID,
		Name:           claims.Name,
		Email:          claims.Email,
		Role:           authz.ParseRole(claims.Role),
		OrganisationID: claims.OrganisationID,
	}, true
}

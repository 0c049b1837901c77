package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// GatewayValidator validates the bearer token a chat gateway presents.
type GatewayValidator interface {
	ValidateToken(tokenString string) (*GatewayClaims, error)
}

// GatewayClaims represents the claims we expect from the validator.
type GatewayClaims struct {
	GatewayID string
	TokenID   string
}

type contextKeyGatewayID struct{}

var ContextKeyGatewayID = contextKeyGatewayID{}

// GetGatewayID retrieves the authenticated gateway from the context.
func GetGatewayID(ctx context.Context) string {
	gatewayID, ok := ctx.Value(ContextKeyGatewayID).(string)
	if !ok {
		return ""
	}
	return gatewayID
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireGateway rejects requests that do not carry a valid gateway token.
func RequireGateway(validator GatewayValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, ContextKeyGatewayID, claims.GatewayID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

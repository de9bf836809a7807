package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/socialchef/creativechef/internal/errors"
)

type contextKey string

const SubjectKey contextKey = "subject"

// AuthMiddleware accepts HS256 bearer tokens signed with secret. When issuer
// is non-empty the iss claim must match it. The sub claim is stored in the
// request context.
func AuthMiddleware(secret, issuer string) func(http.Handler) http.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				errors.WriteJSON(w, errors.NewUnavailableError("history API is not configured", "AUTH_NOT_CONFIGURED"))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errors.WriteJSON(w, errors.NewUnauthorizedError("missing Authorization header", "MISSING_TOKEN"))
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || scheme != "Bearer" || tokenString == "" {
				errors.WriteJSON(w, errors.NewUnauthorizedError("invalid Authorization header format", "INVALID_TOKEN"))
				return
			}

			var claims jwt.RegisteredClaims
			_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil {
				errors.WriteJSON(w, errors.NewUnauthorizedError("invalid token", "INVALID_TOKEN"))
				return
			}

			if claims.Subject == "" {
				errors.WriteJSON(w, errors.NewUnauthorizedError("missing sub claim", "INVALID_TOKEN"))
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject returns the authenticated token subject.
func GetSubject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(SubjectKey).(string)
	return sub, ok
}

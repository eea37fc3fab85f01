// Package auth authenticates the calling party from a bearer token.
//
// The registry does not manage accounts; it only needs a trustworthy
// caller identity to evaluate the creditor-or-debtor predicate. Callers
// present an HS256 JWT whose subject is their party identifier on the
// external ledgers.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"claimbank/pkg/domain"
	"claimbank/pkg/requestcontext"
)

// PartyValidator validates a bearer token and resolves the calling party.
type PartyValidator interface {
	ValidateToken(tokenString string) (domain.Party, error)
}

// HMACValidator validates HS256 tokens signed with a shared key.
type HMACValidator struct {
	key []byte
}

// NewHMACValidator constructs a validator for the given signing key.
func NewHMACValidator(key string) *HMACValidator {
	return &HMACValidator{key: []byte(key)}
}

// ValidateToken parses and verifies the token and returns its subject
// as the calling party.
func (v *HMACValidator) ValidateToken(tokenString string) (domain.Party, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("token subject: %w", err)
	}
	return domain.ParseParty(sub)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireParty rejects requests without a valid bearer token and puts
// the resolved party into the request context.
func RequireParty(validator PartyValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			caller, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, caller)))
		})
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"todoTracker/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const IdentityKey contextKey = "identity"

// TokenVerifier превращает Bearer-токен в идентичность пользователя.
type TokenVerifier interface {
	VerifyToken(token string) (uuid.UUID, error)
}

// Auth требует валидный Bearer-токен и кладёт идентичность в контекст.
// Отказ аутентификации сообщается на границе, никогда не по умолчанию.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, r, "отсутствует Bearer-токен")
				return
			}

			identity, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Warn("HTTP: Отказ аутентификации",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))
				unauthorized(w, r, "недействительный или просроченный токен")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity возвращает uuid.Nil, если запрос не прошёл Auth.
func GetIdentity(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(IdentityKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error":      "UNAUTHORIZED",
		"message":    message,
		"request_id": GetRequestID(r.Context()),
	})
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/config"
	logctx "github.com/pribylovaa/contacts-service/internal/pkg/log"
	"github.com/pribylovaa/contacts-service/internal/transport/http/apierrors"
)

type ctxKeyCaller struct{}

// CallerFrom возвращает идентификатор аутентифицированного пользователя
// из контекста запроса. ok=false возможен только вне цепочки Auth.
func CallerFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyCaller{}).(uuid.UUID)
	return id, ok
}

// Auth валидирует Bearer access-токен (HS256, issuer/audience из конфига)
// и кладёт идентификатор вызывающего в контекст. Запрос без валидного
// токена завершается 401 и до хендлеров не доходит.
func Auth(cfg config.AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
				return
			}

			callerID, err := validateAccessToken(cfg, token)
			if err != nil {
				logctx.From(r.Context()).Warn("access token rejected", "err", err)
				apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyCaller{}, callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}

// validateAccessToken проверяет подпись и стандартные клеймы access-токена
// и возвращает subject как uuid пользователя.
func validateAccessToken(cfg config.AuthConfig, tokenStr string) (uuid.UUID, error) {
	const op = "middleware/auth/validateAccessToken"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5 * time.Second),
		jwt.WithIssuer(cfg.Issuer),
	}
	for _, aud := range cfg.Audience {
		opts = append(opts, jwt.WithAudience(aud))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: unexpected signing method", op)
			}

			return []byte(cfg.JWTSecret), nil
		},
		opts...,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("%s: invalid token", op)
	}

	callerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: bad subject: %w", op, err)
	}

	return callerID, nil
}

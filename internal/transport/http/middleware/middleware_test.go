package middleware

// Тесты HTTP-мидлваров: порядок цепочки, X-Request-Id, восстановление
// после паники и аутентификация Bearer-токеном.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/config"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errEnvelope struct {
	Error apiError `json:"error"`
}

func TestChain_Order(t *testing.T) {
	order := []string{}

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m1-end")
		})
	}

	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m2-end")
		})
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	})

	chain := Chain(final, m1, m2)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/chain", nil))

	require.Equal(t, []string{"m1-begin", "m2-begin", "handler", "m2-end", "m1-end"}, order)
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	var seenID string

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))

	// Без входящего заголовка — id генерируется (32 hex-символа).
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Len(t, seenID, 32)
	require.Equal(t, seenID, rr.Header().Get("X-Request-Id"))

	// Входящий заголовок уважается.
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-abc")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, "req-abc", seenID)
	require.Equal(t, "req-abc", rr.Header().Get("X-Request-Id"))
}

func TestRecover_PanicBecomes500(t *testing.T) {
	h := Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))
	})

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "internal", resp.Error.Code)
}

func authCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "auth-service",
		Audience:  []string{"contacts-service"},
	}
}

func signToken(t *testing.T, cfg config.AuthConfig, subject, secret string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    cfg.Issuer,
		Audience:  jwt.ClaimStrings(cfg.Audience),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuth(t *testing.T) {
	cfg := authCfg()
	caller := uuid.New()

	var gotCaller uuid.UUID
	var gotOK bool

	h := Auth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller, gotOK = CallerFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	do := func(authorization string) *httptest.ResponseRecorder {
		gotCaller, gotOK = uuid.Nil, false
		req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	t.Run("valid token", func(t *testing.T) {
		rr := do("Bearer " + signToken(t, cfg, caller.String(), cfg.JWTSecret))
		require.Equal(t, http.StatusOK, rr.Code)
		require.True(t, gotOK)
		require.Equal(t, caller, gotCaller)
	})

	t.Run("missing header", func(t *testing.T) {
		rr := do("")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.False(t, gotOK)
	})

	t.Run("not bearer", func(t *testing.T) {
		rr := do("Basic dXNlcjpwYXNz")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		rr := do("Bearer " + signToken(t, cfg, caller.String(), "other-secret"))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		bad := cfg
		bad.Issuer = "someone-else"
		rr := do("Bearer " + signToken(t, bad, caller.String(), cfg.JWTSecret))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("subject is not uuid", func(t *testing.T) {
		rr := do("Bearer " + signToken(t, cfg, "not-a-uuid", cfg.JWTSecret))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   caller.String(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings(cfg.Audience),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)

		rr := do("Bearer " + token)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

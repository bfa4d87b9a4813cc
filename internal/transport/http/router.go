// http собирает REST-поверхность contacts-сервиса поверх chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/contacts-service/internal/config"
	"github.com/pribylovaa/contacts-service/internal/service"
	"github.com/pribylovaa/contacts-service/internal/transport/http/handlers"
	"github.com/pribylovaa/contacts-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Auth     config.AuthConfig
	Timeout  time.Duration
	BasePath string // например, "/v1"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Auth(opts.Auth),      // валидируем Bearer-токен, кладём caller_id в контекст
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Зависимости хендлеров.
	h := handlers.New(svc)

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// profiles
	r.Post("/profiles", h.CreateProfile)
	r.Get("/profiles/{id}", h.GetProfile)
	r.Patch("/profiles/me", h.UpdateProfile)
	r.Put("/profiles/me/presets/{preset}", h.SetPreset)
	r.Post("/profiles/me/avatar/presign", h.AvatarPresign)
	r.Post("/profiles/me/avatar/confirm", h.AvatarConfirm)

	// contacts
	r.Post("/contacts/follow", h.Follow)
	r.Post("/contacts/{edge_id}/approve", h.Approve)
	r.Delete("/contacts/{user_id}", h.Unfollow)
	r.Get("/contacts", h.ListContacts)
	r.Get("/contacts/pending", h.ListPending)

	// qr
	r.Post("/qr", h.GenerateQR)
	r.Get("/qr/{token}", h.PreviewQR)
	r.Post("/qr/redeem", h.RedeemQR)

	// feed
	r.Post("/posts", h.CreatePost)
	r.Get("/feed", h.Feed)
}

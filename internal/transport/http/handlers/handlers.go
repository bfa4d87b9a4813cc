package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/service"
	"github.com/pribylovaa/contacts-service/internal/transport/http/apierrors"
	"github.com/pribylovaa/contacts-service/internal/transport/http/middleware"
)

// Handlers агрегирует зависимости (сервисный слой).
type Handlers struct {
	svc *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// errInvalidArgument — вспомогалка: локальная ошибка парсинга -> 400.
func errInvalidArgument() error {
	return fmt.Errorf("transport: %w", service.ErrInvalidArgument)
}

// caller возвращает идентификатор аутентифицированного пользователя.
// Отсутствие говорит о запросе вне цепочки Auth — отвечаем 401.
func caller(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.CallerFrom(r.Context())
	if !ok || id == uuid.Nil {
		return uuid.Nil, apierrors.ErrUnauthenticated
	}

	return id, nil
}

// profileResponse — полный профиль (отдаётся только владельцу).
type profileResponse struct {
	UserID      uuid.UUID                           `json:"user_id"`
	DisplayName string                              `json:"display_name"`
	Handle      string                              `json:"handle"`
	Email       string                              `json:"email,omitempty"`
	Phone       string                              `json:"phone,omitempty"`
	Company     string                              `json:"company,omitempty"`
	Position    string                              `json:"position,omitempty"`
	Education   string                              `json:"education,omitempty"`
	Bio         string                              `json:"bio,omitempty"`
	Handles     []string                            `json:"handles,omitempty"`
	AvatarURL   string                              `json:"avatar_url,omitempty"`
	Presets     map[models.Preset]models.FieldFlags `json:"presets,omitempty"`
	CreatedAt   time.Time                           `json:"created_at"`
	UpdatedAt   time.Time                           `json:"updated_at"`
}

func profileFromModel(p *models.Profile) profileResponse {
	return profileResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Handle:      p.Handle,
		Email:       p.Email,
		Phone:       p.Phone,
		Company:     p.Company,
		Position:    p.Position,
		Education:   p.Education,
		Bio:         p.Bio,
		Handles:     p.Handles,
		AvatarURL:   p.AvatarURL,
		Presets:     p.Presets,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// publicProfileResponse — публичная часть чужого профиля: остальное
// раскрывается только через фасеты подтверждённых связей.
type publicProfileResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Handle      string    `json:"handle"`
}

// edgeResponse — направленное представление связи со стороны вызывающего.
type edgeResponse struct {
	EdgeID     uuid.UUID     `json:"edge_id"`
	SenderID   uuid.UUID     `json:"sender_id"`
	ReceiverID uuid.UUID     `json:"receiver_id"`
	Status     string        `json:"status"`
	Preset     models.Preset `json:"preset,omitempty"`
	// ReceiverShared — что вторая сторона раскрыла вызывающему (после approve).
	ReceiverShared *models.Facet `json:"receiver_shared,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	ApprovedAt     *time.Time    `json:"approved_at,omitempty"`
}

func edgeFromModel(e *models.Edge) edgeResponse {
	resp := edgeResponse{
		EdgeID:         e.ID,
		SenderID:       e.SenderID,
		ReceiverID:     e.ReceiverID,
		Status:         e.Status.String(),
		Preset:         e.SenderPreset,
		ReceiverShared: e.ReceiverShared,
		CreatedAt:      e.CreatedAt,
	}

	if !e.ApprovedAt.IsZero() {
		at := e.ApprovedAt
		resp.ApprovedAt = &at
	}

	return resp
}

// postResponse — публикация в ленте и в ответе на создание.
type postResponse struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Content    string    `json:"content"`
	Network    string    `json:"network_type"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

func postFromModel(p *models.Post) postResponse {
	return postResponse{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		Content:    p.Content,
		Network:    p.Network.String(),
		Visibility: p.Visibility.String(),
		CreatedAt:  p.CreatedAt,
	}
}

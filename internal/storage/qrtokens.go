package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
)

// RedeemInput — параметры атомарного погашения токена.
// Оба фацета проецируются сервисом заранее: пресет токена неизменяем после
// выпуска, поэтому проекция вне транзакции безопасна.
type RedeemInput struct {
	Token          string
	Redeemer       uuid.UUID
	OwnerPreset    models.Preset
	RedeemerPreset models.Preset
	OwnerFacet     *models.Facet
	RedeemerFacet  *models.Facet
}

// QRTokens — контракт репозитория одноразовых QR-токенов.
type QRTokens interface {
	// SaveToken сохраняет новый токен.
	// Ошибки: ErrAlreadyExists при коллизии значения токена.
	SaveToken(ctx context.Context, token *models.QRToken) error

	// TokenByValue возвращает токен по значению (для предпросмотра).
	// Ошибки: ErrNotFoundToken.
	TokenByValue(ctx context.Context, token string) (*models.QRToken, error)

	// RedeemToken гасит токен и поднимает связь пары owner<->redeemer до
	// approved одной транзакцией. Потребление — единый условный UPDATE
	// (compare-and-swap по consumed_by): из двух конкурентных погашений
	// ровно одно успешно. Существующая связь любого статуса поднимается до
	// approved с перезаписью обоих фацетов, параллельные рёбра не создаются.
	// Ошибки: ErrNotFoundToken, ErrTokenExpired, ErrTokenConsumed.
	RedeemToken(ctx context.Context, input RedeemInput) (*models.ContactLink, error)

	// DeleteExpiredTokens удаляет просроченные непогашенные токены.
	DeleteExpiredTokens(ctx context.Context, now time.Time) error
}

// QRTokensStorage — верхнеуровневый интерфейс хранилища токенов.
type QRTokensStorage interface {
	QRTokens
}

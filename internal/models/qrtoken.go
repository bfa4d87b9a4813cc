package models

import (
	"time"

	"github.com/google/uuid"
)

// QRToken — одноразовый bearer-токен для установления уже подтверждённой
// связи без раунда pending/approve. Сам токен — capability: по нему нельзя
// прочитать содержимое пресета, только погасить обмен.
type QRToken struct {
	Token      string
	OwnerID    uuid.UUID
	Preset     Preset
	ConsumedBy uuid.UUID // uuid.Nil, пока токен не погашен.
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Consumed сообщает, был ли токен уже погашен.
func (t *QRToken) Consumed() bool {
	return t.ConsumedBy != uuid.Nil
}

// Expired сообщает, истёк ли токен к моменту now.
func (t *QRToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

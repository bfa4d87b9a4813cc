package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// LinkStatus — состояние связи между двумя пользователями.
type LinkStatus int8

const (
	LinkStatusPending LinkStatus = iota
	LinkStatusApproved
)

func (s LinkStatus) String() string {
	switch s {
	case LinkStatusApproved:
		return "approved"
	default:
		return "pending"
	}
}

// Facet — документ раскрытых полей, вычисленный для одного направления связи.
// Направление задаётся местом хранения (AShared/BShared в ContactLink),
// внутри документа оно не кодируется и никогда не «угадывается».
type Facet struct {
	DisplayName string   `json:"display_name"`
	Handle      string   `json:"handle"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Company     string   `json:"company,omitempty"`
	Position    string   `json:"position,omitempty"`
	Education   string   `json:"education,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Handles     []string `json:"handles,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
}

// ContactLink — единственная запись на неупорядоченную пару пользователей.
// Инвариант: UserA < UserB (побайтовое сравнение UUID, совпадает с порядком
// сравнения UUID в PostgreSQL). Каждая сторона владеет своим пресетом и своим
// фацетом: APreset/AShared — что UserA раскрывает UserB, BPreset/BShared —
// наоборот. Такая модель структурно исключает рассинхронизацию статусов,
// дубликаты обратных рёбер и частичный teardown.
type ContactLink struct {
	ID          uuid.UUID
	UserA       uuid.UUID
	UserB       uuid.UUID
	Status      LinkStatus
	RequestedBy uuid.UUID
	APreset     Preset
	BPreset     Preset
	AShared     *Facet
	BShared     *Facet
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ApprovedAt  time.Time
}

// PairKey нормализует пару идентификаторов к каноническому порядку (a < b).
func PairKey(x, y uuid.UUID) (a, b uuid.UUID) {
	if bytes.Compare(x[:], y[:]) < 0 {
		return x, y
	}

	return y, x
}

// Participant сообщает, является ли user стороной связи.
func (l *ContactLink) Participant(user uuid.UUID) bool {
	return user == l.UserA || user == l.UserB
}

// Other возвращает идентификатор второй стороны связи.
func (l *ContactLink) Other(user uuid.UUID) uuid.UUID {
	if user == l.UserA {
		return l.UserB
	}

	return l.UserA
}

// Receiver возвращает сторону, которая может подтвердить запрос.
func (l *ContactLink) Receiver() uuid.UUID {
	return l.Other(l.RequestedBy)
}

// PresetOf возвращает пресет, выбранный стороной user для этой связи.
func (l *ContactLink) PresetOf(user uuid.UUID) Preset {
	if user == l.UserA {
		return l.APreset
	}

	return l.BPreset
}

// FacetOf возвращает фацет, который сторона user раскрывает второй стороне.
func (l *ContactLink) FacetOf(user uuid.UUID) *Facet {
	if user == l.UserA {
		return l.AShared
	}

	return l.BShared
}

// Edge — направленное представление связи для ответов API:
// sender — «владелец» точки зрения, SenderShared — что он раскрывает receiver'у.
type Edge struct {
	ID             uuid.UUID
	SenderID       uuid.UUID
	ReceiverID     uuid.UUID
	Status         LinkStatus
	SenderPreset   Preset
	ReceiverPreset Preset
	SenderShared   *Facet
	ReceiverShared *Facet
	CreatedAt      time.Time
	ApprovedAt     time.Time
}

// EdgeFrom строит направленное представление связи со стороны sender.
func (l *ContactLink) EdgeFrom(sender uuid.UUID) Edge {
	receiver := l.Other(sender)

	return Edge{
		ID:             l.ID,
		SenderID:       sender,
		ReceiverID:     receiver,
		Status:         l.Status,
		SenderPreset:   l.PresetOf(sender),
		ReceiverPreset: l.PresetOf(receiver),
		SenderShared:   l.FacetOf(sender),
		ReceiverShared: l.FacetOf(receiver),
		CreatedAt:      l.CreatedAt,
		ApprovedAt:     l.ApprovedAt,
	}
}

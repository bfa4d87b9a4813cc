package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
)

// FollowResult — результат CreateFollowRequest.
// Created=false означает идемпотентную повторную отправку того же запроса.
type FollowResult struct {
	Link    *models.ContactLink
	Created bool
}

// Contacts — контракт репозитория графа связей.
//
// Каждая мутация, читающая и изменяющая запись пары, выполняется одной
// транзакцией с блокировкой строки (SELECT ... FOR UPDATE): гарантия
// целостности приходит из изоляции БД, а не из внутрипроцессных локов,
// поэтому она сохраняется при нескольких инстансах сервиса.
type Contacts interface {
	// CreateFollowRequest создаёт (или идемпотентно обновляет) ожидающий запрос
	// requester -> receiver. Facet — заранее спроецированный фацет requester'а
	// (nil, если пресет не был передан).
	// Ошибки: ErrLinkApproved — пара уже подтверждена;
	// ErrLinkPending — по паре ждёт встречный запрос от второй стороны.
	CreateFollowRequest(ctx context.Context, requester, receiver uuid.UUID, preset models.Preset, facet *models.Facet) (*FollowResult, error)

	// ApproveLink подтверждает запрос linkID со стороны caller.
	// requesterFacet — перепроецированный фацет инициатора (его профиль мог
	// измениться после follow; nil, если инициатор не выбирал пресет),
	// callerFacet — фацет подтверждающей стороны (nil без пресета).
	// Статус и валидность caller перепроверяются под блокировкой строки.
	// Ошибки: ErrNotFoundLink, ErrNotReceiver, ErrLinkApproved.
	ApproveLink(ctx context.Context, linkID, caller uuid.UUID, callerPreset models.Preset, callerFacet, requesterFacet *models.Facet) (*models.ContactLink, error)

	// DeleteLink удаляет запись пары caller<->other целиком: обе «стороны»
	// связи исчезают одной операцией, частичный teardown невозможен.
	// Ошибки: ErrNotFoundLink.
	DeleteLink(ctx context.Context, caller, other uuid.UUID) (*models.ContactLink, error)

	// LinkByID возвращает связь по идентификатору.
	LinkByID(ctx context.Context, linkID uuid.UUID) (*models.ContactLink, error)

	// ApprovedLinksByUser возвращает все подтверждённые связи пользователя
	// одним запросом — консистентный снимок для классификации кругов.
	ApprovedLinksByUser(ctx context.Context, userID uuid.UUID) ([]models.ContactLink, error)

	// PendingLinksByReceiver возвращает входящие ожидающие запросы пользователя.
	PendingLinksByReceiver(ctx context.Context, userID uuid.UUID) ([]models.ContactLink, error)
}

// ContactsStorage — верхнеуровневый интерфейс хранилища графа связей.
type ContactsStorage interface {
	Contacts
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/pkg/log"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

type FollowInput struct {
	Requester uuid.UUID
	Receiver  uuid.UUID
	// Preset — пресет раскрытия requester'а для этой связи.
	// Пустое значение допустимо: фасет будет зафиксирован позднее.
	Preset models.Preset
}

type ApproveInput struct {
	Caller uuid.UUID
	LinkID uuid.UUID
	// Preset — пресет раскрытия подтверждающей стороны (опционален).
	Preset models.Preset
}

// ContactView — элемент списка контактов: кто и что раскрыл вызывающему.
type ContactView struct {
	UserID      uuid.UUID         `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Handle      string            `json:"handle"`
	Shared      *models.Facet     `json:"shared,omitempty"`
	Since       time.Time         `json:"since"`
	EdgeID      uuid.UUID         `json:"edge_id"`
	Status      models.LinkStatus `json:"-"`
}

// Follow создаёт запрос на связь requester -> receiver.
//
// Валидация:
//   - оба идентификатора обязательны, requester != receiver (иначе ErrSelfFollow);
//   - preset, если передан, должен входить в закрытое множество.
//
// Поведение:
//   - фасет requester'а проецируется из текущего профиля в момент запроса;
//   - повторная отправка того же запроса идемпотентна (обновляет пресет/фасет);
//   - подтверждённая пара -> ErrAlreadyFollowing, встречный ожидающий
//     запрос -> ErrRequestPending;
//   - при создании новой заявки получателю уходит уведомление contact.requested.
func (s *Service) Follow(ctx context.Context, input FollowInput) (*models.Edge, error) {
	const op = "service/contacts/Follow"

	lg := log.From(ctx).With("op", op,
		"requester_id", input.Requester.String(),
		"receiver_id", input.Receiver.String(),
	)

	if input.Requester == uuid.Nil || input.Receiver == uuid.Nil {
		lg.Warn("invalid argument: empty participant id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if input.Requester == input.Receiver {
		lg.Warn("self follow rejected")

		return nil, fmt.Errorf("%s: %w", op, ErrSelfFollow)
	}

	if input.Preset != "" && !input.Preset.Valid() {
		lg.Warn("invalid argument: unknown preset", "preset", string(input.Preset))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	var facet *models.Facet

	if input.Preset != "" {
		profile, err := s.profilesStorage.ProfileByID(ctx, input.Requester)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFoundProfile):
				lg.Warn("requester profile not found")

				return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
			default:
				lg.Error("storage error on ProfileByID", "err", err)

				return nil, fmt.Errorf("%s: %w", op, ErrInternal)
			}
		}

		projected := Project(profile, input.Preset)
		facet = &projected
	}

	result, err := s.contactsStorage.CreateFollowRequest(ctx, input.Requester, input.Receiver, input.Preset, facet)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrLinkApproved):
			lg.Warn("pair already approved")

			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyFollowing)
		case errors.Is(err, storage.ErrLinkPending):
			lg.Warn("reverse request pending")

			return nil, fmt.Errorf("%s: %w", op, ErrRequestPending)
		default:
			lg.Error("storage error on CreateFollowRequest", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if result.Created {
		s.notify(ctx, &models.ContactEvent{
			Kind:       models.EventFollowRequested,
			TargetID:   input.Receiver,
			ActorID:    input.Requester,
			EdgeID:     result.Link.ID,
			OccurredAt: time.Now().Unix(),
		})
	}

	edge := result.Link.EdgeFrom(input.Requester)

	return &edge, nil
}

// Approve подтверждает входящий запрос со стороны получателя.
//
// Поведение:
//   - подтвердить может только участник пары, не инициировавший запрос
//     (иначе ErrNotReceiver);
//   - фасет инициатора перепроецируется из его текущего профиля — между
//     follow и approve профиль мог измениться;
//   - повторный approve -> ErrAlreadyFollowing;
//   - инициатору уходит уведомление contact.approved.
func (s *Service) Approve(ctx context.Context, input ApproveInput) (*models.Edge, error) {
	const op = "service/contacts/Approve"

	lg := log.From(ctx).With("op", op,
		"caller_id", input.Caller.String(),
		"edge_id", input.LinkID.String(),
	)

	if input.Caller == uuid.Nil || input.LinkID == uuid.Nil {
		lg.Warn("invalid argument: empty id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if input.Preset != "" && !input.Preset.Valid() {
		lg.Warn("invalid argument: unknown preset", "preset", string(input.Preset))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	link, err := s.contactsStorage.LinkByID(ctx, input.LinkID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundLink):
			lg.Warn("link not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on LinkByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if !link.Participant(input.Caller) || link.RequestedBy == input.Caller {
		lg.Warn("caller is not the receiver of the request")

		return nil, fmt.Errorf("%s: %w", op, ErrNotReceiver)
	}

	var callerFacet *models.Facet

	if input.Preset != "" {
		profile, err := s.profilesStorage.ProfileByID(ctx, input.Caller)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFoundProfile):
				lg.Warn("caller profile not found")

				return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
			default:
				lg.Error("storage error on ProfileByID", "err", err)

				return nil, fmt.Errorf("%s: %w", op, ErrInternal)
			}
		}

		projected := Project(profile, input.Preset)
		callerFacet = &projected
	}

	// Фасет инициатора фиксируется на момент approve, а не follow.
	var requesterFacet *models.Facet

	if requesterPreset := link.PresetOf(link.RequestedBy); requesterPreset != "" {
		profile, err := s.profilesStorage.ProfileByID(ctx, link.RequestedBy)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFoundProfile):
				lg.Warn("requester profile not found")

				return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
			default:
				lg.Error("storage error on ProfileByID", "err", err)

				return nil, fmt.Errorf("%s: %w", op, ErrInternal)
			}
		}

		projected := Project(profile, requesterPreset)
		requesterFacet = &projected
	}

	updated, err := s.contactsStorage.ApproveLink(ctx, input.LinkID, input.Caller, input.Preset, callerFacet, requesterFacet)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundLink):
			lg.Warn("link not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrLinkApproved):
			lg.Warn("link already approved")

			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyFollowing)
		case errors.Is(err, storage.ErrNotReceiver):
			lg.Warn("caller is not the receiver of the request")

			return nil, fmt.Errorf("%s: %w", op, ErrNotReceiver)
		default:
			lg.Error("storage error on ApproveLink", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	s.notify(ctx, &models.ContactEvent{
		Kind:       models.EventFollowApproved,
		TargetID:   updated.RequestedBy,
		ActorID:    input.Caller,
		EdgeID:     updated.ID,
		OccurredAt: time.Now().Unix(),
	})

	edge := updated.EdgeFrom(input.Caller)

	return &edge, nil
}

// Unfollow разрывает связь caller <-> other.
//
// Запись пары удаляется целиком одной операцией: исчезают обе «стороны»
// связи и оба зафиксированных фасета, частичный teardown невозможен.
// Удалять может любая из сторон и в любом статусе (отозвать свою заявку
// или отклонить чужую — та же операция). Второй стороне уходит
// уведомление contact.removed.
func (s *Service) Unfollow(ctx context.Context, caller, other uuid.UUID) error {
	const op = "service/contacts/Unfollow"

	lg := log.From(ctx).With("op", op,
		"caller_id", caller.String(),
		"other_id", other.String(),
	)

	if caller == uuid.Nil || other == uuid.Nil {
		lg.Warn("invalid argument: empty participant id")

		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if caller == other {
		lg.Warn("invalid argument: same participant on both sides")

		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	deleted, err := s.contactsStorage.DeleteLink(ctx, caller, other)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundLink):
			lg.Warn("link not found")

			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteLink", "err", err)

			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	s.notify(ctx, &models.ContactEvent{
		Kind:       models.EventContactRemoved,
		TargetID:   other,
		ActorID:    caller,
		EdgeID:     deleted.ID,
		OccurredAt: time.Now().Unix(),
	})

	return nil
}

// Contacts возвращает подтверждённые контакты пользователя: для каждого —
// фасет, который контакт раскрыл вызывающему.
func (s *Service) Contacts(ctx context.Context, userID uuid.UUID) ([]ContactView, error) {
	const op = "service/contacts/Contacts"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	links, err := s.contactsStorage.ApprovedLinksByUser(ctx, userID)
	if err != nil {
		lg.Error("storage error on ApprovedLinksByUser", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return s.contactViews(ctx, userID, links)
}

// PendingRequests возвращает входящие ожидающие запросы пользователя.
func (s *Service) PendingRequests(ctx context.Context, userID uuid.UUID) ([]ContactView, error) {
	const op = "service/contacts/PendingRequests"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	links, err := s.contactsStorage.PendingLinksByReceiver(ctx, userID)
	if err != nil {
		lg.Error("storage error on PendingLinksByReceiver", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return s.contactViews(ctx, userID, links)
}

// contactViews собирает представления связей со стороны viewer:
// идентификация второй стороны берётся из профилей одним запросом,
// раскрытые поля — из зафиксированного фасета связи.
func (s *Service) contactViews(ctx context.Context, viewer uuid.UUID, links []models.ContactLink) ([]ContactView, error) {
	const op = "service/contacts/contactViews"

	if len(links) == 0 {
		return []ContactView{}, nil
	}

	ids := make([]uuid.UUID, 0, len(links))
	for i := range links {
		ids = append(ids, links[i].Other(viewer))
	}

	profiles, err := s.profilesStorage.ProfilesByIDs(ctx, ids)
	if err != nil {
		log.From(ctx).Error("storage error on ProfilesByIDs", "op", op, "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	byID := make(map[uuid.UUID]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].UserID] = &profiles[i]
	}

	views := make([]ContactView, 0, len(links))

	for i := range links {
		link := &links[i]
		other := link.Other(viewer)

		view := ContactView{
			UserID: other,
			Shared: link.FacetOf(other),
			Since:  link.ApprovedAt,
			EdgeID: link.ID,
			Status: link.Status,
		}

		if link.Status == models.LinkStatusPending {
			view.Since = link.CreatedAt
		}

		if profile, ok := byID[other]; ok {
			view.DisplayName = profile.DisplayName
			view.Handle = profile.Handle
		}

		views = append(views, view)
	}

	return views, nil
}

// notify отправляет уведомление fire-and-forget: сбой брокера логируется
// и никогда не влияет на результат мутации.
func (s *Service) notify(ctx context.Context, event *models.ContactEvent) {
	if s.events == nil {
		return
	}

	if err := s.events.PublishContactEvent(ctx, event); err != nil {
		log.From(ctx).Warn("contact event publish failed",
			"kind", string(event.Kind),
			"err", err,
		)
	}
}

// service содержит бизнес-логику contacts-сервиса:
// - профили и пресеты раскрытия (personal/professional/custom);
// - жизненный цикл связи (follow -> approve -> unfollow);
// - одноразовые QR-токены с exactly-once погашением;
// - классификатор сети и ленты по видимости;
// - работа с аватарами (presigned URL и подтверждение загрузки).
package service

import (
	"errors"

	"github.com/pribylovaa/contacts-service/internal/cache"
	"github.com/pribylovaa/contacts-service/internal/config"
	"github.com/pribylovaa/contacts-service/internal/events"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные (валидация).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — конфликт уникальности/дубликат.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSelfFollow — попытка подписаться на самого себя.
	ErrSelfFollow = errors.New("self follow")
	// ErrAlreadyFollowing — связь между парой уже подтверждена.
	ErrAlreadyFollowing = errors.New("already following")
	// ErrRequestPending — между парой уже есть неподтверждённая заявка.
	ErrRequestPending = errors.New("request pending")
	// ErrNotReceiver — approve вызван не получателем заявки.
	ErrNotReceiver = errors.New("caller is not the request receiver")
	// ErrTokenExpired — срок жизни QR-токена истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenConsumed — QR-токен уже погашен.
	ErrTokenConsumed = errors.New("token already consumed")
	// ErrSelfRedeem — попытка погасить собственный QR-токен.
	ErrSelfRedeem = errors.New("self redeem")
	// ErrInternal — внутренняя ошибка сервиса.
	ErrInternal = errors.New("internal")
)

// Service — описывает бизнес-логику contacts-service.
type Service struct {
	cfg             *config.Config
	profilesStorage storage.ProfilesStorage
	contactsStorage storage.ContactsStorage
	tokensStorage   storage.QRTokensStorage
	postsStorage    storage.PostsStorage
	avatarsStorage  storage.AvatarsStorage
	events          events.Publisher
	qrCache         cache.TokenCache
}

// New создает новый экземпляр Service.
//
// events и qrCache опциональны (nil допустим): без брокера уведомления
// не рассылаются, без кеша предпросмотр токена ходит в БД.
func New(
	cfg *config.Config,
	profilesStorage storage.ProfilesStorage,
	contactsStorage storage.ContactsStorage,
	tokensStorage storage.QRTokensStorage,
	postsStorage storage.PostsStorage,
	avatarsStorage storage.AvatarsStorage,
	events events.Publisher,
	qrCache cache.TokenCache,
) *Service {
	return &Service{
		cfg:             cfg,
		profilesStorage: profilesStorage,
		contactsStorage: contactsStorage,
		tokensStorage:   tokensStorage,
		postsStorage:    postsStorage,
		avatarsStorage:  avatarsStorage,
		events:          events,
		qrCache:         qrCache,
	}
}

// storage содержит контракты слоя хранилищ contacts-service.
//
// profiles.go — профили и пресеты раскрытия (создание/чтение/частичное
// обновление, фиксация аватара после подтверждения загрузки в S3/MinIO).
// contacts.go — граф связей: одна запись на неупорядоченную пару
// пользователей, атомарные мутации follow/approve/unfollow.
// qrtokens.go — одноразовые QR-токены: сохранение, погашение с CAS,
// фоновая очистка просроченных.
// posts.go — публикации для ленты.
// avatars.go — контракт загрузки аватаров в S3/MinIO.
package storage

import "errors"

var (
	// ErrNotFoundProfile — профиль не найден.
	ErrNotFoundProfile = errors.New("profile not found")
	// ErrNotFoundLink — связь не найдена.
	ErrNotFoundLink = errors.New("contact link not found")
	// ErrNotFoundToken — токен не найден.
	ErrNotFoundToken = errors.New("qr token not found")
	// ErrAlreadyExists — запись с тем же первичным ключом/уникальным полем уже существует.
	ErrAlreadyExists = errors.New("already exists")

	// ErrLinkApproved — связь пары уже подтверждена.
	ErrLinkApproved = errors.New("link already approved")
	// ErrLinkPending — по паре уже есть ожидающий запрос (в любую сторону).
	ErrLinkPending = errors.New("link request pending")
	// ErrNotReceiver — подтвердить запрос может только его получатель.
	ErrNotReceiver = errors.New("caller is not the receiver")

	// ErrTokenConsumed — токен уже был погашен.
	ErrTokenConsumed = errors.New("qr token consumed")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("qr token expired")

	// ErrInvalidCursor - битый/чужой page_token (курсор пагинации).
	ErrInvalidCursor = errors.New("invalid cursor")
)

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/pkg/log"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

// Входные структуры сервисного слоя.
type CreateProfileInput struct {
	UserID      uuid.UUID
	DisplayName string
	Handle      string
	Email       string
	Phone       string
	Company     string
	Position    string
	Education   string
	Bio         string
	Handles     []string
}

type UpdateProfileInput struct {
	UserID      uuid.UUID
	DisplayName *string
	Email       *string
	Phone       *string
	Company     *string
	Position    *string
	Education   *string
	Bio         *string
	Handles     *[]string
}

type AvatarUploadURLInput struct {
	UserID        uuid.UUID
	ContentType   string
	ContentLength int64
}

type ConfirmAvatarUploadInput struct {
	UserID    uuid.UUID
	AvatarKey string
}

// ProfileByID возвращает профиль по идентификатору пользователя.
//
// Валидация:
//   - userID не должен быть нулевым (uuid.Nil) — иначе ErrInvalidArgument.
//
// Поведение:
//   - при отсутствии записи возвращает ErrNotFound;
//   - ошибки стораджа/БД/контекста маппятся в ErrInternal.
func (s *Service) ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "service/profiles/ProfileByID"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.profilesStorage.ProfileByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("profile not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ProfileByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// CreateProfile создаёт новый профиль пользователя.
//
// Валидация:
//   - userID обязателен (uuid.Nil -> ErrInvalidArgument);
//   - display_name и handle нормализуются (TrimSpace) и не должны быть пустыми.
//
// Поведение:
//   - при конфликте уникальности (user_id или handle) возвращает ErrAlreadyExists;
//   - иные ошибки стораджа маппятся в ErrInternal.
func (s *Service) CreateProfile(ctx context.Context, input CreateProfileInput) (*models.Profile, error) {
	const op = "service/profiles/CreateProfile"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Handle = strings.TrimSpace(input.Handle)

	if input.DisplayName == "" {
		lg.Warn("invalid argument: empty display_name")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if input.Handle == "" {
		lg.Warn("invalid argument: empty handle")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	profile := &models.Profile{
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		Handle:      input.Handle,
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		Company:     strings.TrimSpace(input.Company),
		Position:    strings.TrimSpace(input.Position),
		Education:   strings.TrimSpace(input.Education),
		Bio:         strings.TrimSpace(input.Bio),
		Handles:     input.Handles,
	}

	result, err := s.profilesStorage.CreateProfile(ctx, profile)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			lg.Warn("profile already exists")

			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		default:
			lg.Error("storage error on CreateProfile", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// UpdateProfile выполняет частичное обновление полей профиля.
//
// Правила:
//   - обновляются только поля с непустыми указателями;
//   - display_name при обновлении нормализуется и не может стать пустым;
//   - пустая строка в остальных текстовых полях допустима — это явное «очистить»;
//   - no-op (пустой апдейт) допустим — updated_at всё равно увеличится на уровне БД.
//
// Поведение:
//   - при отсутствии записи возвращает ErrNotFound;
//   - все прочие ошибки стораджа маппятся в ErrInternal.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.Profile, error) {
	const op = "service/profiles/UpdateProfile"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	upd := storage.ProfileUpdate{}

	if input.DisplayName != nil {
		val := strings.TrimSpace(*input.DisplayName)

		if val == "" {
			lg.Warn("invalid argument: empty display_name in update")

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		upd.DisplayName = &val
	}

	trimmed := func(src *string) *string {
		if src == nil {
			return nil
		}

		val := strings.TrimSpace(*src)

		return &val
	}

	upd.Email = trimmed(input.Email)
	upd.Phone = trimmed(input.Phone)
	upd.Company = trimmed(input.Company)
	upd.Position = trimmed(input.Position)
	upd.Education = trimmed(input.Education)
	upd.Bio = trimmed(input.Bio)
	upd.Handles = input.Handles

	result, err := s.profilesStorage.UpdateProfile(ctx, input.UserID, upd)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("profile not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateProfile", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// SetPreset сохраняет явную конфигурацию одного пресета раскрытия.
//
// Валидация:
//   - userID обязателен;
//   - preset должен входить в закрытое множество (personal/professional/custom).
//
// Конфигурация перекрывает неявный дефолт пресета; уже зафиксированные
// фасеты существующих связей не пересчитываются.
func (s *Service) SetPreset(ctx context.Context, userID uuid.UUID, preset models.Preset, flags models.FieldFlags) (*models.Profile, error) {
	const op = "service/profiles/SetPreset"

	lg := log.From(ctx).With("op", op, "user_id", userID.String(), "preset", string(preset))

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if !preset.Valid() {
		lg.Warn("invalid argument: unknown preset")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.profilesStorage.UpsertPreset(ctx, userID, preset, flags)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("profile not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpsertPreset", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// AvatarUploadURL выдаёт presigned PUT URL для загрузки аватара.
//
// Валидация типа и размера выполняется в сторадже аватаров
// (ограничения берутся из конфигурации).
func (s *Service) AvatarUploadURL(ctx context.Context, input AvatarUploadURLInput) (*storage.UploadInfo, error) {
	const op = "service/profiles/AvatarUploadURL"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	info, err := s.avatarsStorage.AvatarUploadURL(ctx, input.UserID, input.ContentType, input.ContentLength)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidArgument):
			lg.Warn("invalid avatar upload params", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			lg.Error("storage error on AvatarUploadURL", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return info, nil
}

// ConfirmAvatarUpload подтверждает загрузку аватара и фиксирует ключ в профиле.
//
// Поведение:
//   - проверка факта загрузки (наличие объекта, тип, размер) — в сторадже аватаров;
//   - при успехе avatar_key и публичный URL записываются в профиль.
func (s *Service) ConfirmAvatarUpload(ctx context.Context, input ConfirmAvatarUploadInput) (*models.Profile, error) {
	const op = "service/profiles/ConfirmAvatarUpload"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	key := strings.TrimSpace(input.AvatarKey)

	if key == "" {
		lg.Warn("invalid argument: empty avatar_key")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	publicURL, err := s.avatarsStorage.CheckAvatarUpload(ctx, input.UserID, key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundAvatar):
			lg.Warn("avatar object not found", "key", key)

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrInvalidArgument):
			lg.Warn("avatar object failed validation", "key", key, "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			lg.Error("storage error on CheckAvatarUpload", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	result, err := s.profilesStorage.ConfirmAvatarUpload(ctx, input.UserID, key, publicURL)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("profile not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ConfirmAvatarUpload", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
)

// ProfileUpdate — частичный апдейт профиля.
// Параметры задаются pointer-полями: только непустые указатели обновляются в БД.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
	Phone       *string
	Company     *string
	Position    *string
	Education   *string
	Bio         *string
	Handles     *[]string
}

// Profiles — контракт репозитория профилей.
type Profiles interface {
	// CreateProfile создаёт новый профиль.
	CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	// ProfileByID возвращает профиль по user_id.
	ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// ProfilesByIDs возвращает профили по набору user_id (без гарантии порядка;
	// отсутствующие идентификаторы молча пропускаются).
	ProfilesByIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error)
	// UpdateProfile выполняет частичное обновление полей, указанных в update.
	// Реализация должна обновить updated_at.
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.Profile, error)
	// UpsertPreset сохраняет конфигурацию одного пресета раскрытия.
	UpsertPreset(ctx context.Context, userID uuid.UUID, preset models.Preset, flags models.FieldFlags) (*models.Profile, error)
	// ConfirmAvatarUpload фиксирует новый avatar_key и (опционально) avatar_url в записи профиля.
	// Необходимо вызвать после успешного подтверждения загрузки в S3/MinIO.
	ConfirmAvatarUpload(ctx context.Context, userID uuid.UUID, key, publicURL string) (*models.Profile, error)
}

// ProfilesStorage — верхнеуровневый интерфейс хранилища профилей.
type ProfilesStorage interface {
	Profiles
}

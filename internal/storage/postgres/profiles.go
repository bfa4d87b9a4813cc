package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

// profileColumns — единый список колонок таблицы profiles,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
const profileColumns = `
user_id, display_name, handle, email, phone, company, position, education, bio,
handles, avatar_key, avatar_url, presets, created_at, updated_at
`

// scanProfile сканирует одну строку профиля из результата запроса
// в доменную модель (presets хранятся как JSONB и разворачиваются в map).
func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var presets []byte

	if err := row.Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Handle,
		&profile.Email,
		&profile.Phone,
		&profile.Company,
		&profile.Position,
		&profile.Education,
		&profile.Bio,
		&profile.Handles,
		&profile.AvatarKey,
		&profile.AvatarURL,
		&presets,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}

	profile.Presets = make(map[models.Preset]models.FieldFlags)
	if len(presets) > 0 {
		if err := json.Unmarshal(presets, &profile.Presets); err != nil {
			return nil, err
		}
	}

	return &profile, nil
}

// CreateProfile вставляет новую запись профиля.
// Ошибки: storage.ErrAlreadyExists при конфликте уникальности (PK/handle), иные — как есть.
func (s *Storage) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	const op = "storage/postgres/profiles/CreateProfile"

	presets, err := json.Marshal(profile.Presets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := `
	INSERT INTO profiles (user_id, display_name, handle, email, phone, company, position, education, bio, handles, presets)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING
	` + profileColumns

	row := s.db.QueryRow(ctx, q,
		profile.UserID,
		profile.DisplayName,
		profile.Handle,
		profile.Email,
		profile.Phone,
		profile.Company,
		profile.Position,
		profile.Education,
		profile.Bio,
		profile.Handles,
		presets,
	)

	result, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// ProfileByID возвращает профиль по user_id.
// Ошибки: storage.ErrNotFoundProfile, либо ошибка выполнения запроса.
func (s *Storage) ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ProfileByID"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	row := s.db.QueryRow(ctx, q, userID)

	result, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// ProfilesByIDs возвращает профили по набору user_id.
// Отсутствующие идентификаторы молча пропускаются, порядок не гарантируется.
func (s *Storage) ProfilesByIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error) {
	const op = "storage/postgres/profiles/ProfilesByIDs"

	if len(userIDs) == 0 {
		return nil, nil
	}

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ANY($1)`

	rows, err := s.db.Query(ctx, q, userIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0, len(userIDs))
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return profiles, nil
}

// UpdateProfile выполняет частичный апдейт: обновляет только поля,
// указанные непустыми pointer-полями, и всегда сдвигает updated_at = now().
// Ошибки: storage.ErrNotFoundProfile при отсутствии записи.
func (s *Storage) UpdateProfile(ctx context.Context, userID uuid.UUID, update storage.ProfileUpdate) (*models.Profile, error) {
	const op = "storage/postgres/profiles/UpdateProfile"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 9)
	count := 1

	addSet := func(column string, value any) {
		count++
		sets = append(sets, fmt.Sprintf("%s = $%d", column, count))
		args = append(args, value)
	}

	if update.DisplayName != nil {
		addSet("display_name", *update.DisplayName)
	}

	if update.Email != nil {
		addSet("email", *update.Email)
	}

	if update.Phone != nil {
		addSet("phone", *update.Phone)
	}

	if update.Company != nil {
		addSet("company", *update.Company)
	}

	if update.Position != nil {
		addSet("position", *update.Position)
	}

	if update.Education != nil {
		addSet("education", *update.Education)
	}

	if update.Bio != nil {
		addSet("bio", *update.Bio)
	}

	if update.Handles != nil {
		addSet("handles", *update.Handles)
	}

	count++
	args = append(args, userID)

	q := fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), count, profileColumns)

	row := s.db.QueryRow(ctx, q, args...)

	result, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// UpsertPreset сохраняет конфигурацию одного пресета раскрытия
// точечным jsonb_set без перезаписи остальных пресетов.
// Ошибки: storage.ErrNotFoundProfile при отсутствии записи.
func (s *Storage) UpsertPreset(ctx context.Context, userID uuid.UUID, preset models.Preset, flags models.FieldFlags) (*models.Profile, error) {
	const op = "storage/postgres/profiles/UpsertPreset"

	value, err := json.Marshal(flags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := `
	UPDATE profiles
	SET presets = jsonb_set(presets, ARRAY[$2], $3::jsonb, true), updated_at = now()
	WHERE user_id = $1
	RETURNING
	` + profileColumns

	row := s.db.QueryRow(ctx, q, userID, string(preset), value)

	result, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// ConfirmAvatarUpload фиксирует avatar_key и (опционально) avatar_url
// после успешной проверки объекта в S3/MinIO. Всегда обновляет updated_at.
// Ошибки: storage.ErrNotFoundProfile при отсутствии записи.
func (s *Storage) ConfirmAvatarUpload(ctx context.Context, userID uuid.UUID, key, publicURL string) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ConfirmAvatarUpload"

	q := `
	UPDATE profiles
	SET avatar_key = $2, avatar_url = $3, updated_at = now()
	WHERE user_id = $1
	RETURNING
	` + profileColumns

	row := s.db.QueryRow(ctx, q, userID, key, publicURL)

	result, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

// tokenColumns — единый список колонок таблицы qr_tokens.
const tokenColumns = `
token, owner_id, preset, consumed_by, expires_at, created_at
`

// scanToken сканирует одну строку токена (consumed_by — nullable UUID).
func scanToken(row pgx.Row) (*models.QRToken, error) {
	var token models.QRToken
	var preset string
	var consumedBy *uuid.UUID

	if err := row.Scan(
		&token.Token,
		&token.OwnerID,
		&preset,
		&consumedBy,
		&token.ExpiresAt,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}

	token.Preset = models.Preset(preset)
	if consumedBy != nil {
		token.ConsumedBy = *consumedBy
	}

	return &token, nil
}

// SaveToken сохраняет новый токен.
// Ошибки: storage.ErrAlreadyExists при коллизии значения токена.
func (s *Storage) SaveToken(ctx context.Context, token *models.QRToken) error {
	const op = "storage/postgres/qrtokens/SaveToken"

	q := `
	INSERT INTO qr_tokens (token, owner_id, preset, expires_at)
	VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.Exec(ctx, q, token.Token, token.OwnerID, string(token.Preset), token.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// TokenByValue возвращает токен по значению (для предпросмотра).
// Ошибки: storage.ErrNotFoundToken.
func (s *Storage) TokenByValue(ctx context.Context, token string) (*models.QRToken, error) {
	const op = "storage/postgres/qrtokens/TokenByValue"

	q := `SELECT ` + tokenColumns + ` FROM qr_tokens WHERE token = $1`

	result, err := scanToken(s.db.QueryRow(ctx, q, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// RedeemToken гасит токен и поднимает связь пары до approved одной транзакцией.
//
// Потребление — единственный условный UPDATE (CAS по consumed_by): из двух
// конкурентных погашений одного токена ровно одно проходит, второе получает
// ErrTokenConsumed. Диагностика неуспеха (не найден / истёк / погашен)
// выполняется отдельным SELECT уже после проигранного CAS.
//
// Связь пары любого статуса поднимается до approved с перезаписью обоих
// фацетов (UPSERT по уникальному ключу пары) — параллельные рёбра не
// создаются, ожидание pending/approve не требуется.
func (s *Storage) RedeemToken(ctx context.Context, input storage.RedeemInput) (*models.ContactLink, error) {
	const op = "storage/postgres/qrtokens/RedeemToken"

	ownerData, err := facetJSON(input.OwnerFacet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redeemerData, err := facetJSON(input.RedeemerFacet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const consume = `
	UPDATE qr_tokens
	SET consumed_by = $2
	WHERE token = $1 AND consumed_by IS NULL AND expires_at > now()
	RETURNING owner_id
	`

	var ownerID uuid.UUID
	err = tx.QueryRow(ctx, consume, input.Token, input.Redeemer).Scan(&ownerID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		// CAS не прошёл: выясняем причину.
		const diagnose = `SELECT consumed_by, expires_at FROM qr_tokens WHERE token = $1`

		var consumedBy *uuid.UUID
		var expiresAt time.Time
		if err := tx.QueryRow(ctx, diagnose, input.Token).Scan(&consumedBy, &expiresAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundToken)
			}

			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if consumedBy != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrTokenConsumed)
		}

		return nil, fmt.Errorf("%s: %w", op, storage.ErrTokenExpired)
	}

	a, b := models.PairKey(ownerID, input.Redeemer)

	aPreset, bPreset := string(input.OwnerPreset), string(input.RedeemerPreset)
	aShared, bShared := ownerData, redeemerData
	if ownerID == b {
		aPreset, bPreset = bPreset, aPreset
		aShared, bShared = bShared, aShared
	}

	const upsert = `
	INSERT INTO contact_links (user_a, user_b, status, requested_by, a_preset, b_preset, a_shared, b_shared, approved_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	ON CONFLICT (user_a, user_b) DO UPDATE SET
		status = EXCLUDED.status,
		a_preset = EXCLUDED.a_preset,
		b_preset = EXCLUDED.b_preset,
		a_shared = EXCLUDED.a_shared,
		b_shared = EXCLUDED.b_shared,
		approved_at = now(),
		updated_at = now()
	RETURNING
	` + linkColumns

	link, err := scanLink(tx.QueryRow(ctx, upsert,
		a, b, int16(models.LinkStatusApproved), ownerID, aPreset, bPreset, aShared, bShared))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// DeleteExpiredTokens удаляет просроченные непогашенные токены.
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) error {
	const op = "storage/postgres/qrtokens/DeleteExpiredTokens"

	q := `DELETE FROM qr_tokens WHERE expires_at <= $1 AND consumed_by IS NULL`

	if _, err := s.db.Exec(ctx, q, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

// linkColumns — единый список колонок таблицы contact_links,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
const linkColumns = `
id, user_a, user_b, status, requested_by, a_preset, b_preset, a_shared, b_shared,
created_at, updated_at, approved_at
`

// scanLink сканирует одну строку связи в доменную модель
// (фацеты хранятся как nullable JSONB, approved_at — nullable TIMESTAMPTZ).
func scanLink(row pgx.Row) (*models.ContactLink, error) {
	var link models.ContactLink
	var status int16
	var aPreset, bPreset string
	var aShared, bShared []byte
	var approvedAt *time.Time

	if err := row.Scan(
		&link.ID,
		&link.UserA,
		&link.UserB,
		&status,
		&link.RequestedBy,
		&aPreset,
		&bPreset,
		&aShared,
		&bShared,
		&link.CreatedAt,
		&link.UpdatedAt,
		&approvedAt,
	); err != nil {
		return nil, err
	}

	link.Status = models.LinkStatus(status)
	link.APreset = models.Preset(aPreset)
	link.BPreset = models.Preset(bPreset)

	if len(aShared) > 0 {
		link.AShared = &models.Facet{}
		if err := json.Unmarshal(aShared, link.AShared); err != nil {
			return nil, err
		}
	}

	if len(bShared) > 0 {
		link.BShared = &models.Facet{}
		if err := json.Unmarshal(bShared, link.BShared); err != nil {
			return nil, err
		}
	}

	if approvedAt != nil {
		link.ApprovedAt = *approvedAt
	}

	return &link, nil
}

// facetJSON сериализует фацет для записи в JSONB-колонку (nil -> NULL).
func facetJSON(f *models.Facet) ([]byte, error) {
	if f == nil {
		return nil, nil
	}

	return json.Marshal(f)
}

// lockPair читает строку пары под блокировкой FOR UPDATE внутри транзакции.
func lockPair(ctx context.Context, tx pgx.Tx, a, b uuid.UUID) (*models.ContactLink, error) {
	q := `SELECT ` + linkColumns + ` FROM contact_links WHERE user_a = $1 AND user_b = $2 FOR UPDATE`

	return scanLink(tx.QueryRow(ctx, q, a, b))
}

// CreateFollowRequest создаёт ожидающий запрос requester -> receiver.
//
// Вся последовательность «прочитать пару — решить — записать» выполняется
// одной транзакцией с блокировкой строки пары: два конкурентных follow
// по одной паре сериализуются на уровне БД. FOR UPDATE не блокирует ещё
// не существующую строку, поэтому две конкурентных ПЕРВЫХ заявки по паре
// обе доходят до INSERT; проигравшая упирается в contact_links_pair_uq,
// транзакция после этого abort-нута — повтор выполняется новой
// транзакцией, где строка уже существует и решение принимается по обычной
// ветке (approved/встречный pending/идемпотентный повтор).
//
// Повторная отправка того же запроса той же стороной идемпотентна: строка
// обновляется (пресет/фацет, если переданы), вторая pending-строка не
// создаётся. Фацет второй стороны при этом не трогается.
// Ошибки: storage.ErrLinkApproved, storage.ErrLinkPending.
func (s *Storage) CreateFollowRequest(ctx context.Context, requester, receiver uuid.UUID, preset models.Preset, facet *models.Facet) (*storage.FollowResult, error) {
	const op = "storage/postgres/contacts/CreateFollowRequest"

	facetData, err := facetJSON(facet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a, b := models.PairKey(requester, receiver)

	for attempt := 0; ; attempt++ {
		result, err := s.followTx(ctx, a, b, requester, preset, facetData)
		if err != nil {
			var pgErr *pgconn.PgError
			if attempt == 0 && errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				continue
			}

			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return result, nil
	}
}

// followTx — одна попытка «прочитать пару — решить — записать» в рамках
// собственной транзакции. Сентинелы возвращаются без обёртки op:
// её добавляет CreateFollowRequest.
func (s *Storage) followTx(ctx context.Context, a, b, requester uuid.UUID, preset models.Preset, facetData []byte) (*storage.FollowResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := lockPair(ctx, tx, a, b)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if existing == nil {
		aPreset, bPreset := "", ""
		var aShared, bShared []byte
		if requester == a {
			aPreset, aShared = string(preset), facetData
		} else {
			bPreset, bShared = string(preset), facetData
		}

		q := `
		INSERT INTO contact_links (user_a, user_b, status, requested_by, a_preset, b_preset, a_shared, b_shared)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING
		` + linkColumns

		link, err := scanLink(tx.QueryRow(ctx, q,
			a, b, int16(models.LinkStatusPending), requester, aPreset, bPreset, aShared, bShared))
		if err != nil {
			return nil, err
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		return &storage.FollowResult{Link: link, Created: true}, nil
	}

	if existing.Status == models.LinkStatusApproved {
		return nil, storage.ErrLinkApproved
	}

	// pending в обратную сторону блокирует новый запрос.
	if existing.RequestedBy != requester {
		return nil, storage.ErrLinkPending
	}

	// Идемпотентный повтор своей заявки: обновляем пресет/фацет, если переданы.
	sets := []string{"updated_at = now()"}
	args := []any{existing.ID}
	count := 1

	if preset != "" {
		presetColumn, sharedColumn := "a_preset", "a_shared"
		if requester == b {
			presetColumn, sharedColumn = "b_preset", "b_shared"
		}

		count++
		sets = append(sets, fmt.Sprintf("%s = $%d", presetColumn, count))
		args = append(args, string(preset))

		count++
		sets = append(sets, fmt.Sprintf("%s = $%d", sharedColumn, count))
		args = append(args, facetData)
	}

	q := fmt.Sprintf(`UPDATE contact_links SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), linkColumns)

	link, err := scanLink(tx.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &storage.FollowResult{Link: link, Created: false}, nil
}

// ApproveLink подтверждает запрос linkID со стороны caller.
// Статус и право caller перепроверяются под блокировкой строки, поэтому
// гонка «подтвердили дважды» разрешается в ErrLinkApproved у проигравшего.
// Ошибки: storage.ErrNotFoundLink, storage.ErrNotReceiver, storage.ErrLinkApproved.
func (s *Storage) ApproveLink(ctx context.Context, linkID, caller uuid.UUID, callerPreset models.Preset, callerFacet, requesterFacet *models.Facet) (*models.ContactLink, error) {
	const op = "storage/postgres/contacts/ApproveLink"

	callerData, err := facetJSON(callerFacet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	requesterData, err := facetJSON(requesterFacet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `SELECT ` + linkColumns + ` FROM contact_links WHERE id = $1 FOR UPDATE`

	existing, err := scanLink(tx.QueryRow(ctx, q, linkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundLink)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if existing.Status == models.LinkStatusApproved {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrLinkApproved)
	}

	if !existing.Participant(caller) || existing.RequestedBy == caller {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotReceiver)
	}

	sets := []string{
		fmt.Sprintf("status = %d", int16(models.LinkStatusApproved)),
		"approved_at = now()",
		"updated_at = now()",
	}
	args := []any{existing.ID}
	count := 1

	callerIsA := caller == existing.UserA

	if callerPreset != "" {
		presetColumn, sharedColumn := "b_preset", "b_shared"
		if callerIsA {
			presetColumn, sharedColumn = "a_preset", "a_shared"
		}

		count++
		sets = append(sets, fmt.Sprintf("%s = $%d", presetColumn, count))
		args = append(args, string(callerPreset))

		count++
		sets = append(sets, fmt.Sprintf("%s = $%d", sharedColumn, count))
		args = append(args, callerData)
	}

	// Фацет инициатора перепроецирован сервисом из актуального профиля.
	if requesterData != nil {
		sharedColumn := "a_shared"
		if callerIsA {
			sharedColumn = "b_shared"
		}

		count++
		sets = append(sets, fmt.Sprintf("%s = $%d", sharedColumn, count))
		args = append(args, requesterData)
	}

	uq := fmt.Sprintf(`UPDATE contact_links SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), linkColumns)

	link, err := scanLink(tx.QueryRow(ctx, uq, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// DeleteLink удаляет запись пары целиком: обе «стороны» связи исчезают
// одним DELETE, частично разорванного состояния не существует.
// Ошибки: storage.ErrNotFoundLink.
func (s *Storage) DeleteLink(ctx context.Context, caller, other uuid.UUID) (*models.ContactLink, error) {
	const op = "storage/postgres/contacts/DeleteLink"

	a, b := models.PairKey(caller, other)

	q := `DELETE FROM contact_links WHERE user_a = $1 AND user_b = $2 RETURNING ` + linkColumns

	link, err := scanLink(s.db.QueryRow(ctx, q, a, b))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundLink)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// LinkByID возвращает связь по идентификатору.
// Ошибки: storage.ErrNotFoundLink.
func (s *Storage) LinkByID(ctx context.Context, linkID uuid.UUID) (*models.ContactLink, error) {
	const op = "storage/postgres/contacts/LinkByID"

	q := `SELECT ` + linkColumns + ` FROM contact_links WHERE id = $1`

	link, err := scanLink(s.db.QueryRow(ctx, q, linkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundLink)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// LinkByPair возвращает связь пары (в любом порядке идентификаторов).
// Ошибки: storage.ErrNotFoundLink.
func (s *Storage) LinkByPair(ctx context.Context, x, y uuid.UUID) (*models.ContactLink, error) {
	const op = "storage/postgres/contacts/LinkByPair"

	a, b := models.PairKey(x, y)

	q := `SELECT ` + linkColumns + ` FROM contact_links WHERE user_a = $1 AND user_b = $2`

	link, err := scanLink(s.db.QueryRow(ctx, q, a, b))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundLink)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// scanLinks вычитывает все строки результата в срез связей.
func scanLinks(rows pgx.Rows) ([]models.ContactLink, error) {
	defer rows.Close()

	var links []models.ContactLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}

// ApprovedLinksByUser возвращает все подтверждённые связи пользователя
// одним запросом — это консистентный снимок для классификации кругов.
func (s *Storage) ApprovedLinksByUser(ctx context.Context, userID uuid.UUID) ([]models.ContactLink, error) {
	const op = "storage/postgres/contacts/ApprovedLinksByUser"

	q := `
	SELECT ` + linkColumns + `
	FROM contact_links
	WHERE (user_a = $1 OR user_b = $1) AND status = $2
	ORDER BY approved_at DESC
	`

	rows, err := s.db.Query(ctx, q, userID, int16(models.LinkStatusApproved))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	links, err := scanLinks(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return links, nil
}

// PendingLinksByReceiver возвращает входящие ожидающие запросы пользователя.
func (s *Storage) PendingLinksByReceiver(ctx context.Context, userID uuid.UUID) ([]models.ContactLink, error) {
	const op = "storage/postgres/contacts/PendingLinksByReceiver"

	q := `
	SELECT ` + linkColumns + `
	FROM contact_links
	WHERE (user_a = $1 OR user_b = $1) AND status = $2 AND requested_by <> $1
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, q, userID, int16(models.LinkStatusPending))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	links, err := scanLinks(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return links, nil
}

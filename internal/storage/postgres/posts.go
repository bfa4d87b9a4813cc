package postgres

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

// postColumns — единый список колонок таблицы posts.
const postColumns = `
id, owner_id, content, network, visibility, created_at
`

// scanPost сканирует одну строку публикации.
func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	var network, visibility int16

	if err := row.Scan(
		&post.ID,
		&post.OwnerID,
		&post.Content,
		&network,
		&visibility,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}

	post.Network = models.NetworkType(network)
	post.Visibility = models.Visibility(visibility)

	return &post, nil
}

// CreatePost сохраняет новую публикацию.
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	const op = "storage/postgres/posts/CreatePost"

	q := `
	INSERT INTO posts (owner_id, content, network, visibility)
	VALUES ($1, $2, $3, $4)
	RETURNING
	` + postColumns

	result, err := scanPost(s.db.QueryRow(ctx, q,
		post.OwnerID, post.Content, int16(post.Network), int16(post.Visibility)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// PostsByAuthors возвращает страницу публикаций авторов, отсортированных
// по (created_at, id) по убыванию. Курсор — составной ключ (created_at, id):
// одиночный created_at терял бы записи с одинаковой меткой времени на
// границе страницы. Пустой pageToken — с начала; непустой курсор следующей
// страницы возвращается, только когда страница заполнена.
func (s *Storage) PostsByAuthors(ctx context.Context, authors []uuid.UUID, limit int32, pageToken string) ([]models.Post, string, error) {
	const op = "storage/postgres/posts/PostsByAuthors"

	if len(authors) == 0 {
		return nil, "", nil
	}

	var (
		q    string
		args []any
	)

	if pageToken == "" {
		q = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE owner_id = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
		args = []any{authors, limit}
	} else {
		createdCur, idCur, err := decodePostsCursor(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, storage.ErrInvalidCursor)
		}

		q = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE owner_id = ANY($1) AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`
		args = []any{authors, createdCur, idCur, limit}
	}

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	var nextToken string
	if int32(len(posts)) == limit && len(posts) > 0 {
		last := posts[len(posts)-1]
		nextToken = encodePostsCursor(last.CreatedAt, last.ID)
	}

	return posts, nextToken, nil
}

// encodePostsCursor упаковывает составной ключ (created_at, id) в непрозрачный токен.
func encodePostsCursor(createdAt time.Time, id uuid.UUID) string {
	raw := fmt.Sprintf("%d|%s", createdAt.UTC().UnixNano(), id.String())

	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodePostsCursor декодирует токен обратно в пару ключей.
func decodePostsCursor(token string) (time.Time, uuid.UUID, error) {
	res, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}

	parts := strings.SplitN(string(res), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("bad parts")
	}

	t, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}

	return time.Unix(0, t).UTC(), id, nil
}

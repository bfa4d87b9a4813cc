package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
)

// Posts — контракт репозитория публикаций.
type Posts interface {
	// CreatePost сохраняет новую публикацию.
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	// PostsByAuthors возвращает страницу публикаций авторов, отсортированных
	// по (created_at, id) по убыванию. pageToken — курсор keyset-пагинации
	// (пустая строка — с начала); вторым значением возвращается курсор
	// следующей страницы (пустая строка — выборка исчерпана).
	// При некорректном page_token должна вернуться ошибка ErrInvalidCursor.
	PostsByAuthors(ctx context.Context, authors []uuid.UUID, limit int32, pageToken string) ([]models.Post, string, error)
}

// PostsStorage — верхнеуровневый интерфейс хранилища публикаций.
type PostsStorage interface {
	Posts
}

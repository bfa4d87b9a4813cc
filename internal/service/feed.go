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

type CreatePostInput struct {
	OwnerID    uuid.UUID
	Content    string
	Network    models.NetworkType
	Visibility models.Visibility
}

type FeedInput struct {
	Viewer uuid.UUID
	Limit  int32
	// PageToken — непрозрачный keyset-курсор по (created_at, id).
	// Пустая строка — с начала ленты.
	PageToken string
}

// FeedPage — страница ленты с курсором продолжения.
type FeedPage struct {
	Posts []models.Post `json:"posts"`
	// NextPageToken — курсор для следующей страницы (пустая строка — лента
	// исчерпана).
	NextPageToken string `json:"next_page_token,omitempty"`
}

// CreatePost сохраняет публикацию с адресацией по кругу.
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	const op = "service/feed/CreatePost"

	lg := log.From(ctx).With("op", op, "owner_id", input.OwnerID.String())

	if input.OwnerID == uuid.Nil {
		lg.Warn("invalid argument: empty owner_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	input.Content = strings.TrimSpace(input.Content)

	if input.Content == "" {
		lg.Warn("invalid argument: empty content")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := s.profilesStorage.ProfileByID(ctx, input.OwnerID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("owner profile not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ProfileByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	post := &models.Post{
		OwnerID:    input.OwnerID,
		Content:    input.Content,
		Network:    input.Network,
		Visibility: input.Visibility,
	}

	result, err := s.postsStorage.CreatePost(ctx, post)
	if err != nil {
		lg.Error("storage error on CreatePost", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return result, nil
}

// Feed собирает ленту viewer'а: собственные публикации и публикации
// контактов, прошедшие фильтр кругов.
//
// Правила допуска публикации контакта:
//   - network_type=both — достаточно подтверждённой связи (круг both);
//   - network_type=personal/professional — viewer должен входить в
//     соответствующий круг автора;
//   - visibility=public снимает фильтр кругов (но не расширяет выборку
//     за пределы подтверждённых контактов — лента остаётся лентой связей).
//
// Пагинация — keyset по составному ключу (created_at, id): страница может
// оказаться короче limit из-за фильтрации, курсор NextPageToken продолжает
// с места останова.
func (s *Service) Feed(ctx context.Context, input FeedInput) (*FeedPage, error) {
	const op = "service/feed/Feed"

	lg := log.From(ctx).With("op", op, "viewer_id", input.Viewer.String())

	if input.Viewer == uuid.Nil {
		lg.Warn("invalid argument: empty viewer_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	limit := input.Limit
	if limit <= 0 || limit > s.cfg.Feed.PageSize {
		limit = s.cfg.Feed.PageSize
	}

	networks, err := s.Networks(ctx, input.Viewer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authors := make([]uuid.UUID, 0, len(networks.Both)+1)
	authors = append(authors, input.Viewer)

	for id := range networks.Both {
		authors = append(authors, id)
	}

	posts, nextToken, err := s.postsStorage.PostsByAuthors(ctx, authors, limit, input.PageToken)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidCursor):
			lg.Warn("invalid page token")

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			lg.Error("storage error on PostsByAuthors", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	// Курсор указывает на последнюю ПРОСМОТРЕННУЮ публикацию, а не на
	// последнюю показанную: отфильтрованные записи не должны читаться заново.
	page := &FeedPage{
		Posts:         make([]models.Post, 0, len(posts)),
		NextPageToken: nextToken,
	}

	for i := range posts {
		post := &posts[i]

		if visibleTo(post, input.Viewer, networks) {
			page.Posts = append(page.Posts, *post)
		}
	}

	return page, nil
}

// visibleTo решает, видна ли публикация viewer'у при уже вычисленных кругах.
func visibleTo(post *models.Post, viewer uuid.UUID, networks *models.Networks) bool {
	if post.OwnerID == viewer {
		return true
	}

	if post.Visibility == models.VisibilityPublic {
		return true
	}

	switch post.Network {
	case models.NetworkPersonal:
		_, ok := networks.Personal[post.OwnerID]
		return ok
	case models.NetworkProfessional:
		_, ok := networks.Professional[post.OwnerID]
		return ok
	default:
		_, ok := networks.Both[post.OwnerID]
		return ok
	}
}

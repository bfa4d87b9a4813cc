package handlers

import (
	"net/http"
	"strconv"

	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/service"
	"github.com/pribylovaa/contacts-service/internal/transport/http/apierrors"
)

type createPostRequest struct {
	Content    string `json:"content"`
	Network    string `json:"network_type"`
	Visibility string `json:"visibility"`
}

// CreatePost — POST /posts. Публикация с адресацией по кругу.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in createPostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	network, ok := models.ParseNetworkType(in.Network)
	if !ok && in.Network != "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	visibility, ok := models.ParseVisibility(in.Visibility)
	if !ok && in.Visibility != "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	post, err := h.svc.CreatePost(r.Context(), service.CreatePostInput{
		OwnerID:    callerID,
		Content:    in.Content,
		Network:    network,
		Visibility: visibility,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, postFromModel(post))
}

// Feed — GET /feed?limit=&page_token=. Лента вызывающего с фильтром кругов;
// page_token — непрозрачный курсор keyset-пагинации.
func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	input := service.FeedInput{
		Viewer:    callerID,
		PageToken: r.URL.Query().Get("page_token"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit <= 0 {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}

		input.Limit = int32(limit)
	}

	page, err := h.svc.Feed(r.Context(), input)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	posts := make([]postResponse, 0, len(page.Posts))
	for i := range page.Posts {
		posts = append(posts, postFromModel(&page.Posts[i]))
	}

	resp := map[string]any{"posts": posts}
	if page.NextPageToken != "" {
		resp["next_page_token"] = page.NextPageToken
	}

	writeJSON(w, http.StatusOK, resp)
}

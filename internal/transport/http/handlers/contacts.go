package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/service"
	"github.com/pribylovaa/contacts-service/internal/transport/http/apierrors"
)

type followRequest struct {
	ReceiverID string `json:"receiver_id"`
	Preset     string `json:"preset"`
}

type approveRequest struct {
	Preset string `json:"preset"`
}

// Follow — POST /contacts/follow.
func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in followRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	receiverID, err := uuid.Parse(in.ReceiverID)
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	edge, err := h.svc.Follow(r.Context(), service.FollowInput{
		Requester: callerID,
		Receiver:  receiverID,
		Preset:    models.Preset(in.Preset),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, edgeFromModel(edge))
}

// Approve — POST /contacts/{edge_id}/approve.
func (h *Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	edgeID, err := uuid.Parse(chi.URLParam(r, "edge_id"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	var in approveRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	edge, err := h.svc.Approve(r.Context(), service.ApproveInput{
		Caller: callerID,
		LinkID: edgeID,
		Preset: models.Preset(in.Preset),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, edgeFromModel(edge))
}

// Unfollow — DELETE /contacts/{user_id}. Разрывает связь с пользователем
// целиком (отзыв своей заявки и отклонение чужой — та же операция).
func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	otherID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	if err := h.svc.Unfollow(r.Context(), callerID, otherID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContacts — GET /contacts. Подтверждённые контакты вызывающего.
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	views, err := h.svc.Contacts(r.Context(), callerID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"contacts": views})
}

// ListPending — GET /contacts/pending. Входящие ожидающие запросы.
func (h *Handlers) ListPending(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	views, err := h.svc.PendingRequests(r.Context(), callerID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"requests": views})
}

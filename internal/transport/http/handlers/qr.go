package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/service"
	"github.com/pribylovaa/contacts-service/internal/transport/http/apierrors"
)

type generateQRRequest struct {
	Preset string `json:"preset"`
}

type redeemQRRequest struct {
	Token  string `json:"token"`
	Preset string `json:"preset"`
}

type qrTokenResponse struct {
	Token     string        `json:"token"`
	Preset    models.Preset `json:"preset"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// GenerateQR — POST /qr. Выпускает одноразовый токен вызывающего.
func (h *Handlers) GenerateQR(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in generateQRRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	token, err := h.svc.GenerateQR(r.Context(), callerID, models.Preset(in.Preset))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, qrTokenResponse{
		Token:     token.Token,
		Preset:    token.Preset,
		ExpiresAt: token.ExpiresAt,
	})
}

// PreviewQR — GET /qr/{token}. Публичная часть токена для экрана
// подтверждения перед погашением.
func (h *Handlers) PreviewQR(w http.ResponseWriter, r *http.Request) {
	if _, err := caller(r); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	tokenValue := chi.URLParam(r, "token")
	if tokenValue == "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	preview, err := h.svc.PreviewQR(r.Context(), tokenValue)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// RedeemQR — POST /qr/redeem. Гасит токен и устанавливает подтверждённую
// связь вызывающий <-> владелец токена.
func (h *Handlers) RedeemQR(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in redeemQRRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	edge, err := h.svc.RedeemQR(r.Context(), service.RedeemQRInput{
		Redeemer: callerID,
		Token:    in.Token,
		Preset:   models.Preset(in.Preset),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, edgeFromModel(edge))
}

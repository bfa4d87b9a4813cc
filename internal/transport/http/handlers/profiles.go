package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/service"
	"github.com/pribylovaa/contacts-service/internal/transport/http/apierrors"
)

type createProfileRequest struct {
	DisplayName string   `json:"display_name"`
	Handle      string   `json:"handle"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Education   string   `json:"education"`
	Bio         string   `json:"bio"`
	Handles     []string `json:"handles"`
}

type updateProfileRequest struct {
	DisplayName *string   `json:"display_name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Company     *string   `json:"company"`
	Position    *string   `json:"position"`
	Education   *string   `json:"education"`
	Bio         *string   `json:"bio"`
	Handles     *[]string `json:"handles"`
}

type avatarPresignRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type avatarConfirmRequest struct {
	AvatarKey string `json:"avatar_key"`
}

// CreateProfile — POST /profiles. Владелец профиля — вызывающий.
func (h *Handlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in createProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	profile, err := h.svc.CreateProfile(r.Context(), service.CreateProfileInput{
		UserID:      callerID,
		DisplayName: in.DisplayName,
		Handle:      in.Handle,
		Email:       in.Email,
		Phone:       in.Phone,
		Company:     in.Company,
		Position:    in.Position,
		Education:   in.Education,
		Bio:         in.Bio,
		Handles:     in.Handles,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, profileFromModel(profile))
}

// GetProfile — GET /profiles/{id}. Свой профиль отдаётся целиком,
// чужой — только публичной частью: остальные поля раскрываются
// исключительно через фасеты подтверждённых связей.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	profile, err := h.svc.ProfileByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if id != callerID {
		writeJSON(w, http.StatusOK, publicProfileResponse{
			UserID:      profile.UserID,
			DisplayName: profile.DisplayName,
			Handle:      profile.Handle,
		})
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(profile))
}

// UpdateProfile — PATCH /profiles/me. Частичный апдейт полей вызывающего.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in updateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	profile, err := h.svc.UpdateProfile(r.Context(), service.UpdateProfileInput{
		UserID:      callerID,
		DisplayName: in.DisplayName,
		Email:       in.Email,
		Phone:       in.Phone,
		Company:     in.Company,
		Position:    in.Position,
		Education:   in.Education,
		Bio:         in.Bio,
		Handles:     in.Handles,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(profile))
}

// SetPreset — PUT /profiles/me/presets/{preset}. Тело — флаги раскрытия.
func (h *Handlers) SetPreset(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	preset := models.Preset(chi.URLParam(r, "preset"))

	var flags models.FieldFlags
	if err := decodeStrict(r, &flags); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	profile, err := h.svc.SetPreset(r.Context(), callerID, preset, flags)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(profile))
}

// AvatarPresign — POST /profiles/me/avatar/presign.
func (h *Handlers) AvatarPresign(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in avatarPresignRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	info, err := h.svc.AvatarUploadURL(r.Context(), service.AvatarUploadURLInput{
		UserID:        callerID,
		ContentType:   in.ContentType,
		ContentLength: in.ContentLength,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"upload_url":       info.UploadURL,
		"avatar_key":       info.AvatarKey,
		"expires_seconds":  int64(info.Expires.Seconds()),
		"required_headers": info.RequiredHeader,
	})
}

// AvatarConfirm — POST /profiles/me/avatar/confirm.
func (h *Handlers) AvatarConfirm(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in avatarConfirmRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	profile, err := h.svc.ConfirmAvatarUpload(r.Context(), service.ConfirmAvatarUploadInput{
		UserID:    callerID,
		AvatarKey: in.AvatarKey,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(profile))
}

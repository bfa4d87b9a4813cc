package service

// Тесты QR-обмена (qr.go).
//
// Проверяем:
//  - GenerateQR: валидацию, формат значения токена (base64url, 32 байта),
//    TTL из конфигурации, повтор при коллизии значения, наполнение кэша;
//  - PreviewQR: read-through кэш, ошибки consumed/expired/not-found;
//  - RedeemQR: подстановку personal при пустом пресете, self-redeem,
//    ранние проверки consumed/expired, проекцию обоих фасетов,
//    маппинг проигрыша CAS-гонки в ErrTokenConsumed, уведомление владельцу.

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/cache"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestService_GenerateQR_Validation(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := env.svc.GenerateQR(context.Background(), uuid.Nil, models.PresetPersonal)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.svc.GenerateQR(context.Background(), uuid.New(), models.Preset("friends"))
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Пустой пресет при выпуске недопустим (в отличие от погашения).
	_, err = env.svc.GenerateQR(context.Background(), uuid.New(), models.Preset(""))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_GenerateQR_OK(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	owner := uuid.New()
	profile := fullProfile()
	profile.UserID = owner

	env.profiles.EXPECT().ProfileByID(gomock.Any(), owner).Return(profile, nil)

	var saved *models.QRToken
	env.tokens.EXPECT().
		SaveToken(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token *models.QRToken) error {
			saved = token
			return nil
		})

	env.qrCache.EXPECT().
		Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	token, err := env.svc.GenerateQR(context.Background(), owner, models.PresetProfessional)
	require.NoError(t, err)
	require.Equal(t, saved, token)
	require.Equal(t, owner, token.OwnerID)
	require.Equal(t, models.PresetProfessional, token.Preset)
	require.False(t, token.Consumed())

	// 32 байта CSPRNG в base64url без паддинга.
	raw, err := base64.RawURLEncoding.DecodeString(token.Token)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	require.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), token.ExpiresAt, 5*time.Second)
}

func TestService_GenerateQR_RetriesOnCollision(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	owner := uuid.New()
	profile := fullProfile()
	profile.UserID = owner

	env.profiles.EXPECT().ProfileByID(gomock.Any(), owner).Return(profile, nil)

	first := env.tokens.EXPECT().SaveToken(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)
	env.tokens.EXPECT().SaveToken(gomock.Any(), gomock.Any()).After(first).Return(nil)
	env.qrCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err := env.svc.GenerateQR(context.Background(), owner, models.PresetPersonal)
	require.NoError(t, err)
}

func TestService_PreviewQR_CacheHit(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	owner := uuid.New()
	profile := fullProfile()
	profile.UserID = owner

	entry := &cache.TokenEntry{
		OwnerID:   owner,
		Preset:    models.PresetPersonal,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}

	env.qrCache.EXPECT().Get(gomock.Any(), "tok").Return(entry, true, nil)
	env.profiles.EXPECT().ProfileByID(gomock.Any(), owner).Return(profile, nil)

	preview, err := env.svc.PreviewQR(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, owner, preview.OwnerID)
	require.Equal(t, profile.DisplayName, preview.DisplayName)
	require.Equal(t, profile.Handle, preview.Handle)
	require.Equal(t, models.PresetPersonal, preview.Preset)
}

func TestService_PreviewQR_CacheMiss_FillsCache(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	owner := uuid.New()
	profile := fullProfile()
	profile.UserID = owner

	token := &models.QRToken{
		Token:     "tok",
		OwnerID:   owner,
		Preset:    models.PresetProfessional,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}

	env.qrCache.EXPECT().Get(gomock.Any(), "tok").Return(nil, false, nil)
	env.tokens.EXPECT().TokenByValue(gomock.Any(), "tok").Return(token, nil)
	env.qrCache.EXPECT().Set(gomock.Any(), "tok", gomock.Any(), gomock.Any()).Return(nil)
	env.profiles.EXPECT().ProfileByID(gomock.Any(), owner).Return(profile, nil)

	preview, err := env.svc.PreviewQR(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, owner, preview.OwnerID)
}

func TestService_PreviewQR_ConsumedAndExpired(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	consumed := &cache.TokenEntry{
		OwnerID:   uuid.New(),
		Preset:    models.PresetPersonal,
		Consumed:  true,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	env.qrCache.EXPECT().Get(gomock.Any(), "used").Return(consumed, true, nil)

	_, err := env.svc.PreviewQR(context.Background(), "used")
	require.ErrorIs(t, err, ErrTokenConsumed)

	expired := &cache.TokenEntry{
		OwnerID:   uuid.New(),
		Preset:    models.PresetPersonal,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	env.qrCache.EXPECT().Get(gomock.Any(), "old").Return(expired, true, nil)

	_, err = env.svc.PreviewQR(context.Background(), "old")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_PreviewQR_NotFound(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	env.qrCache.EXPECT().Get(gomock.Any(), "none").Return(nil, false, nil)
	env.tokens.EXPECT().TokenByValue(gomock.Any(), "none").Return(nil, storage.ErrNotFoundToken)

	_, err := env.svc.PreviewQR(context.Background(), "none")
	require.ErrorIs(t, err, ErrNotFound)
}

// activeToken — непогашенный токен с часом жизни впереди.
func activeToken(owner uuid.UUID, preset models.Preset) *models.QRToken {
	now := time.Now().UTC()
	return &models.QRToken{
		Token:     "tok",
		OwnerID:   owner,
		Preset:    preset,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestService_RedeemQR_Validation(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := env.svc.RedeemQR(context.Background(), RedeemQRInput{Redeemer: uuid.Nil, Token: "tok"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.svc.RedeemQR(context.Background(), RedeemQRInput{Redeemer: uuid.New(), Token: ""})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.svc.RedeemQR(context.Background(), RedeemQRInput{
		Redeemer: uuid.New(), Token: "tok", Preset: models.Preset("friends"),
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_RedeemQR_SelfRedeem(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	owner := uuid.New()
	env.tokens.EXPECT().TokenByValue(gomock.Any(), "tok").Return(activeToken(owner, models.PresetPersonal), nil)

	_, err := env.svc.RedeemQR(context.Background(), RedeemQRInput{Redeemer: owner, Token: "tok"})
	require.ErrorIs(t, err, ErrSelfRedeem)
}

func TestService_RedeemQR_ConsumedAndExpiredPrecheck(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	redeemer := uuid.New()

	used := activeToken(uuid.New(), models.PresetPersonal)
	used.ConsumedBy = uuid.New()
	env.tokens.EXPECT().TokenByValue(gomock.Any(), "tok").Return(used, nil)

	_, err := env.svc.RedeemQR(context.Background(), RedeemQRInput{Redeemer: redeemer, Token: "tok"})
	require.ErrorIs(t, err, ErrTokenConsumed)

	old := activeToken(uuid.New(), models.PresetPersonal)
	old.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	env.tokens.EXPECT().TokenByValue(gomock.Any(), "tok").Return(old, nil)

	_, err = env.svc.RedeemQR(context.Background(), RedeemQRInput{Redeemer: redeemer, Token: "tok"})
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_RedeemQR_OK_EmptyPresetSubstitutesPersonal(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	owner := uuid.New()
	redeemer := uuid.New()

	ownerProfile := fullProfile()
	ownerProfile.UserID = owner

	redeemerProfile := fullProfile()
	redeemerProfile.UserID = redeemer

	token := activeToken(owner, models.PresetProfessional)

	env.tokens.EXPECT().TokenByValue(gomock.Any(), "tok").Return(token, nil)
	env.profiles.EXPECT().
		ProfilesByIDs(gomock.Any(), []uuid.UUID{owner, redeemer}).
		Return([]models.Profile{*ownerProfile, *redeemerProfile}, nil)

	env.tokens.EXPECT().
		RedeemToken(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input storage.RedeemInput) (*models.ContactLink, error) {
			require.Equal(t, "tok", input.Token)
			require.Equal(t, redeemer, input.Redeemer)
			require.Equal(t, models.PresetProfessional, input.OwnerPreset)
			// Пустой пресет гасящего превращается в personal.
			require.Equal(t, models.PresetPersonal, input.RedeemerPreset)
			require.NotNil(t, input.OwnerFacet)
			require.Equal(t, ownerProfile.Company, input.OwnerFacet.Company)
			require.NotNil(t, input.RedeemerFacet)
			require.Equal(t, redeemerProfile.Email, input.RedeemerFacet.Email)

			a, b := models.PairKey(owner, redeemer)
			now := time.Now().UTC()
			link := &models.ContactLink{
				ID: uuid.New(), UserA: a, UserB: b,
				Status: models.LinkStatusApproved, RequestedBy: owner,
				CreatedAt: now, UpdatedAt: now, ApprovedAt: now,
			}
			return link, nil
		})

	env.qrCache.EXPECT().MarkConsumed(gomock.Any(), "tok").Return(nil)

	env.events.EXPECT().
		PublishContactEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *models.ContactEvent) error {
			require.Equal(t, models.EventQRRedeemed, event.Kind)
			require.Equal(t, owner, event.TargetID)
			require.Equal(t, redeemer, event.ActorID)
			return nil
		})

	edge, err := env.svc.RedeemQR(context.Background(), RedeemQRInput{Redeemer: redeemer, Token: "tok"})
	require.NoError(t, err)
	require.Equal(t, models.LinkStatusApproved, edge.Status)
	require.Equal(t, redeemer, edge.SenderID)
	require.Equal(t, owner, edge.ReceiverID)
}

// Проигрыш CAS-гонки в хранилище маппится в ErrTokenConsumed.
func TestService_RedeemQR_LostRace(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	owner := uuid.New()
	redeemer := uuid.New()

	ownerProfile := fullProfile()
	ownerProfile.UserID = owner

	redeemerProfile := fullProfile()
	redeemerProfile.UserID = redeemer

	env.tokens.EXPECT().TokenByValue(gomock.Any(), "tok").Return(activeToken(owner, models.PresetPersonal), nil)
	env.profiles.EXPECT().
		ProfilesByIDs(gomock.Any(), []uuid.UUID{owner, redeemer}).
		Return([]models.Profile{*ownerProfile, *redeemerProfile}, nil)
	env.tokens.EXPECT().RedeemToken(gomock.Any(), gomock.Any()).Return(nil, storage.ErrTokenConsumed)

	_, err := env.svc.RedeemQR(context.Background(), RedeemQRInput{Redeemer: redeemer, Token: "tok"})
	require.ErrorIs(t, err, ErrTokenConsumed)
}

func TestService_RedeemQR_MissingProfile(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	owner := uuid.New()
	redeemer := uuid.New()

	ownerProfile := fullProfile()
	ownerProfile.UserID = owner

	env.tokens.EXPECT().TokenByValue(gomock.Any(), "tok").Return(activeToken(owner, models.PresetPersonal), nil)
	// Профиль гасящего ещё не создан.
	env.profiles.EXPECT().
		ProfilesByIDs(gomock.Any(), []uuid.UUID{owner, redeemer}).
		Return([]models.Profile{*ownerProfile}, nil)

	_, err := env.svc.RedeemQR(context.Background(), RedeemQRInput{Redeemer: redeemer, Token: "tok"})
	require.ErrorIs(t, err, ErrNotFound)
}

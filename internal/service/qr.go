package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/cache"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/pkg/log"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

// qrTokenBytes — размер энтропии значения токена (до base64url).
const qrTokenBytes = 32

// saveTokenRetries — число повторов при коллизии значения токена.
// Коллизия на 256 битах энтропии практически невозможна, повтор нужен
// только чтобы не возвращать пользователю 500 из-за космического луча.
const saveTokenRetries = 3

type RedeemQRInput struct {
	Redeemer uuid.UUID
	Token    string
	// Preset — пресет раскрытия гасящей стороны. Пустое значение означает
	// сценарий первой регистрации и подставляет personal.
	Preset models.Preset
}

// TokenPreview — публичная часть токена для экрана подтверждения
// перед погашением. Поля пресета владельца не раскрываются.
type TokenPreview struct {
	OwnerID     uuid.UUID     `json:"owner_id"`
	DisplayName string        `json:"display_name"`
	Handle      string        `json:"handle"`
	Preset      models.Preset `json:"preset"`
	ExpiresAt   time.Time     `json:"expires_at"`
}

// GenerateQR выпускает одноразовый токен для установления связи по QR-коду.
//
// Валидация:
//   - owner обязателен, preset должен входить в закрытое множество;
//   - профиль владельца должен существовать.
//
// Значение токена — 32 байта CSPRNG в base64url; запись попадает в кэш
// предпросмотра с TTL до истечения.
func (s *Service) GenerateQR(ctx context.Context, owner uuid.UUID, preset models.Preset) (*models.QRToken, error) {
	const op = "service/qr/GenerateQR"

	lg := log.From(ctx).With("op", op, "owner_id", owner.String())

	if owner == uuid.Nil {
		lg.Warn("invalid argument: empty owner_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if !preset.Valid() {
		lg.Warn("invalid argument: unknown preset", "preset", string(preset))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := s.profilesStorage.ProfileByID(ctx, owner); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("owner profile not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ProfileByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	now := time.Now().UTC()

	token := &models.QRToken{
		OwnerID:   owner,
		Preset:    preset,
		ExpiresAt: now.Add(s.cfg.QR.TokenTTL),
		CreatedAt: now,
	}

	var saveErr error

	for attempt := 0; attempt < saveTokenRetries; attempt++ {
		plain, err := generateTokenValue()
		if err != nil {
			lg.Error("token generation failed", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		token.Token = plain

		saveErr = s.tokensStorage.SaveToken(ctx, token)
		if saveErr == nil {
			break
		}

		if !errors.Is(saveErr, storage.ErrAlreadyExists) {
			lg.Error("storage error on SaveToken", "err", saveErr)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if saveErr != nil {
		lg.Error("token value collision retries exhausted")

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.cacheToken(ctx, token)

	return token, nil
}

// PreviewQR возвращает публичную часть токена для экрана подтверждения.
//
// Чтение идёт через кэш (read-through): промах наполняет кэш из БД.
// Погашенный токен -> ErrTokenConsumed, истёкший -> ErrTokenExpired.
func (s *Service) PreviewQR(ctx context.Context, tokenValue string) (*TokenPreview, error) {
	const op = "service/qr/PreviewQR"

	lg := log.From(ctx).With("op", op)

	if tokenValue == "" {
		lg.Warn("invalid argument: empty token")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	ownerID, preset, consumed, expiresAt, err := s.lookupToken(ctx, tokenValue)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundToken):
			lg.Warn("token not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("token lookup failed", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if consumed {
		lg.Warn("token already consumed")

		return nil, fmt.Errorf("%s: %w", op, ErrTokenConsumed)
	}

	if !time.Now().UTC().Before(expiresAt) {
		lg.Warn("token expired")

		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	preview := &TokenPreview{
		OwnerID:   ownerID,
		Preset:    preset,
		ExpiresAt: expiresAt,
	}

	owner, err := s.profilesStorage.ProfileByID(ctx, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("owner profile not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ProfileByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	preview.DisplayName = owner.DisplayName
	preview.Handle = owner.Handle

	return preview, nil
}

// RedeemQR гасит токен и устанавливает подтверждённую связь пары
// владелец <-> гасящий, минуя раунд pending/approve.
//
// Гарантия exactly-once обеспечивается условным UPDATE в хранилище:
// из двух конкурентных погашений одного токена ровно одно успешно.
// Предварительные проверки здесь дают ранние точные ошибки, но не несут
// гарантий — финальное слово за транзакцией.
//
// Ошибки: ErrNotFound, ErrSelfRedeem, ErrTokenExpired, ErrTokenConsumed.
func (s *Service) RedeemQR(ctx context.Context, input RedeemQRInput) (*models.Edge, error) {
	const op = "service/qr/RedeemQR"

	lg := log.From(ctx).With("op", op, "redeemer_id", input.Redeemer.String())

	if input.Redeemer == uuid.Nil || input.Token == "" {
		lg.Warn("invalid argument: empty redeemer or token")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// Пустой пресет — сценарий первой регистрации: гасящий ещё не настраивал
	// раскрытие и получает personal по умолчанию.
	redeemerPreset := input.Preset
	if redeemerPreset == "" {
		redeemerPreset = models.PresetPersonal
	}

	if !redeemerPreset.Valid() {
		lg.Warn("invalid argument: unknown preset", "preset", string(input.Preset))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	token, err := s.tokensStorage.TokenByValue(ctx, input.Token)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundToken):
			lg.Warn("token not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on TokenByValue", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if token.OwnerID == input.Redeemer {
		lg.Warn("self redeem rejected")

		return nil, fmt.Errorf("%s: %w", op, ErrSelfRedeem)
	}

	if token.Consumed() {
		lg.Warn("token already consumed")

		return nil, fmt.Errorf("%s: %w", op, ErrTokenConsumed)
	}

	if token.Expired(time.Now().UTC()) {
		lg.Warn("token expired")

		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	profiles, err := s.profilesStorage.ProfilesByIDs(ctx, []uuid.UUID{token.OwnerID, input.Redeemer})
	if err != nil {
		lg.Error("storage error on ProfilesByIDs", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	var ownerProfile, redeemerProfile *models.Profile

	for i := range profiles {
		switch profiles[i].UserID {
		case token.OwnerID:
			ownerProfile = &profiles[i]
		case input.Redeemer:
			redeemerProfile = &profiles[i]
		}
	}

	if ownerProfile == nil || redeemerProfile == nil {
		lg.Warn("participant profile not found")

		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	ownerFacet := Project(ownerProfile, token.Preset)
	redeemerFacet := Project(redeemerProfile, redeemerPreset)

	link, err := s.tokensStorage.RedeemToken(ctx, storage.RedeemInput{
		Token:          input.Token,
		Redeemer:       input.Redeemer,
		OwnerPreset:    token.Preset,
		RedeemerPreset: redeemerPreset,
		OwnerFacet:     &ownerFacet,
		RedeemerFacet:  &redeemerFacet,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundToken):
			lg.Warn("token not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrTokenConsumed):
			lg.Warn("lost redeem race: token already consumed")

			return nil, fmt.Errorf("%s: %w", op, ErrTokenConsumed)
		case errors.Is(err, storage.ErrTokenExpired):
			lg.Warn("token expired")

			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		default:
			lg.Error("storage error on RedeemToken", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if s.qrCache != nil {
		if err := s.qrCache.MarkConsumed(ctx, input.Token); err != nil {
			lg.Warn("qr cache mark consumed failed", "err", err)
		}
	}

	s.notify(ctx, &models.ContactEvent{
		Kind:       models.EventQRRedeemed,
		TargetID:   token.OwnerID,
		ActorID:    input.Redeemer,
		EdgeID:     link.ID,
		OccurredAt: time.Now().Unix(),
	})

	edge := link.EdgeFrom(input.Redeemer)

	return &edge, nil
}

// lookupToken читает токен через кэш: промах наполняет кэш из БД.
func (s *Service) lookupToken(ctx context.Context, tokenValue string) (owner uuid.UUID, preset models.Preset, consumed bool, expiresAt time.Time, err error) {
	if s.qrCache != nil {
		entry, ok, cacheErr := s.qrCache.Get(ctx, tokenValue)
		if cacheErr != nil {
			log.From(ctx).Warn("qr cache get failed", "err", cacheErr)
		} else if ok {
			return entry.OwnerID, entry.Preset, entry.Consumed, entry.ExpiresAt, nil
		}
	}

	token, err := s.tokensStorage.TokenByValue(ctx, tokenValue)
	if err != nil {
		return uuid.Nil, "", false, time.Time{}, err
	}

	s.cacheToken(ctx, token)

	return token.OwnerID, token.Preset, token.Consumed(), token.ExpiresAt, nil
}

// cacheToken кладёт запись токена в кэш с TTL до истечения (best-effort).
func (s *Service) cacheToken(ctx context.Context, token *models.QRToken) {
	if s.qrCache == nil {
		return
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return
	}

	entry := &cache.TokenEntry{
		OwnerID:   token.OwnerID,
		Preset:    token.Preset,
		Consumed:  token.Consumed(),
		ExpiresAt: token.ExpiresAt,
	}

	if err := s.qrCache.Set(ctx, token.Token, entry, ttl); err != nil {
		log.From(ctx).Warn("qr cache set failed", "err", err)
	}
}

// generateTokenValue возвращает 32 байта CSPRNG в base64url без паддинга.
func generateTokenValue() (string, error) {
	buf := make([]byte, qrTokenBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

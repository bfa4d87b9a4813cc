package service

// Тесты сервисного слоя графа связей (contacts.go).
//
// Проверяем:
//  - валидацию входов (Follow/Approve/Unfollow/списки);
//  - маппинг ошибок storage -> service (SelfFollow / AlreadyFollowing /
//    RequestPending / NotReceiver / NotFound / Internal);
//  - проекцию фасета инициатора при follow и перепроекцию при approve;
//  - уведомления: публикуются только при реальной смене состояния;
//  - сборку направленного представления связи со стороны вызывающего.
//
// Подготовка окружения:
//   mockgen -destination=./mocks/contacts.go -package=mocks \
//     github.com/pribylovaa/contacts-service/internal/storage ContactsStorage
//
//   go test ./internal/service -v -race -count=1

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/config"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/storage"
	"github.com/pribylovaa/contacts-service/mocks"
	"github.com/stretchr/testify/require"
)

// testEnv — сервис с моками всех зависимостей.
type testEnv struct {
	svc      *Service
	profiles *mocks.MockProfilesStorage
	contacts *mocks.MockContactsStorage
	tokens   *mocks.MockQRTokensStorage
	posts    *mocks.MockPostsStorage
	avatars  *mocks.MockAvatarsStorage
	events   *mocks.MockPublisher
	qrCache  *mocks.MockTokenCache
}

// newServiceWithMocks — поднимает сервис с моками зависимостей.
func newServiceWithMocks(t *testing.T) (*testEnv, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)

	env := &testEnv{
		profiles: mocks.NewMockProfilesStorage(ctrl),
		contacts: mocks.NewMockContactsStorage(ctrl),
		tokens:   mocks.NewMockQRTokensStorage(ctrl),
		posts:    mocks.NewMockPostsStorage(ctrl),
		avatars:  mocks.NewMockAvatarsStorage(ctrl),
		events:   mocks.NewMockPublisher(ctrl),
		qrCache:  mocks.NewMockTokenCache(ctrl),
	}

	cfg := &config.Config{
		QR:   config.QRConfig{TokenTTL: 24 * time.Hour},
		Feed: config.FeedConfig{PageSize: 20},
	}

	env.svc = &Service{
		cfg:             cfg,
		profilesStorage: env.profiles,
		contactsStorage: env.contacts,
		tokensStorage:   env.tokens,
		postsStorage:    env.posts,
		avatarsStorage:  env.avatars,
		events:          env.events,
		qrCache:         env.qrCache,
	}

	return env, ctrl
}

// pendingLink — связь в статусе pending от requester к receiver.
func pendingLink(requester, receiver uuid.UUID, preset models.Preset, facet *models.Facet) *models.ContactLink {
	a, b := models.PairKey(requester, receiver)
	now := time.Now().UTC()

	link := &models.ContactLink{
		ID:          uuid.New(),
		UserA:       a,
		UserB:       b,
		Status:      models.LinkStatusPending,
		RequestedBy: requester,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if requester == a {
		link.APreset = preset
		link.AShared = facet
	} else {
		link.BPreset = preset
		link.BShared = facet
	}

	return link
}

func TestService_Follow_Validation(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	user := uuid.New()

	// empty ids
	_, err := env.svc.Follow(context.Background(), FollowInput{Requester: uuid.Nil, Receiver: user})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.svc.Follow(context.Background(), FollowInput{Requester: user, Receiver: uuid.Nil})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// self follow
	_, err = env.svc.Follow(context.Background(), FollowInput{Requester: user, Receiver: user})
	require.ErrorIs(t, err, ErrSelfFollow)

	// unknown preset
	_, err = env.svc.Follow(context.Background(), FollowInput{
		Requester: user, Receiver: uuid.New(), Preset: models.Preset("friends"),
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_Follow_OK_ProjectsFacetAndNotifies(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	requester := uuid.New()
	receiver := uuid.New()

	profile := fullProfile()
	profile.UserID = requester

	env.profiles.EXPECT().
		ProfileByID(gomock.Any(), requester).
		Return(profile, nil)

	env.contacts.EXPECT().
		CreateFollowRequest(gomock.Any(), requester, receiver, models.PresetPersonal, gomock.Any()).
		DoAndReturn(func(_ context.Context, req, _ uuid.UUID, preset models.Preset, facet *models.Facet) (*storage.FollowResult, error) {
			require.NotNil(t, facet)
			require.Equal(t, profile.Email, facet.Email)
			require.Empty(t, facet.Company)

			return &storage.FollowResult{Link: pendingLink(req, receiver, preset, facet), Created: true}, nil
		})

	env.events.EXPECT().
		PublishContactEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *models.ContactEvent) error {
			require.Equal(t, models.EventFollowRequested, event.Kind)
			require.Equal(t, receiver, event.TargetID)
			require.Equal(t, requester, event.ActorID)
			return nil
		})

	edge, err := env.svc.Follow(context.Background(), FollowInput{
		Requester: requester, Receiver: receiver, Preset: models.PresetPersonal,
	})
	require.NoError(t, err)
	require.Equal(t, requester, edge.SenderID)
	require.Equal(t, receiver, edge.ReceiverID)
	require.Equal(t, models.LinkStatusPending, edge.Status)
	require.Equal(t, models.PresetPersonal, edge.SenderPreset)
	require.NotNil(t, edge.SenderShared)
}

func TestService_Follow_IdempotentResubmit_NoNotification(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	requester := uuid.New()
	receiver := uuid.New()

	// Без пресета профиль не нужен и фасет не проецируется.
	env.contacts.EXPECT().
		CreateFollowRequest(gomock.Any(), requester, receiver, models.Preset(""), nil).
		Return(&storage.FollowResult{Link: pendingLink(requester, receiver, "", nil), Created: false}, nil)

	edge, err := env.svc.Follow(context.Background(), FollowInput{Requester: requester, Receiver: receiver})
	require.NoError(t, err)
	require.Equal(t, models.LinkStatusPending, edge.Status)
}

func TestService_Follow_ErrorMapping(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	requester := uuid.New()
	receiver := uuid.New()

	env.contacts.EXPECT().
		CreateFollowRequest(gomock.Any(), requester, receiver, models.Preset(""), nil).
		Return(nil, storage.ErrLinkApproved)
	_, err := env.svc.Follow(context.Background(), FollowInput{Requester: requester, Receiver: receiver})
	require.ErrorIs(t, err, ErrAlreadyFollowing)

	env.contacts.EXPECT().
		CreateFollowRequest(gomock.Any(), requester, receiver, models.Preset(""), nil).
		Return(nil, storage.ErrLinkPending)
	_, err = env.svc.Follow(context.Background(), FollowInput{Requester: requester, Receiver: receiver})
	require.ErrorIs(t, err, ErrRequestPending)

	env.contacts.EXPECT().
		CreateFollowRequest(gomock.Any(), requester, receiver, models.Preset(""), nil).
		Return(nil, errors.New("boom"))
	_, err = env.svc.Follow(context.Background(), FollowInput{Requester: requester, Receiver: receiver})
	require.ErrorIs(t, err, ErrInternal)
}

func TestService_Approve_CallerIsRequester_NotReceiver(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	requester := uuid.New()
	receiver := uuid.New()
	link := pendingLink(requester, receiver, "", nil)

	env.contacts.EXPECT().LinkByID(gomock.Any(), link.ID).Return(link, nil)

	_, err := env.svc.Approve(context.Background(), ApproveInput{Caller: requester, LinkID: link.ID})
	require.ErrorIs(t, err, ErrNotReceiver)
}

func TestService_Approve_Stranger_NotReceiver(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	link := pendingLink(uuid.New(), uuid.New(), "", nil)

	env.contacts.EXPECT().LinkByID(gomock.Any(), link.ID).Return(link, nil)

	_, err := env.svc.Approve(context.Background(), ApproveInput{Caller: uuid.New(), LinkID: link.ID})
	require.ErrorIs(t, err, ErrNotReceiver)
}

func TestService_Approve_OK_ReprojectsRequesterFacet(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	requester := uuid.New()
	receiver := uuid.New()

	requesterProfile := fullProfile()
	requesterProfile.UserID = requester
	// Профиль изменился после follow: email в фасете должен стать новым.
	requesterProfile.Email = "new@example.com"

	receiverProfile := fullProfile()
	receiverProfile.UserID = receiver

	staleFacet := &models.Facet{DisplayName: "Alice", Handle: "alice", Email: "old@example.com"}
	link := pendingLink(requester, receiver, models.PresetPersonal, staleFacet)

	env.contacts.EXPECT().LinkByID(gomock.Any(), link.ID).Return(link, nil)
	env.profiles.EXPECT().ProfileByID(gomock.Any(), receiver).Return(receiverProfile, nil)
	env.profiles.EXPECT().ProfileByID(gomock.Any(), requester).Return(requesterProfile, nil)

	env.contacts.EXPECT().
		ApproveLink(gomock.Any(), link.ID, receiver, models.PresetProfessional, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID, _ models.Preset, callerFacet, requesterFacet *models.Facet) (*models.ContactLink, error) {
			require.NotNil(t, callerFacet)
			require.Equal(t, receiverProfile.Company, callerFacet.Company)

			require.NotNil(t, requesterFacet)
			require.Equal(t, "new@example.com", requesterFacet.Email)

			approved := *link
			approved.Status = models.LinkStatusApproved
			approved.ApprovedAt = time.Now().UTC()
			return &approved, nil
		})

	env.events.EXPECT().
		PublishContactEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *models.ContactEvent) error {
			require.Equal(t, models.EventFollowApproved, event.Kind)
			require.Equal(t, requester, event.TargetID)
			require.Equal(t, receiver, event.ActorID)
			return nil
		})

	edge, err := env.svc.Approve(context.Background(), ApproveInput{
		Caller: receiver, LinkID: link.ID, Preset: models.PresetProfessional,
	})
	require.NoError(t, err)
	require.Equal(t, models.LinkStatusApproved, edge.Status)
	require.Equal(t, receiver, edge.SenderID)
	require.Equal(t, requester, edge.ReceiverID)
}

func TestService_Approve_AlreadyApproved(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	requester := uuid.New()
	receiver := uuid.New()
	link := pendingLink(requester, receiver, "", nil)

	env.contacts.EXPECT().LinkByID(gomock.Any(), link.ID).Return(link, nil)
	env.contacts.EXPECT().
		ApproveLink(gomock.Any(), link.ID, receiver, models.Preset(""), nil, nil).
		Return(nil, storage.ErrLinkApproved)

	_, err := env.svc.Approve(context.Background(), ApproveInput{Caller: receiver, LinkID: link.ID})
	require.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestService_Approve_NotFound(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	linkID := uuid.New()

	env.contacts.EXPECT().LinkByID(gomock.Any(), linkID).Return(nil, storage.ErrNotFoundLink)

	_, err := env.svc.Approve(context.Background(), ApproveInput{Caller: uuid.New(), LinkID: linkID})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_Unfollow_OK_Notifies(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	caller := uuid.New()
	other := uuid.New()
	link := pendingLink(caller, other, "", nil)

	env.contacts.EXPECT().DeleteLink(gomock.Any(), caller, other).Return(link, nil)
	env.events.EXPECT().
		PublishContactEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *models.ContactEvent) error {
			require.Equal(t, models.EventContactRemoved, event.Kind)
			require.Equal(t, other, event.TargetID)
			require.Equal(t, caller, event.ActorID)
			return nil
		})

	require.NoError(t, env.svc.Unfollow(context.Background(), caller, other))
}

func TestService_Unfollow_Validation_And_NotFound(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	user := uuid.New()

	require.ErrorIs(t, env.svc.Unfollow(context.Background(), uuid.Nil, user), ErrInvalidArgument)
	require.ErrorIs(t, env.svc.Unfollow(context.Background(), user, user), ErrInvalidArgument)

	other := uuid.New()
	env.contacts.EXPECT().DeleteLink(gomock.Any(), user, other).Return(nil, storage.ErrNotFoundLink)
	require.ErrorIs(t, env.svc.Unfollow(context.Background(), user, other), ErrNotFound)
}

// Публикация уведомления — fire-and-forget: сбой брокера не ломает мутацию.
func TestService_Unfollow_PublishFailureIgnored(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	caller := uuid.New()
	other := uuid.New()

	env.contacts.EXPECT().DeleteLink(gomock.Any(), caller, other).Return(pendingLink(caller, other, "", nil), nil)
	env.events.EXPECT().PublishContactEvent(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	require.NoError(t, env.svc.Unfollow(context.Background(), caller, other))
}

func TestService_Contacts_BuildsViews(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	other := uuid.New()

	otherProfile := fullProfile()
	otherProfile.UserID = other

	facet := &models.Facet{DisplayName: "Alice", Handle: "alice", Company: "Acme"}
	link := pendingLink(other, viewer, models.PresetProfessional, facet)
	link.Status = models.LinkStatusApproved
	link.ApprovedAt = time.Now().UTC()

	env.contacts.EXPECT().ApprovedLinksByUser(gomock.Any(), viewer).Return([]models.ContactLink{*link}, nil)
	env.profiles.EXPECT().ProfilesByIDs(gomock.Any(), []uuid.UUID{other}).Return([]models.Profile{*otherProfile}, nil)

	views, err := env.svc.Contacts(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, other, views[0].UserID)
	require.Equal(t, otherProfile.DisplayName, views[0].DisplayName)
	require.Equal(t, otherProfile.Handle, views[0].Handle)
	// Shared — то, что ВТОРАЯ сторона раскрыла viewer'у.
	require.NotNil(t, views[0].Shared)
	require.Equal(t, "Acme", views[0].Shared.Company)
	require.Equal(t, link.ApprovedAt, views[0].Since)
}

func TestService_PendingRequests_UsesCreatedAt(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	requester := uuid.New()

	requesterProfile := fullProfile()
	requesterProfile.UserID = requester

	link := pendingLink(requester, viewer, models.PresetPersonal, &models.Facet{DisplayName: "Bob", Handle: "bob"})

	env.contacts.EXPECT().PendingLinksByReceiver(gomock.Any(), viewer).Return([]models.ContactLink{*link}, nil)
	env.profiles.EXPECT().ProfilesByIDs(gomock.Any(), []uuid.UUID{requester}).Return([]models.Profile{*requesterProfile}, nil)

	views, err := env.svc.PendingRequests(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, requester, views[0].UserID)
	require.Equal(t, link.CreatedAt, views[0].Since)
	require.Equal(t, models.LinkStatusPending, views[0].Status)
}

func TestService_Contacts_EmptyGraph(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()

	env.contacts.EXPECT().ApprovedLinksByUser(gomock.Any(), viewer).Return(nil, nil)

	views, err := env.svc.Contacts(context.Background(), viewer)
	require.NoError(t, err)
	require.Empty(t, views)
}

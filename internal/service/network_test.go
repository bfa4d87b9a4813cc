package service

// Тесты классификатора кругов (network.go).

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/stretchr/testify/require"
)

// approvedLinkWith — подтверждённая связь viewer <-> other, где other
// раскрылся viewer'у с заданным пресетом и фацетом.
func approvedLinkWith(viewer, other uuid.UUID, otherPreset models.Preset, otherFacet *models.Facet) models.ContactLink {
	a, b := models.PairKey(viewer, other)
	now := time.Now().UTC()

	link := models.ContactLink{
		ID:          uuid.New(),
		UserA:       a,
		UserB:       b,
		Status:      models.LinkStatusApproved,
		RequestedBy: other,
		CreatedAt:   now,
		UpdatedAt:   now,
		ApprovedAt:  now,
	}

	if other == a {
		link.APreset = otherPreset
		link.AShared = otherFacet
	} else {
		link.BPreset = otherPreset
		link.BShared = otherFacet
	}

	return link
}

func TestClassifyDisclosure(t *testing.T) {
	tests := []struct {
		name         string
		preset       models.Preset
		facet        *models.Facet
		personal     bool
		professional bool
	}{
		{
			name:     "personal preset",
			preset:   models.PresetPersonal,
			personal: true,
		},
		{
			name:         "professional preset",
			preset:       models.PresetProfessional,
			professional: true,
		},
		{
			name:   "custom with nil facet",
			preset: models.PresetCustom,
		},
		{
			name:     "custom with contact fields",
			preset:   models.PresetCustom,
			facet:    &models.Facet{Email: "a@b.c", Phone: "+70000000000"},
			personal: true,
		},
		{
			name:         "custom with career fields",
			preset:       models.PresetCustom,
			facet:        &models.Facet{Company: "Acme", Position: "Engineer"},
			professional: true,
		},
		{
			name:         "custom with both kinds",
			preset:       models.PresetCustom,
			facet:        &models.Facet{Bio: "hi", Education: "MSU"},
			personal:     true,
			professional: true,
		},
		{
			name:   "custom with name only",
			preset: models.PresetCustom,
			facet:  &models.Facet{DisplayName: "Alice", Handle: "alice"},
		},
		{
			name:     "empty preset inferred from handles",
			preset:   models.Preset(""),
			facet:    &models.Facet{Handles: []string{"@alice"}},
			personal: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			personal, professional := classifyDisclosure(tc.preset, tc.facet)
			require.Equal(t, tc.personal, personal, "personal")
			require.Equal(t, tc.professional, professional, "professional")
		})
	}
}

func TestService_Networks_Validation(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := env.svc.Networks(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_Networks_Classification(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	friend := uuid.New()
	colleague := uuid.New()
	silent := uuid.New() // custom-пресет, ничего не раскрыл.

	links := []models.ContactLink{
		approvedLinkWith(viewer, friend, models.PresetPersonal, &models.Facet{Email: "f@x.y"}),
		approvedLinkWith(viewer, colleague, models.PresetProfessional, &models.Facet{Company: "Acme"}),
		approvedLinkWith(viewer, silent, models.PresetCustom, &models.Facet{DisplayName: "S", Handle: "s"}),
	}

	env.contacts.EXPECT().ApprovedLinksByUser(gomock.Any(), viewer).Return(links, nil)

	networks, err := env.svc.Networks(context.Background(), viewer)
	require.NoError(t, err)

	require.Contains(t, networks.Personal, friend)
	require.NotContains(t, networks.Personal, colleague)

	require.Contains(t, networks.Professional, colleague)
	require.NotContains(t, networks.Professional, friend)

	// Каждая подтверждённая связь попадает в both, включая «молчаливый» custom.
	require.Len(t, networks.Both, 3)
	require.Contains(t, networks.Both, silent)
	require.NotContains(t, networks.Personal, silent)
	require.NotContains(t, networks.Professional, silent)
}

func TestService_Networks_EmptyGraph(t *testing.T) {
	env, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	env.contacts.EXPECT().ApprovedLinksByUser(gomock.Any(), viewer).Return(nil, nil)

	networks, err := env.svc.Networks(context.Background(), viewer)
	require.NoError(t, err)
	require.Empty(t, networks.Both)
	require.Empty(t, networks.Personal)
	require.Empty(t, networks.Professional)
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/pribylovaa/contacts-service/internal/pkg/log"
)

// Networks строит круги пользователя из одного снимка подтверждённых связей.
//
// Контакт попадает в personal/professional по тому, как ОН раскрылся
// viewer'у (его пресет на его стороне связи): выбор personal-пресета —
// это и есть заявление «для тебя я личный контакт». Круг both содержит
// каждого подтверждённого контакта без исключений: даже custom-пресет,
// не раскрывающий ничего, остаётся подтверждённой связью.
//
// Результат не кэшируется — классификация пересчитывается на каждый
// запрос ленты из консистентного снимка графа.
func (s *Service) Networks(ctx context.Context, viewer uuid.UUID) (*models.Networks, error) {
	const op = "service/network/Networks"

	lg := log.From(ctx).With("op", op, "viewer_id", viewer.String())

	if viewer == uuid.Nil {
		lg.Warn("invalid argument: empty viewer_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	links, err := s.contactsStorage.ApprovedLinksByUser(ctx, viewer)
	if err != nil {
		lg.Error("storage error on ApprovedLinksByUser", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	networks := models.NewNetworks()

	for i := range links {
		link := &links[i]
		other := link.Other(viewer)

		networks.Both[other] = struct{}{}

		personal, professional := classifyDisclosure(link.PresetOf(other), link.FacetOf(other))

		if personal {
			networks.Personal[other] = struct{}{}
		}

		if professional {
			networks.Professional[other] = struct{}{}
		}
	}

	return networks, nil
}

// classifyDisclosure относит раскрытие контакта к кругам.
//
// Именованные пресеты классифицируются напрямую. Для custom (и пустого
// пресета) класс выводится из уже зафиксированного фацета: раскрытые
// «контактные» поля дают personal, «карьерные» — professional; фацет
// может дать оба класса сразу или ни одного.
func classifyDisclosure(preset models.Preset, facet *models.Facet) (personal, professional bool) {
	switch preset {
	case models.PresetPersonal:
		return true, false
	case models.PresetProfessional:
		return false, true
	}

	if facet == nil {
		return false, false
	}

	personal = facet.Email != "" || facet.Phone != "" || facet.Bio != "" || len(facet.Handles) > 0
	professional = facet.Company != "" || facet.Position != "" || facet.Education != ""

	return personal, professional
}

package service

import (
	"github.com/pribylovaa/contacts-service/internal/models"
)

// Project строит фасет — проекцию профиля по пресету раскрытия.
//
// Правила:
//   - display_name и handle раскрываются всегда (идентификация контакта);
//   - остальные поля попадают в фасет только при включённом флаге пресета;
//   - avatar раскрывается как итоговый URL, а не внутренний ключ хранилища.
//
// Проекция — чистая функция: фасет фиксируется в момент вызова и дальше
// живёт в строке связи независимо от последующих правок профиля.
func Project(profile *models.Profile, preset models.Preset) models.Facet {
	flags := profile.Flags(preset)

	facet := models.Facet{
		DisplayName: profile.DisplayName,
		Handle:      profile.Handle,
	}

	if flags.Email {
		facet.Email = profile.Email
	}

	if flags.Phone {
		facet.Phone = profile.Phone
	}

	if flags.Company {
		facet.Company = profile.Company
	}

	if flags.Position {
		facet.Position = profile.Position
	}

	if flags.Education {
		facet.Education = profile.Education
	}

	if flags.Bio {
		facet.Bio = profile.Bio
	}

	if flags.Handles {
		facet.Handles = profile.Handles
	}

	if flags.Avatar {
		facet.Avatar = profile.AvatarURL
	}

	return facet
}

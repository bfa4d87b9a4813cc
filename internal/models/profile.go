// models содержит доменные сущности contacts-сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Preset — имя пресета раскрытия. Закрытое множество из трёх значений.
type Preset string

const (
	PresetPersonal     Preset = "personal"
	PresetProfessional Preset = "professional"
	PresetCustom       Preset = "custom"
)

// Valid сообщает, входит ли имя пресета в допустимое множество.
func (p Preset) Valid() bool {
	switch p {
	case PresetPersonal, PresetProfessional, PresetCustom:
		return true
	default:
		return false
	}
}

// FieldFlags — флаги раскрытия полей профиля для одного пресета.
// true — поле раскрывается контакту (если оно непустое в профиле).
type FieldFlags struct {
	Email     bool `json:"email"`
	Phone     bool `json:"phone"`
	Company   bool `json:"company"`
	Position  bool `json:"position"`
	Education bool `json:"education"`
	Bio       bool `json:"bio"`
	Handles   bool `json:"handles"`
	Avatar    bool `json:"avatar"`
}

// DefaultFlags возвращает неявную конфигурацию пресета, когда владелец
// профиля её не настраивал: personal раскрывает «контактные» поля,
// professional — «карьерные», custom — ничего, пока не настроен явно.
func DefaultFlags(p Preset) FieldFlags {
	switch p {
	case PresetPersonal:
		return FieldFlags{Email: true, Phone: true, Bio: true, Handles: true, Avatar: true}
	case PresetProfessional:
		return FieldFlags{Company: true, Position: true, Education: true, Avatar: true}
	default:
		return FieldFlags{}
	}
}

// Profile — внутренняя доменная модель профиля.
// DisplayName/Handle принадлежат учётной записи и раскрываются контакту всегда.
type Profile struct {
	UserID      uuid.UUID
	DisplayName string
	Handle      string
	Email       string
	Phone       string
	Company     string
	Position    string
	Education   string
	Bio         string
	Handles     []string
	AvatarKey   string
	AvatarURL   string
	Presets     map[Preset]FieldFlags
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Flags возвращает эффективные флаги раскрытия для пресета:
// явная конфигурация владельца, иначе неявный дефолт, для неизвестного
// имени — пустые флаги (раскрываются только имя и хэндл).
func (p *Profile) Flags(preset Preset) FieldFlags {
	if flags, ok := p.Presets[preset]; ok {
		return flags
	}

	if preset.Valid() {
		return DefaultFlags(preset)
	}

	return FieldFlags{}
}

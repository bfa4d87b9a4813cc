package models

import (
	"time"

	"github.com/google/uuid"
)

// NetworkType — круг, которому адресована публикация.
type NetworkType int8

const (
	NetworkBoth NetworkType = iota
	NetworkPersonal
	NetworkProfessional
)

func (n NetworkType) String() string {
	switch n {
	case NetworkPersonal:
		return "personal"
	case NetworkProfessional:
		return "professional"
	default:
		return "both"
	}
}

// ParseNetworkType разбирает строковое представление круга.
func ParseNetworkType(s string) (NetworkType, bool) {
	switch s {
	case "personal":
		return NetworkPersonal, true
	case "professional":
		return NetworkProfessional, true
	case "both":
		return NetworkBoth, true
	default:
		return NetworkBoth, false
	}
}

// Visibility — режим видимости публикации.
type Visibility int8

const (
	VisibilityFollowers Visibility = iota
	VisibilityPublic
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	default:
		return "followers"
	}
}

// ParseVisibility разбирает строковое представление видимости.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "public":
		return VisibilityPublic, true
	case "followers":
		return VisibilityFollowers, true
	default:
		return VisibilityFollowers, false
	}
}

// Post — публикация пользователя, фильтруемая классификатором кругов.
type Post struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Content    string
	Network    NetworkType
	Visibility Visibility
	CreatedAt  time.Time
}

// Networks — три пересекающихся множества контактов зрителя,
// выведенные из графа подтверждённых связей.
type Networks struct {
	Personal     map[uuid.UUID]struct{}
	Professional map[uuid.UUID]struct{}
	Both         map[uuid.UUID]struct{}
}

// NewNetworks создаёт пустые множества.
func NewNetworks() *Networks {
	return &Networks{
		Personal:     make(map[uuid.UUID]struct{}),
		Professional: make(map[uuid.UUID]struct{}),
		Both:         make(map[uuid.UUID]struct{}),
	}
}

package models

import "github.com/google/uuid"

// ContactEventKind — вид события для fan-out уведомлений.
// Значение используется как routing key при публикации в брокер.
type ContactEventKind string

const (
	EventFollowRequested ContactEventKind = "contact.requested"
	EventFollowApproved  ContactEventKind = "contact.approved"
	EventContactRemoved  ContactEventKind = "contact.removed"
	EventQRRedeemed      ContactEventKind = "contact.qr_redeemed"
)

// ContactEvent — уведомление второй стороне о смене состояния связи.
// Доставка fire-and-forget: сбой публикации не откатывает мутацию графа.
type ContactEvent struct {
	Kind       ContactEventKind `json:"kind"`
	TargetID   uuid.UUID        `json:"target_id"`
	ActorID    uuid.UUID        `json:"actor_id"`
	EdgeID     uuid.UUID        `json:"edge_id"`
	OccurredAt int64            `json:"occurred_at"`
}

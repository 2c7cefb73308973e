package channel

import (
	"time"

	"stage-link/domain"
)

// Frame types exchanged on the control channel. Clients only ever send
// subscribe frames; everything else is server → client.
const (
	FrameConnected    = "connected"
	FrameSubscribe    = "subscribe"
	FrameSubscribed   = "subscribed"
	FrameError        = "error"
	FrameNotification = "notification"
)

// Rejection codes carried by error frames, distinguishable client side
// from "no messages yet".
const (
	CodeProtocol     = "protocol"
	CodeUnauthorized = "unauthorized"
)

// ControlFrame is a client → server control message.
type ControlFrame struct {
	Type        string `json:"type"`
	Destination string `json:"destination,omitempty"`
}

// ServerFrame is a server → client message.
type ServerFrame struct {
	Type        string       `json:"type"`
	Destination string       `json:"destination,omitempty"`
	Code        string       `json:"code,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	Payload     *PushPayload `json:"payload,omitempty"`
}

// PushPayload is the outbound notification shape. SenderType is derived
// from the recipient role server side, never echoed from caller input.
type PushPayload struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	SenderType string    `json:"senderType"`
}

func toPushPayload(n domain.Notification) *PushPayload {
	return &PushPayload{
		ID:         n.ID.String(),
		Title:      n.Title,
		Message:    n.Message,
		CreatedAt:  n.CreatedAt,
		SenderType: n.RecipientRole.SenderType(),
	}
}

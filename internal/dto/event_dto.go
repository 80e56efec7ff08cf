package dto

import "time"

// EventMessage travels on the in-process topic before it is relayed to NATS.
type EventMessage struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

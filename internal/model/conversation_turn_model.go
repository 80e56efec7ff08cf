package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConversationTurn struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TravelerId string         `gorm:"type:varchar(64);not null;index:idx_conversation_traveler_created,priority:1"`
	Role       string         `gorm:"type:varchar(20);not null"`
	Content    string         `gorm:"type:text;not null"`
	Itinerary  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index:idx_conversation_traveler_created,priority:2"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}

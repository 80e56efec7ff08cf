package mapper

import (
	"encoding/json"

	"travel-concierge-be/internal/entity"
	"travel-concierge-be/internal/model"
	"travel-concierge-be/pkg/concierge"

	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ConversationTurnToModel(t *entity.ConversationTurn) (*model.ConversationTurn, error) {
	if t == nil {
		return nil, nil
	}

	var itinerary datatypes.JSON
	if t.Itinerary != nil {
		raw, err := json.Marshal(t.Itinerary)
		if err != nil {
			return nil, err
		}
		itinerary = datatypes.JSON(raw)
	}

	return &model.ConversationTurn{
		Id:         t.Id,
		TravelerId: t.TravelerId,
		Role:       t.Role,
		Content:    t.Content,
		Itinerary:  itinerary,
		CreatedAt:  t.CreatedAt,
	}, nil
}

// ConversationTurnToEntity drops an itinerary that no longer decodes rather
// than failing the whole history read.
func (m *ConversationMapper) ConversationTurnToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}

	var itinerary *concierge.Itinerary
	if len(t.Itinerary) > 0 && string(t.Itinerary) != "null" {
		var decoded concierge.Itinerary
		if err := json.Unmarshal(t.Itinerary, &decoded); err == nil {
			itinerary = &decoded
		}
	}

	return &entity.ConversationTurn{
		Id:         t.Id,
		TravelerId: t.TravelerId,
		Role:       t.Role,
		Content:    t.Content,
		Itinerary:  itinerary,
		CreatedAt:  t.CreatedAt,
	}
}

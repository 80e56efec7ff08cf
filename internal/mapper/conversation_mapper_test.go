package mapper

import (
	"testing"
	"time"

	"travel-concierge-be/internal/entity"
	"travel-concierge-be/internal/model"
	"travel-concierge-be/pkg/concierge"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestConversationMapper_ItineraryColumn(t *testing.T) {
	m := NewConversationMapper()
	turn := &entity.ConversationTurn{
		Id:         uuid.New(),
		TravelerId: "t1",
		Role:       concierge.RoleAssistant,
		Content:    "here you go",
		Itinerary:  &concierge.Itinerary{DayByDayPlan: []concierge.DayPlan{{Date: "2025-11-20"}}},
		CreatedAt:  time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC),
	}

	row, err := m.ConversationTurnToModel(turn)
	require.NoError(t, err)
	assert.Contains(t, string(row.Itinerary), `"2025-11-20"`)

	back := m.ConversationTurnToEntity(row)
	require.NotNil(t, back.Itinerary)
	assert.Equal(t, "2025-11-20", back.Itinerary.DayByDayPlan[0].Date)
	assert.Equal(t, turn.TravelerId, back.TravelerId)
}

func TestConversationMapper_NoItinerary(t *testing.T) {
	m := NewConversationMapper()

	row, err := m.ConversationTurnToModel(&entity.ConversationTurn{Role: concierge.RoleUser, Content: "hi"})
	require.NoError(t, err)
	assert.Empty(t, row.Itinerary)
	assert.Nil(t, m.ConversationTurnToEntity(row).Itinerary)

	broken := &model.ConversationTurn{Role: concierge.RoleAssistant, Itinerary: datatypes.JSON(`{"day_by_day_plan": 7}`)}
	assert.Nil(t, m.ConversationTurnToEntity(broken).Itinerary)

	nullJSON := &model.ConversationTurn{Itinerary: datatypes.JSON("null")}
	assert.Nil(t, m.ConversationTurnToEntity(nullJSON).Itinerary)
}

package implementation

import (
	"context"
	"time"

	"travel-concierge-be/internal/entity"
	"travel-concierge-be/internal/mapper"
	"travel-concierge-be/internal/model"
	"travel-concierge-be/internal/repository/contract"
	"travel-concierge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationRepositoryImpl) Append(ctx context.Context, turn *entity.ConversationTurn) error {
	if turn.Id == uuid.Nil {
		turn.Id = uuid.New()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	m, err := r.mapper.ConversationTurnToModel(turn)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ConversationTurnToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) FindRecent(ctx context.Context, travelerId string, limit int) ([]*entity.ConversationTurn, error) {
	var models []*model.ConversationTurn
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByTravelerID{TravelerID: travelerId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: limit},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	// newest first from the query, oldest first for callers
	entities := make([]*entity.ConversationTurn, len(models))
	for i, m := range models {
		entities[len(models)-1-i] = r.mapper.ConversationTurnToEntity(m)
	}
	return entities, nil
}

func (r *ConversationRepositoryImpl) DeleteByTravelerId(ctx context.Context, travelerId string) error {
	return r.db.WithContext(ctx).Where("traveler_id = ?", travelerId).Delete(&model.ConversationTurn{}).Error
}

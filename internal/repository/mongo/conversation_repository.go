// Package mongo keeps one document per traveler with the turns in an array,
// the layout the traveler-facing services already read.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-concierge-be/internal/entity"
	"travel-concierge-be/internal/repository/contract"
	"travel-concierge-be/pkg/concierge"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "traveler_conversations"

type conversationDocument struct {
	TravelerId string            `bson:"traveler_id"`
	Messages   []messageDocument `bson:"messages"`
	UpdatedAt  time.Time         `bson:"updated_at"`
}

type messageDocument struct {
	Id        string               `bson:"id"`
	Role      string               `bson:"role"`
	Content   string               `bson:"content"`
	Timestamp time.Time            `bson:"timestamp"`
	Itinerary *concierge.Itinerary `bson:"itinerary,omitempty"`
}

type ConversationRepository struct {
	collection *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) contract.ConversationRepository {
	return &ConversationRepository{collection: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique traveler index used by every query.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "traveler_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Append pushes onto the traveler's array in one atomic upsert.
func (r *ConversationRepository) Append(ctx context.Context, turn *entity.ConversationTurn) error {
	if turn.Id == uuid.Nil {
		turn.Id = uuid.New()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	// Mongo stores milliseconds; keep the entity equal to what is read back.
	turn.CreatedAt = turn.CreatedAt.UTC().Truncate(time.Millisecond)

	msg := messageDocument{
		Id:        turn.Id.String(),
		Role:      turn.Role,
		Content:   turn.Content,
		Timestamp: turn.CreatedAt,
		Itinerary: turn.Itinerary,
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"traveler_id": turn.TravelerId},
		bson.M{
			"$push": bson.M{"messages": msg},
			"$set":  bson.M{"updated_at": turn.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("append conversation turn: %w", err)
	}
	return nil
}

func (r *ConversationRepository) FindRecent(ctx context.Context, travelerId string, limit int) ([]*entity.ConversationTurn, error) {
	opts := options.FindOne()
	if limit > 0 {
		opts.SetProjection(bson.M{"messages": bson.M{"$slice": -limit}})
	}

	var doc conversationDocument
	err := r.collection.FindOne(ctx, bson.M{"traveler_id": travelerId}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []*entity.ConversationTurn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}

	turns := make([]*entity.ConversationTurn, 0, len(doc.Messages))
	for _, msg := range doc.Messages {
		id, _ := uuid.Parse(msg.Id)
		turns = append(turns, &entity.ConversationTurn{
			Id:         id,
			TravelerId: travelerId,
			Role:       msg.Role,
			Content:    msg.Content,
			Itinerary:  msg.Itinerary,
			CreatedAt:  msg.Timestamp,
		})
	}
	return turns, nil
}

func (r *ConversationRepository) DeleteByTravelerId(ctx context.Context, travelerId string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"traveler_id": travelerId}); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sac-pickem-go/logging"
	"sac-pickem-go/models"
)

// MongoScoreRepository caches game results fetched from the feed so
// scoring never depends on the feed being up
type MongoScoreRepository struct {
	collection *mongo.Collection
}

func NewMongoScoreRepository(db *MongoDB) *MongoScoreRepository {
	collection := db.GetCollection("game_scores")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "league", Value: 1},
				{Key: "event_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "kickoff", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create game score indexes: %v", err)
	}

	return &MongoScoreRepository{collection: collection}
}

// UpsertMany writes a batch of feed results keyed by (league, event)
func (r *MongoScoreRepository) UpsertMany(ctx context.Context, results []*models.GameResult) error {
	if len(results) == 0 {
		return nil
	}

	operations := make([]mongo.WriteModel, 0, len(results))
	for _, result := range results {
		update := bson.M{"$set": bson.M{
			"home":       result.Home,
			"away":       result.Away,
			"home_score": result.HomeScore,
			"away_score": result.AwayScore,
			"completed":  result.Completed,
			"kickoff":    result.Kickoff,
			"updated_at": time.Now(),
		}}

		operations = append(operations, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"league": result.League, "event_id": result.EventID}).
			SetUpdate(update).
			SetUpsert(true))
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := r.collection.BulkWrite(ctx, operations, opts); err != nil {
		return fmt.Errorf("failed to upsert game scores: %w", err)
	}
	return nil
}

// FindByWindow retrieves cached results with kickoff inside [start, end]
func (r *MongoScoreRepository) FindByWindow(ctx context.Context, start, end time.Time) ([]*models.GameResult, error) {
	filter := bson.M{
		"kickoff": bson.M{"$gte": start, "$lte": end},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find game scores: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.GameResult
	for cursor.Next(ctx) {
		var result models.GameResult
		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode game score: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}

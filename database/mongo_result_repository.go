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

// MongoResultRepository stores the persisted weekly scoring lines
type MongoResultRepository struct {
	collection *mongo.Collection
}

func NewMongoResultRepository(db *MongoDB) *MongoResultRepository {
	collection := db.GetCollection("weekly_results")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "week_id", Value: 1},
				{Key: "player_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "player_id", Value: 1}, {Key: "quarter", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create weekly result indexes: %v", err)
	}

	return &MongoResultRepository{collection: collection}
}

// UpsertWeek writes a whole week's lines keyed by (week, player).
// Recomputing a week overwrites its previous lines, so persisting is
// as idempotent as the computation.
func (r *MongoResultRepository) UpsertWeek(ctx context.Context, results []*models.WeeklyResult) error {
	if len(results) == 0 {
		return nil
	}

	operations := make([]mongo.WriteModel, 0, len(results))
	for _, result := range results {
		update := bson.M{"$set": bson.M{
			"quarter":         result.Quarter,
			"week_total":      result.WeekTotal,
			"college_dollars": result.CollegeDollars,
			"pro_dollars":     result.ProDollars,
			"bonus_total":     result.BonusTotal,
			"bonus_labels":    result.BonusLabels,
			"updated_at":      time.Now(),
		}}

		operations = append(operations, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"week_id": result.WeekID, "player_id": result.PlayerID}).
			SetUpdate(update).
			SetUpsert(true))
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := r.collection.BulkWrite(ctx, operations, opts); err != nil {
		return fmt.Errorf("failed to upsert weekly results: %w", err)
	}
	return nil
}

// FindAll retrieves every weekly result, ordered by week then player
func (r *MongoResultRepository) FindAll(ctx context.Context) ([]*models.WeeklyResult, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "week_id", Value: 1},
		{Key: "player_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find weekly results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.WeeklyResult
	for cursor.Next(ctx) {
		var result models.WeeklyResult
		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode weekly result: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}

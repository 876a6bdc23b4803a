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

// MongoWeekRepository stores the season's week schedule
type MongoWeekRepository struct {
	collection *mongo.Collection
}

func NewMongoWeekRepository(db *MongoDB) *MongoWeekRepository {
	collection := db.GetCollection("weeks")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create week indexes: %v", err)
	}

	return &MongoWeekRepository{collection: collection}
}

// FindByNumber retrieves a week by its season-relative number
func (r *MongoWeekRepository) FindByNumber(ctx context.Context, number int) (*models.Week, error) {
	var week models.Week
	err := r.collection.FindOne(ctx, bson.M{"number": number}).Decode(&week)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to find week %d: %w", number, err)
	}
	return &week, nil
}

// FindAll retrieves the full schedule in week order
func (r *MongoWeekRepository) FindAll(ctx context.Context) ([]*models.Week, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find weeks: %w", err)
	}
	defer cursor.Close(ctx)

	var weeks []*models.Week
	for cursor.Next(ctx) {
		var week models.Week
		if err := cursor.Decode(&week); err != nil {
			return nil, fmt.Errorf("failed to decode week: %w", err)
		}
		weeks = append(weeks, &week)
	}

	return weeks, nil
}

// FindCurrent returns the lowest-numbered open week, or the last week
// of the schedule when everything is locked
func (r *MongoWeekRepository) FindCurrent(ctx context.Context) (*models.Week, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "number", Value: 1}})

	var week models.Week
	err := r.collection.FindOne(ctx, bson.M{"status": models.WeekStatusOpen}, opts).Decode(&week)
	if err == nil {
		return &week, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to find current week: %w", err)
	}

	last := options.FindOne().SetSort(bson.D{{Key: "number", Value: -1}})
	err = r.collection.FindOne(ctx, bson.M{}, last).Decode(&week)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to find current week: %w", err)
	}
	return &week, nil
}

// Upsert writes a week keyed by number. The status only applies on
// insert; locking an existing week goes through SetStatus so a
// schedule edit cannot silently reopen a locked week.
func (r *MongoWeekRepository) Upsert(ctx context.Context, week *models.Week) error {
	filter := bson.M{"number": week.Number}
	update := bson.M{
		"$set": bson.M{
			"quarter":    week.Quarter,
			"label":      week.Label,
			"start_date": week.StartDate,
			"end_date":   week.EndDate,
			"week_one":   week.WeekOne,
		},
		"$setOnInsert": bson.M{"status": week.Status},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert week %d: %w", week.Number, err)
	}
	return nil
}

// SetStatus transitions a week between OPEN and LOCKED
func (r *MongoWeekRepository) SetStatus(ctx context.Context, number int, status models.WeekStatus) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"number": number},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to set week %d status: %w", number, err)
	}
	if result.MatchedCount == 0 {
		return models.ErrWeekNotFound
	}
	return nil
}

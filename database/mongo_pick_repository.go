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

// MongoPickRepository stores picks. Active picks (stolen=false) are the
// live board; stolen picks stay behind for history and token usage.
type MongoPickRepository struct {
	collection *mongo.Collection
}

// NewMongoPickRepository creates the repository and its indexes. The
// partial unique index over active picks is what serializes competing
// claims for one team: the second writer loses with a duplicate key.
func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	collection := db.GetCollection("picks")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	activeOnly := bson.D{{Key: "stolen", Value: false}}
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "week_id", Value: 1},
				{Key: "slot", Value: 1},
				{Key: "team", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(activeOnly),
		},
		{
			Keys: bson.D{
				{Key: "week_id", Value: 1},
				{Key: "player_id", Value: 1},
				{Key: "slot", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(activeOnly),
		},
		{
			Keys: bson.D{{Key: "week_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "player_id", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create pick indexes: %v", err)
	}

	return &MongoPickRepository{collection: collection}
}

// FindByWeek retrieves all picks for a week, stolen included
func (r *MongoPickRepository) FindByWeek(ctx context.Context, weekID int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"week_id": weekID})
}

// FindActiveByWeek retrieves the live picks for a week
func (r *MongoPickRepository) FindActiveByWeek(ctx context.Context, weekID int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"week_id": weekID, "stolen": false})
}

// FindAll retrieves every pick of the season, stolen included. Token
// usage is derived from this set: a stolen pick still spent its tokens.
func (r *MongoPickRepository) FindAll(ctx context.Context) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{})
}

// FindByPlayer retrieves all of a player's picks, stolen included
func (r *MongoPickRepository) FindByPlayer(ctx context.Context, playerID string) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"player_id": playerID})
}

func (r *MongoPickRepository) find(ctx context.Context, filter bson.M) ([]*models.Pick, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "week_id", Value: 1},
		{Key: "slot", Value: 1},
		{Key: "created_at", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find picks: %w", err)
	}
	defer cursor.Close(ctx)

	var picks []*models.Pick
	for cursor.Next(ctx) {
		var pick models.Pick
		if err := cursor.Decode(&pick); err != nil {
			return nil, fmt.Errorf("failed to decode pick: %w", err)
		}
		picks = append(picks, &pick)
	}

	return picks, nil
}

// FindActiveClaim returns the active pick holding a team for a week and
// slot, or nil when the team is free. Two active claims for one team
// violate the board's rules, so the reader refuses rather than guessing.
func (r *MongoPickRepository) FindActiveClaim(ctx context.Context, weekID int, slot models.Slot, team string) (*models.Pick, error) {
	filter := bson.M{
		"week_id": weekID,
		"slot":    slot,
		"team":    team,
		"stolen":  false,
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(2))
	if err != nil {
		return nil, fmt.Errorf("failed to find active claim: %w", err)
	}
	defer cursor.Close(ctx)

	var claims []*models.Pick
	for cursor.Next(ctx) {
		var pick models.Pick
		if err := cursor.Decode(&pick); err != nil {
			return nil, fmt.Errorf("failed to decode pick: %w", err)
		}
		claims = append(claims, &pick)
	}

	switch len(claims) {
	case 0:
		return nil, nil
	case 1:
		return claims[0], nil
	default:
		return nil, fmt.Errorf("%w: week %d slot %s team %s", models.ErrDuplicateClaim, weekID, slot, team)
	}
}

// FindActiveByPlayerSlot returns a player's active pick for a week and
// slot, or nil
func (r *MongoPickRepository) FindActiveByPlayerSlot(ctx context.Context, weekID int, playerID string, slot models.Slot) (*models.Pick, error) {
	filter := bson.M{
		"week_id":   weekID,
		"player_id": playerID,
		"slot":      slot,
		"stolen":    false,
	}

	var pick models.Pick
	err := r.collection.FindOne(ctx, filter).Decode(&pick)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active pick: %w", err)
	}
	return &pick, nil
}

// Assign writes a claim: the victim's pick (if any) is marked stolen
// first, then the attemptor's pick is upserted for their (week, player,
// slot). The victim mark must match exactly one active row, otherwise a
// competing steal already landed and the claim loses with ErrTeamTaken
// before anything is written. If the upsert fails after the mark, the
// mark is rolled back so a failed claim never leaves the victim's pick
// stolen with no replacement on the board.
func (r *MongoPickRepository) Assign(ctx context.Context, pick *models.Pick, victim *models.Pick) error {
	if victim != nil {
		result, err := r.collection.UpdateOne(ctx,
			bson.M{
				"week_id":   victim.WeekID,
				"player_id": victim.PlayerID,
				"slot":      victim.Slot,
				"team":      victim.Team,
				"stolen":    false,
			},
			bson.M{"$set": bson.M{
				"stolen":    true,
				"stolen_by": pick.PlayerID,
			}})
		if err != nil {
			return fmt.Errorf("failed to mark pick stolen: %w", err)
		}
		if result.MatchedCount == 0 {
			return models.ErrTeamTaken
		}
	}

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{
			"week_id":   pick.WeekID,
			"player_id": pick.PlayerID,
			"slot":      pick.Slot,
			"stolen":    false,
		},
		pick,
		options.Replace().SetUpsert(true))
	if err != nil {
		if victim != nil {
			r.restoreVictim(victim, pick.PlayerID)
		}
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrTeamTaken
		}
		return fmt.Errorf("failed to assign pick: %w", err)
	}

	return nil
}

// restoreVictim undoes a steal mark whose replacement pick never landed.
// The filter pins stolen_by to the failed attemptor so only our own mark
// is undone. Runs on a fresh context: the claim's context may already be
// cancelled, and the rollback has to go through regardless.
func (r *MongoPickRepository) restoreVictim(victim *models.Pick, attemptor string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"week_id":   victim.WeekID,
		"player_id": victim.PlayerID,
		"slot":      victim.Slot,
		"team":      victim.Team,
		"stolen":    true,
		"stolen_by": attemptor,
	}
	update := bson.M{
		"$set":   bson.M{"stolen": false},
		"$unset": bson.M{"stolen_by": ""},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		logging.Errorf("Could not restore pick for %s after failed claim by %s: %v",
			victim.PlayerID, attemptor, err)
	}
}

// DeleteActive removes a player's own active pick for a week and slot
func (r *MongoPickRepository) DeleteActive(ctx context.Context, weekID int, playerID string, slot models.Slot) error {
	filter := bson.M{
		"week_id":   weekID,
		"player_id": playerID,
		"slot":      slot,
		"stolen":    false,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete pick: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrPickNotFound
	}
	return nil
}

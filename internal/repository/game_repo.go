package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wouldrather/internal/model"
)

// GameRepo persists game sessions. The in-memory registry stays authoritative;
// Mongo is a save target plus a lookup surface for the REST API.
type GameRepo interface {
	Create(ctx context.Context, game *model.Game) error
	GetByPIN(ctx context.Context, pin string) (*model.Game, error)
	Update(ctx context.Context, game *model.Game) error
	Delete(ctx context.Context, pin string) error
	EnsureIndexes(ctx context.Context) error
}

type gameRepo struct {
	collection *mongo.Collection
}

func NewGameRepo(db *mongo.Database) GameRepo {
	return &gameRepo{
		collection: db.Collection("games"),
	}
}

func (r *gameRepo) Create(ctx context.Context, game *model.Game) error {
	_, err := r.collection.InsertOne(ctx, game)
	return err
}

func (r *gameRepo) GetByPIN(ctx context.Context, pin string) (*model.Game, error) {
	var game model.Game
	err := r.collection.FindOne(ctx, bson.M{"pin": pin}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Game not found
		}
		return nil, err
	}

	return &game, nil
}

func (r *gameRepo) Update(ctx context.Context, game *model.Game) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"pin": game.PIN}, game)
	return err
}

func (r *gameRepo) Delete(ctx context.Context, pin string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"pin": pin})
	return err
}

// EnsureIndexes creates the 24h TTL index on createdAt so stale game
// documents expire server-side, mirroring the in-process reaper horizon.
func (r *gameRepo) EnsureIndexes(ctx context.Context) error {
	ttl := int32((24 * time.Hour).Seconds())
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(ttl),
	})
	return err
}

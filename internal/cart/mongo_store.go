package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// MongoStore persists carts in a MongoDB collection keyed by user.
// The quantity merge uses $inc on the matched line so two concurrent
// double-tap adds from the same user both land.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("carts"),
	}
}

// ConnectMongo opens the cart database.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (s *MongoStore) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := s.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (s *MongoStore) AddLine(ctx context.Context, userID int64, line domain.CartLine) (*domain.Cart, error) {
	now := time.Now()

	// $inc on a filter that names the line keeps concurrent increments from
	// losing updates; the unit price captured on the first add stays untouched.
	incFilter := bson.M{"user_id": userID, "lines.product_id": line.ProductID}
	incUpdate := bson.M{
		"$inc": bson.M{"lines.$.quantity": line.Quantity},
		"$set": bson.M{"updated_at": now},
	}

	// The push is guarded by the same product filter, so two concurrent first
	// adds of one product can never both append a line.
	pushFilter := bson.M{
		"user_id": userID,
		"lines":   bson.M{"$not": bson.M{"$elemMatch": bson.M{"product_id": line.ProductID}}},
	}
	pushUpdate := bson.M{
		"$push":        bson.M{"lines": line},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}

	for attempt := 0; ; attempt++ {
		res, err := s.collection.UpdateOne(ctx, incFilter, incUpdate)
		if err != nil {
			return nil, fmt.Errorf("failed to increment existing line: %w", err)
		}
		if res.MatchedCount > 0 {
			return s.Get(ctx, userID)
		}

		// No line for this product yet. The upsert either appends the line or
		// creates the cart. Losing a race (another writer inserted the cart
		// first against the unique user_id index, or pushed this product
		// first) surfaces as a duplicate key error; on retry the $inc path
		// matches instead.
		_, err = s.collection.UpdateOne(ctx, pushFilter, pushUpdate, options.Update().SetUpsert(true))
		if err == nil {
			return s.Get(ctx, userID)
		}
		if !mongo.IsDuplicateKeyError(err) || attempt >= 2 {
			return nil, fmt.Errorf("failed to add new line: %w", err)
		}
	}
}

func (s *MongoStore) RemoveLine(ctx context.Context, userID int64, productID int64) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$pull": bson.M{
			"lines": bson.M{"product_id": productID},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	// Removing from a missing cart is a no-op, not an error.
	if _, err := s.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to remove line: %w", err)
	}
	return nil
}

func (s *MongoStore) Clear(ctx context.Context, userID int64) error {
	filter := bson.M{"user_id": userID}

	if _, err := s.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(30 * 24 * 60 * 60), // 30 days TTL
		},
	}

	_, err := s.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

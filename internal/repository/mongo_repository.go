package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

// snapshotDoc wraps a JSON-serialized snapshot. Snapshots are stored as
// opaque JSON payloads keyed by session, the mongo layer never interprets
// the cart shape itself.
type snapshotDoc struct {
	SessionID string    `bson:"session_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoConfig carries the connection settings for the snapshot store.
// Zero values fall back to defaults suited to a single storefront binary.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

const (
	defaultConnectTimeout = 10 * time.Second
	defaultMaxPoolSize    = 20

	// Server-side reaping of snapshots nobody ever loads again. The 24h
	// cart freshness rule is enforced on load; this only cleans up after
	// visitors who never come back.
	snapshotExpiry = 7 * 24 * time.Hour
)

type MongoStore struct {
	client    *mongo.Client
	carts     *mongo.Collection
	favorites *mongo.Collection
}

// OpenMongoStore dials MongoDB, verifies the connection and ensures the
// snapshot indexes exist before returning a usable store.
func OpenMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = defaultMaxPoolSize
	}

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout / 2).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to snapshot store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping snapshot store: %w", err)
	}

	db := client.Database(cfg.Database)
	store := &MongoStore{
		client:    client,
		carts:     db.Collection("cart_snapshots"),
		favorites: db.Collection("favorite_snapshots"),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoStore) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := m.getSnapshot(ctx, m.carts, sessionID, &cart, ErrCartNotFound); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (m *MongoStore) PutCart(ctx context.Context, cart *domain.Cart) error {
	return m.putSnapshot(ctx, m.carts, cart.SessionID, cart, cart.UpdatedAt)
}

func (m *MongoStore) DeleteCart(ctx context.Context, sessionID string) error {
	return m.deleteSnapshot(ctx, m.carts, sessionID, ErrCartNotFound)
}

func (m *MongoStore) GetFavorites(ctx context.Context, sessionID string) (*domain.FavoritesState, error) {
	var state domain.FavoritesState
	if err := m.getSnapshot(ctx, m.favorites, sessionID, &state, ErrFavoritesNotFound); err != nil {
		return nil, err
	}
	return &state, nil
}

func (m *MongoStore) PutFavorites(ctx context.Context, state *domain.FavoritesState) error {
	return m.putSnapshot(ctx, m.favorites, state.SessionID, state, state.UpdatedAt)
}

func (m *MongoStore) DeleteFavorites(ctx context.Context, sessionID string) error {
	return m.deleteSnapshot(ctx, m.favorites, sessionID, ErrFavoritesNotFound)
}

func (m *MongoStore) getSnapshot(ctx context.Context, coll *mongo.Collection, sessionID string, out interface{}, notFound error) error {
	var doc snapshotDoc

	filter := bson.M{"session_id": sessionID}
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return notFound
		}
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	// Malformed payloads are treated as absent: drop the bad entry and
	// report not-found so the caller starts fresh.
	if err := json.Unmarshal(doc.Payload, out); err != nil {
		log.Printf("dropping malformed snapshot for session %s: %v", sessionID, err)
		if _, delErr := coll.DeleteOne(ctx, filter); delErr != nil {
			log.Printf("failed to delete malformed snapshot: %v", delErr)
		}
		return notFound
	}

	return nil
}

func (m *MongoStore) putSnapshot(ctx context.Context, coll *mongo.Collection, sessionID string, value interface{}, updatedAt time.Time) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	filter := bson.M{"session_id": sessionID}
	update := bson.M{"$set": snapshotDoc{
		SessionID: sessionID,
		Payload:   payload,
		UpdatedAt: updatedAt,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

func (m *MongoStore) deleteSnapshot(ctx context.Context, coll *mongo.Collection, sessionID string, notFound error) error {
	result, err := coll.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	if result.DeletedCount == 0 {
		return notFound
	}

	return nil
}

// ensureIndexes sets up the per-session unique key and the expiry backstop
// on both snapshot collections. Runs on every startup; index creation is
// idempotent.
func (m *MongoStore) ensureIndexes(ctx context.Context) error {
	for _, coll := range []*mongo.Collection{m.carts, m.favorites} {
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "updated_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(int32(snapshotExpiry.Seconds())),
			},
		}

		if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	return nil
}

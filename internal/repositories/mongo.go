package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecoquest/community/internal/store"
)

type mongoRecord struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRecordStore keeps one document per community record.
type MongoRecordStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

// ConnectMongo dials uri and pings the primary.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NewMongoRecordStore stores records in database.collection.
func NewMongoRecordStore(client *mongo.Client, database, collection string) *MongoRecordStore {
	return &MongoRecordStore{
		collection: client.Database(database).Collection(collection),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Get loads the record stored under key.
func (s *MongoRecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

// Put upserts the record under key.
func (s *MongoRecordStore) Put(ctx context.Context, key string, value []byte) error {
	rec := mongoRecord{Key: key, Value: string(value), UpdatedAt: s.now()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", key, err)
	}
	return nil
}

var _ store.Backend = (*MongoRecordStore)(nil)

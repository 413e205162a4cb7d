package mongodb

import (
	"context"
	"fmt"
	"time"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/config"
	"github.com/hushmail/hushmail-be/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	postCollection     = "posts"
	responseCollection = "responses"

	connectTimeout = 10 * time.Second
)

type MongoDB struct {
	*PostDB
	*ResponseDB
	client *mongo.Client
}

func GetDatabase(ctx context.Context, cfg *config.MongoConfig) (appDb.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(cfg.Database)
	if err := ensureIndexes(connectCtx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info.Printf("Connected to mongo database %s\n", cfg.Database)

	posts := database.Collection(postCollection)
	responses := database.Collection(responseCollection)
	return &MongoDB{
		PostDB:     &PostDB{posts: posts},
		ResponseDB: &ResponseDB{posts: posts, responses: responses},
		client:     client,
	}, nil
}

func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	if _, err := database.Collection(postCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "isPublic", Value: 1}, {Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "timestamp", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	if _, err := database.Collection(responseCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}, {Key: "timestamp", Value: -1}},
	}); err != nil {
		return fmt.Errorf("create response indexes: %w", err)
	}
	return nil
}

func (mdb *MongoDB) Ping(ctx context.Context) error {
	return mdb.client.Ping(ctx, nil)
}

func (mdb *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return mdb.client.Disconnect(ctx)
}

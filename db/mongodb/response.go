package mongodb

import (
	"context"
	"time"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResponseDB struct {
	posts     *mongo.Collection
	responses *mongo.Collection
}

type responseDocument struct {
	Id             primitive.ObjectID `bson:"_id"`
	PostId         primitive.ObjectID `bson:"postId"`
	Content        string             `bson:"content"`
	Username       *string            `bson:"username"`
	ProfilePicture *string            `bson:"profilePicture"`
	Timestamp      time.Time          `bson:"timestamp"`
}

// CreateResponse inserts first and then bumps the counter; a failed bump removes the response again.
// Standalone deployments have no multi-document transactions.
func (rdb *ResponseDB) CreateResponse(ctx context.Context, req *appDb.CreateResponse) (string, error) {
	postId, err := primitive.ObjectIDFromHex(req.PostId)
	if err != nil {
		return "", appDb.ErrPostNotFound
	}
	doc := responseDocument{
		Id:             primitive.NewObjectID(),
		PostId:         postId,
		Content:        req.Content,
		Username:       req.Username,
		ProfilePicture: req.ProfilePicture,
		Timestamp:      req.Timestamp,
	}
	if _, err := rdb.responses.InsertOne(ctx, doc); err != nil {
		return "", err
	}

	res, err := rdb.posts.UpdateOne(ctx, bson.M{"_id": postId}, bson.M{"$inc": bson.M{"responseCount": 1}})
	if err == nil && res.MatchedCount == 0 {
		err = appDb.ErrPostNotFound
	}
	if err != nil {
		if _, delErr := rdb.responses.DeleteOne(context.Background(), bson.M{"_id": doc.Id}); delErr != nil {
			log.Error.Printf("could not remove response %s after failed count update: %v\n", doc.Id.Hex(), delErr)
		}
		return "", err
	}
	return doc.Id.Hex(), nil
}

func (rdb *ResponseDB) GetResponses(ctx context.Context, postId string) ([]*model.Response, error) {
	oid, err := primitive.ObjectIDFromHex(postId)
	if err != nil {
		return []*model.Response{}, nil
	}
	cursor, err := rdb.responses.Find(ctx,
		bson.M{"postId": oid},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []responseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	responses := make([]*model.Response, len(docs))
	for i, doc := range docs {
		responses[i] = &model.Response{
			Id:             doc.Id.Hex(),
			PostId:         doc.PostId.Hex(),
			Content:        doc.Content,
			Username:       doc.Username,
			ProfilePicture: doc.ProfilePicture,
			Timestamp:      doc.Timestamp.UTC(),
		}
	}
	return responses, nil
}

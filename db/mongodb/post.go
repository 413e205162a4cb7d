package mongodb

import (
	"context"
	"time"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostDB struct {
	posts *mongo.Collection
}

// postDocument keeps the field names of existing HushMail collections, plus the hidden owner.
type postDocument struct {
	Id                 primitive.ObjectID `bson:"_id"`
	Owner              string             `bson:"owner"`
	Content            string             `bson:"content"`
	Username           *string            `bson:"username"`
	ProfilePicture     *string            `bson:"profilePicture"`
	IsPublic           bool               `bson:"isPublic"`
	Timestamp          time.Time          `bson:"timestamp"`
	ResponseCount      int                `bson:"responseCount"`
	AcceptingResponses bool               `bson:"acceptingResponses"`
}

func (pdb *PostDB) CreatePost(ctx context.Context, post *appDb.CreatePost) (string, error) {
	doc := postDocument{
		Id:                 primitive.NewObjectID(),
		Owner:              post.Owner,
		Content:            post.Content,
		Username:           post.Username,
		ProfilePicture:     post.ProfilePicture,
		IsPublic:           post.IsPublic,
		Timestamp:          post.Timestamp,
		ResponseCount:      0,
		AcceptingResponses: true,
	}
	if _, err := pdb.posts.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.Id.Hex(), nil
}

func (pdb *PostDB) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc postDocument
	if err := pdb.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return buildPostFromDocument(&doc), nil
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error) {
	filter, err := buildPostsFilter(query)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}

	cursor, err := pdb.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(docs))
	for i := range docs {
		posts[i] = buildPostFromDocument(&docs[i])
	}
	return posts, nil
}

func buildPostsFilter(query *appDb.PostsListQuery) (bson.M, error) {
	filter := bson.M{}
	if query.PublicOnly {
		filter["isPublic"] = true
	}
	if query.Owner != "" {
		filter["owner"] = query.Owner
	}
	if query.From != nil {
		if query.LastId == "" {
			filter["timestamp"] = bson.M{"$lt": *query.From}
		} else {
			lastId, err := primitive.ObjectIDFromHex(query.LastId)
			if err != nil {
				return nil, appDb.ErrMalformedId
			}
			filter["$or"] = bson.A{
				bson.M{"timestamp": bson.M{"$lt": *query.From}},
				bson.M{"timestamp": *query.From, "_id": bson.M{"$lt": lastId}},
			}
		}
	}
	return filter, nil
}

func (pdb *PostDB) DeletePost(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return appDb.ErrMalformedId
	}
	_, err = pdb.posts.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func buildPostFromDocument(doc *postDocument) *model.Post {
	return &model.Post{
		Id:                 doc.Id.Hex(),
		Owner:              doc.Owner,
		Content:            doc.Content,
		Username:           doc.Username,
		ProfilePicture:     doc.ProfilePicture,
		IsPublic:           doc.IsPublic,
		Timestamp:          doc.Timestamp.UTC(),
		ResponseCount:      doc.ResponseCount,
		AcceptingResponses: doc.AcceptingResponses,
	}
}

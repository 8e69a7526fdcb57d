package repository

import (
	"context"
	"time"

	"github.com/zubaerSumon/ileap-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGroupRepository struct {
	coll *mongo.Collection
}

func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	r := &MongoGroupRepository{coll: db.Collection("groups")}
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "members", Value: 1}},
		Options: options.Index().SetName("members_idx"),
	}
	_, _ = r.coll.Indexes().CreateOne(context.Background(), idx)
	return r
}

func (r *MongoGroupRepository) Insert(ctx context.Context, g *domain.Group) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	_, err := r.coll.InsertOne(ctx, g)
	return err
}

func (r *MongoGroupRepository) Get(ctx context.Context, id string) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var g domain.Group
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *MongoGroupRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"members": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*domain.Group{}
	for cur.Next(ctx) {
		var g domain.Group
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, cur.Err()
}

func (r *MongoGroupRepository) AddMembers(ctx context.Context, groupID string, memberIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"members": bson.M{"$each": memberIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	_, err := r.coll.UpdateByID(ctx, groupID, update)
	return err
}

func (r *MongoGroupRepository) RemoveMember(ctx context.Context, groupID, memberID string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"members": memberID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	_, err := r.coll.UpdateByID(ctx, groupID, update)
	return err
}

func (r *MongoGroupRepository) AddAdmin(ctx context.Context, groupID, memberID string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"admins": memberID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	_, err := r.coll.UpdateByID(ctx, groupID, update)
	return err
}

func (r *MongoGroupRepository) RemoveAdmin(ctx context.Context, groupID, memberID string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"admins": memberID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	_, err := r.coll.UpdateByID(ctx, groupID, update)
	return err
}

func (r *MongoGroupRepository) Delete(ctx context.Context, groupID string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

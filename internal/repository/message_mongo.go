package repository

import (
	"context"
	"time"

	"github.com/zubaerSumon/ileap-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoOpTimeout = 5 * time.Second

type MongoMessageRepository struct {
	coll *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	r := &MongoMessageRepository{coll: db.Collection("messages")}
	for _, idx := range []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "read_by.user_id", Value: 1}}},
	} {
		_, _ = r.coll.Indexes().CreateOne(context.Background(), idx)
	}
	return r
}

func (r *MongoMessageRepository) Insert(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	_, err := r.coll.InsertOne(ctx, m)
	if mongo.IsDuplicateKeyError(err) {
		// benign replay of the same id
		return nil
	}
	return err
}

func directPairFilter(userA, userB string) bson.M {
	return bson.M{"$or": []bson.M{
		{"sender_id": userA, "receiver_id": userB},
		{"sender_id": userB, "receiver_id": userA},
	}}
}

// cursorFilter bounds a descending scan strictly before (At, ID).
func cursorFilter(c *Cursor) bson.M {
	return bson.M{"$or": []bson.M{
		{"created_at": bson.M{"$lt": c.At}},
		{"created_at": c.At, "_id": bson.M{"$lt": c.ID}},
	}}
}

var pageSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (r *MongoMessageRepository) findPage(ctx context.Context, scope bson.M, limit int64, before *Cursor) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	filter := scope
	if before != nil {
		filter = bson.M{"$and": []bson.M{scope, cursorFilter(before)}}
	}
	opts := options.Find().SetSort(pageSort).SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*domain.Message{}
	for cur.Next(ctx) {
		var m domain.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

func (r *MongoMessageRepository) FindDirectPage(ctx context.Context, userA, userB string, limit int64, before *Cursor) ([]*domain.Message, error) {
	return r.findPage(ctx, directPairFilter(userA, userB), limit, before)
}

func (r *MongoMessageRepository) FindGroupPage(ctx context.Context, groupID string, limit int64, before *Cursor) ([]*domain.Message, error) {
	return r.findPage(ctx, bson.M{"group_id": groupID}, limit, before)
}

func (r *MongoMessageRepository) FindDirectTouching(ctx context.Context, userID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	// group messages omit receiver_id, so its presence marks a direct message
	filter := bson.M{
		"receiver_id": bson.M{"$exists": true},
		"$or":         []bson.M{{"sender_id": userID}, {"receiver_id": userID}},
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(pageSort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*domain.Message{}
	for cur.Next(ctx) {
		var m domain.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

func (r *MongoMessageRepository) LastGroupMessage(ctx context.Context, groupID string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var m domain.Message
	err := r.coll.FindOne(ctx, bson.M{"group_id": groupID}, options.FindOne().SetSort(pageSort)).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MongoMessageRepository) CountGroupUnread(ctx context.Context, groupID, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{
		"group_id":        groupID,
		"sender_id":       bson.M{"$ne": userID},
		"read_by.user_id": bson.M{"$ne": userID},
	})
}

func (r *MongoMessageRepository) MarkDirectRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoMessageRepository) MarkGroupRead(ctx context.Context, groupID, userID string, at time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	// the $ne guard keeps the receipt list free of duplicates even under
	// concurrent calls for the same user
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"group_id": groupID, "read_by.user_id": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"read_by": domain.ReadReceipt{UserID: userID, ReadAt: at}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoMessageRepository) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoMessageRepository) DeleteDirectBetween(ctx context.Context, userA, userB string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, directPairFilter(userA, userB))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danielhkuo/classvote/models"
)

const voteCollection = "votes"

// MongoStore keeps votes in a MongoDB collection with a unique index on
// studentId.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// voteDocument is the stored shape. ClassID and Timestamp are loosely typed
// on read because older documents carry strings for both.
type voteDocument struct {
	StudentID   string `bson:"studentId"`
	StudentName string `bson:"studentName"`
	ClassID     any    `bson:"classId"`
	Timestamp   any    `bson:"timestamp"`
}

// OpenMongo connects, pings and ensures the unique index exists.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, storageErr("connect to mongodb", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, storageErr("ping mongodb", err)
	}

	coll := client.Database(database).Collection(voteCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "studentId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("studentId_unique"),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, storageErr("create studentId index", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Exists(ctx context.Context, studentID string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"studentId": studentID}, options.Count().SetLimit(1))
	if err != nil {
		return false, storageErr("check vote", err)
	}
	return n > 0, nil
}

func (s *MongoStore) Insert(ctx context.Context, vote models.Vote) (models.Vote, error) {
	vote = stamp(vote)
	vote.Timestamp = vote.Timestamp.Truncate(time.Millisecond)

	_, err := s.coll.InsertOne(ctx, voteDocument{
		StudentID:   vote.StudentID,
		StudentName: vote.StudentName,
		ClassID:     int32(vote.ClassID),
		Timestamp:   vote.Timestamp,
	})
	if err == nil {
		return vote, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return models.Vote{}, storageErr("insert vote", err)
	}

	var doc voteDocument
	if err := s.coll.FindOne(ctx, bson.M{"studentId": vote.StudentID}).Decode(&doc); err != nil {
		return models.Vote{}, storageErr("read existing vote", err)
	}
	existing, err := doc.vote()
	if err != nil {
		return models.Vote{}, storageErr("read existing vote", err)
	}
	return models.Vote{}, &DuplicateVoteError{Existing: existing}
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.Vote, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, storageErr("list votes", err)
	}
	defer cursor.Close(ctx)

	votes := []models.Vote{}
	for cursor.Next(ctx) {
		var doc voteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, storageErr("decode vote", err)
		}
		v, err := doc.vote()
		if err != nil {
			return nil, storageErr("decode vote", err)
		}
		votes = append(votes, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, storageErr("list votes", err)
	}
	return votes, nil
}

func (s *MongoStore) ClearAll(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return storageErr("clear votes", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (d voteDocument) vote() (models.Vote, error) {
	v := models.Vote{
		StudentID:   d.StudentID,
		StudentName: d.StudentName,
		ClassID:     models.ParseClassNumber(d.ClassID),
	}

	switch ts := d.Timestamp.(type) {
	case primitive.DateTime:
		v.Timestamp = ts.Time().UTC()
	case time.Time:
		v.Timestamp = ts.UTC()
	case string:
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return models.Vote{}, fmt.Errorf("bad timestamp %q: %w", ts, err)
		}
		v.Timestamp = t.UTC()
	case nil:
	default:
		return models.Vote{}, errors.New("unsupported timestamp type")
	}
	return v, nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/matchbench/pkg/bench"
	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// RunsCollection is the collection runs are stored in.
const RunsCollection = "runs"

// collection is the subset of *mongo.Collection the store uses.
type collection interface {
	ReplaceOne(ctx context.Context, filter, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// MongoStore keeps runs in a MongoDB collection, one document per run
// with the run ID as _id.
type MongoStore struct {
	client *mongo.Client
	runs   collection
}

// NewMongoStore connects to uri, pings the server and uses the runs
// collection of database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if err := errs.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "ping mongodb")
	}

	coll := client.Database(database).Collection(RunsCollection)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "started_at", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create runs index: %w", err)
	}
	return &MongoStore{client: client, runs: coll}, nil
}

// SaveRun upserts run by ID.
func (s *MongoStore) SaveRun(ctx context.Context, run *bench.Run) error {
	if err := validateRun(run); err != nil {
		return err
	}
	_, err := s.runs.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeUnavailable, err, "save run %s", run.ID)
	}
	return nil
}

// GetRun implements [Store].
func (s *MongoStore) GetRun(ctx context.Context, id string) (*bench.Run, error) {
	var run bench.Run
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "get run %s", id)
	}
	return &run, nil
}

// ListRuns implements [Store]. Records are excluded by projection.
func (s *MongoStore) ListRuns(ctx context.Context, limit int) ([]*bench.Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limitOrDefault(limit))).
		SetProjection(bson.M{"records": 0})

	cur, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "list runs")
	}
	defer cur.Close(ctx)

	var out []*bench.Run
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "decode runs")
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/errors"
)

// MongoStore persists designs in a MongoDB collection, one document per
// design keyed by name. Used by the API server.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig holds the connection parameters for a MongoDB-backed store.
type MongoConfig struct {
	URI        string
	Database   string // defaults to "kumiko"
	Collection string // defaults to "designs"
}

// mongoDoc is the stored document shape. The design name is the document id,
// so Put is a natural upsert and name collisions are impossible.
type mongoDoc struct {
	Name      string        `bson:"_id"`
	UpdatedAt time.Time     `bson:"updated_at"`
	Lines     int           `bson:"lines"`
	Groups    int           `bson:"groups"`
	Design    design.Design `bson:"design"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "kumiko"
	}
	if cfg.Collection == "" {
		cfg.Collection = "designs"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get loads a design by name.
func (s *MongoStore) Get(ctx context.Context, name string) (*design.Design, error) {
	if err := errors.ValidateDesignName(name); err != nil {
		return nil, err
	}

	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load design %q", name)
	}
	return &doc.Design, nil
}

// Put saves a design under name, replacing any previous version.
func (s *MongoStore) Put(ctx context.Context, name string, d *design.Design) error {
	if err := errors.ValidateDesignName(name); err != nil {
		return err
	}

	doc := mongoDoc{
		Name:      name,
		UpdatedAt: time.Now().UTC(),
		Lines:     len(d.Lines),
		Groups:    len(d.Groups),
		Design:    *d,
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save design %q", name)
	}
	return nil
}

// Delete removes a stored design.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDesignName(name); err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete design %q", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
	}
	return nil
}

// List returns catalog entries for all stored designs, sorted by name.
// Only the catalog fields are fetched; the design bodies stay on the server.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "updated_at": 1, "lines": 1, "groups": 1})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list designs")
	}
	defer cur.Close(ctx)

	var out []Info
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode design list")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

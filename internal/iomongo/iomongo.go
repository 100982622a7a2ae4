// Package iomongo implements store.Store on MongoDB.
// This is an impure I/O package that implements contracts
// defined in pkg/store.
package iomongo

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	SpeciesCollection = "species"
	UsersCollection   = "users"
	NotesCollection   = "notes"
)

// duplicate key error codes of MongoDB
var duplicateCodes = map[int]struct{}{
	11000: {},
	11001: {},
	12582: {},
}

type mongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	species *mongo.Collection
	users   *mongo.Collection
	notes   *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetAppName("fungidb")
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, ConnectionError(redact(cfg.URI), cfg.Name, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, ConnectionError(redact(cfg.URI), cfg.Name, err)
	}

	slog.Info("Connected to MongoDB", "uri", redact(cfg.URI), "database", cfg.Name)

	db := client.Database(cfg.Name)
	return &mongoStore{
		client:  client,
		db:      db,
		species: db.Collection(SpeciesCollection),
		users:   db.Collection(UsersCollection),
		notes:   db.Collection(NotesCollection),
		timeout: cfg.Timeout,
		now:     time.Now,
	}, nil
}

// Init creates indexes. Creating an existing index is a no-op in MongoDB.
func (m *mongoStore) Init(ctx context.Context) error {
	idx := map[*mongo.Collection][]mongo.IndexModel{
		m.species: {
			{Keys: bson.D{{Key: "scientificNameNorm", Value: 1}}},
			{Keys: bson.D{{Key: "vernacularNameNorm", Value: 1}}},
		},
		m.users: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		m.notes: {
			{Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			}},
		},
	}

	for coll, models := range idx {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return IndexError(coll.Name(), err)
		}
	}
	return nil
}

func (m *mongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *mongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// redact removes credentials from a connection string.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "mongodb://<unparsable>"
	}
	return u.Redacted()
}

// isDuplicate checks a single write error code.
func isDuplicate(code int) bool {
	_, ok := duplicateCodes[code]
	return ok
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrInvalidID
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

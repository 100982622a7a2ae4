package iomongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/gnames/fungidb/pkg/normalize"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/fungidb/pkg/taxon"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertSpecies issues one unordered InsertMany. Unordered mode lets the
// server write every document it can, so duplicate ids only cost their own
// insert. Only duplicate key errors are tolerated.
func (m *mongoStore) InsertSpecies(
	ctx context.Context,
	docs []taxon.Species,
) (store.WriteResult, error) {
	var res store.WriteResult
	if len(docs) == 0 {
		return res, nil
	}

	data := make([]any, len(docs))
	for i := range docs {
		data[i] = docs[i]
	}

	opts := options.InsertMany().SetOrdered(false)
	_, err := m.species.InsertMany(ctx, data, opts)
	if err == nil {
		res.Inserted = len(docs)
		return res, nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil {
		return res, err
	}
	for _, v := range bwe.WriteErrors {
		if !isDuplicate(v.Code) {
			return res, err
		}
		res.Duplicates++
	}
	res.Inserted = len(docs) - res.Duplicates
	return res, nil
}

// UpsertSpecies replaces documents by id in one unordered bulk write.
func (m *mongoStore) UpsertSpecies(
	ctx context.Context,
	docs []taxon.Species,
) (store.WriteResult, error) {
	var res store.WriteResult
	if len(docs) == 0 {
		return res, nil
	}

	models := make([]mongo.WriteModel, len(docs))
	for i := range docs {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": docs[i].ID}).
			SetReplacement(docs[i]).
			SetUpsert(true)
	}

	opts := options.BulkWrite().SetOrdered(false)
	bwr, err := m.species.BulkWrite(ctx, models, opts)
	if err != nil {
		return res, err
	}
	res.Inserted = int(bwr.UpsertedCount)
	res.Updated = int(bwr.MatchedCount)
	return res, nil
}

func (m *mongoStore) SaveSpecies(ctx context.Context, doc taxon.Species) error {
	_, err := m.species.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	return err
}

// SearchSpecies matches the query as a literal, case-insensitive substring
// of names and of their normalized keys.
func (m *mongoStore) SearchSpecies(
	ctx context.Context,
	query string,
	limit int,
) ([]taxon.Species, error) {
	res := []taxon.Species{}
	query = strings.TrimSpace(query)
	if query == "" {
		return res, nil
	}

	rx := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	or := bson.A{
		bson.M{"scientificName": rx},
		bson.M{"vernacularName": rx},
	}
	if qNorm := normalize.Normalize(query); qNorm != "" {
		rxNorm := primitive.Regex{Pattern: regexp.QuoteMeta(qNorm)}
		or = append(or,
			bson.M{"scientificNameNorm": rxNorm},
			bson.M{"vernacularNameNorm": rxNorm},
		)
	}

	opts := options.Find().SetSort(bson.D{{Key: "scientificName", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.species.Find(ctx, bson.M{"$or": or}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, &res); err != nil {
		return nil, err
	}
	if res == nil {
		res = []taxon.Species{}
	}
	return res, nil
}

func (m *mongoStore) CountSpecies(ctx context.Context) (int64, error) {
	return m.species.CountDocuments(ctx, bson.D{})
}

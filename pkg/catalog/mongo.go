package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spinside/adsheet/pkg/errors"
)

// MongoSource reads inventory records from a MongoDB collection, the same
// documents the store sync job writes. Useful when sheets are generated on
// a machine that has the shared database but not the exported JSON.
type MongoSource struct {
	client     *mongo.Client
	database   string
	collection string
}

// mongoRecord mirrors an inventory document. Genre may be stored as a
// single string or an array, so it decodes into bson.RawValue and is
// normalized in toRecord.
type mongoRecord struct {
	ID       string        `bson:"_id"`
	Artist   string        `bson:"artist"`
	Title    string        `bson:"title"`
	Genre    bson.RawValue `bson:"broad_genre"`
	ImageRef string        `bson:"img"`
}

// NewMongoSource connects to MongoDB at uri and verifies the connection.
// Close must be called when the source is no longer needed.
func NewMongoSource(ctx context.Context, uri, database, collection string) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, err, "connect to %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, err, "ping %s", uri)
	}
	return &MongoSource{client: client, database: database, collection: collection}, nil
}

// List reads every record in the collection.
func (s *MongoSource) List(ctx context.Context) ([]Record, error) {
	coll := s.client.Database(s.database).Collection(s.collection)

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, err, "query %s.%s", s.database, s.collection)
	}
	defer cursor.Close(ctx)

	var records []Record
	idx := 0
	for cursor.Next(ctx) {
		var doc mongoRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogRead, err, "decode record %d", idx)
		}
		records = append(records, doc.toRecord(idx))
		idx++
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, err, "iterate %s.%s", s.database, s.collection)
	}
	return records, nil
}

// Close disconnects from MongoDB.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// toRecord converts a decoded document to a Record.
func (d mongoRecord) toRecord(idx int) Record {
	rec := Record{
		ID:       d.ID,
		Artist:   d.Artist,
		Title:    d.Title,
		Genres:   rawGenres(d.Genre),
		ImageRef: d.ImageRef,
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec-%04d", idx)
	}
	return rec
}

// rawGenres normalizes a string-or-array genre value into tags.
func rawGenres(raw bson.RawValue) []string {
	var single string
	if err := raw.Unmarshal(&single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			return []string{single}
		}
		return nil
	}

	var many []string
	if err := raw.Unmarshal(&many); err == nil {
		out := make([]string, 0, len(many))
		for _, g := range many {
			if g = strings.TrimSpace(g); g != "" {
				out = append(out, g)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"globetrotter/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DestinationStore struct {
	coll *mongo.Collection
}

func NewDestinationStore(db *mongo.Database) *DestinationStore {
	return &DestinationStore{coll: db.Collection(destinationsCollection)}
}

func (s *DestinationStore) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "date_added", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, domain.Upstream("mongo list destinations", err)
	}
	var docs []destinationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Upstream("mongo decode destinations", err)
	}
	out := make([]domain.Destination, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (s *DestinationStore) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	var doc destinationDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Destination{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Destination{}, domain.Upstream("mongo get destination", err)
	}
	return doc.toDomain(), nil
}

// ImportDestinations upserts by (city, country), keeping existing ids. With
// replace set the collection is emptied first.
func (s *DestinationStore) ImportDestinations(ctx context.Context, destinations []domain.Destination, replace bool) (int, error) {
	if replace {
		if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
			return 0, domain.Upstream("mongo clear destinations", err)
		}
	}
	if len(destinations) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(destinations))
	for _, d := range destinations {
		if d.DateAdded.IsZero() {
			d.DateAdded = now
		}
		doc := toDestinationDoc(d)
		id := doc.ID
		if id == "" {
			id = uuid.NewString()
		}
		set := bson.M{
			"city":        strings.TrimSpace(doc.City),
			"country":     strings.TrimSpace(doc.Country),
			"continent":   doc.Continent,
			"clues":       doc.Clues,
			"fun_fact":    doc.FunFacts,
			"trivia":      doc.Trivia,
			"difficulty":  doc.Difficulty,
			"image_url":   doc.ImageURL,
			"coordinates": doc.Coordinates,
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"city": set["city"], "country": set["country"]}).
			SetUpdate(bson.M{
				"$set":         set,
				"$setOnInsert": bson.M{"_id": id, "date_added": doc.DateAdded},
			}).
			SetCollation(caseInsensitive).
			SetUpsert(true))
	}

	res, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, domain.Upstream("mongo import destinations", err)
	}
	return int(res.UpsertedCount + res.MatchedCount), nil
}

package mongo

import (
	"context"
	"errors"
	"time"

	"globetrotter/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChallengeStore keeps challenges in MongoDB. The TTL index removes expired
// documents eventually; reads filter on expires_at so they never see one.
type ChallengeStore struct {
	coll *mongo.Collection
}

func NewChallengeStore(db *mongo.Database) *ChallengeStore {
	return &ChallengeStore{coll: db.Collection(challengesCollection)}
}

func (s *ChallengeStore) CreateChallenge(ctx context.Context, c domain.Challenge) error {
	_, err := s.coll.InsertOne(ctx, toChallengeDoc(c))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return domain.Upstream("mongo create challenge", err)
	}
	return nil
}

func (s *ChallengeStore) GetChallenge(ctx context.Context, id string, now time.Time) (domain.Challenge, error) {
	var doc challengeDoc
	err := s.coll.FindOne(ctx, liveFilter(bson.M{"_id": id}, now)).Decode(&doc)
	return decodeResult(doc, err, "mongo get challenge")
}

func (s *ChallengeStore) IncrementPlays(ctx context.Context, id string, now time.Time) (domain.Challenge, error) {
	var doc challengeDoc
	err := s.coll.FindOneAndUpdate(ctx,
		liveFilter(bson.M{"_id": id}, now),
		bson.M{"$inc": bson.M{"times_played": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	return decodeResult(doc, err, "mongo increment plays")
}

func (s *ChallengeStore) ListActiveChallenges(ctx context.Context, ownerID string, now time.Time) ([]domain.Challenge, error) {
	cur, err := s.coll.Find(ctx, liveFilter(bson.M{"challenger": ownerID}, now),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, domain.Upstream("mongo list challenges", err)
	}
	var docs []challengeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Upstream("mongo decode challenges", err)
	}
	out := make([]domain.Challenge, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func liveFilter(filter bson.M, now time.Time) bson.M {
	filter["expires_at"] = bson.M{"$gt": now.UTC()}
	return filter
}

func decodeResult(doc challengeDoc, err error, op string) (domain.Challenge, error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	if err != nil {
		return domain.Challenge{}, domain.Upstream(op, err)
	}
	return doc.toDomain(), nil
}

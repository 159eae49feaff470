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

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

func (s *UserStore) CreateUser(ctx context.Context, u domain.User) error {
	_, err := s.coll.InsertOne(ctx, toUserDoc(u))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return domain.Upstream("mongo create user", err)
	}
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.findOne(ctx, bson.M{"_id": id}, options.FindOne())
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.findOne(ctx, bson.M{"username": username}, options.FindOne().SetCollation(caseInsensitive))
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (domain.User, error) {
	var doc userDoc
	err := s.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, domain.Upstream("mongo get user", err)
	}
	return doc.toDomain(), nil
}

// RecordAnswer applies delta with a single $inc so concurrent answers from the
// same user are never lost.
func (s *UserStore) RecordAnswer(ctx context.Context, userID string, delta domain.ScoreDelta, at time.Time) (domain.Score, error) {
	update := bson.M{
		"$inc": bson.M{
			"score.correct":   delta.Correct,
			"score.incorrect": delta.Incorrect,
			"score.total":     delta.Correct + delta.Incorrect,
			"score.points":    delta.Points,
		},
		"$set": bson.M{"last_played": at.UTC()},
	}
	var doc userDoc
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Score{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.Score{}, domain.Upstream("mongo record answer", err)
	}
	return domain.Score(doc.Score), nil
}

func (s *UserStore) Leaderboard(ctx context.Context, sortType domain.SortType, limit int) ([]domain.LeaderboardEntry, error) {
	field := "score.points"
	switch sortType {
	case domain.SortMostCorrect:
		field = "score.correct"
	case domain.SortMostWrong:
		field = "score.incorrect"
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: -1}, {Key: "username", Value: 1}}).
		SetProjection(bson.M{"password_hash": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, domain.Upstream("mongo leaderboard", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Upstream("mongo decode leaderboard", err)
	}
	out := make([]domain.LeaderboardEntry, 0, len(docs))
	for _, doc := range docs {
		out = append(out, domain.EntryFor(doc.toDomain()))
	}
	return out, nil
}

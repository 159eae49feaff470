package redis

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"globetrotter/internal/domain"
)

// ChallengeStore keeps challenges in Redis so every instance shares them.
// Layout:
//
//	HSET challenge:{id} owner {userID} created_at {ms} expires_at {ms} times_played {n}
//	ZADD challenges:owner:{userID} {expires_at ms} {id}
//
// The hash carries PEXPIREAT expires_at; the owner index is pruned on read.
type ChallengeStore struct {
	client *redis.Client
}

func NewChallengeStore(client *redis.Client) *ChallengeStore {
	return &ChallengeStore{client: client}
}

var createChallengeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'owner', ARGV[2], 'created_at', ARGV[3], 'expires_at', ARGV[4], 'times_played', 0)
redis.call('PEXPIREAT', KEYS[1], ARGV[4])
redis.call('ZADD', KEYS[2], ARGV[4], ARGV[1])
return 1
`)

// Increments only a live challenge; a missing or expired key is never recreated.
var incrementPlaysScript = redis.NewScript(`
local exp = redis.call('HGET', KEYS[1], 'expires_at')
if not exp or tonumber(exp) <= tonumber(ARGV[1]) then
  return false
end
redis.call('HINCRBY', KEYS[1], 'times_played', 1)
return redis.call('HGETALL', KEYS[1])
`)

func (s *ChallengeStore) CreateChallenge(ctx context.Context, c domain.Challenge) error {
	created, err := createChallengeScript.Run(ctx, s.client,
		[]string{challengeKey(c.ID), ownerKey(c.OwnerID)},
		c.ID, c.OwnerID, c.CreatedAt.UnixMilli(), c.ExpiresAt.UnixMilli(),
	).Int()
	if err != nil {
		return domain.Upstream("redis create challenge", err)
	}
	if created == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (s *ChallengeStore) GetChallenge(ctx context.Context, id string, now time.Time) (domain.Challenge, error) {
	fields, err := s.client.HGetAll(ctx, challengeKey(id)).Result()
	if err != nil {
		return domain.Challenge{}, domain.Upstream("redis get challenge", err)
	}
	c, ok := decodeChallenge(id, fields)
	if !ok || c.Expired(now) {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	return c, nil
}

func (s *ChallengeStore) IncrementPlays(ctx context.Context, id string, now time.Time) (domain.Challenge, error) {
	res, err := incrementPlaysScript.Run(ctx, s.client, []string{challengeKey(id)}, now.UnixMilli()).StringSlice()
	if errors.Is(err, redis.Nil) {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	if err != nil {
		return domain.Challenge{}, domain.Upstream("redis increment plays", err)
	}
	fields := make(map[string]string, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		fields[res[i]] = res[i+1]
	}
	c, ok := decodeChallenge(id, fields)
	if !ok {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	return c, nil
}

func (s *ChallengeStore) ListActiveChallenges(ctx context.Context, ownerID string, now time.Time) ([]domain.Challenge, error) {
	key := ownerKey(ownerID)
	nowMs := strconv.FormatInt(now.UnixMilli(), 10)
	if err := s.client.ZRemRangeByScore(ctx, key, "-inf", nowMs).Err(); err != nil {
		return nil, domain.Upstream("redis prune challenges", err)
	}
	ids, err := s.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{Min: "(" + nowMs, Max: "+inf"}).Result()
	if err != nil {
		return nil, domain.Upstream("redis list challenges", err)
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, challengeKey(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, domain.Upstream("redis load challenges", err)
		}
	}

	out := make([]domain.Challenge, 0, len(ids))
	for i, cmd := range cmds {
		c, ok := decodeChallenge(ids[i], cmd.Val())
		if ok && c.OwnerID == ownerID && !c.Expired(now) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func decodeChallenge(id string, fields map[string]string) (domain.Challenge, bool) {
	if len(fields) == 0 {
		return domain.Challenge{}, false
	}
	created, err1 := strconv.ParseInt(fields["created_at"], 10, 64)
	expires, err2 := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err1 != nil || err2 != nil {
		return domain.Challenge{}, false
	}
	plays, _ := strconv.Atoi(fields["times_played"])
	return domain.Challenge{
		ID:          id,
		OwnerID:     fields["owner"],
		CreatedAt:   time.UnixMilli(created).UTC(),
		ExpiresAt:   time.UnixMilli(expires).UTC(),
		TimesPlayed: plays,
	}, true
}

func challengeKey(id string) string {
	return "challenge:" + id
}

func ownerKey(ownerID string) string {
	return "challenges:owner:" + ownerID
}

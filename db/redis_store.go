package db

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultRedisKey is the hash that holds the session when no key is configured.
const DefaultRedisKey = "mscli:session"

// setIfPresent updates one hash field only while the hash exists, so a token
// update racing a logout cannot resurrect a partial session.
var setIfPresent = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
end
return 0
`)

// RedisStore keeps the session as a single Redis hash whose fields are the
// persisted credential keys. Errors are logged and reads fall back to signed out.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
}

// NewRedisStore creates a store writing to the hash named key.
func NewRedisStore(rdb redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

// Save replaces the hash in one MULTI/EXEC block.
func (s *RedisStore) Save(sess Session) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	values := sess.Values()
	fields := make([]interface{}, 0, 2*len(SessionKeys))
	for _, k := range SessionKeys {
		fields = append(fields, k, values[k])
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key, fields...)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("key", s.key).Msg("Failed to save session to redis")
	}
}

// Read loads the hash; any failure reads as no session.
func (s *RedisStore) Read() (Session, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	values, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		log.Error().Err(err).Str("key", s.key).Msg("Failed to read session from redis")
		return Session{}, false
	}
	return SessionFromValues(values)
}

// Clear deletes the hash.
func (s *RedisStore) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		log.Error().Err(err).Str("key", s.key).Msg("Failed to clear session in redis")
	}
}

// UpdateAccessToken sets the access token field if a session exists.
func (s *RedisStore) UpdateAccessToken(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := setIfPresent.Run(ctx, s.rdb, []string{s.key}, KeyAccessToken, token).Err(); err != nil && err != redis.Nil {
		log.Error().Err(err).Str("key", s.key).Msg("Failed to update access token in redis")
	}
}

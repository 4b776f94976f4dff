package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"taskify-api/internal/models"
	"taskify-api/internal/repository"
	"taskify-api/pkg/logger"
)

// TokenStore keeps issued access tokens in Redis.
//
// Layout: token:<jti> holds a hash of the token record and expires with the
// token; user_tokens:<user id> is the set of jti values issued to that user.
// The set lives as long as the longest-lived token in it. Save and
// DeleteByUser each run as a single script so a login racing a logout can
// never leave a token hash that is missing from its user's set.
type TokenStore struct {
	rdb         redis.Cmdable
	saveScript  *redis.Script
	purgeScript *redis.Script
}

const tokenPrefix = "token:"

// KEYS: [token key, user set key]
// ARGV: [jti, ttl ms (0 = no expiry), token prefix, field, value, ...]
const luaSaveToken = `
	local tokenKey = KEYS[1]
	local setKey = KEYS[2]
	local id = ARGV[1]
	local ttl = tonumber(ARGV[2])
	local prefix = ARGV[3]

	-- drop jtis whose hash has already expired
	for _, member in ipairs(redis.call('smembers', setKey)) do
		if redis.call('exists', prefix .. member) == 0 then
			redis.call('srem', setKey, member)
		end
	end
	local existed = redis.call('exists', setKey)
	local setTTL = redis.call('pttl', setKey)

	redis.call('hset', tokenKey, unpack(ARGV, 4))
	if ttl > 0 then
		redis.call('pexpire', tokenKey, ttl)
	end
	redis.call('sadd', setKey, id)

	if ttl == 0 then
		redis.call('persist', setKey)
	elseif existed == 0 or (setTTL >= 0 and setTTL < ttl) then
		redis.call('pexpire', setKey, ttl)
	end
	return 1
`

// KEYS: [user set key]
// ARGV: [token prefix]
const luaPurgeTokens = `
	local setKey = KEYS[1]
	local prefix = ARGV[1]
	local removed = 0
	for _, member in ipairs(redis.call('smembers', setKey)) do
		removed = removed + redis.call('del', prefix .. member)
	end
	redis.call('del', setKey)
	return removed
`

func NewTokenStore(rdb redis.Cmdable) *TokenStore {
	return &TokenStore{
		rdb:         rdb,
		saveScript:  redis.NewScript(luaSaveToken),
		purgeScript: redis.NewScript(luaPurgeTokens),
	}
}

func tokenKey(id string) string {
	return tokenPrefix + id
}

func userTokensKey(userID string) string {
	return "user_tokens:" + userID
}

// Save records an issued token. A token that has already expired is not stored.
func (s *TokenStore) Save(ctx context.Context, token *models.AccessToken) error {
	var ttl time.Duration
	if token.ExpiresAt != nil {
		ttl = time.Until(*token.ExpiresAt)
		if ttl < time.Millisecond {
			return nil
		}
	}
	args := []any{
		token.ID, ttl.Milliseconds(), tokenPrefix,
		"user_id", token.UserID,
		"name", token.Name,
		"created_at", token.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if token.ExpiresAt != nil {
		args = append(args, "expires_at", token.ExpiresAt.UTC().Format(time.RFC3339Nano))
	}
	keys := []string{tokenKey(token.ID), userTokensKey(token.UserID)}
	if err := s.saveScript.Run(ctx, s.rdb, keys, args...).Err(); err != nil {
		logger.Error(ctx, "Redis save token failed", "error", err)
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Find returns the token record with the given id or repository.ErrNotFound.
func (s *TokenStore) Find(ctx context.Context, id string) (*models.AccessToken, error) {
	vals, err := s.rdb.HGetAll(ctx, tokenKey(id)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(vals) == 0) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	t := &models.AccessToken{ID: id, UserID: vals["user_id"], Name: vals["name"]}
	if ts, err := time.Parse(time.RFC3339Nano, vals["created_at"]); err == nil {
		t.CreatedAt = ts
	}
	if v, ok := vals["expires_at"]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			t.ExpiresAt = &ts
		}
	}
	return t, nil
}

// DeleteByUser revokes every token belonging to userID and returns how many
// live tokens were removed.
func (s *TokenStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.purgeScript.Run(ctx, s.rdb, []string{userTokensKey(userID)}, tokenPrefix).Int64()
	if err != nil {
		logger.Error(ctx, "Redis delete tokens failed", "error", err, "user_id", userID)
		return 0, fmt.Errorf("delete tokens: %w", err)
	}
	return n, nil
}

package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	"github.com/redis/go-redis/v9"
)

// HoldStore keeps table holds in redis. SET NX PX is the atomic check-and-set;
// key expiry makes lapsed holds absent without a sweeper.
type HoldStore struct {
	client *redis.Client
}

func NewHoldStore(client *redis.Client) *HoldStore {
	return &HoldStore{client: client}
}

func (s *HoldStore) Client() *redis.Client {
	return s.client
}

func holdKey(tableID uuid.UUID) string {
	return "hold:table:" + tableID.String()
}

func (s *HoldStore) Acquire(ctx context.Context, hold domain.TableHold, ttl time.Duration) (bool, *domain.TableHold, error) {
	payload, err := json.Marshal(hold)
	if err != nil {
		return false, nil, err
	}

	ok, err := s.client.SetNX(ctx, holdKey(hold.TableID), payload, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if ok {
		return true, nil, nil
	}

	raw, err := s.client.Get(ctx, holdKey(hold.TableID)).Bytes()
	if err == redis.Nil {
		// The competing hold expired between SETNX and GET; the caller simply
		// retries on the next select.
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	var current domain.TableHold
	if err := json.Unmarshal(raw, &current); err != nil {
		return false, nil, err
	}
	return false, &current, nil
}

// releaseScript deletes the hold only when owned by the requesting user, in
// one atomic step.
var releaseScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end
local hold = cjson.decode(raw)
if hold['HolderUserID'] == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

func (s *HoldStore) Release(ctx context.Context, tableID, userID uuid.UUID) error {
	return releaseScript.Run(ctx, s.client, []string{holdKey(tableID)}, userID.String()).Err()
}

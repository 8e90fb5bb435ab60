package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// claimDue leases up to ARGV[2] ids: first those whose lease expired at
// ARGV[1], then due ones. Each claimed id moves to the processing set scored
// by its lease deadline ARGV[3]. The reply is a flat list of id, body pairs.
// Bodies stay in the hash until the id is acknowledged.
var claimDue = goredis.NewScript(`
local limit = tonumber(ARGV[2])
local ids = redis.call('ZRANGEBYSCORE', KEYS[2], '-inf', ARGV[1], 'LIMIT', 0, limit)
if #ids < limit then
	local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, limit - #ids)
	for _, id in ipairs(due) do
		table.insert(ids, id)
	end
end
local out = {}
for _, id in ipairs(ids) do
	redis.call('ZREM', KEYS[1], id)
	local body = redis.call('HGET', KEYS[3], id)
	if body then
		redis.call('ZADD', KEYS[2], ARGV[3], id)
		table.insert(out, id)
		table.insert(out, body)
	else
		redis.call('ZREM', KEYS[2], id)
	end
end
return out
`)

// DefaultLease is how long a claimed action stays hidden from other workers.
const DefaultLease = 5 * time.Minute

// DeferredQueue is a ports.DeferredQueue kept in Redis: a hash of action
// bodies keyed by id, a sorted set of waiting ids scored by due time in ms and
// a sorted set of claimed ids scored by lease deadline in ms.
type DeferredQueue struct {
	client        goredis.UniversalClient
	itemsKey      string
	dueKey        string
	processingKey string
	lease         time.Duration
}

// NewDeferredQueue creates a queue whose claims expire after lease. A
// non-positive lease means DefaultLease.
func NewDeferredQueue(client goredis.UniversalClient, lease time.Duration) *DeferredQueue {
	if lease <= 0 {
		lease = DefaultLease
	}
	return &DeferredQueue{
		client:        client,
		itemsKey:      "deferred:items",
		dueKey:        "deferred:due",
		processingKey: "deferred:processing",
		lease:         lease,
	}
}

// dueScore rounds up so an item is never claimed before its ExecuteAt.
func dueScore(t time.Time) float64 {
	ms := t.UnixMilli()
	if t.Sub(time.UnixMilli(ms)) > 0 {
		ms++
	}
	return float64(ms)
}

// Schedule queues action. Scheduling a claimed action again releases its lease.
func (q *DeferredQueue) Schedule(ctx context.Context, action *domain.DeferredAction) error {
	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("marshal deferred action: %w", err)
	}
	id := action.ID.String()

	_, err = q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, q.itemsKey, id, body)
		pipe.ZRem(ctx, q.processingKey, id)
		pipe.ZAdd(ctx, q.dueKey, goredis.Z{Score: dueScore(action.ExecuteAt), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis schedule: %w", err)
	}
	return nil
}

// ClaimDue implements ports.DeferredQueue. Items whose id is not a UUID are
// dropped on the spot since no receipt can refer to them.
func (q *DeferredQueue) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*domain.DeferredAction, error) {
	if limit <= 0 {
		return nil, nil
	}
	reply, err := claimDue.Run(ctx, q.client,
		[]string{q.dueKey, q.processingKey, q.itemsKey},
		now.UnixMilli(), limit, now.Add(q.lease).UnixMilli(),
	).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("redis claim due: %w", err)
	}

	var (
		actions    = make([]*domain.DeferredAction, 0, len(reply)/2)
		unreadable ports.UnreadableActionsError
		errs       []error
	)
	for i := 0; i+1 < len(reply); i += 2 {
		key, body := reply[i], reply[i+1]
		var a domain.DeferredAction
		if err := json.Unmarshal([]byte(body), &a); err != nil {
			errs = append(errs, fmt.Errorf("unmarshal deferred action %s: %w", key, err))
			id, perr := uuid.Parse(key)
			if perr != nil {
				if err := q.remove(ctx, key); err != nil {
					errs = append(errs, err)
				}
				continue
			}
			unreadable.IDs = append(unreadable.IDs, id)
			continue
		}
		actions = append(actions, &a)
	}
	if len(errs) > 0 {
		unreadable.Err = errors.Join(errs...)
		return actions, &unreadable
	}
	return actions, nil
}

// Ack removes a claimed action and its body.
func (q *DeferredQueue) Ack(ctx context.Context, id uuid.UUID) error {
	return q.remove(ctx, id.String())
}

func (q *DeferredQueue) remove(ctx context.Context, id string) error {
	_, err := q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRem(ctx, q.processingKey, id)
		pipe.ZRem(ctx, q.dueKey, id)
		pipe.HDel(ctx, q.itemsKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis ack %s: %w", id, err)
	}
	return nil
}

// Len returns the number of items waiting to fall due.
func (q *DeferredQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.ZCard(ctx, q.dueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis queue len: %w", err)
	}
	return n, nil
}

// Leased returns the number of claimed items not yet acknowledged.
func (q *DeferredQueue) Leased(ctx context.Context) (int64, error) {
	n, err := q.client.ZCard(ctx, q.processingKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis queue leased: %w", err)
	}
	return n, nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"asset-exchange/internal/core/domain"

	"github.com/google/uuid"
)

// Queue is an in-process ports.DeferredQueue ordered by due time. Claimed
// items leave the queue at once, so nothing is ever handed out twice.
type Queue struct {
	mu    sync.Mutex
	items []*domain.DeferredAction
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Schedule(ctx context.Context, action *domain.DeferredAction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := *action
	i := sort.Search(len(q.items), func(i int) bool { return q.items[i].ExecuteAt.After(cp.ExecuteAt) })
	q.items = append(q.items, nil)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = &cp
	return nil
}

func (q *Queue) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*domain.DeferredAction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for n < len(q.items) && n < limit && q.items[n].IsDue(now) {
		n++
	}
	claimed := make([]*domain.DeferredAction, n)
	copy(claimed, q.items[:n])
	q.items = q.items[n:]
	return claimed, nil
}

// Ack implements ports.DeferredQueue. Claimed items are already gone.
func (q *Queue) Ack(ctx context.Context, id uuid.UUID) error { return nil }

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// NoticeLog is a ports.NotificationSink that keeps every notice it receives.
type NoticeLog struct {
	mu      sync.Mutex
	notices []domain.TransferNotice
}

func NewNoticeLog() *NoticeLog { return &NoticeLog{} }

func (l *NoticeLog) Notify(ctx context.Context, notice *domain.TransferNotice) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, *notice)
	return nil
}

// For returns the notices delivered to recipient, oldest first.
func (l *NoticeLog) For(recipient domain.Name) []domain.TransferNotice {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.TransferNotice
	for _, n := range l.notices {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	return out
}

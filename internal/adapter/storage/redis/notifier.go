package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"asset-exchange/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// Notifier publishes transfer notices on the recipient's channel.
type Notifier struct {
	client goredis.UniversalClient
	prefix string
}

func NewNotifier(client goredis.UniversalClient) *Notifier {
	return &Notifier{client: client, prefix: "notify:"}
}

// Channel returns the pub/sub channel notices for account are published on.
func (n *Notifier) Channel(account domain.Name) string {
	return n.prefix + account.String()
}

func (n *Notifier) Notify(ctx context.Context, notice *domain.TransferNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	if err := n.client.Publish(ctx, n.Channel(notice.Recipient), body).Err(); err != nil {
		return fmt.Errorf("redis publish notice: %w", err)
	}
	return nil
}

package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"asset-exchange/internal/adapter/storage/redis"
	"asset-exchange/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_PublishesOnRecipientChannel(t *testing.T) {
	_, client := newClient(t)
	n := redis.NewNotifier(client)
	ctx := context.Background()

	assert.Equal(t, "notify:bob", n.Channel("bob"))

	sub := client.Subscribe(ctx, n.Channel("bob"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	notice := &domain.TransferNotice{
		Recipient: "bob",
		Action:    domain.ActionTransferIn,
		Transfer: domain.TransferPayload{
			From:     "alice",
			To:       "bob",
			Quantity: domain.NewAsset(25, domain.Symbol{Precision: 2, Code: "ABC"}),
			Memo:     "lunch",
		},
		At: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, n.Notify(ctx, notice))

	select {
	case msg := <-sub.Channel():
		var got domain.TransferNotice
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, notice.Transfer, got.Transfer)
		assert.Equal(t, domain.Name("bob"), got.Recipient)
		assert.Contains(t, msg.Payload, `"quantity":"0.25 ABC"`)
	case <-time.After(2 * time.Second):
		t.Fatal("notice was not published")
	}
}

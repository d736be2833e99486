package redis_test

import (
	"context"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/itemledger/id"
	"github.com/xraph/itemledger/store"
	"github.com/xraph/itemledger/store/redis"
	"github.com/xraph/itemledger/store/storetest"
)

// TestConformance runs against the server in ITEMLEDGER_REDIS_ADDR. Each
// case gets its own key prefix and cleans up after itself.
func TestConformance(t *testing.T) {
	addr := os.Getenv("ITEMLEDGER_REDIS_ADDR")
	if addr == "" {
		t.Skip("ITEMLEDGER_REDIS_ADDR not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		rdb := goredis.NewClient(&goredis.Options{Addr: addr})
		prefix := "itemledger-test:" + id.NewEventID().String() + ":"

		t.Cleanup(func() {
			cleanup := goredis.NewClient(&goredis.Options{Addr: addr})
			defer cleanup.Close()
			keys, _ := cleanup.Keys(ctx, prefix+"*").Result()
			if len(keys) > 0 {
				cleanup.Del(ctx, keys...)
			}
		})

		s := redis.New(rdb, redis.WithPrefix(prefix))
		if err := s.Migrate(ctx); err != nil {
			t.Fatal(err)
		}
		return s
	})
}

package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestRedisKeyArea(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		cmd  redis.Cmder
		want string
	}{
		{redis.NewStringCmd(ctx, "get", "crp:role:dev@example.com"), "role"},
		{redis.NewIntCmd(ctx, "incr", "crp:rl:contact:203.0.113.7"), "rl"},
		{redis.NewStatusCmd(ctx, "set", "crp:session:x", "1"), "other"},
		{redis.NewStatusCmd(ctx, "multi"), "none"},
		{redis.NewStringCmd(ctx, "get", "plainkey"), "other"},
	}
	for _, tc := range cases {
		if got := redisKeyArea(tc.cmd); got != tc.want {
			t.Fatalf("redisKeyArea(%v) = %q want %q", tc.cmd.Args(), got, tc.want)
		}
	}
}

func TestRedisCommandStatus(t *testing.T) {
	if redisCommandStatus(nil) != "success" || redisCommandStatus(redis.Nil) != "miss" || redisCommandStatus(errors.New("boom")) != "error" {
		t.Fatal("unexpected status mapping")
	}
}

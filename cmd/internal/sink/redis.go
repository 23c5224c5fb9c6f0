package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
)

const (
	keyPrefix      = "stock:"
	channelPrefix  = "prices."
	instrumentsKey = "feed:instruments"
)

// Compile-time check to ensure RedisWriter implements Writer
var _ Writer = (*RedisWriter)(nil)

// RedisWriter keeps the latest feed state in Redis: the active instruments
// in one hash, the last quote per instrument under stock:<isin>, and every
// quote published on prices.<isin>.
type RedisWriter struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisWriter(client RedisClient, quoteTTL time.Duration) *RedisWriter {
	return &RedisWriter{client: client, ttl: quoteTTL}
}

func (r *RedisWriter) Name() string { return "redis" }

func (r *RedisWriter) Write(ctx context.Context, ev protocol.Event) error {
	isin := ev.ISIN()
	pipe := r.client.Pipeline()

	switch ev.Type {
	case protocol.TypeAdd:
		pipe.HSet(ctx, instrumentsKey, isin, ev.Instrument.Description)
	case protocol.TypeDelete:
		pipe.HDel(ctx, instrumentsKey, isin)
		pipe.Del(ctx, keyPrefix+isin)
	case protocol.TypeQuote:
		payload, err := ev.Encode()
		if err != nil {
			return err
		}
		// Atomic SET + PUBLISH in single pipeline for consistency
		pipe.Set(ctx, keyPrefix+isin, payload, r.ttl)
		pipe.Publish(ctx, channelPrefix+isin, payload)
	default:
		return fmt.Errorf("unsupported event type %q", ev.Type)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline for %s: %w", isin, err)
	}
	return nil
}

func (r *RedisWriter) Close() error { return r.client.Close() }

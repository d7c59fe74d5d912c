package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogPubSub broadcasts that a catalog entity (theatre, package, addon,
// gallery image) was written.
type CatalogPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewCatalogPubSub(rdb *redis.Client) *CatalogPubSub {
	return &CatalogPubSub{
		rdb:     rdb,
		channel: ChannelCatalogChanged(),
	}
}

type catalogChangedMsg struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *CatalogPubSub) PublishCatalogChanged(ctx context.Context, entity string) error {
	msg := catalogChangedMsg{
		Type:   "catalog_changed",
		Entity: entity,
		TsUnix: time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe calls handler for every well-formed message until ctx is done.
func (p *CatalogPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, entity string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			if entity, ok := decodeCatalogChanged(m.Payload); ok {
				handler(ctx, entity)
			}
		}
	}
}

func decodeCatalogChanged(payload string) (string, bool) {
	var msg catalogChangedMsg
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return "", false
	}
	if msg.Type != "catalog_changed" || msg.Entity == "" {
		return "", false
	}
	return msg.Entity, true
}

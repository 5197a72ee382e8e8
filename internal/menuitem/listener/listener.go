package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-menu-service/internal/menuitem"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

// MessageReader is the part of broker.KafkaConsumer the listener needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// CacheListener drops the local item cache whenever another instance
// announces an item write.
type CacheListener struct {
	consumer MessageReader
	uc       menuitem.UseCase
	origin   string
	logger   logger.ZapLogger
}

func NewCacheListener(consumer MessageReader, uc menuitem.UseCase, origin string, logger logger.ZapLogger) *CacheListener {
	return &CacheListener{
		consumer: consumer,
		uc:       uc,
		origin:   origin,
		logger:   logger,
	}
}

func (l *CacheListener) Start(ctx context.Context) {
	l.logger.Info("Starting menu cache Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping menu cache Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *CacheListener) processMessage(ctx context.Context, value []byte) {
	var event menuitem.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch event.EventType {
	case menuitem.EventItemCreated, menuitem.EventItemUpdated, menuitem.EventItemDeleted:
	default:
		return
	}
	// our own writes already invalidated the cache
	if event.Origin != "" && event.Origin == l.origin {
		return
	}

	l.logger.Debug("Invalidating item cache",
		zap.String("event_type", event.EventType),
		zap.String("item_id", event.ItemID),
	)
	l.uc.InvalidateCache(ctx)
}

package event

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/pkg/mq"
)

// InvalidationRoutingKeys 缓存淘汰订阅的路由键模式
var InvalidationRoutingKeys = []string{"order.*", "inventory.*"}

// ReportInvalidator 报表缓存淘汰
type ReportInvalidator interface {
	InvalidateOrders(ctx context.Context) error
	InvalidateInventory(ctx context.Context) error
}

// NewCacheInvalidator 按事件类别淘汰受影响的报表缓存
// 未识别的路由键直接确认，不重新入队
func NewCacheInvalidator(r ReportInvalidator, logger zerolog.Logger) mq.HandlerFunc {
	return func(ctx context.Context, d mq.Delivery) error {
		key := d.RoutingKey
		if key == "" {
			key = d.Envelope.Type
		}

		var err error
		switch {
		case strings.HasPrefix(key, "order."):
			err = r.InvalidateOrders(ctx)
		case strings.HasPrefix(key, "inventory."):
			err = r.InvalidateInventory(ctx)
		default:
			logger.Debug().Str("routing_key", key).Msg("忽略事件")
			return nil
		}
		if err != nil {
			return err
		}

		logger.Info().
			Str("routing_key", key).
			Str("message_id", d.Envelope.ID).
			Bool("redelivered", d.Redelivered).
			Msg("报表缓存已按事件淘汰")
		return nil
	}
}

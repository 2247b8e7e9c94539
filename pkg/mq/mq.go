// Package mq RabbitMQ消息发布与消费（topic交换机）
//
// 路由键约定：<领域>.<事件>，如 order.confirmed、inventory.low_stock、report.batch_completed。
// 消费者可用通配符订阅（order.*）。
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/pkg/metrics"
)

// Envelope 消息信封
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"` // 等于路由键
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope 包装事件载荷
func NewEnvelope(routingKey string, payload interface{}) (*Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("消息序列化失败: %w", err)
	}
	return &Envelope{
		ID:         uuid.NewString(),
		Type:       routingKey,
		OccurredAt: time.Now(),
		Payload:    body,
	}, nil
}

// Decode 解析载荷
func (e *Envelope) Decode(dest interface{}) error {
	return json.Unmarshal(e.Payload, dest)
}

// Publisher 消息发布者
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}

// AMQPPublisher 基于RabbitMQ的发布者（并发安全）
type AMQPPublisher struct {
	mu       sync.Mutex // amqp.Channel不保证并发发布安全
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   zerolog.Logger
}

// NewPublisher 连接RabbitMQ并声明持久化交换机
func NewPublisher(url, exchange, exchangeType string, logger zerolog.Logger) (*AMQPPublisher, error) {
	conn, channel, err := dial(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("exchange", exchange).Str("type", exchangeType).Msg("消息发布者已创建")

	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish 发布持久化消息
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	env, err := NewEnvelope(routingKey, payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    env.ID,
			Type:         routingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    env.OccurredAt,
		},
	)
	p.mu.Unlock()

	metrics.MessagePublished(p.exchange, routingKey, err == nil)
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	p.logger.Debug().Str("routing_key", routingKey).Str("message_id", env.ID).Msg("消息已发布")
	return nil
}

// Close 关闭Channel和连接
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NopPublisher 未启用消息队列时使用，丢弃所有消息
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

// Delivery 消费到的消息
type Delivery struct {
	RoutingKey  string
	Redelivered bool
	Envelope    Envelope
}

// HandlerFunc 消息处理函数，返回错误时消息重新入队（仅一次）
type HandlerFunc func(ctx context.Context, d Delivery) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  zerolog.Logger
}

// NewConsumer 声明持久化队列并按routingKeys绑定到交换机
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string, logger zerolog.Logger) (*Consumer, error) {
	conn, channel, err := dial(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	q, err := channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("绑定Queue失败(%s): %w", key, err)
		}
	}

	logger.Info().Str("queue", q.Name).Strs("routing_keys", routingKeys).Msg("消息消费者已创建")

	return &Consumer{conn: conn, channel: channel, queue: q.Name, logger: logger}, nil
}

// Consume 阻塞消费，直到ctx取消或连接关闭
// 处理失败的消息首次重新入队，再次失败则丢弃（避免毒消息无限循环）
func (c *Consumer) Consume(ctx context.Context, handler HandlerFunc) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	c.logger.Info().Str("queue", c.queue).Msg("开始消费消息")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Str("queue", c.queue).Msg("消费者退出")
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery, handler HandlerFunc) {
	start := time.Now()

	d := Delivery{RoutingKey: msg.RoutingKey, Redelivered: msg.Redelivered}
	if err := json.Unmarshal(msg.Body, &d.Envelope); err != nil {
		c.logger.Error().Err(err).Str("routing_key", msg.RoutingKey).Msg("无法解析消息，丢弃")
		_ = msg.Nack(false, false)
		metrics.MessageConsumed(c.queue, false, time.Since(start))
		return
	}

	err := handler(ctx, d)
	metrics.MessageConsumed(c.queue, err == nil, time.Since(start))
	if err == nil {
		_ = msg.Ack(false)
		return
	}

	requeue := !msg.Redelivered
	c.logger.Warn().Err(err).
		Str("routing_key", msg.RoutingKey).
		Str("message_id", d.Envelope.ID).
		Bool("requeue", requeue).
		Msg("消息处理失败")
	_ = msg.Nack(false, requeue)
}

// Close 关闭Channel和连接
func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func dial(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	return conn, channel, nil
}

package memstore

import (
	"context"
	"sync"
)

// Published 一条已发布的事件
type Published struct {
	RoutingKey string
	Payload    interface{}
}

// Publisher 记录发布的事件，实现mq.Publisher
type Publisher struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func (p *Publisher) Publish(_ context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, Published{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (p *Publisher) Close() error { return nil }

// RoutingKeys 按发布顺序返回路由键
func (p *Publisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.RoutingKey
	}
	return keys
}

// Events 全部事件
func (p *Publisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Published(nil), p.events...)
}

package cache

import (
	"context"
	"time"
)

// Noop 关闭缓存时使用，永远未命中
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }

func (Noop) DeletePrefix(context.Context, string) error { return nil }

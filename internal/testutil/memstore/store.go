// Package memstore 仓储接口的内存实现，供用例测试使用
//
// Store.Transaction 在fn返回错误时恢复到事务前的快照，
// 用于验证用例在失败时不留下部分写入。
package memstore

import (
	"context"
	"sync"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/customer"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	"github.com/xiebiao/techbookstore/internal/domain/optimization"
	"github.com/xiebiao/techbookstore/internal/domain/order"
)

// Store 全部内存数据
type Store struct {
	mu sync.Mutex

	books       map[uint]book.Book
	deleted     map[uint]bool
	categories  map[string]book.Category
	inventories map[uint]inventory.Inventory // key: bookID
	movements   []inventory.Movement
	orders      map[uint]order.Order
	customers   map[uint]customer.Customer
	settings    map[uint]optimization.Settings

	nextID uint

	// FailOn 让指定操作返回错误（键如 "orders.Create"）
	FailOn map[string]error
}

// New 创建空的Store
func New() *Store {
	return &Store{
		books:       map[uint]book.Book{},
		deleted:     map[uint]bool{},
		categories:  map[string]book.Category{},
		inventories: map[uint]inventory.Inventory{},
		orders:      map[uint]order.Order{},
		customers:   map[uint]customer.Customer{},
		settings:    map[uint]optimization.Settings{},
		FailOn:      map[string]error{},
	}
}

type snapshot struct {
	books       map[uint]book.Book
	deleted     map[uint]bool
	categories  map[string]book.Category
	inventories map[uint]inventory.Inventory
	movements   []inventory.Movement
	orders      map[uint]order.Order
	customers   map[uint]customer.Customer
	settings    map[uint]optimization.Settings
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make(map[uint]order.Order, len(s.orders))
	for id, o := range s.orders {
		o.Items = append([]order.Item(nil), o.Items...)
		orders[id] = o
	}
	return snapshot{
		books:       copyMap(s.books),
		deleted:     copyMap(s.deleted),
		categories:  copyMap(s.categories),
		inventories: copyMap(s.inventories),
		movements:   append([]inventory.Movement(nil), s.movements...),
		orders:      orders,
		customers:   copyMap(s.customers),
		settings:    copyMap(s.settings),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = snap.books
	s.deleted = snap.deleted
	s.categories = snap.categories
	s.inventories = snap.inventories
	s.movements = snap.movements
	s.orders = snap.orders
	s.customers = snap.customers
	s.settings = snap.settings
}

// Transaction 实现tx.Manager
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// Movements 当前全部库存流水
func (s *Store) Movements() []inventory.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]inventory.Movement(nil), s.movements...)
}

// Inventory 直接读取库存行（测试断言用）
func (s *Store) Inventory(bookID uint) inventory.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventories[bookID]
}

// Books / Categories / Inventories / Orders / Customers / Settings 仓储视图
func (s *Store) Books() book.Repository { return &bookRepo{s} }
func (s *Store) Categories() book.CategoryRepository { return &categoryRepo{s} }
func (s *Store) Inventories() inventory.Repository { return &inventoryRepo{s} }
func (s *Store) Orders() order.Repository { return &orderRepo{s} }
func (s *Store) Customers() customer.Repository { return &customerRepo{s} }
func (s *Store) Settings() optimization.SettingsRepository { return &settingsRepo{s} }

func paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

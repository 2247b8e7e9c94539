package memstore

import (
	"context"
	"sort"

	"github.com/xiebiao/techbookstore/internal/domain/inventory"
)

type inventoryRepo struct{ s *Store }

func (r *inventoryRepo) Create(_ context.Context, inv *inventory.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("inventories.Create"); err != nil {
		return err
	}
	inv.ID = r.s.id()
	r.s.inventories[inv.BookID] = *inv
	return nil
}

func (r *inventoryRepo) FindByBookID(_ context.Context, bookID uint) (*inventory.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.inventories[bookID]
	if !ok {
		return nil, inventory.ErrInventoryNotFound
	}
	return &inv, nil
}

func (r *inventoryRepo) FindByBookIDForUpdate(ctx context.Context, bookID uint) (*inventory.Inventory, error) {
	return r.FindByBookID(ctx, bookID)
}

func (r *inventoryRepo) LockByBookIDs(_ context.Context, bookIDs []uint) ([]*inventory.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := append([]uint(nil), bookIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*inventory.Inventory, 0, len(ids))
	for _, id := range ids {
		inv, ok := r.s.inventories[id]
		if !ok {
			return nil, inventory.ErrInventoryNotFound
		}
		out = append(out, &inv)
	}
	return out, nil
}

func (r *inventoryRepo) Save(_ context.Context, inv *inventory.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("inventories.Save"); err != nil {
		return err
	}
	r.s.inventories[inv.BookID] = *inv
	return nil
}

func (r *inventoryRepo) List(_ context.Context, p inventory.ListParams) ([]*inventory.Inventory, int64, error) {
	all := r.filter(func(inv *inventory.Inventory) bool { return p.Status == "" || inv.Status() == p.Status })
	return paginate(all, p.Page, p.PageSize), int64(len(all)), nil
}

func (r *inventoryRepo) ListLowStock(context.Context) ([]*inventory.Inventory, error) {
	return r.filter(func(inv *inventory.Inventory) bool { return inv.IsLowStock() }), nil
}

func (r *inventoryRepo) ListOutOfStock(context.Context) ([]*inventory.Inventory, error) {
	return r.filter(func(inv *inventory.Inventory) bool { return inv.IsOutOfStock() }), nil
}

func (r *inventoryRepo) ListAll(context.Context) ([]*inventory.Inventory, error) {
	return r.filter(func(*inventory.Inventory) bool { return true }), nil
}

func (r *inventoryRepo) filter(keep func(*inventory.Inventory) bool) []*inventory.Inventory {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*inventory.Inventory
	for _, inv := range r.s.inventories {
		inv := inv
		if keep(&inv) {
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out
}

func (r *inventoryRepo) AppendMovements(_ context.Context, movements ...*inventory.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("inventories.AppendMovements"); err != nil {
		return err
	}
	for _, m := range movements {
		m.ID = r.s.id()
		r.s.movements = append(r.s.movements, *m)
	}
	return nil
}

func (r *inventoryRepo) ListMovements(_ context.Context, bookID uint, page, size int) ([]*inventory.Movement, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*inventory.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.BookID == bookID {
			out = append(out, &m)
		}
	}
	return paginate(out, page, size), int64(len(out)), nil
}

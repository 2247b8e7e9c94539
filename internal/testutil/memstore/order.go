package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/xiebiao/techbookstore/internal/domain/order"
)

type orderRepo struct{ s *Store }

func cloneOrder(o order.Order) *order.Order {
	o.Items = append([]order.Item(nil), o.Items...)
	return &o
}

func (r *orderRepo) Create(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return order.ErrOrderNumberConflict
		}
	}
	o.ID = r.s.id()
	for i := range o.Items {
		o.Items[i].ID = r.s.id()
		o.Items[i].OrderID = o.ID
	}
	r.s.orders[o.ID] = *cloneOrder(*o)
	return nil
}

func (r *orderRepo) FindByID(_ context.Context, id uint) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, id uint) (*order.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *orderRepo) FindByOrderNumber(_ context.Context, number string) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.OrderNumber == number {
			return cloneOrder(o), nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *orderRepo) ListByCustomer(_ context.Context, customerID uint) ([]*order.Order, error) {
	all, _, _ := r.List(context.Background(), order.ListParams{CustomerID: &customerID})
	return all, nil
}

func (r *orderRepo) Update(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.Update"); err != nil {
		return err
	}
	if _, ok := r.s.orders[o.ID]; !ok {
		return order.ErrOrderNotFound
	}
	r.s.orders[o.ID] = *cloneOrder(*o)
	return nil
}

func (r *orderRepo) List(_ context.Context, p order.ListParams) ([]*order.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*order.Order
	for _, o := range r.s.orders {
		switch {
		case p.Status != "" && o.Status != p.Status,
			p.Type != "" && o.Type != p.Type,
			p.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *p.CustomerID),
			p.StartDate != nil && o.OrderDate.Before(*p.StartDate),
			p.EndDate != nil && !o.OrderDate.Before(*p.EndDate),
			p.Keyword != "" && !strings.Contains(o.OrderNumber, p.Keyword) && !strings.Contains(o.Notes, p.Keyword):
			continue
		}
		out = append(out, cloneOrder(o))
	}

	less := func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) }
	switch p.SortBy {
	case order.SortByTotalAmount:
		less = func(i, j int) bool { return out[i].TotalAmount.LessThan(out[j].TotalAmount) }
	case order.SortByOrderNumber:
		less = func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber }
	}
	if p.SortDesc {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(out, less)
	return paginate(out, p.Page, p.PageSize), int64(len(out)), nil
}

func (r *orderRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.orders)), nil
}

func (r *orderRepo) CountByStatus(context.Context) (map[order.Status]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[order.Status]int64{}
	for _, o := range r.s.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *orderRepo) ExistsForBook(_ context.Context, bookID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		for _, item := range o.Items {
			if item.BookID == bookID {
				return true, nil
			}
		}
	}
	return false, nil
}

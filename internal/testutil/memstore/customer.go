package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/techbookstore/internal/domain/customer"
	"github.com/xiebiao/techbookstore/internal/domain/optimization"
)

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(_ context.Context, c *customer.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) FindByID(_ context.Context, id uint) (*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *customerRepo) FindActiveByEmail(_ context.Context, email string) (*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Email == email && !c.IsDeleted() {
			return &c, nil
		}
	}
	return nil, customer.ErrCustomerNotFound
}

func (r *customerRepo) Update(_ context.Context, c *customer.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return customer.ErrCustomerNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) List(_ context.Context, p customer.ListParams) ([]*customer.Customer, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*customer.Customer
	for _, c := range r.s.customers {
		switch {
		case p.Status != "" && c.Status != p.Status,
			p.Status == "" && !p.IncludeDeleted && c.IsDeleted(),
			p.CustomerType != "" && c.CustomerType != p.CustomerType,
			p.Keyword != "" && !strings.Contains(c.Name+" "+c.Email+" "+c.CompanyName, p.Keyword):
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, p.Page, p.PageSize), int64(len(out)), nil
}

type settingsRepo struct{ s *Store }

func (r *settingsRepo) FindByBookIDs(_ context.Context, ids []uint) (map[uint]optimization.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uint]optimization.Settings)
	for _, id := range ids {
		if st, ok := r.s.settings[id]; ok {
			out[id] = st
		}
	}
	return out, nil
}

func (r *settingsRepo) Save(_ context.Context, st optimization.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings[st.BookID] = st
	return nil
}

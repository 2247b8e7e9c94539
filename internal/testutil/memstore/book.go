package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/techbookstore/internal/domain/book"
)

type bookRepo struct{ s *Store }

func (r *bookRepo) Create(_ context.Context, b *book.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("books.Create"); err != nil {
		return err
	}
	for id, existing := range r.s.books {
		if existing.ISBN13 == b.ISBN13 && !r.s.deleted[id] {
			return book.ErrISBNDuplicate
		}
	}
	for i, c := range b.Categories {
		stored, ok := r.s.categories[c.Code]
		if !ok {
			return book.ErrCategoryNotFound
		}
		b.Categories[i] = stored
	}
	b.ID = r.s.id()
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.books[b.ID] = *b
	return nil
}

func (r *bookRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.books[id]
	if !ok || r.s.deleted[id] {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (r *bookRepo) FindByIDs(_ context.Context, ids []uint) ([]*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*book.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.s.books[id]; ok && !r.s.deleted[id] {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r *bookRepo) FindByISBN(_ context.Context, isbn string) (*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, b := range r.s.books {
		if b.ISBN13 == isbn && !r.s.deleted[id] {
			return &b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *bookRepo) Update(_ context.Context, b *book.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	r.s.books[b.ID] = *b
	return nil
}

func (r *bookRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.books[id]; !ok || r.s.deleted[id] {
		return book.ErrBookNotFound
	}
	r.s.deleted[id] = true
	return nil
}

func (r *bookRepo) List(_ context.Context, p book.ListParams) ([]*book.Book, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*book.Book
	for id, b := range r.s.books {
		if r.s.deleted[id] {
			continue
		}
		if p.Keyword != "" && !strings.Contains(b.Title, p.Keyword) && !strings.Contains(b.ISBN13, p.Keyword) {
			continue
		}
		if p.Level != "" && b.Level != p.Level {
			continue
		}
		if p.CategoryCode != "" && !containsCode(b.CategoryCodes(), p.CategoryCode) {
			continue
		}
		b := b
		matched = append(matched, &b)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, p.Page, p.PageSize), int64(len(matched)), nil
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, c *book.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.Code]; ok {
		return book.ErrCategoryDuplicate
	}
	c.ID = r.s.id()
	r.s.categories[c.Code] = *c
	return nil
}

func (r *categoryRepo) FindByCode(_ context.Context, code string) (*book.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[code]
	if !ok {
		return nil, book.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *categoryRepo) List(_ context.Context) ([]*book.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*book.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

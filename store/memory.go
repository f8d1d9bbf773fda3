package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"catalog-management/ordering"
)

// MemoryStore keeps the catalog in process memory. It follows the same
// ordering and paging rules as PostgresStore and is used for local
// development (database driver "memory") and tests.
type MemoryStore struct {
	mu         sync.Mutex
	categories []CategoryRow
	products   map[int64]ProductRow
	images     map[int64]ImageRow
	admins     map[string]AdminRow
	nextID     map[string]int64
}

// NewMemoryStore returns an empty store holding the given categories.
func NewMemoryStore(categories ...string) *MemoryStore {
	m := &MemoryStore{
		products: map[int64]ProductRow{},
		images:   map[int64]ImageRow{},
		admins:   map[string]AdminRow{},
		nextID:   map[string]int64{},
	}
	for _, name := range categories {
		m.categories = append(m.categories, CategoryRow{ID: m.id("categories"), Name: name})
	}
	return m
}

// id must be called with mu held (or before the store is shared).
func (m *MemoryStore) id(table string) int64 {
	m.nextID[table]++
	return m.nextID[table]
}

func (m *MemoryStore) Close() error                   { return nil }
func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CategoryRow{}, m.categories...), nil
}

func (m *MemoryStore) CategoryExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.category(id)
	return ok, nil
}

func (m *MemoryStore) category(id int64) (CategoryRow, bool) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryRow{}, false
}

func (m *MemoryStore) ListProducts(ctx context.Context, f ProductFilter) ([]ProductRow, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	scoped := f.CategoryID > 0
	entries := make([]ordering.Entry, 0, len(m.products))
	for _, p := range m.products {
		if scoped && p.CategoryID != f.CategoryID {
			continue
		}
		entries = append(entries, ordering.Entry{
			ID:         p.ID,
			CategoryID: p.CategoryID,
			Global:     p.GlobalDisplayOrder,
			Category:   p.CategoryDisplayOrder,
		})
	}
	ordering.Sort(entries, scoped)

	total := len(entries)
	start, end := ordering.Window(total, f.Offset, f.Limit)

	out := make([]ProductRow, 0, end-start)
	for _, e := range entries[start:end] {
		out = append(out, m.withCategory(m.products[e.ID]))
	}
	return out, int64(total), nil
}

func (m *MemoryStore) withCategory(p ProductRow) ProductRow {
	if c, ok := m.category(p.CategoryID); ok {
		p.CategoryName = c.Name
	}
	return p
}

func (m *MemoryStore) GetProduct(ctx context.Context, id int64) (ProductRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return ProductRow{}, ErrNotFound
	}
	return m.withCategory(p), nil
}

func (m *MemoryStore) CreateProduct(ctx context.Context, p ProductRow) (ProductRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.category(p.CategoryID); !ok {
		return ProductRow{}, errors.Errorf("category %d does not exist", p.CategoryID)
	}

	var global, inCategory []int
	for _, other := range m.products {
		global = append(global, other.GlobalDisplayOrder)
		if other.CategoryID == p.CategoryID {
			inCategory = append(inCategory, other.CategoryDisplayOrder)
		}
	}
	p.ID = m.id("products")
	p.GlobalDisplayOrder = ordering.Next(global)
	p.CategoryDisplayOrder = ordering.Next(inCategory)
	m.products[p.ID] = p
	return m.withCategory(p), nil
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, p ProductRow, featured map[int64]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m.category(p.CategoryID); !ok {
		return errors.Errorf("category %d does not exist", p.CategoryID)
	}
	p.GlobalDisplayOrder = old.GlobalDisplayOrder
	p.CategoryDisplayOrder = old.CategoryDisplayOrder
	p.CategoryName = ""
	m.products[p.ID] = p

	for id, v := range featured {
		if img, ok := m.images[id]; ok && img.ProductID == p.ID {
			img.IsFeatured = v
			m.images[id] = img
		}
	}
	return nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	for imgID, img := range m.images {
		if img.ProductID == id {
			delete(m.images, imgID)
		}
	}
	return nil
}

func (m *MemoryStore) ReorderGlobal(ctx context.Context, items []ReorderRow) (int64, error) {
	return m.reorder(items, func(p *ProductRow, order int) bool {
		p.GlobalDisplayOrder = order
		return true
	})
}

func (m *MemoryStore) ReorderCategory(ctx context.Context, categoryID int64, items []ReorderRow) (int64, error) {
	return m.reorder(items, func(p *ProductRow, order int) bool {
		if p.CategoryID != categoryID {
			return false
		}
		p.CategoryDisplayOrder = order
		return true
	})
}

func (m *MemoryStore) reorder(items []ReorderRow, apply func(p *ProductRow, order int) bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range items {
		p, ok := m.products[it.ProductID]
		if !ok {
			continue
		}
		if apply(&p, it.Order) {
			m.products[p.ID] = p
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ListImages(ctx context.Context, productIDs []int64) ([]ImageRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		want[id] = true
	}
	out := []ImageRow{}
	for _, img := range m.images {
		if want[img.ProductID] {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetImage(ctx context.Context, id int64) (ImageRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok {
		return ImageRow{}, ErrNotFound
	}
	return img, nil
}

func (m *MemoryStore) CreateImage(ctx context.Context, img ImageRow) (ImageRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[img.ProductID]; !ok {
		return ImageRow{}, errors.Errorf("product %d does not exist", img.ProductID)
	}
	img.ID = m.id("product_images")
	m.images[img.ID] = img
	return img, nil
}

func (m *MemoryStore) DeleteImage(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.images[id]; !ok {
		return ErrNotFound
	}
	delete(m.images, id)
	return nil
}

func (m *MemoryStore) GetAdmin(ctx context.Context, username string) (AdminRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[username]
	if !ok {
		return AdminRow{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) CreateAdmin(ctx context.Context, username, passwordHash string) (AdminRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[username]; ok {
		return AdminRow{}, ErrDuplicate
	}
	a := AdminRow{ID: m.id("admin_users"), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	m.admins[username] = a
	return a, nil
}

func (m *MemoryStore) SetAdminPassword(ctx context.Context, username, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[username]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = passwordHash
	m.admins[username] = a
	return nil
}

func (m *MemoryStore) CountAdmins(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.admins)), nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

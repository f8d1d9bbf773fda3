package store

import (
	"context"
	"errors"
	"testing"
)

func seedProducts(t *testing.T, m *MemoryStore, catIDs ...int64) []ProductRow {
	t.Helper()
	out := make([]ProductRow, 0, len(catIDs))
	for _, c := range catIDs {
		p, err := m.CreateProduct(context.Background(), ProductRow{Name: "p", CategoryID: c})
		if err != nil {
			t.Fatalf("create product: %v", err)
		}
		out = append(out, p)
	}
	return out
}

func TestMemoryCreateAppendsToBothSequences(t *testing.T) {
	m := NewMemoryStore("Templates", "Plugins")
	ps := seedProducts(t, m, 1, 2, 1)

	if ps[0].GlobalDisplayOrder != 1 || ps[1].GlobalDisplayOrder != 2 || ps[2].GlobalDisplayOrder != 3 {
		t.Fatalf("unexpected global orders: %+v", ps)
	}
	if ps[0].CategoryDisplayOrder != 1 || ps[1].CategoryDisplayOrder != 1 || ps[2].CategoryDisplayOrder != 2 {
		t.Fatalf("unexpected category orders: %+v", ps)
	}
	if ps[1].CategoryName != "Plugins" {
		t.Fatalf("expected category name to be joined, got %q", ps[1].CategoryName)
	}
}

func TestMemoryCreateUnknownCategory(t *testing.T) {
	m := NewMemoryStore("Templates")
	if _, err := m.CreateProduct(context.Background(), ProductRow{Name: "x", CategoryID: 9}); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestMemoryListPagingAndScope(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("A", "B")
	seedProducts(t, m, 1, 2, 1, 2, 1)

	rows, total, err := m.ListProducts(ctx, ProductFilter{Offset: 3, Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(rows) != 2 || rows[0].ID != 4 || rows[1].ID != 5 {
		t.Fatalf("unexpected page: total=%d rows=%+v", total, rows)
	}

	// scoped: category order wins over global order
	if _, err := m.ReorderCategory(ctx, 1, []ReorderRow{{ProductID: 5, Order: 0}}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	rows, total, _ = m.ListProducts(ctx, ProductFilter{CategoryID: 1, Limit: 10})
	if total != 3 || rows[0].ID != 5 || rows[1].ID != 1 || rows[2].ID != 3 {
		t.Fatalf("unexpected scoped listing: %+v", rows)
	}

	rows, total, _ = m.ListProducts(ctx, ProductFilter{Offset: 50, Limit: 10})
	if total != 5 || len(rows) != 0 {
		t.Fatalf("expected empty page past the end, got %d rows", len(rows))
	}
}

func TestMemoryReorderSkipsUnknownAndForeign(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("A", "B")
	ps := seedProducts(t, m, 1, 2)

	n, err := m.ReorderCategory(ctx, 1, []ReorderRow{
		{ProductID: ps[0].ID, Order: 7},
		{ProductID: ps[1].ID, Order: 7},
		{ProductID: 999, Order: 1},
	})
	if err != nil || n != 1 {
		t.Fatalf("expected one row updated, got n=%d err=%v", n, err)
	}
	other, _ := m.GetProduct(ctx, ps[1].ID)
	if other.CategoryDisplayOrder != 1 {
		t.Fatalf("product of another category was reordered: %+v", other)
	}

	n, _ = m.ReorderGlobal(ctx, []ReorderRow{{ProductID: ps[1].ID, Order: -2}, {ProductID: 42, Order: 1}})
	if n != 1 {
		t.Fatalf("expected one row updated, got %d", n)
	}
	p, _ := m.GetProduct(ctx, ps[1].ID)
	if p.GlobalDisplayOrder != -2 {
		t.Fatalf("expected verbatim order -2, got %d", p.GlobalDisplayOrder)
	}
}

func TestMemoryUpdatePreservesOrders(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("A", "B")
	ps := seedProducts(t, m, 1, 1)
	img, _ := m.CreateImage(ctx, ImageRow{URL: "u1", ProductID: ps[1].ID})
	foreign, _ := m.CreateImage(ctx, ImageRow{URL: "u2", ProductID: ps[0].ID})

	upd := ps[1]
	upd.Name = "renamed"
	upd.CategoryID = 2
	upd.GlobalDisplayOrder = 100
	upd.CategoryDisplayOrder = 100
	err := m.UpdateProduct(ctx, upd, map[int64]bool{img.ID: true, foreign.ID: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := m.GetProduct(ctx, ps[1].ID)
	if got.Name != "renamed" || got.CategoryID != 2 || got.GlobalDisplayOrder != 2 || got.CategoryDisplayOrder != 2 {
		t.Fatalf("unexpected product after update: %+v", got)
	}
	if i, _ := m.GetImage(ctx, img.ID); !i.IsFeatured {
		t.Fatalf("expected own image to be featured")
	}
	if i, _ := m.GetImage(ctx, foreign.ID); i.IsFeatured {
		t.Fatalf("image of another product must not change")
	}

	if err := m.UpdateProduct(ctx, ProductRow{ID: 77, CategoryID: 1}, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDeleteCascadesImages(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("A")
	ps := seedProducts(t, m, 1, 1)
	img, _ := m.CreateImage(ctx, ImageRow{URL: "u", ProductID: ps[0].ID})

	if err := m.DeleteProduct(ctx, ps[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.GetImage(ctx, img.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected image to be removed, got %v", err)
	}
	// gaps are kept, the next product still goes to the end
	next := seedProducts(t, m, 1)[0]
	if next.GlobalDisplayOrder != 3 {
		t.Fatalf("expected global order 3, got %d", next.GlobalDisplayOrder)
	}
	if err := m.DeleteProduct(ctx, ps[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryAdmins(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.CreateAdmin(ctx, "admin", "h1"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := m.CreateAdmin(ctx, "admin", "h2"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := m.SetAdminPassword(ctx, "admin", "h3"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	a, _ := m.GetAdmin(ctx, "admin")
	if a.PasswordHash != "h3" {
		t.Fatalf("expected updated hash, got %q", a.PasswordHash)
	}
	if n, _ := m.CountAdmins(ctx); n != 1 {
		t.Fatalf("expected 1 admin, got %d", n)
	}
	if err := m.SetAdminPassword(ctx, "ghost", "h"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

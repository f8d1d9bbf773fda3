package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"catalog-management/apperr"
	"catalog-management/auth"
	models "catalog-management/model"
	"catalog-management/store"
)

func newMemoryService(t *testing.T, opts ...Option) (*Service, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore("A", "B")
	return NewService(ms, &fakeStorage{}, opts...), ms
}

func mustCreate(t *testing.T, svc *Service, name string, categoryID int64) models.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), newProduct(name, categoryID))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return p
}

func listIDs(t *testing.T, svc *Service, categoryID int64, page, size int) []int64 {
	t.Helper()
	res, err := svc.ListProducts(context.Background(), categoryID, page, size)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make([]int64, 0, len(res.Items))
	for _, p := range res.Items {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestConsecutivePagesAreDisjointAndOrdered(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)
	for i := 0; i < 7; i++ {
		mustCreate(t, svc, "p", int64(i%2+1))
	}
	// force ties so only the id tie-break separates products
	if err := svc.ReorderGlobal(ctx, []models.ReorderItem{
		{ProductID: 1, Order: 5}, {ProductID: 2, Order: 5}, {ProductID: 3, Order: 5}, {ProductID: 7, Order: 0},
	}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	all := listIDs(t, svc, 0, 1, 100)
	var paged []int64
	seen := map[int64]bool{}
	for page := 1; page <= 3; page++ {
		for _, id := range listIDs(t, svc, 0, page, 3) {
			if seen[id] {
				t.Fatalf("product %d appears on more than one page", id)
			}
			seen[id] = true
			paged = append(paged, id)
		}
	}
	if !reflect.DeepEqual(all, paged) {
		t.Fatalf("pages %v do not concatenate to the full listing %v", paged, all)
	}
	if want := []int64{7, 4, 1, 2, 3, 5, 6}; !reflect.DeepEqual(all, want) {
		t.Fatalf("expected %v, got %v", want, all)
	}

	// same for a category-scoped listing
	all = listIDs(t, svc, 1, 1, 100)
	paged = append(listIDs(t, svc, 1, 1, 2), listIDs(t, svc, 1, 2, 2)...)
	if !reflect.DeepEqual(all, paged) {
		t.Fatalf("scoped pages %v differ from %v", paged, all)
	}
}

func TestSequentialCreatesNumberGloballyFromOne(t *testing.T) {
	svc, _ := newMemoryService(t)
	for i := 1; i <= 5; i++ {
		if p := mustCreate(t, svc, "p", 1); p.GlobalDisplayOrder != i {
			t.Fatalf("product %d got global order %d", i, p.GlobalDisplayOrder)
		}
	}
}

func TestCategorySequencesAreIndependent(t *testing.T) {
	svc, _ := newMemoryService(t)
	var got []models.Product
	for _, c := range []int64{1, 1, 1, 2, 2} {
		got = append(got, mustCreate(t, svc, "p", c))
	}
	wantCat := []int{1, 2, 3, 1, 2}
	for i, p := range got {
		if p.GlobalDisplayOrder != i+1 || p.CategoryDisplayOrder != wantCat[i] {
			t.Fatalf("product %d: global=%d category=%d", i, p.GlobalDisplayOrder, p.CategoryDisplayOrder)
		}
	}
}

func TestUpdateIgnoresIncomingOrders(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)
	mustCreate(t, svc, "first", 1)
	p := mustCreate(t, svc, "second", 1)

	p.Name = "changed"
	p.GlobalDisplayOrder = -40
	p.CategoryDisplayOrder = 1000
	if err := svc.UpdateProduct(ctx, p.ID, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Name != "changed" || got.GlobalDisplayOrder != 2 || got.CategoryDisplayOrder != 2 {
		t.Fatalf("orders changed on update: %+v", got)
	}
}

func TestReorderGlobalEdgeCases(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)
	mustCreate(t, svc, "a", 1)
	mustCreate(t, svc, "b", 2)
	before, _ := svc.ListProducts(ctx, 0, 1, 10)

	if err := svc.ReorderGlobal(ctx, []models.ReorderItem{}); !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	if err := svc.ReorderGlobal(ctx, []models.ReorderItem{{ProductID: 999, Order: 1}}); err != nil {
		t.Fatalf("unknown id should be a no-op, got %v", err)
	}
	after, _ := svc.ListProducts(ctx, 0, 1, 10)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("data changed:\n%+v\n%+v", before, after)
	}
}

func TestReorderCategoryIgnoresOtherCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)
	a1 := mustCreate(t, svc, "a1", 1)
	a2 := mustCreate(t, svc, "a2", 1)
	b1 := mustCreate(t, svc, "b1", 2)

	err := svc.ReorderCategory(ctx, 1, []models.ReorderItem{
		{ProductID: a1.ID, Order: 2}, {ProductID: a2.ID, Order: 1}, {ProductID: b1.ID, Order: 9},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got := listIDs(t, svc, 1, 1, 10); !reflect.DeepEqual(got, []int64{a2.ID, a1.ID}) {
		t.Fatalf("unexpected category order %v", got)
	}
	b, _ := svc.GetProduct(ctx, b1.ID)
	if b.CategoryDisplayOrder != 1 {
		t.Fatalf("product of another category changed: %+v", b)
	}
}

func TestLoginTokenValidUntilExpiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	tokens, err := auth.NewManager("secret", "catalog", "catalog-admin", 8*time.Hour,
		auth.WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	svc, _ := newMemoryService(t, WithTokens(tokens), WithBcryptCost(4))
	if _, err := svc.CreateAdmin(ctx, "admin", "pw"); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if _, err := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "wrong"}); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, models.LoginRequest{Username: "nobody", Password: "pw"}); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, models.LoginRequest{Username: "admin"}); !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("expected invalid for missing password, got %v", err)
	}

	res, err := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.ValidateToken(res.Token)
	if err != nil || claims.Subject != "admin" {
		t.Fatalf("validate: %+v %v", claims, err)
	}

	clock = clock.Add(7 * time.Hour)
	if _, err := svc.ValidateToken(res.Token); err != nil {
		t.Fatalf("expected token to be valid before expiry, got %v", err)
	}

	// once the clock passes the lifetime the same token is rejected
	clock = clock.Add(2 * time.Hour)
	if _, err := svc.ValidateToken(res.Token); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestDeleteKeepsOtherOrders(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)
	a := mustCreate(t, svc, "a", 1)
	b := mustCreate(t, svc, "b", 1)
	c := mustCreate(t, svc, "c", 1)

	if err := svc.DeleteProduct(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := listIDs(t, svc, 0, 1, 10); !reflect.DeepEqual(got, []int64{a.ID, c.ID}) {
		t.Fatalf("unexpected listing %v", got)
	}
	gotC, _ := svc.GetProduct(ctx, c.ID)
	if gotC.GlobalDisplayOrder != 3 || gotC.CategoryDisplayOrder != 3 {
		t.Fatalf("remaining product was renumbered: %+v", gotC)
	}
}

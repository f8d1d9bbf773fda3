package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"catalog-management/apperr"
	"catalog-management/auth"
	models "catalog-management/model"
	"catalog-management/ordering"
	"catalog-management/storage"
	"catalog-management/store"
)

type Service struct {
	store      store.Store
	blobs      storage.Storage
	tokens     *auth.Manager
	bcryptCost int
	validate   *validator.Validate
}

type Option func(*Service)

// WithTokens enables Login and ValidateToken.
func WithTokens(m *auth.Manager) Option {
	return func(s *Service) { s.tokens = m }
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func NewService(st store.Store, blobs storage.Storage, opts ...Option) *Service {
	s := &Service{store: st, blobs: blobs, validate: newValidator()}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ ServiceInterface = (*Service)(nil)

// storeErr maps store failures onto the error taxonomy. what names the
// entity for not-found messages.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFoundErr(what + " not found")
	case errors.Is(err, store.ErrDuplicate):
		return apperr.InvalidErr(what+" already exists", nil)
	case store.IsConstraint(err):
		return apperr.StorageErr("the database rejected the change", err, true)
	default:
		return apperr.StorageErr("storage error", err, false)
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	out := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Category{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// ListProducts returns one page. categoryID <= 0 lists every category in
// global order; otherwise only that category in category order.
func (s *Service) ListProducts(ctx context.Context, categoryID int64, page, pageSize int) (models.PagedResult[models.Product], error) {
	if err := checkPage(page, pageSize); err != nil {
		return models.PagedResult[models.Product]{}, err
	}
	if categoryID < 0 {
		categoryID = 0
	}
	rows, total, err := s.store.ListProducts(ctx, store.ProductFilter{
		CategoryID: categoryID,
		Offset:     ordering.Offset(page, pageSize),
		Limit:      pageSize,
	})
	if err != nil {
		return models.PagedResult[models.Product]{}, storeErr(err, "product")
	}

	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	images, err := s.store.ListImages(ctx, ids)
	if err != nil {
		return models.PagedResult[models.Product]{}, storeErr(err, "image")
	}
	byProduct := groupImages(images)

	items := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		items = append(items, toProduct(r, byProduct[r.ID]))
	}
	return models.PagedResult[models.Product]{
		Items:      items,
		TotalCount: total,
		PageNumber: page,
		PageSize:   pageSize,
	}, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	row, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, storeErr(err, "product")
	}
	images, err := s.store.ListImages(ctx, []int64{id})
	if err != nil {
		return models.Product{}, storeErr(err, "image")
	}
	return toProduct(row, images), nil
}

// CreateProduct appends the product to the end of the global sequence and of
// its category's sequence. Client supplied ids, orders and images are ignored.
func (s *Service) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := s.checkProduct(p); err != nil {
		return models.Product{}, err
	}
	if err := s.requireCategory(ctx, p.CategoryID); err != nil {
		return models.Product{}, err
	}
	row := toRow(p)
	row.ID = 0
	created, err := s.store.CreateProduct(ctx, row)
	if err != nil {
		return models.Product{}, storeErr(err, "product")
	}
	return toProduct(created, nil), nil
}

func (s *Service) requireCategory(ctx context.Context, id int64) error {
	ok, err := s.store.CategoryExists(ctx, id)
	if err != nil {
		return storeErr(err, "category")
	}
	if !ok {
		return apperr.InvalidErr("unknown category", map[string]string{"categoryId": "does not exist"})
	}
	return nil
}

// UpdateProduct overwrites the scalar fields of product id. Display orders
// keep their stored values whatever p carries. For images of p that match a
// stored image of this product by id, a changed IsFeatured is persisted;
// images are never added or removed here.
func (s *Service) UpdateProduct(ctx context.Context, id int64, p models.Product) error {
	if p.ID != 0 && p.ID != id {
		return apperr.InvalidErr("id in body does not match id in path", map[string]string{"id": "mismatch"})
	}
	p.ID = id
	if err := s.checkProduct(p); err != nil {
		return err
	}
	current, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return storeErr(err, "product")
	}
	if err := s.requireCategory(ctx, p.CategoryID); err != nil {
		return err
	}

	stored, err := s.store.ListImages(ctx, []int64{id})
	if err != nil {
		return storeErr(err, "image")
	}
	featured := featuredChanges(stored, p.Images)

	row := toRow(p)
	row.GlobalDisplayOrder = current.GlobalDisplayOrder
	row.CategoryDisplayOrder = current.CategoryDisplayOrder
	return storeErr(s.store.UpdateProduct(ctx, row, featured), "product")
}

// featuredChanges returns image id -> new IsFeatured for every incoming image
// that matches a stored one and differs from it.
func featuredChanges(stored []store.ImageRow, incoming []models.ProductImage) map[int64]bool {
	current := make(map[int64]bool, len(stored))
	for _, img := range stored {
		current[img.ID] = img.IsFeatured
	}
	out := map[int64]bool{}
	for _, img := range incoming {
		if was, ok := current[img.ID]; ok && was != img.IsFeatured {
			out[img.ID] = img.IsFeatured
		}
	}
	return out
}

// DeleteProduct removes the product and its image rows. Blobs of those images
// are then deleted best-effort; failures are only logged. Order values of the
// remaining products are left as they are.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	images, err := s.store.ListImages(ctx, []int64{id})
	if err != nil {
		return storeErr(err, "image")
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return storeErr(err, "product")
	}
	for _, img := range images {
		if err := s.deleteBlob(ctx, img.URL); err != nil {
			zap.L().Warn("blob cleanup failed",
				zap.Int64("product_id", id), zap.Int64("image_id", img.ID), zap.String("url", img.URL), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) ReorderGlobal(ctx context.Context, items []models.ReorderItem) error {
	if err := checkReorder(items); err != nil {
		return err
	}
	n, err := s.store.ReorderGlobal(ctx, toReorderRows(items))
	if err != nil {
		return storeErr(err, "product")
	}
	zap.L().Debug("global order updated", zap.Int("items", len(items)), zap.Int64("updated", n))
	return nil
}

// ReorderCategory only touches products that belong to categoryID.
func (s *Service) ReorderCategory(ctx context.Context, categoryID int64, items []models.ReorderItem) error {
	if categoryID <= 0 {
		return apperr.InvalidErr("invalid category id", map[string]string{"categoryId": "must be greater than 0"})
	}
	if err := checkReorder(items); err != nil {
		return err
	}
	n, err := s.store.ReorderCategory(ctx, categoryID, toReorderRows(items))
	if err != nil {
		return storeErr(err, "product")
	}
	zap.L().Debug("category order updated",
		zap.Int64("category_id", categoryID), zap.Int("items", len(items)), zap.Int64("updated", n))
	return nil
}

func (s *Service) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return storeErr(err, "database")
	}
	return nil
}

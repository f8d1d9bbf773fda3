package store

import "context"

// GET  /categories                        - ListCategories
// GET  /products                          - ListProducts (+ ListImages)
// POST /products                          - CreateProduct
// PUT  /products/{id}                     - UpdateProduct
// POST /products/reorder/global           - ReorderGlobal
// POST /products/reorder/category/{id}    - ReorderCategory
// POST /images/upload/{productId}         - CreateImage
// POST /auth/login                        - GetAdmin

type Store interface {
	ListCategories(ctx context.Context) ([]CategoryRow, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)

	ListProducts(ctx context.Context, f ProductFilter) ([]ProductRow, int64, error)
	GetProduct(ctx context.Context, id int64) (ProductRow, error)
	CreateProduct(ctx context.Context, p ProductRow) (ProductRow, error)
	UpdateProduct(ctx context.Context, p ProductRow, featured map[int64]bool) error
	DeleteProduct(ctx context.Context, id int64) error
	ReorderGlobal(ctx context.Context, items []ReorderRow) (int64, error)
	ReorderCategory(ctx context.Context, categoryID int64, items []ReorderRow) (int64, error)

	ListImages(ctx context.Context, productIDs []int64) ([]ImageRow, error)
	GetImage(ctx context.Context, id int64) (ImageRow, error)
	CreateImage(ctx context.Context, img ImageRow) (ImageRow, error)
	DeleteImage(ctx context.Context, id int64) error

	GetAdmin(ctx context.Context, username string) (AdminRow, error)
	CreateAdmin(ctx context.Context, username, passwordHash string) (AdminRow, error)
	SetAdminPassword(ctx context.Context, username, passwordHash string) error
	CountAdmins(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

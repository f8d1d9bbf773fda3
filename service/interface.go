package service

import (
	"context"

	"catalog-management/auth"
	models "catalog-management/model"
)

type ServiceInterface interface {
	ListCategories(ctx context.Context) ([]models.Category, error)

	ListProducts(ctx context.Context, categoryID int64, page, pageSize int) (models.PagedResult[models.Product], error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id int64, p models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ReorderGlobal(ctx context.Context, items []models.ReorderItem) error
	ReorderCategory(ctx context.Context, categoryID int64, items []models.ReorderItem) error

	UploadImage(ctx context.Context, productID int64, in ImageUpload) (models.ProductImage, error)
	DeleteImage(ctx context.Context, id int64) error

	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	ValidateToken(token string) (*auth.Claims, error)
	CreateAdmin(ctx context.Context, username, password string) (models.AdminUser, error)
	SetAdminPassword(ctx context.Context, username, password string) error
	EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error)

	Health(ctx context.Context) error
}

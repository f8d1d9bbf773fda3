package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProductImage struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	ProductID  int64  `json:"productId"`
	IsFeatured bool   `json:"isFeatured"`
}

// Product is the catalog entry as exchanged with API clients. The two display
// orders are assigned by the server on create and only change through reorder.
type Product struct {
	ID                   int64               `json:"id"`
	Name                 string              `json:"name" validate:"required,max=200"`
	Description          *string             `json:"description"`
	Price                decimal.Decimal     `json:"price"`
	DiscountPrice        decimal.NullDecimal `json:"discountPrice"`
	DiscountEndDate      *time.Time          `json:"discountEndDate"`
	DemoURL              *string             `json:"demoUrl" validate:"omitempty,url"`
	CategoryID           int64               `json:"categoryId" validate:"required,gt=0"`
	GlobalDisplayOrder   int                 `json:"globalDisplayOrder"`
	CategoryDisplayOrder int                 `json:"categoryDisplayOrder"`
	Category             *Category           `json:"category,omitempty"`
	Images               []ProductImage      `json:"images"`
}

// ReorderItem assigns a display order to one product.
type ReorderItem struct {
	ProductID int64 `json:"productId"`
	Order     int   `json:"order"`
}

// PagedResult is a single page of a filtered listing. TotalCount counts the
// whole filtered set, not the page.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
}

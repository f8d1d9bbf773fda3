package service

import (
	"database/sql"

	models "catalog-management/model"
	"catalog-management/store"
)

func toProduct(r store.ProductRow, images []store.ImageRow) models.Product {
	p := models.Product{
		ID:                   r.ID,
		Name:                 r.Name,
		Price:                r.Price,
		DiscountPrice:        r.DiscountPrice,
		CategoryID:           r.CategoryID,
		GlobalDisplayOrder:   r.GlobalDisplayOrder,
		CategoryDisplayOrder: r.CategoryDisplayOrder,
		Images:               make([]models.ProductImage, 0, len(images)),
	}
	if r.Description.Valid {
		d := r.Description.String
		p.Description = &d
	}
	if r.DemoURL.Valid {
		u := r.DemoURL.String
		p.DemoURL = &u
	}
	if r.DiscountEndDate.Valid {
		t := r.DiscountEndDate.Time
		p.DiscountEndDate = &t
	}
	if r.CategoryName != "" {
		p.Category = &models.Category{ID: r.CategoryID, Name: r.CategoryName}
	}
	for _, img := range images {
		p.Images = append(p.Images, toImage(img))
	}
	return p
}

// toRow copies the client-editable fields. Orders are left zero.
func toRow(p models.Product) store.ProductRow {
	r := store.ProductRow{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CategoryID:    p.CategoryID,
	}
	if p.Description != nil {
		r.Description = sql.NullString{String: *p.Description, Valid: true}
	}
	if p.DemoURL != nil {
		r.DemoURL = sql.NullString{String: *p.DemoURL, Valid: true}
	}
	if p.DiscountEndDate != nil {
		r.DiscountEndDate = sql.NullTime{Time: *p.DiscountEndDate, Valid: true}
	}
	return r
}

func toImage(r store.ImageRow) models.ProductImage {
	return models.ProductImage{ID: r.ID, URL: r.URL, ProductID: r.ProductID, IsFeatured: r.IsFeatured}
}

func toReorderRows(items []models.ReorderItem) []store.ReorderRow {
	out := make([]store.ReorderRow, 0, len(items))
	for _, it := range items {
		out = append(out, store.ReorderRow{ProductID: it.ProductID, Order: it.Order})
	}
	return out
}

func groupImages(images []store.ImageRow) map[int64][]store.ImageRow {
	out := make(map[int64][]store.ImageRow)
	for _, img := range images {
		out[img.ProductID] = append(out[img.ProductID], img)
	}
	return out
}

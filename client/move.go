package client

import (
	"context"
	"fmt"

	models "catalog-management/model"
	"catalog-management/ordering"
)

// MoveProduct moves a product to the 1-based position to within the global
// listing, or within a category listing when categoryID > 0. Only the
// products whose order changes are sent. The submitted changes are returned.
func (c *Client) MoveProduct(ctx context.Context, productID int64, to int, categoryID int64) ([]ordering.Change, error) {
	products, err := c.AllProducts(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	from := -1
	for i, p := range products {
		if p.ID == productID {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, fmt.Errorf("product %d is not in the listing", productID)
	}

	ids := make([]int64, len(products))
	current := make(map[int64]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		if categoryID > 0 {
			current[p.ID] = p.CategoryDisplayOrder
		} else {
			current[p.ID] = p.GlobalDisplayOrder
		}
	}
	ordering.Move(ids, from, to-1)

	changes := ordering.Delta(ids, current)
	if len(changes) == 0 {
		return nil, nil
	}
	items := make([]models.ReorderItem, len(changes))
	for i, ch := range changes {
		items[i] = models.ReorderItem{ProductID: ch.ProductID, Order: ch.Order}
	}

	if categoryID > 0 {
		err = c.ReorderCategory(ctx, categoryID, items)
	} else {
		err = c.ReorderGlobal(ctx, items)
	}
	if err != nil {
		return nil, err
	}
	return changes, nil
}

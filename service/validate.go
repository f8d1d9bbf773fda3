package service

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"catalog-management/apperr"
	models "catalog-management/model"
)

// MaxPageSize bounds pageSize on listings.
const MaxPageSize = 500

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs the struct tags of v and reports failures per JSON field.
func (s *Service) checkStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.InvalidErr("invalid request", nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return apperr.InvalidErr("validation failed", fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func (s *Service) checkProduct(p models.Product) error {
	if err := s.checkStruct(p); err != nil {
		return err
	}
	fields := map[string]string{}
	if p.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if p.DiscountPrice.Valid && p.DiscountPrice.Decimal.IsNegative() {
		fields["discountPrice"] = "must not be negative"
	}
	if len(fields) > 0 {
		return apperr.InvalidErr("validation failed", fields)
	}
	return nil
}

func checkPage(page, pageSize int) error {
	fields := map[string]string{}
	if page < 1 {
		fields["page"] = "must be at least 1"
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		fields["pageSize"] = fmt.Sprintf("must be between 1 and %d", MaxPageSize)
	}
	if len(fields) > 0 {
		return apperr.InvalidErr("invalid paging", fields)
	}
	return nil
}

// checkReorder rejects empty payloads, payloads naming a product twice and
// orders outside the 32-bit range of the order columns. Unknown product ids
// are allowed; the store skips them.
func checkReorder(items []models.ReorderItem) error {
	if len(items) == 0 {
		return apperr.InvalidErr("no reorder items", nil)
	}
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ProductID]; dup {
			return apperr.InvalidErr("duplicate product in reorder payload",
				map[string]string{"productId": fmt.Sprintf("%d appears more than once", it.ProductID)})
		}
		seen[it.ProductID] = struct{}{}
		if it.Order < math.MinInt32 || it.Order > math.MaxInt32 {
			return apperr.InvalidErr("order out of range",
				map[string]string{"order": fmt.Sprintf("must be between %d and %d", math.MinInt32, math.MaxInt32)})
		}
	}
	return nil
}

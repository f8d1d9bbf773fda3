package service

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"catalog-management/apperr"
	models "catalog-management/model"
	"catalog-management/storage"
	"catalog-management/store"
)

// sniffLen is how much of an upload is buffered for content type detection.
const sniffLen = 3072

// ImageUpload is one uploaded file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadImage stores the file under a fresh name, then records its URL for
// productID. If recording fails the stored blob is removed again.
func (s *Service) UploadImage(ctx context.Context, productID int64, in ImageUpload) (models.ProductImage, error) {
	if productID <= 0 {
		return models.ProductImage{}, apperr.InvalidErr("invalid product id", map[string]string{"productId": "must be greater than 0"})
	}
	if in.Body == nil || in.Size == 0 {
		return models.ProductImage{}, apperr.InvalidErr("file is required", map[string]string{"file": "is required"})
	}
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return models.ProductImage{}, storeErr(err, "product")
	}

	body, contentType, err := detectContentType(in.Body, in.ContentType)
	if err != nil {
		return models.ProductImage{}, apperr.InvalidErr("unreadable file", nil)
	}
	put, err := s.blobs.Put(ctx, body, storage.PutInput{
		Filename:    in.Filename,
		ContentType: contentType,
		Size:        in.Size,
	})
	if err != nil {
		return models.ProductImage{}, &apperr.AppError{Kind: apperr.Internal, PublicMsg: "failed to store image", Err: err}
	}

	img, err := s.store.CreateImage(ctx, store.ImageRow{URL: put.URL, ProductID: productID})
	if err != nil {
		if derr := s.blobs.Delete(ctx, put.Key); derr != nil {
			zap.L().Warn("orphaned blob after failed insert", zap.String("key", put.Key), zap.Error(derr))
		}
		return models.ProductImage{}, storeErr(err, "image")
	}
	zap.L().Info("image uploaded",
		zap.Int64("product_id", productID), zap.Int64("image_id", img.ID), zap.String("content_type", contentType))
	return toImage(img), nil
}

// detectContentType keeps a declared type and sniffs the head of r otherwise.
func detectContentType(r io.Reader, declared string) (io.Reader, string, error) {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return r, declared, nil
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", errors.Wrap(err, "read upload")
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), r), mimetype.Detect(head).String(), nil
}

// DeleteImage removes the blob, then the row. A blob that is already gone is
// fine; any other blob failure aborts and keeps the row.
func (s *Service) DeleteImage(ctx context.Context, id int64) error {
	img, err := s.store.GetImage(ctx, id)
	if err != nil {
		return storeErr(err, "image")
	}
	if err := s.deleteBlob(ctx, img.URL); err != nil {
		if errors.Is(err, storage.ErrForeignURL) {
			zap.L().Warn("image url not owned by storage, keeping blob", zap.Int64("image_id", id), zap.String("url", img.URL))
		} else {
			return &apperr.AppError{Kind: apperr.Internal, PublicMsg: "failed to delete image blob", Err: err}
		}
	}
	return storeErr(s.store.DeleteImage(ctx, id), "image")
}

func (s *Service) deleteBlob(ctx context.Context, url string) error {
	key, err := s.blobs.ObjectKey(url)
	if err != nil {
		return err
	}
	return s.blobs.Delete(ctx, key)
}

package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

// cloudinaryAPI is the subset of uploader.API used here.
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Cloudinary keys are public ids: folder/uuid, without extension.
type Cloudinary struct {
	Upload cloudinaryAPI
	Folder string
}

func NewCloudinary(url, folder string) (*Cloudinary, error) {
	if url == "" {
		return nil, errors.New("cloudinary storage requires url")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary init")
	}
	return &Cloudinary{Upload: &cld.Upload, Folder: strings.Trim(folder, "/")}, nil
}

func (c *Cloudinary) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	name := objectName(in.Filename)
	res, err := c.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: strings.TrimSuffix(name, path.Ext(name)),
		Folder:   c.Folder,
	})
	if err != nil {
		return PutResult{}, errors.Wrap(err, "cloudinary upload")
	}
	if res.Error.Message != "" {
		return PutResult{}, errors.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return PutResult{Key: res.PublicID, URL: res.SecureURL}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, key string) error {
	res, err := c.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	if err != nil {
		return errors.Wrap(err, "cloudinary destroy")
	}
	if res.Error.Message != "" {
		return errors.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	switch res.Result {
	case "ok", "not found":
		return nil
	default:
		return errors.Errorf("cloudinary destroy: unexpected result %q", res.Result)
	}
}

// ObjectKey maps a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/product-images/abc.png
// back to the public id product-images/abc.
func (c *Cloudinary) ObjectKey(url string) (string, error) {
	const marker = "/upload/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", errors.Wrap(ErrForeignURL, url)
	}
	rest := url[i+len(marker):]
	if j := strings.IndexAny(rest, "?#"); j >= 0 {
		rest = rest[:j]
	}
	segs := strings.Split(rest, "/")
	if len(segs) > 1 && isVersion(segs[0]) {
		segs = segs[1:]
	}
	id := strings.Join(segs, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", errors.Wrap(ErrForeignURL, url)
	}
	return id, nil
}

func isVersion(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	for _, r := range seg[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *Cloudinary) String() string { return fmt.Sprintf("cloudinary(%s)", c.Folder) }

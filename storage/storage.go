package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrForeignURL is returned by ObjectKey when a URL was not produced by
// the backend.
var ErrForeignURL = errors.New("url does not belong to this storage")

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

// Storage keeps image blobs. Delete of a missing object is not an error.
type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
	// ObjectKey recovers the key of an object from the URL Put returned.
	ObjectKey(url string) (string, error)
}

// objectName is a fresh random name keeping the lower-cased extension of filename.
func objectName(filename string) string {
	return uuid.NewString() + strings.ToLower(path.Ext(filename))
}

func joinKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// trimBase returns the part of url after base + "/".
func trimBase(url, base string) (string, error) {
	base = strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", errors.Wrap(ErrForeignURL, url)
	}
	key := strings.TrimPrefix(url, base)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "", errors.Wrap(ErrForeignURL, url)
	}
	return key, nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Local stores blobs in a directory served by the API under URLPrefix.
type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: "/" + strings.Trim(urlPrefix, "/")}
}

func (l *Local) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	_ = ctx

	if err := os.MkdirAll(l.BaseDir, 0o755); err != nil {
		return PutResult{}, errors.Wrap(err, "create upload dir")
	}

	key := objectName(in.Filename)
	f, err := os.OpenFile(filepath.Join(l.BaseDir, key), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return PutResult{}, errors.Wrap(err, "create blob")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return PutResult{}, errors.Wrap(err, "write blob")
	}
	if err := f.Close(); err != nil {
		return PutResult{}, errors.Wrap(err, "close blob")
	}

	return PutResult{Key: key, URL: l.URLPrefix + "/" + key}, nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	_ = ctx
	err := os.Remove(filepath.Join(l.BaseDir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete blob")
	}
	return nil
}

// ObjectKey accepts both the relative URL Put returns and an absolute URL
// whose path starts with URLPrefix.
func (l *Local) ObjectKey(url string) (string, error) {
	if i := strings.Index(url, "://"); i >= 0 {
		rest := url[i+3:]
		j := strings.IndexByte(rest, '/')
		if j < 0 {
			return "", errors.Wrap(ErrForeignURL, url)
		}
		url = rest[j:]
	}
	key, err := trimBase(url, l.URLPrefix)
	if err != nil {
		return "", err
	}
	if strings.Contains(key, "/") || key == ".." {
		return "", errors.Wrap(ErrForeignURL, url)
	}
	return key, nil
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }

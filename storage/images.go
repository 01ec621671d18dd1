package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ImageStore keeps uploaded issue photos. Save returns the reference stored
// on the issue: a path relative to the API host or an absolute URL.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ObjectName derives a collision-free object name that keeps the upload's
// extension.
func ObjectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return uuid.NewString() + ext
}

// LocalStore writes images to a directory served under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create upload dir")
	}
	return &LocalStore{Dir: dir, URLPrefix: strings.Trim(urlPrefix, "/")}, nil
}

func (s *LocalStore) Save(_ context.Context, filename, _ string, r io.Reader, _ int64) (string, error) {
	name := ObjectName(filename)
	full := filepath.Join(s.Dir, name)
	f, err := os.Create(full)
	if err != nil {
		return "", errors.Wrap(err, "create image file")
	}

	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close image file")
	} else if err != nil {
		err = errors.Wrap(err, "write image file")
	}
	if err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return path.Join(s.URLPrefix, name), nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	ref = strings.ReplaceAll(ref, `\`, "/")
	name := path.Base(ref)
	if name == "." || name == "/" || !strings.HasPrefix(strings.TrimPrefix(ref, "/"), s.URLPrefix+"/") {
		return errors.Errorf("image %q is not managed by this store", ref)
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(err, "remove image file")
}

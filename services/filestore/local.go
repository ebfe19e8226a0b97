// Package filestore implements core.FileStore on the local filesystem,
// rooted at the configured media directory.
package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
)

type localStore struct {
	root string
}

var _ core.FileStore = (*localStore)(nil)

func NewLocalStore(conf *core.Config) core.FileStore {
	return &localStore{root: conf.MediaRoot}
}

// resolve joins the path under the root and rejects traversal outside it.
func (s *localStore) resolve(path string) (string, error) {
	fp := filepath.Join(s.root, filepath.FromSlash(path))
	if !strings.HasPrefix(fp, filepath.Clean(s.root)+string(filepath.Separator)) {
		return "", errors.Errorf("invalid file path: %s", path)
	}
	return fp, nil
}

func (s *localStore) Store(ctx context.Context, path string, content io.Reader) (string, error) {
	fp, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return "", errors.Wrap(err, "creating media directory")
	}

	f, err := os.Create(fp)
	if err != nil {
		return "", errors.Wrap(err, "creating file")
	}
	defer func() { _ = f.Close() }()

	if _, err = io.Copy(f, content); err != nil {
		return "", errors.Wrap(err, "writing file")
	}
	return path, nil
}

func (s *localStore) Retrieve(ctx context.Context, path string) (io.ReadCloser, error) {
	fp, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound
		}
		return nil, errors.Wrap(err, "opening file")
	}
	return f, nil
}

// Package source finds, reads and writes project source files.
package source

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"resource-checker/internal/schema"
)

// Files is a local file store.
type Files struct {
	fs afs.Service
}

func New() *Files {
	return &Files{fs: afs.New()}
}

func toURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return file.Scheme + "://" + filepath.ToSlash(path)
}

// List returns the files below dir whose name ends with suffix, sorted by path.
// A missing directory yields no files.
func (f *Files) List(ctx context.Context, dir, suffix string) ([]string, error) {
	URL := toURL(dir)
	if ok, _ := f.fs.Exists(ctx, URL); !ok {
		return nil, nil
	}
	var result []string
	if err := f.list(ctx, URL, suffix, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to list %s: %v", schema.ErrIO, dir, err)
	}
	sort.Strings(result)
	return result, nil
}

func (f *Files) list(ctx context.Context, URL, suffix string, result *[]string) error {
	objects, err := f.fs.List(ctx, URL)
	if err != nil {
		return err
	}
	for _, object := range objects {
		if url.Equals(object.URL(), URL) {
			continue
		}
		if object.IsDir() {
			if err := f.list(ctx, object.URL(), suffix, result); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(object.Name(), suffix) {
			*result = append(*result, filepath.FromSlash(url.Path(object.URL())))
		}
	}
	return nil
}

// Read returns the content of a file.
func (f *Files) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := f.fs.DownloadWithURL(ctx, toURL(path))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", schema.ErrIO, path, err)
	}
	return data, nil
}

// Write replaces the content of a file.
func (f *Files) Write(ctx context.Context, path string, data []byte) error {
	if err := f.fs.Upload(ctx, toURL(path), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", schema.ErrIO, path, err)
	}
	return nil
}

// Exists reports whether path exists.
func (f *Files) Exists(ctx context.Context, path string) bool {
	ok, err := f.fs.Exists(ctx, toURL(path))
	return err == nil && ok
}

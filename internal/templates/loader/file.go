package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

func openFile(_ context.Context, path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, errors.New("templates loader: file path is required")
	}
	return os.Open(filepath.Clean(path))
}

func openFS(files fs.FS) opener {
	return func(_ context.Context, name string) (io.ReadCloser, error) {
		if files == nil {
			return nil, errors.New("templates loader: filesystem is not configured")
		}
		if name == "" {
			return nil, errors.New("templates loader: fs path is required")
		}
		return files.Open(name)
	}
}

package sources

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource reads the survey CSV from the local filesystem.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file://" + s.path
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	return f, nil
}

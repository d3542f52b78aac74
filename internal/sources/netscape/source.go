package netscape

import (
	"context"
	"fmt"
	"os"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
	"github.com/MrSnakeDoc/linkroll/internal/utils"
)

// FileSource loads a bookmark file from disk on every call.
type FileSource struct {
	path string
	opts Options
}

func NewFileSource(path string, opts Options) *FileSource {
	return &FileSource{path: path, opts: opts}
}

// Name is the provenance tag of the bookmarks the source produces.
func (s *FileSource) Name() string { return SourceName }

func (s *FileSource) Load(_ context.Context) (*domain.Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark file: %w", err)
	}
	defer utils.Close(f)
	return Parse(f, s.opts)
}

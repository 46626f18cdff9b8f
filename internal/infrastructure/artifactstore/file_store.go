package artifactstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/artifact"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/valyala/bytebufferpool"
)

// FileStore loads bundles from a local model directory.
type FileStore struct {
	dir     string
	pattern string
}

func NewFileStore(dir, pattern string) *FileStore {
	if pattern == "" {
		pattern = DefaultFilePattern
	}
	return &FileStore{dir: dir, pattern: pattern}
}

func (s *FileStore) Location(m market.Market) string {
	return filepath.Join(s.dir, fmt.Sprintf(s.pattern, m))
}

func (s *FileStore) Load(ctx context.Context, m market.Market) (*artifact.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Location(m)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, crerr.Wrapf(artifact.ErrNotFound, "open %s", path)
		}
		return nil, crerr.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(f); err != nil {
		return nil, crerr.Wrapf(err, "read %s", path)
	}
	return decodeBundle(buf.B, m, path)
}

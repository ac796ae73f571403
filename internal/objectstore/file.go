package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileOpener implements Opener on top of a base directory.
type fileOpener struct {
	baseDir string
	logger  zerolog.Logger
}

// NewFileOpener creates an opener that resolves keys relative to baseDir.
// An empty baseDir resolves keys against the working directory.
func NewFileOpener(baseDir string, logger zerolog.Logger) Opener {
	return &fileOpener{
		baseDir: baseDir,
		logger:  logger.With().Str("component", "file-opener").Logger(),
	}
}

// Open opens the file at baseDir/key.
func (o *fileOpener) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(o.baseDir, filepath.FromSlash(key))
	o.logger.Debug().Str("file", path).Msg("opening file")

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		o.logger.Error().Err(err).Str("file", path).Msg("failed to open file")
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}

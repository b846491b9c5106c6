package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileArchive implements Archive on a local directory.
type fileArchive struct {
	dir    string
	logger zerolog.Logger
}

// NewFileArchive creates an archive rooted at dir. The directory is created
// on first save.
func NewFileArchive(dir string, logger zerolog.Logger) Archive {
	return &fileArchive{
		dir:    dir,
		logger: logger.With().Str("component", "file-archive").Logger(),
	}
}

// Save writes data to dir/name through a temporary file so readers never see
// a partial document.
func (a *fileArchive) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(a.dir, name)
	a.logger.Info().Str("file", path).Msg("saving archive file")

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		a.logger.Error().Err(err).Str("dir", a.dir).Msg("failed to create archive directory")
		return fmt.Errorf("failed to create archive directory %s: %w", a.dir, err)
	}

	payload, err := encode(name, data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(a.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", a.dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		a.logger.Error().Err(err).Str("file", path).Msg("failed to write archive file")
		return fmt.Errorf("failed to write archive file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write archive file %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		a.logger.Error().Err(err).Str("file", path).Msg("failed to move archive file into place")
		return fmt.Errorf("failed to save archive file %s: %w", path, err)
	}

	a.logger.Info().
		Str("file", path).
		Int("bytes", len(payload)).
		Msg("archive file saved successfully")

	return nil
}

// Load reads dir/name.
func (a *fileArchive) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(a.dir, name)
	a.logger.Info().Str("file", path).Msg("loading archive file")

	file, err := os.Open(path)
	if err != nil {
		a.logger.Error().Err(err).Str("file", path).Msg("failed to open archive file")
		return nil, fmt.Errorf("failed to open archive file %s: %w", path, err)
	}
	defer file.Close()

	data, err := decode(name, file)
	if err != nil {
		a.logger.Error().Err(err).Str("file", path).Msg("error reading archive file")
		return nil, err
	}

	a.logger.Info().
		Str("file", path).
		Int("bytes", len(data)).
		Msg("archive file loaded successfully")

	return data, nil
}

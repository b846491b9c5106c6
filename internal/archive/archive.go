// Package archive stores export documents outside the primary store, on the
// local file system or in S3. Names ending in ".gz" are gzip-compressed.
package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Archive saves and loads named export documents.
type Archive interface {
	// Save writes data under name, replacing any previous content.
	Save(ctx context.Context, name string, data []byte) error

	// Load reads the content stored under name.
	Load(ctx context.Context, name string) ([]byte, error)
}

// ErrInvalidName is returned for names that are empty or contain a path.
var ErrInvalidName = errors.New("archive name must be a plain file name")

// ValidateName rejects names that could escape the archive location.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func compressed(name string) bool {
	return strings.HasSuffix(name, ".gz")
}

// encode gzips data when name asks for it.
func encode(name string, data []byte) ([]byte, error) {
	if !compressed(name) {
		return data, nil
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := gzipWriter.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress %s: %w", name, err)
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// decode reads r, gunzipping it when name asks for it.
func decode(name string, r io.Reader) ([]byte, error) {
	if compressed(name) {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	return data, nil
}

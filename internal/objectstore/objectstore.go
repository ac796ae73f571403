// Package objectstore reads JSON documents from the local file system or S3.
package objectstore

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned when the requested key does not exist.
var ErrNotFound = errors.New("object not found")

// Opener opens a stored object by key.
type Opener interface {
	// Open returns a reader for the object. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// DecodeJSON opens key and decodes its JSON body into v. Keys ending in
// ".gz" are gunzipped first.
func DecodeJSON(ctx context.Context, opener Opener, key string, v any) error {
	body, err := opener.Open(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(key, ".gz") {
		gzipReader, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader for %s: %w", key, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Package storage holds the public blob store used for artist images, photos
// and songs. Names are slash-separated paths such as "artist/images/<uuid>.png".
package storage

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidName = errors.New("invalid blob name")

// BlobStore writes and removes named blobs in a publicly readable area.
// Put overwrites an existing name. Delete of a missing name is not an error.
// URL is a pure function of the name.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}

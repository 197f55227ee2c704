// Package storage keeps uploaded source documents in an S3 compatible object store.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds the key a document is stored under: <org>/<document id>/<file name>.
// The file name is reduced to its base name so a client cannot escape its prefix.
func ObjectKey(orgID string, documentID uuid.UUID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "document"
	}
	return fmt.Sprintf("%s/%s/%s", orgID, documentID, name)
}

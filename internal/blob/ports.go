// Package blob defines the outbound port for receipt image storage.
package blob

import (
	"context"
	"strings"
)

// Folder is the fixed prefix under which every receipt object lives.
const Folder = "receipts/"

// Store is the port for the object storage collaborator.
type Store interface {
	// Upload writes the object under Folder+name with the given content
	// type, makes it publicly readable and returns its public URL.
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Delete removes the object with the given full object name.
	Delete(ctx context.Context, objectName string) error
}

// ObjectName derives the storage key for a receipt URL: the last path segment
// of the URL prefixed with the receipts folder.
func ObjectName(photoURL string) string {
	trimmed := strings.TrimRight(photoURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return Folder + trimmed
}

package storage

import (
	"context"
	"io"
)

// StorageService stores signature images and hands back the opaque reference
// the settlement engine locks into a payment slot. The engine never
// interprets the reference beyond its emptiness.
type StorageService interface {
	UploadSignature(ctx context.Context, r io.Reader, bookingID, slot string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
}

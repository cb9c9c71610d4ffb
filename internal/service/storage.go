package service

import (
	"context"
	"io"
)

// FileStorage abstracts the submission file store. Upload returns the stored
// file's URL; Delete removes it by that URL.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

package port

import (
	"context"
	"io"
)

// ImageArchive stores inbound document images for later audit. Archival is
// best-effort; pipeline runs proceed when it fails.
type ImageArchive interface {
	Archive(ctx context.Context, key string, body io.Reader, contentType string) error
}

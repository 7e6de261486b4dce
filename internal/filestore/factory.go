package filestore

import (
	"context"
	"fmt"
)

// Backend names accepted by New.
const (
	BackendFilesystem = "filesystem"
	BackendS3         = "s3"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string
	S3      S3Config
}

// New builds the configured backend.
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFilesystem:
		return NewFileSystemStore(opts.Path)
	case BackendS3:
		if opts.S3.Bucket == "" {
			return nil, fmt.Errorf("filestore.s3.bucket is required for s3 storage")
		}
		return NewS3Store(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unsupported filestore backend %q", opts.Backend)
	}
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

// Files stores uploaded objects. *blob.Store implements it.
type Files interface {
	UploadAndRecord(ctx context.Context, owner, name, contentType string, data []byte, record func(key string) error) (string, error)
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// signedURL returns a download link for key, or "" when the bucket cannot sign.
func signedURL(ctx context.Context, files Files, key string, ttl time.Duration) string {
	u, err := files.SignedURL(ctx, key, ttl)
	if err != nil {
		slog.Warn("Failed to sign object url", "key", key, "error", err)
		return ""
	}
	return u
}

func attachments(ctx context.Context, files Files, keys []string, ttl time.Duration) []*api.Attachment {
	if len(keys) == 0 {
		return nil
	}
	out := make([]*api.Attachment, len(keys))
	for i, k := range keys {
		out[i] = &api.Attachment{Key: k, URL: signedURL(ctx, files, k, ttl)}
	}
	return out
}

// removeObjects deletes objects whose metadata row is already gone. Leftovers
// are picked up by the storage reconcile command.
func removeObjects(ctx context.Context, files Files, keys ...string) {
	for _, k := range keys {
		if err := files.Delete(ctx, k); err != nil {
			slog.Warn("Failed to remove object", "key", k, "error", err)
		}
	}
}

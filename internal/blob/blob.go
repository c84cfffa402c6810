// Package blob stores uploaded files (documents, maintenance photos) in a
// gocloud.dev bucket and hands out signed download URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// Store wraps a bucket with the key layout used by the application.
type Store struct {
	bucket *blob.Bucket
	signer *fileblob.URLSignerHMAC
}

// OpenDir opens a directory-backed bucket. Signed URLs point at baseURL
// (e.g. http://localhost:8080/files/) and are verified with secret.
func OpenDir(dir, baseURL, secret string) (*Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse files url: %w", err)
	}
	signer := fileblob.NewURLSignerHMAC(u, []byte(secret))
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		URLSigner: signer,
		CreateDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", dir, err)
	}
	return &Store{bucket: bucket, signer: signer}, nil
}

// New wraps an already opened bucket. Signed URLs are unavailable unless the
// bucket's driver supports them.
func New(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Close releases the bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// Key builds the object key for a file uploaded by owner:
// <owner>/<random uuid>-<base name>.
func Key(owner, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return owner + "/" + uuid.NewString() + "-" + base
}

// Upload stores data under a new key for owner and returns the key.
func (s *Store) Upload(ctx context.Context, owner, name, contentType string, data []byte) (string, error) {
	key := Key(owner, name)
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// UploadAndRecord uploads data and then calls record with the new key. If
// record fails the object is deleted again, so a failed insert never leaves
// an orphan behind.
func (s *Store) UploadAndRecord(ctx context.Context, owner, name, contentType string, data []byte, record func(key string) error) (string, error) {
	key, err := s.Upload(ctx, owner, name, contentType, data)
	if err != nil {
		return "", err
	}
	if err := record(key); err != nil {
		if derr := s.Delete(ctx, key); derr != nil && !errors.Is(derr, ErrNotFound) {
			slog.Error("Failed to remove object after failed insert", "key", key, "error", derr)
		}
		return "", err
	}
	return key, nil
}

// Delete removes an object.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return err
}

// SignedURL returns a time-limited download URL for key.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return s.bucket.SignedURL(ctx, key, &blob.SignedURLOptions{Expiry: ttl})
}

// Keys lists every object key under prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		if obj.IsDir {
			continue
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Reconcile deletes the objects last modified before cutoff that no metadata
// row references and returns their keys. Objects are listed before referenced
// is called, so an upload whose row commits in between is never seen as an
// orphan. Newer objects may belong to an upload that has not recorded its row
// yet and are left alone.
func (s *Store) Reconcile(ctx context.Context, cutoff time.Time, referenced func(context.Context) (map[string]bool, error)) ([]string, error) {
	iter := s.bucket.List(nil)
	var candidates []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		if obj.IsDir || !obj.ModTime.Before(cutoff) {
			continue
		}
		candidates = append(candidates, obj.Key)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	refs, err := referenced(ctx)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, k := range candidates {
		if refs[k] {
			continue
		}
		if err := s.Delete(ctx, k); err != nil && !errors.Is(err, ErrNotFound) {
			return removed, err
		}
		removed = append(removed, k)
	}
	return removed, nil
}

// Handler serves objects addressed by signed URLs. It must be mounted at the
// path of the base URL given to OpenDir.
func (s *Store) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.signer == nil {
			http.Error(w, "signed downloads are not enabled", http.StatusNotImplemented)
			return
		}
		key, err := s.signer.KeyFromURL(r.Context(), r.URL)
		if err != nil {
			http.Error(w, "invalid or expired link", http.StatusForbidden)
			return
		}

		rd, err := s.bucket.NewReader(r.Context(), key, nil)
		if gcerrors.Code(err) == gcerrors.NotFound {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("Failed to open object", "key", key, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer rd.Close()

		if ct := rd.ContentType(); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
		if _, err := io.Copy(w, rd); err != nil {
			slog.Warn("Object download interrupted", "key", key, "error", err)
		}
	})
}

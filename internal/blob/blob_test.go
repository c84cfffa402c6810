package blob

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestKey(t *testing.T) {
	k := Key("user-1", `C:\scans\lease.pdf`)
	assert.True(t, strings.HasPrefix(k, "user-1/"), k)
	assert.True(t, strings.HasSuffix(k, "-lease.pdf"), k)
	assert.NotEqual(t, k, Key("user-1", "lease.pdf"))
}

func TestUploadAndRecordRollsBack(t *testing.T) {
	s := New(memblob.OpenBucket(nil))
	defer s.Close()
	ctx := context.Background()

	_, err := s.UploadAndRecord(ctx, "u1", "a.pdf", "application/pdf", []byte("x"), func(string) error {
		return errors.New("insert failed")
	})
	require.Error(t, err)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys, "object should be removed when the insert fails")

	var recorded string
	key, err := s.UploadAndRecord(ctx, "u1", "b.pdf", "application/pdf", []byte("y"), func(k string) error {
		recorded = k
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, key, recorded)

	keys, err = s.Keys(ctx, "u1/")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

func TestReconcile(t *testing.T) {
	s := New(memblob.OpenBucket(nil))
	defer s.Close()
	ctx := context.Background()

	kept, err := s.Upload(ctx, "u1", "kept.jpg", "image/jpeg", []byte("1"))
	require.NoError(t, err)
	orphan, err := s.Upload(ctx, "u2", "orphan.jpg", "image/jpeg", []byte("2"))
	require.NoError(t, err)

	refs := func(context.Context) (map[string]bool, error) {
		return map[string]bool{kept: true}, nil
	}
	removed, err := s.Reconcile(ctx, time.Now().Add(time.Minute), refs)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan}, removed)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, keys)
}

func TestReconcileKeepsRecentUploads(t *testing.T) {
	s := New(memblob.OpenBucket(nil))
	defer s.Close()
	ctx := context.Background()

	fresh, err := s.Upload(ctx, "owner-1", "lease.pdf", "application/pdf", []byte("1"))
	require.NoError(t, err)

	called := false
	removed, err := s.Reconcile(ctx, time.Now().Add(-time.Hour), func(context.Context) (map[string]bool, error) {
		called = true
		return map[string]bool{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.False(t, called, "nothing is old enough to need the referenced set")

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{fresh}, keys)
}

func TestReconcileListsBeforeReadingReferences(t *testing.T) {
	s := New(memblob.OpenBucket(nil))
	defer s.Close()
	ctx := context.Background()

	old, err := s.Upload(ctx, "u1", "old.jpg", "image/jpeg", []byte("1"))
	require.NoError(t, err)
	cutoff := time.Now().Add(time.Minute)

	var late string
	removed, err := s.Reconcile(ctx, cutoff, func(ctx context.Context) (map[string]bool, error) {
		// An upload that lands after the listing is not a candidate, even
		// though its row is not in this snapshot.
		k, err := s.Upload(ctx, "u1", "late.jpg", "image/jpeg", []byte("2"))
		late = k
		return map[string]bool{}, err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{old}, removed)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{late}, keys)
}

func TestReconcileReferencesError(t *testing.T) {
	s := New(memblob.OpenBucket(nil))
	defer s.Close()
	ctx := context.Background()

	_, err := s.Upload(ctx, "u1", "a.jpg", "image/jpeg", []byte("1"))
	require.NoError(t, err)

	_, err = s.Reconcile(ctx, time.Now().Add(time.Minute), func(context.Context) (map[string]bool, error) {
		return nil, errors.New("db down")
	})
	require.Error(t, err)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestSignedDownload(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s, err := OpenDir(t.TempDir(), srv.URL+"/files/", "secret")
	require.NoError(t, err)
	defer s.Close()
	mux.Handle("/files/", s.Handler())

	ctx := context.Background()
	key, err := s.Upload(ctx, "u1", "lease.txt", "text/plain", []byte("signed content"))
	require.NoError(t, err)

	link, err := s.SignedURL(ctx, key, time.Minute)
	require.NoError(t, err)

	resp, err := http.Get(link)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "signed content", string(body))

	resp, err = http.Get(srv.URL + "/files/?obj=" + key)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

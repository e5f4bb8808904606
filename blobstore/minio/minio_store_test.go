package minio

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit/blobstore"
)

// Runs against MINIO_ENDPOINT, e.g. a local "minio server" with the default
// minioadmin credentials.
func TestIntegrationStore(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}
	access := cmp.Or(os.Getenv("MINIO_ACCESS_KEY"), "minioadmin")
	secret := cmp.Or(os.Getenv("MINIO_SECRET_KEY"), "minioadmin")
	bucket := "tskit-test"
	ctx := context.Background()

	store, err := Dial(endpoint, access, secret, false, bucket, fmt.Sprintf("run-%d/", time.Now().UnixNano()))
	require.NoError(t, err)

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "a.trees", data))
	require.NoError(t, blobstore.Write(ctx, store, "b.trees", func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.trees", "b.trees"}, names)

	blob, err := store.Open(ctx, "b.trees")
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(buf[:n]))

	for _, name := range names {
		require.NoError(t, store.Delete(ctx, name))
	}
	_, err = store.Open(ctx, "a.trees")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestKey(t *testing.T) {
	s := NewStore(nil, "bucket", "runs/")
	assert.Equal(t, "runs/chr1.trees", s.key("chr1.trees"))
	assert.Equal(t, "chr1.trees", NewStore(nil, "bucket", "").key("chr1.trees"))
}


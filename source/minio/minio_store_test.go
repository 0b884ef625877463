package minio

import (
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/topk/source"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	const bucket = "test-topk"

	client, err := NewClient("localhost:9000", ClientOptions{
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")
	require.NoError(t, store.Put(ctx, "scores.tsv", []byte("a\t3\nb\t9\nc\t1\n")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "scores.tsv")

	blob, err := store.Open(ctx, "scores.tsv")
	require.NoError(t, err)
	defer blob.Close()

	rc, err := source.NewReader(ctx, blob)
	require.NoError(t, err)
	defer rc.Close()

	var keys []string
	sc := source.NewScanner(rc)
	for rec := range sc.All() {
		keys = append(keys, rec.Key)
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	_, err = store.Open(ctx, "missing.tsv")
	assert.ErrorIs(t, err, source.ErrNotFound)
}

package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/topk/source"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.HeadObjectOutput)
	return out, args.Error(1)
}

func (m *MockClient) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *MockClient) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return out, args.Error(1)
}

func keyIs(key string) func(*s3.HeadObjectInput) bool {
	return func(in *s3.HeadObjectInput) bool { return aws.ToString(in.Key) == key }
}

func TestStoreOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mockClient := new(MockClient)
		store := NewStore(mockClient, "bucket", "exports")

		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(keyIs("exports/a.tsv"))).
			Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(12)}, nil).Once()

		blob, err := store.Open(ctx, "a.tsv")
		require.NoError(t, err)
		assert.Equal(t, int64(12), blob.Size())
		require.NoError(t, blob.Close())

		_, mappable := blob.(source.Mappable)
		assert.False(t, mappable)
		mockClient.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockClient := new(MockClient)
		store := NewStore(mockClient, "bucket", "")

		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(keyIs("missing"))).
			Return(nil, &types.NotFound{}).Once()
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(keyIs("gone"))).
			Return(nil, &types.NoSuchKey{}).Once()

		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, source.ErrNotFound)

		_, err = store.Open(ctx, "gone")
		assert.ErrorIs(t, err, source.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("OtherError", func(t *testing.T) {
		mockClient := new(MockClient)
		store := NewStore(mockClient, "bucket", "")

		boom := errors.New("access denied")
		mockClient.On("HeadObject", mock.Anything, mock.Anything).Return(nil, boom).Once()

		_, err := store.Open(ctx, "a.tsv")
		assert.ErrorIs(t, err, boom)
	})
}

func TestBlobReadRange(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockClient)
	store := NewStore(mockClient, "bucket", "")

	mockClient.On("HeadObject", mock.Anything, mock.Anything).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(10)}, nil).Once()

	// The requested range is clipped to the object size.
	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Range) == "bytes=4-9" && aws.ToString(in.Bucket) == "bucket"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("456789"))}, nil).Once()

	blob, err := store.Open(ctx, "digits")
	require.NoError(t, err)

	rc, err := blob.ReadRange(ctx, 4, 100)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "456789", string(data))

	// Past the end no request is made.
	rc, err = blob.ReadRange(ctx, 10, 5)
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	assert.Empty(t, data)

	mockClient.AssertExpectations(t)
}

func TestStoreNewReaderScans(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockClient)
	store := NewStore(mockClient, "bucket", "")

	body := "a\t3\nb\t9\nc\t1\n"
	mockClient.On("HeadObject", mock.Anything, mock.Anything).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(body)))}, nil).Once()
	mockClient.On("GetObject", mock.Anything, mock.Anything).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil).Once()

	blob, err := store.Open(ctx, "scores.tsv")
	require.NoError(t, err)

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
}

func TestStoreList(t *testing.T) {
	mockClient := new(MockClient)
	store := NewStore(mockClient, "bucket", "exports")

	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "exports/2024" && in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents:              []types.Object{{Key: aws.String("exports/2024/b.tsv")}},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("next"),
	}, nil).Once()
	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "next"
	})).Return(&s3.ListObjectsV2Output{
		Contents:    []types.Object{{Key: aws.String("exports/2024/a.tsv")}},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	keys, err := store.List(context.Background(), "2024")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/a.tsv", "2024/b.tsv"}, keys)
	mockClient.AssertExpectations(t)
}

func TestWithDownloadConcurrency(t *testing.T) {
	mockClient := new(MockClient)
	store := NewStore(mockClient, "bucket", "", WithDownloadConcurrency(4), WithPartSize(1<<20))
	assert.Equal(t, 4, store.concurrency)
	assert.Equal(t, int64(1<<20), store.partSize)

	mockClient.On("HeadObject", mock.Anything, mock.Anything).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(0)}, nil).Once()

	blob, err := store.Open(context.Background(), "empty")
	require.NoError(t, err)
	_, mappable := blob.(source.Mappable)
	assert.True(t, mappable)
}

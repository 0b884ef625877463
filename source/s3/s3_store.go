package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/topk/source"
)

// Client is the subset of the S3 API used by Store.
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store implements source.Store for S3.
type Store struct {
	client      Client
	bucket      string
	prefix      string
	concurrency int
	partSize    int64
}

// Option configures a Store.
type Option func(s *Store)

// WithDownloadConcurrency downloads whole objects in n concurrent parts.
// Values below 2 stream objects instead.
func WithDownloadConcurrency(n int) Option {
	return func(s *Store) {
		s.concurrency = n
	}
}

// WithPartSize sets the part size of concurrent downloads.
func WithPartSize(n int64) Option {
	return func(s *Store) {
		s.partSize = n
	}
}

// NewStore creates a new S3 store.
// rootPrefix is prepended to all keys (e.g. "exports/").
func NewStore(client Client, bucket, rootPrefix string, optFns ...Option) *Store {
	s := &Store{
		client:   client,
		bucket:   bucket,
		prefix:   rootPrefix,
		partSize: manager.DefaultDownloadPartSize,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// ConfigOptions configures NewStoreFromConfig.
type ConfigOptions struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// NewStoreFromConfig creates a store using the default AWS credential chain.
func NewStoreFromConfig(ctx context.Context, bucket, rootPrefix string, cfgOpts ConfigOptions, optFns ...Option) (*Store, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfgOpts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfgOpts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if cfgOpts.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfgOpts.Endpoint)
		}
		o.UsePathStyle = cfgOpts.UsePathStyle
	})

	return NewStore(client, bucket, rootPrefix, optFns...), nil
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open returns a handle to an existing object.
func (s *Store) Open(ctx context.Context, name string) (source.Blob, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, source.ErrNotFound
		}
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, source.ErrNotFound
		}
		return nil, err
	}

	b := &s3Blob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		size:   aws.ToInt64(head.ContentLength),
	}
	if s.concurrency > 1 {
		return &downloadBlob{s3Blob: b, concurrency: s.concurrency, partSize: s.partSize}, nil
	}
	return b, nil
}

// List returns the names of all objects with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.key(prefix)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			keys = append(keys, strings.TrimPrefix(name, "/"))
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// s3Blob streams object ranges.
type s3Blob struct {
	client Client
	bucket string
	key    string
	size   int64
}

func (b *s3Blob) Close() error {
	return nil
}

func (b *s3Blob) Size() int64 {
	return b.size
}

func (b *s3Blob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= b.size || length <= 0 {
		return io.NopCloser(strings.NewReader("")), nil
	}

	end := min(off+length, b.size) - 1
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// downloadBlob fetches the whole object with the transfer manager.
type downloadBlob struct {
	*s3Blob
	concurrency int
	partSize    int64
	data        []byte
}

// Bytes downloads the object on first use.
func (b *downloadBlob) Bytes() ([]byte, error) {
	if b.data != nil {
		return b.data, nil
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, b.size))
	downloader := manager.NewDownloader(b.client, func(d *manager.Downloader) {
		d.Concurrency = b.concurrency
		d.PartSize = b.partSize
	})

	n, err := downloader.Download(context.Background(), buf, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		return nil, err
	}

	b.data = buf.Bytes()[:n]
	return b.data, nil
}

func (b *downloadBlob) Close() error {
	b.data = nil
	return nil
}

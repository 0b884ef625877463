package source

import (
	"io"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the encoding of an input.
type Compression uint8

const (
	// CompressionNone indicates plain text.
	CompressionNone Compression = iota
	// CompressionZSTD indicates a zstd stream (.zst, .zstd).
	CompressionZSTD
	// CompressionLZ4 indicates an lz4 frame (.lz4).
	CompressionLZ4
	// CompressionGzip indicates a gzip stream (.gz).
	CompressionGzip
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionGzip:
		return "gzip"
	default:
		return "unknown"
	}
}

// DetectCompression derives the compression from the file extension.
func DetectCompression(name string) Compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	case ".gz":
		return CompressionGzip
	default:
		return CompressionNone
	}
}

var zstdDecoderPool sync.Pool

func getZstdDecoder(r io.Reader) (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		dec := v.(*zstd.Decoder)
		if err := dec.Reset(r); err != nil {
			return nil, err
		}
		return dec, nil
	}
	return zstd.NewReader(r)
}

type zstdReadCloser struct {
	*zstd.Decoder
	once sync.Once
}

func (z *zstdReadCloser) Close() error {
	z.once.Do(func() {
		// Release the reference to the source before pooling.
		if err := z.Reset(nil); err == nil {
			zstdDecoderPool.Put(z.Decoder)
		} else {
			z.Decoder.Close()
		}
	})
	return nil
}

// Decompress wraps r in a decoder chosen by the extension of name. Closing
// the result releases the decoder but not r.
func Decompress(name string, r io.Reader) (io.ReadCloser, error) {
	switch DetectCompression(name) {
	case CompressionZSTD:
		dec, err := getZstdDecoder(r)
		if err != nil {
			return nil, err
		}
		return &zstdReadCloser{Decoder: dec}, nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	default:
		return io.NopCloser(r), nil
	}
}

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/hupe1980/topk"
	"github.com/hupe1980/topk/buffer"
	"github.com/hupe1980/topk/source"
	s3store "github.com/hupe1980/topk/source/s3"
)

// Config holds the settings of a select run. It is loaded from an optional
// YAML file; command-line flags override individual fields.
type Config struct {
	K     int    `yaml:"k"`
	Order string `yaml:"order"`

	Input    InputConfig    `yaml:"input"`
	Parallel ParallelConfig `yaml:"parallel"`
	S3       S3Config       `yaml:"s3"`
}

// InputConfig describes how records are read.
type InputConfig struct {
	// Delimiter separates fields. Empty splits on runs of whitespace.
	Delimiter string `yaml:"delimiter"`

	// Field is the 0-based column holding the numeric value.
	Field int `yaml:"field"`

	// KeyField is the 0-based column holding the record key.
	KeyField int `yaml:"key_field"`

	// MaxLineSize bounds a single line in bytes. Zero means the default.
	MaxLineSize int `yaml:"max_line_size"`

	// ReadLimit caps the combined read throughput in bytes per second.
	// Zero means unlimited.
	ReadLimit int64 `yaml:"read_limit"`

	// Concurrency is the number of inputs read at once.
	Concurrency int `yaml:"concurrency"`
}

// ParallelConfig tunes the selection of each input.
type ParallelConfig struct {
	Workers   int    `yaml:"workers"`
	BatchSize int    `yaml:"batch_size"`
	Insertion string `yaml:"insertion"`
	Combine   string `yaml:"combine"`
}

// S3Config configures access to object storage. A non-empty Endpoint selects
// an S3-compatible server (MinIO) instead of AWS.
type S3Config struct {
	Endpoint            string `yaml:"endpoint"`
	Region              string `yaml:"region"`
	AccessKey           string `yaml:"access_key"`
	SecretKey           string `yaml:"secret_key"`
	Secure              bool   `yaml:"secure"`
	DownloadConcurrency int    `yaml:"download_concurrency"`
	PartSize            int64  `yaml:"part_size"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		K:     10,
		Order: "desc",
		Input: InputConfig{
			Delimiter:   "\t",
			Field:       1,
			KeyField:    0,
			MaxLineSize: source.DefaultMaxLineSize,
			Concurrency: 4,
		},
		Parallel: ParallelConfig{
			BatchSize: topk.DefaultBatchSize,
			Insertion: buffer.LinearInsertion.String(),
			Combine:   topk.CombineTree.String(),
		},
		S3: S3Config{
			Secure: true,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.K < 0 {
		return fmt.Errorf("k must be non-negative, got %d", c.K)
	}
	if _, err := c.comparator(); err != nil {
		return err
	}
	if c.Input.Field < 0 || c.Input.KeyField < 0 {
		return fmt.Errorf("field indexes must be non-negative")
	}
	if c.Input.Field == c.Input.KeyField {
		return fmt.Errorf("value field and key field are both %d", c.Input.Field)
	}
	if c.Input.MaxLineSize < 0 {
		return fmt.Errorf("max line size must be non-negative, got %d", c.Input.MaxLineSize)
	}
	if c.Input.ReadLimit < 0 {
		return fmt.Errorf("read limit must be non-negative, got %d", c.Input.ReadLimit)
	}
	if c.Input.Concurrency < 0 {
		return fmt.Errorf("concurrency must be non-negative, got %d", c.Input.Concurrency)
	}
	if c.S3.DownloadConcurrency < 0 || c.S3.PartSize < 0 {
		return fmt.Errorf("download concurrency and part size must be non-negative")
	}
	if c.Parallel.Workers < 0 || c.Parallel.BatchSize < 0 {
		return fmt.Errorf("workers and batch size must be non-negative")
	}
	if _, err := buffer.ParseInsertion(c.Parallel.Insertion); err != nil {
		return err
	}
	if _, err := topk.ParseCombineStrategy(c.Parallel.Combine); err != nil {
		return err
	}
	return nil
}

func (c Config) comparator() (topk.Comparator[*source.Record], error) {
	switch c.Order {
	case "desc", "":
		return source.ByValueDesc, nil
	case "asc":
		return source.ByValueAsc, nil
	default:
		return nil, fmt.Errorf("unknown order %q: want asc or desc", c.Order)
	}
}

// selectOptions translates the parallel settings. Validate must have passed.
func (c Config) selectOptions() []topk.Option {
	ins, _ := buffer.ParseInsertion(c.Parallel.Insertion)
	combine, _ := topk.ParseCombineStrategy(c.Parallel.Combine)
	return []topk.Option{
		topk.WithInsertion(ins),
		topk.WithCombine(combine),
		topk.WithBatchSize(c.Parallel.BatchSize),
		topk.WithWorkers(c.Parallel.Workers),
	}
}

func (c Config) scannerOptions() []source.ScannerOption {
	opts := []source.ScannerOption{
		source.WithDelimiter(c.Input.Delimiter),
		source.WithField(c.Input.Field),
		source.WithKeyField(c.Input.KeyField),
	}
	if c.Input.MaxLineSize > 0 {
		opts = append(opts, source.WithMaxLineSize(c.Input.MaxLineSize))
	}
	return opts
}

// outputDelimiter separates key and value in printed results.
func (c Config) outputDelimiter() string {
	if c.Input.Delimiter == "" {
		return "\t"
	}
	return c.Input.Delimiter
}

// s3Options translates the download settings for the AWS store.
func (c Config) s3Options() []s3store.Option {
	opts := []s3store.Option{s3store.WithDownloadConcurrency(c.S3.DownloadConcurrency)}
	if c.S3.PartSize > 0 {
		opts = append(opts, s3store.WithPartSize(c.S3.PartSize))
	}
	return opts
}

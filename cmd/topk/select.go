package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var selectHelpTemplate = `Name:
	{{.HelpName}} - {{.Usage}}

Usage:
	{{.HelpName}} [options] input [input...]

Options:
	{{range .VisibleFlags}}{{.}}
	{{end}}
Examples:
	1. Print the 5 highest scores of a local file
		 > topk {{.HelpName}} -k 5 scores.tsv

	2. Print the 10 lowest latencies across compressed objects
		 > topk {{.HelpName}} --order asc s3://bucket/a.tsv.zst s3://bucket/b.tsv.zst

	3. Read space separated "value key" lines from MinIO
		 > topk {{.HelpName}} --delimiter "" --field 0 --key-field 1 --endpoint localhost:9000 s3://bucket/scores.txt
`

func newSelectCommand(e *env) *cli.Command {
	def := DefaultConfig()

	return &cli.Command{
		Name:               "select",
		HelpName:           "select",
		Usage:              "print the K best records of one or more inputs",
		CustomHelpTemplate: selectHelpTemplate,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "read settings from a YAML file; flags take precedence"},
			&cli.IntFlag{Name: "k", Value: def.K, Usage: "number of records to print"},
			&cli.StringFlag{Name: "order", Value: def.Order, Usage: "best values first: (desc, asc)"},
			&cli.StringFlag{Name: "delimiter", Value: `\t`, Usage: `field separator; "" splits on white space`},
			&cli.IntFlag{Name: "field", Value: def.Input.Field, Usage: "0-based column of the value"},
			&cli.IntFlag{Name: "key-field", Value: def.Input.KeyField, Usage: "0-based column of the key"},
			&cli.IntFlag{Name: "concurrency", Value: def.Input.Concurrency, Usage: "number of inputs read at once"},
			&cli.Int64Flag{Name: "read-limit", Usage: "combined read throughput in bytes per second (0 is unlimited)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"partitions"}, Usage: "worker goroutines per input (0 is GOMAXPROCS)"},
			&cli.IntFlag{Name: "batch-size", Value: def.Parallel.BatchSize, Usage: "records per worker task"},
			&cli.StringFlag{Name: "insertion", Value: def.Parallel.Insertion, Usage: "buffer insertion strategy: (linear, binary)"},
			&cli.StringFlag{Name: "combine", Value: def.Parallel.Combine, Usage: "partial result combination: (tree, fold)"},
			&cli.StringFlag{Name: "endpoint", Usage: "S3-compatible endpoint (host:port); uses the MinIO client"},
			&cli.StringFlag{Name: "region", Usage: "object storage region"},
			&cli.BoolFlag{Name: "no-ssl", Usage: "use plain HTTP with --endpoint"},
			&cli.IntFlag{Name: "download-concurrency", Usage: "download S3 objects in this many parallel parts"},
			&cli.Int64Flag{Name: "part-size", Usage: "part size in bytes for parallel S3 downloads"},
		},
		Before: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("expected at least one input")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFromFlags(c)
			if err != nil {
				return err
			}

			sel, err := NewSelector(cfg, e.logger, e.metrics)
			if err != nil {
				return err
			}
			return sel.Run(c.Context, c.Args().Slice(), c.App.Writer)
		},
	}
}

// configFromFlags loads --config, if any, and applies explicitly set flags.
func configFromFlags(c *cli.Context) (Config, error) {
	cfg := DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("k") {
		cfg.K = c.Int("k")
	}
	if c.IsSet("order") {
		cfg.Order = c.String("order")
	}
	if c.IsSet("delimiter") {
		cfg.Input.Delimiter = unescapeDelimiter(c.String("delimiter"))
	}
	if c.IsSet("field") {
		cfg.Input.Field = c.Int("field")
	}
	if c.IsSet("key-field") {
		cfg.Input.KeyField = c.Int("key-field")
	}
	if c.IsSet("concurrency") {
		cfg.Input.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("read-limit") {
		cfg.Input.ReadLimit = c.Int64("read-limit")
	}
	if c.IsSet("workers") {
		cfg.Parallel.Workers = c.Int("workers")
	}
	if c.IsSet("batch-size") {
		cfg.Parallel.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("insertion") {
		cfg.Parallel.Insertion = c.String("insertion")
	}
	if c.IsSet("combine") {
		cfg.Parallel.Combine = c.String("combine")
	}
	if c.IsSet("endpoint") {
		cfg.S3.Endpoint = c.String("endpoint")
	}
	if c.IsSet("region") {
		cfg.S3.Region = c.String("region")
	}
	if c.IsSet("no-ssl") {
		cfg.S3.Secure = !c.Bool("no-ssl")
	}
	if c.IsSet("download-concurrency") {
		cfg.S3.DownloadConcurrency = c.Int("download-concurrency")
	}
	if c.IsSet("part-size") {
		cfg.S3.PartSize = c.Int64("part-size")
	}

	return cfg, cfg.Validate()
}

// unescapeDelimiter turns the two-character sequence \t into a tab so it can
// be typed on a command line.
func unescapeDelimiter(s string) string {
	if s == `\t` {
		return "\t"
	}
	return s
}

// Command topk prints the K best records of large delimited inputs.
//
//	topk select -k 5 scores-*.tsv
//	topk --log-level debug select --order asc --field 2 s3://bucket/latency.tsv.zst
//	topk select --endpoint localhost:9000 --config topk.yaml s3://exports/day.tsv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
		return 1
	}
	return 0
}

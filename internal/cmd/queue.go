package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/services"
)

// QueueCmd lists queued requests
type QueueCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the queue command
func (q *QueueCmd) Run(cli *CLI) error {
	container, err := cli.open()
	if err != nil {
		return err
	}
	defer container.Close()

	return container.Run(context.Background(), func(ctx context.Context) error {
		var reqs []domain.QueuedRequest
		err := container.Do(ctx, func(_ context.Context, e *services.Engine) error {
			reqs = e.Queue.PeekAll()
			return nil
		})
		if err != nil {
			return err
		}

		if q.Format == "json" {
			return writeJSON(os.Stdout, reqs)
		}
		if len(reqs) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}
		writeQueue(os.Stdout, reqs)
		return nil
	})
}

func writeQueue(out io.Writer, reqs []domain.QueuedRequest) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tKIND\tREQUEST\tENQUEUED\tIDEMPOTENCY KEY")
	for i, r := range reqs {
		fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%s\n",
			i+1, r.Kind, r.Method, r.Path, r.EnqueuedAt.Local().Format(time.DateTime), r.IdempotencyKey)
	}
	w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

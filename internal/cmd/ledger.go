package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/services"
)

// LedgerCmd lists transactions
type LedgerCmd struct {
	Format  string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Pending bool   `help:"Only show pending transactions"`
}

// Run executes the ledger command
func (l *LedgerCmd) Run(cli *CLI) error {
	container, err := cli.open()
	if err != nil {
		return err
	}
	defer container.Close()

	return container.Run(context.Background(), func(ctx context.Context) error {
		var records []domain.TransactionRecord
		err := container.Do(ctx, func(_ context.Context, e *services.Engine) error {
			records = e.Coordinator.Records()
			return nil
		})
		if err != nil {
			return err
		}
		if l.Pending {
			records = filterPending(records)
		}

		if l.Format == "json" {
			return writeJSON(os.Stdout, records)
		}
		if len(records) == 0 {
			fmt.Println("No transactions.")
			return nil
		}
		writeLedger(os.Stdout, records)
		return nil
	})
}

func filterPending(records []domain.TransactionRecord) []domain.TransactionRecord {
	out := records[:0]
	for _, r := range records {
		if r.Status == domain.StatusPending {
			out = append(out, r)
		}
	}
	return out
}

func writeLedger(out io.Writer, records []domain.TransactionRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tKIND\tSTATUS\tREASON\tIDEMPOTENCY KEY")
	for _, r := range records {
		reason := r.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Kind, r.Status, reason, r.IdempotencyKey)
	}
	w.Flush()
}

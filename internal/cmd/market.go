package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/services"
	"github.com/renato0307/outpost/internal/theme"
)

// BuyCmd buys items
type BuyCmd struct {
	Item       int   `arg:"" help:"Item ID"`
	Quantity   int   `help:"Quantity to buy" short:"n" default:"1"`
	Price      int64 `help:"Unit price shown in the market" required:""`
	Settlement int   `help:"Settlement (market) ID" default:"1"`
}

// Run executes the buy command
func (b *BuyCmd) Run(cli *CLI) error {
	return cli.execute(domain.KindBuy, domain.Payload{
		ItemID:       b.Item,
		Quantity:     b.Quantity,
		SettlementID: b.Settlement,
		UnitPrice:    b.Price,
	})
}

// SellCmd sells items
type SellCmd struct {
	Item       int   `arg:"" help:"Item ID"`
	Quantity   int   `help:"Quantity to sell" short:"n" default:"1"`
	Price      int64 `help:"Unit price offered by the market" required:""`
	Settlement int   `help:"Settlement (market) ID" default:"1"`
}

// Run executes the sell command
func (s *SellCmd) Run(cli *CLI) error {
	return cli.execute(domain.KindSell, domain.Payload{
		ItemID:       s.Item,
		Quantity:     s.Quantity,
		SettlementID: s.Settlement,
		UnitPrice:    s.Price,
	})
}

// execute performs an action and waits for its outcome unless it was
// queued for later
func (c *CLI) execute(kind domain.TransactionKind, payload domain.Payload) error {
	container, err := c.open()
	if err != nil {
		return err
	}
	defer container.Close()

	return container.Run(context.Background(), func(ctx context.Context) error {
		var res domain.ExecuteResult
		var online bool
		err := container.Do(ctx, func(ctx context.Context, e *services.Engine) error {
			var err error
			res, err = e.Coordinator.Execute(ctx, kind, payload)
			online = e.Session.IsAuthenticated()
			return err
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s %s %s\n",
			theme.StatusStyle(res.Status).Render(string(res.Status)),
			kind,
			theme.MutedStyle.Render(res.IdempotencyKey))
		if !online {
			fmt.Println("Queued. It will be sent after you log in.")
			return nil
		}

		settled, ok, err := container.awaitSettled(ctx, res.IdempotencyKey, c.Wait)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Still pending. It stays queued and is retried automatically.")
			return nil
		}
		return reportSettled(settled)
	})
}

func reportSettled(e domain.TransactionSettled) error {
	switch {
	case e.NeedsReauth:
		fmt.Printf("Login required: %s. The action stays queued.\n", e.Reason)
	case e.Status == domain.StatusCommitted:
		fmt.Println(theme.StatusStyle(e.Status).Render("Committed by the server."))
	default:
		fmt.Println(theme.StatusStyle(e.Status).Render(fmt.Sprintf("%s: %s", e.Status, e.Reason)))
		return fmt.Errorf("%s was %s", e.Kind, e.Status)
	}
	return nil
}

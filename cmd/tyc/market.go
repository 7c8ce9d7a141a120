package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newMarketCmd(apiBase *string) *cobra.Command {
	market := &cobra.Command{
		Use:     "market",
		Short:   "Trade stocks, bonds, funds and crypto",
		Aliases: []string{"m"},
	}
	market.AddCommand(
		newMarketListCmd(apiBase),
		newMarketShowCmd(apiBase),
		newTradeCmd(apiBase, "buy"),
		newTradeCmd(apiBase, "sell"),
		newMarketSimpleCmd(apiBase, "liquidate", "Sell every position at the live price", "/v1/market/liquidate"),
		newMarketSimpleCmd(apiBase, "refresh", "Run one per-tick price refresh", "/v1/market/refresh"),
		newMarketSimpleCmd(apiBase, "quarter", "Advance the market one quarter", "/v1/market/quarter"),
		newAcquireCmd(apiBase),
	)
	return market
}

func newMarketListCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list [stock|bond|fund|crypto]",
		Short: "List instruments with live prices",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = strings.ToLower(strings.TrimSpace(args[0]))
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Instruments(ctx, kind)
			if err != nil {
				return err
			}
			return renderInstruments(out)
		},
	}
}

func newMarketShowCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [symbol|id]",
		Short: "Inspect one instrument and its quarterly history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := stringFromArgOrPrompt(args, 0, "Symbol")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Instrument(ctx, ref)
			if err != nil {
				return err
			}
			return renderInstrumentDetail(out)
		},
	}
}

func newTradeCmd(apiBase *string, side string) *cobra.Command {
	var price float64
	cmd := &cobra.Command{
		Use:   side + " [symbol] [quantity]",
		Short: strings.ToUpper(side[:1]) + side[1:] + " at the live price unless --price is set",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, err := stringFromArgOrPrompt(args, 0, "Symbol")
			if err != nil {
				return err
			}
			symbol = strings.ToUpper(symbol)
			qty, err := floatFromArgOrPrompt(args, 1, "Quantity")
			if err != nil {
				return err
			}
			body := map[string]any{"symbol": symbol, "quantity": qty}
			if price > 0 {
				body["price"] = price
			}
			out, err := sendAction(cmd, apiBase, "/v1/market/"+side, body)
			if err != nil || out == nil {
				return err
			}
			return renderTrade(out, side)
		},
	}
	cmd.Flags().Float64Var(&price, "price", 0, "settle at this price instead of the live one")
	return cmd
}

func newMarketSimpleCmd(apiBase *string, use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := sendAction(cmd, apiBase, path, nil)
			if err != nil || out == nil {
				return err
			}
			switch use {
			case "liquidate":
				printSuccess(fmt.Sprintf("Liquidated for %s.", formatMoney(asFloat(out["proceeds"]))))
			case "quarter":
				printSuccess(fmt.Sprintf("Quarter %v closed. Market is %v.", out["quarter"], out["trend"]))
			default:
				return renderInstruments(out)
			}
			return nil
		},
	}
}

func newAcquireCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "acquire [id]",
		Short: "Buy a listed company outright and run it as a subsidiary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := stringFromArgOrPrompt(args, 0, "Company id")
			if err != nil {
				return err
			}
			out, err := sendAction(cmd, apiBase, "/v1/market/acquire/"+url.PathEscape(id), nil)
			if err != nil || out == nil {
				return err
			}
			printSuccess(fmt.Sprintf("Acquired %v for %s.", out["symbol"], formatMoney(asFloat(out["cost"]))))
			if p := asFloat(out["proceeds"]); p > 0 {
				printInfo(fmt.Sprintf("Your shares were cashed out for %s.", formatMoney(p)))
			}
			return nil
		},
	}
}

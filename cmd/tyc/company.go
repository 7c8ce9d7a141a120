package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

func newCompanyCmd(apiBase *string) *cobra.Command {
	company := &cobra.Command{
		Use:     "company",
		Short:   "Run your company",
		Aliases: []string{"co"},
	}
	company.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show financials, debt and shareholders",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				out, err := newClient(apiBase).Company(ctx)
				if err != nil {
					return err
				}
				return renderCompany(out)
			},
		},
		newCompanyActionCmd(apiBase, "ipo", "List the company publicly", "/v1/company/ipo", nil),
		newCompanyActionCmd(apiBase, "split", "Split the stock 10-for-1", "/v1/company/split", nil),
		newPercentCmd(apiBase, "dilute", "Issue new equity for capital", "raised"),
		newPercentCmd(apiBase, "buyback", "Buy back shares with capital", "cost"),
		newPercentCmd(apiBase, "dividend", "Pay out a share of capital", "player_share"),
		newBorrowCmd(apiBase),
		newAmountCmd(apiBase, "repay", "Repay company debt", "amount", "repaid"),
		newCountCmd(apiBase, "hire", "Hire (or with a negative count, lay off) employees"),
		newCountCmd(apiBase, "factories", "Build factories from capital"),
		newCompanyActionCmd(apiBase, "salary [low|average|above_average]", "Set the salary tier", "/v1/company/salary", func(args []string) (map[string]any, error) {
			tier, err := stringFromArgOrPrompt(args, 0, "Tier")
			return map[string]any{"tier": tier}, err
		}),
		newCompanyActionCmd(apiBase, "tech [hardware|software|future]", "Upgrade a tech track", "/v1/company/tech", func(args []string) (map[string]any, error) {
			track, err := stringFromArgOrPrompt(args, 0, "Track")
			return map[string]any{"track": track}, err
		}),
		newTickCmd(apiBase),
		newRelationshipCmd(apiBase),
	)
	return company
}

func newCompanyActionCmd(apiBase *string, use, short, path string, body func([]string) (map[string]any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in map[string]any
			if body != nil {
				var err error
				if in, err = body(args); err != nil {
					return err
				}
			}
			out, err := sendAction(cmd, apiBase, path, in)
			if err != nil || out == nil {
				return err
			}
			printSuccess("Done.")
			return renderCompany(out)
		},
	}
}

func newPercentCmd(apiBase *string, name, short, resultKey string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [percent]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := floatFromArgOrPrompt(args, 0, "Percent")
			if err != nil {
				return err
			}
			out, err := sendAction(cmd, apiBase, "/v1/company/"+name, map[string]any{"percent": pct})
			if err != nil || out == nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s: %s", name, formatMoney(asFloat(out[resultKey]))))
			return renderCompanyPayload(out["company"])
		},
	}
}

func newAmountCmd(apiBase *string, name, short, field, resultKey string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [amount]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := floatFromArgOrPrompt(args, 0, "Amount")
			if err != nil {
				return err
			}
			out, err := sendAction(cmd, apiBase, "/v1/company/"+name, map[string]any{field: amount})
			if err != nil || out == nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s: %s", name, formatMoney(asFloat(out[resultKey]))))
			return renderCompanyPayload(out["company"])
		},
	}
}

func newBorrowCmd(apiBase *string) *cobra.Command {
	var rate float64
	cmd := &cobra.Command{
		Use:   "borrow [amount]",
		Short: "Borrow into company capital",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := floatFromArgOrPrompt(args, 0, "Amount")
			if err != nil {
				return err
			}
			out, err := sendAction(cmd, apiBase, "/v1/company/borrow", map[string]any{"amount": amount, "rate": rate})
			if err != nil || out == nil {
				return err
			}
			printSuccess(fmt.Sprintf("Borrowed %s.", formatMoney(amount)))
			return renderCompany(out)
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 0.05, "quoted annual rate")
	return cmd
}

func newCountCmd(apiBase *string, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [count]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := intFromArgOrPrompt(args, 0, "Count")
			if err != nil {
				return err
			}
			out, err := sendAction(cmd, apiBase, "/v1/company/"+name, map[string]any{"count": n})
			if err != nil || out == nil {
				return err
			}
			if c, ok := out["company"]; ok {
				printSuccess(fmt.Sprintf("Spent %s.", formatMoney(asFloat(out["cost"]))))
				return renderCompanyPayload(c)
			}
			printSuccess("Done.")
			return renderCompany(out)
		},
	}
}

func newTickCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Advance the company one month",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := sendAction(cmd, apiBase, "/v1/company/tick", nil)
			if err != nil || out == nil {
				return err
			}
			return renderTick(out)
		},
	}
}

func newRelationshipCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "relationship [shareholder-id] [delta]",
		Short: "Nudge a shareholder relationship",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := stringFromArgOrPrompt(args, 0, "Shareholder id")
			if err != nil {
				return err
			}
			delta, err := floatFromArgOrPrompt(args, 1, "Delta")
			if err != nil {
				return err
			}
			path := "/v1/shareholders/" + url.PathEscape(id) + "/relationship"
			out, err := sendAction(cmd, apiBase, path, map[string]any{"delta": delta})
			if err != nil || out == nil {
				return err
			}
			printSuccess("Relationship updated.")
			return renderShareholders(out["shareholders"])
		},
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	cl "tycoon/internal/cli"
	"tycoon/internal/config"
	"tycoon/internal/syncq"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLI()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "tyc",
		Short:        "Tycoon command-line client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "API base URL")

	root.AddCommand(
		newDashCmd(&apiBase),
		newPortfolioCmd(&apiBase),
		newMarketCmd(&apiBase),
		newCompanyCmd(&apiBase),
		newSyncCmd(&apiBase),
		newResetCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newDashCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Show money, net worth and the company at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			return renderDashboard(out)
		},
	}
}

func newPortfolioCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:     "portfolio",
		Short:   "Show your open positions",
		Aliases: []string{"pf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Portfolio(ctx)
			if err != nil {
				return err
			}
			return renderPortfolio(out)
		},
	}
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay writes queued while the server was unreachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := syncq.Default()
			if err != nil {
				return err
			}
			pending, err := queue.Load()
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			sent, failures, err := queue.Replay(func(q syncq.Command) error {
				_, err := client.Do(ctx, q.Method, q.Path, q.Body, q.IdempotencyKey)
				if cl.IsAPIError(err) {
					// The server ruled on it; retrying cannot change the answer.
					printWarn(fmt.Sprintf("Dropped %s %s: %v", q.Method, q.Path, err))
					return nil
				}
				return err
			})
			for _, f := range failures {
				printError(fmt.Sprintf("Sync failed: %v", f))
			}
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Sync complete: replayed=%d remaining=%d", sent, len(failures)))
			return nil
		},
	}
}

func newResetCmd(apiBase *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start the game over from the seed state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				choice, err := promptChoice("Discard this game", []string{"yes", "no"}, "no")
				if err != nil {
					return err
				}
				if choice != "yes" {
					printInfo("Reset cancelled.")
					return nil
				}
			}
			out, err := sendAction(cmd, apiBase, "/v1/reset", nil)
			if err != nil {
				return err
			}
			if out == nil {
				return nil
			}
			printSuccess("Game reset.")
			return renderDashboard(out)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// sendAction posts a write with a fresh idempotency key. When the server cannot
// be reached the write is queued for `tyc sync` and a nil result is returned.
func sendAction(cmd *cobra.Command, apiBase *string, path string, body map[string]any) (map[string]any, error) {
	idem := uuid.NewString()
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	out, err := newClient(apiBase).Do(ctx, http.MethodPost, path, body, idem)
	if err != nil {
		return nil, queueOnNetworkError(err, syncq.Command{
			Method:         http.MethodPost,
			Path:           path,
			Body:           body,
			IdempotencyKey: idem,
		})
	}
	return out, nil
}

func queueOnNetworkError(err error, c syncq.Command) error {
	if err == nil || cl.IsAPIError(err) {
		return err
	}
	queue, qerr := syncq.Default()
	if qerr == nil {
		qerr = queue.Push(c)
	}
	if qerr != nil {
		return fmt.Errorf("request failed and could not be queued (%v): %w", qerr, err)
	}
	printWarn(fmt.Sprintf("Server unreachable; queued %s for `tyc sync`.", c.Path))
	return nil
}

func floatFromArgOrPrompt(args []string, idx int, label string) (float64, error) {
	if len(args) > idx {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[idx]), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	return promptFloat(label, 0)
}

func intFromArgOrPrompt(args []string, idx int, label string) (int, error) {
	if len(args) > idx {
		v, err := strconv.Atoi(strings.TrimSpace(args[idx]))
		if err != nil {
			return 0, fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	v, err := promptInt64(label, 1)
	return int(v), err
}

func stringFromArgOrPrompt(args []string, idx int, label string) (string, error) {
	if len(args) > idx {
		return strings.TrimSpace(args[idx]), nil
	}
	return promptRequired(label)
}

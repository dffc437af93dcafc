package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/pkg/money"
)

func init() {
	debtsCmd := &cobra.Command{
		Use:   "debts PLAYER_ID",
		Short: "List a player's debts, earliest due first",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, a *app, playerID int64, _ []string) error {
			activeOnly, _ := cmd.Flags().GetBool("active")
			schedule, _ := cmd.Flags().GetBool("schedule")
			return printJSON(cmd.OutOrStdout(), a.engine.GetPlayerDebts.Execute(cmd.Context(), dto.GetPlayerDebtsRequest{
				PlayerID:        playerID,
				ActiveOnly:      activeOnly,
				IncludeSchedule: schedule,
			}))
		}),
	}
	debtsCmd.Flags().Bool("active", false, "only debts that are not paid off")
	debtsCmd.Flags().Bool("schedule", false, "include each debt's amortization schedule")

	playerCmd.AddCommand(
		&cobra.Command{
			Use:   "state PLAYER_ID",
			Short: "Show net worth and monthly cash flow",
			Args:  cobra.ExactArgs(1),
			RunE: withEngine(func(cmd *cobra.Command, a *app, playerID int64, _ []string) error {
				state, err := a.engine.GetPlayerState.Execute(cmd.Context(), playerID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), state)
			}),
		},
		&cobra.Command{
			Use:   "win PLAYER_ID",
			Short: "Check the player's win condition",
			Args:  cobra.ExactArgs(1),
			RunE: withEngine(func(cmd *cobra.Command, a *app, playerID int64, _ []string) error {
				win, err := a.engine.CheckWinCondition.Execute(cmd.Context(), playerID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), win)
			}),
		},
		&cobra.Command{
			Use:   "score PLAYER_ID",
			Short: "Calculate the player's credit score",
			Args:  cobra.ExactArgs(1),
			RunE: withEngine(func(cmd *cobra.Command, a *app, playerID int64, _ []string) error {
				return printJSON(cmd.OutOrStdout(), a.engine.CalculateCreditScore.Execute(cmd.Context(), playerID))
			}),
		},
		&cobra.Command{
			Use:   "summary PLAYER_ID",
			Short: "Summarize the player's debt portfolio",
			Args:  cobra.ExactArgs(1),
			RunE: withEngine(func(cmd *cobra.Command, a *app, playerID int64, _ []string) error {
				summary := a.engine.GetDebtSummary.Execute(cmd.Context(), playerID)
				if summary == nil {
					return fmt.Errorf("no debt summary for player %d", playerID)
				}
				return printJSON(cmd.OutOrStdout(), summary)
			}),
		},
		&cobra.Command{
			Use:   "strategy PLAYER_ID",
			Short: "Compare snowball and avalanche payoff",
			Args:  cobra.ExactArgs(1),
			RunE: withEngine(func(cmd *cobra.Command, a *app, playerID int64, _ []string) error {
				return printJSON(cmd.OutOrStdout(), a.engine.CalculatePayoffStrategy.Execute(cmd.Context(), playerID))
			}),
		},
		debtsCmd,
	)
	rootCmd.AddCommand(playerCmd)
}

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Query a player's finances",
}

// withEngine wires the app, parses the player id argument and runs fn.
func withEngine(fn func(cmd *cobra.Command, a *app, playerID int64, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		playerID, err := parsePlayerID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, playerID, args)
	}
}

func parsePlayerID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid player id %q", s)
	}
	return id, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cashflowgame/finance-service/internal/application/dto"
)

// errDeclined makes the process exit non-zero after a soft failure has been printed.
var errDeclined = errors.New("request declined")

func init() {
	applyCmd := &cobra.Command{
		Use:   "apply PLAYER_ID AMOUNT",
		Short: "Apply for a loan",
		Args:  cobra.ExactArgs(2),
		RunE: withEngine(func(cmd *cobra.Command, a *app, playerID int64, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			loanType, _ := cmd.Flags().GetString("type")
			purpose, _ := cmd.Flags().GetString("purpose")
			collateral, _ := cmd.Flags().GetString("collateral")
			term, _ := cmd.Flags().GetInt("term")

			res := a.engine.ApplyForLoan.Execute(cmd.Context(), dto.ApplyForLoanRequest{
				PlayerID:      playerID,
				LoanType:      loanType,
				Amount:        amount,
				Purpose:       purpose,
				CollateralRef: collateral,
				TermMonths:    term,
			})
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return errDeclined
			}
			return nil
		}),
	}
	applyCmd.Flags().String("type", "personal", "personal, business, investment or emergency")
	applyCmd.Flags().String("purpose", "", "what the loan is for")
	applyCmd.Flags().String("collateral", "", "reference to pledged collateral")
	applyCmd.Flags().Int("term", 0, "term in months; zero takes the default")

	payCmd := &cobra.Command{
		Use:   "pay PLAYER_ID DEBT_ID AMOUNT",
		Short: "Make a payment against a debt",
		Args:  cobra.ExactArgs(3),
		RunE: withEngine(func(cmd *cobra.Command, a *app, playerID int64, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString("from")
			paymentType, _ := cmd.Flags().GetString("type")

			res := a.engine.MakePayment.Execute(cmd.Context(), dto.MakePaymentRequest{
				PlayerID:    playerID,
				DebtID:      args[1],
				Amount:      amount,
				PaymentType: paymentType,
				FromAccount: from,
			})
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return errDeclined
			}
			return nil
		}),
	}
	payCmd.Flags().String("from", "cash", "cash or savings")
	payCmd.Flags().String("type", "regular", "regular, extra or payoff")

	loanCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(loanCmd, payCmd)
}

var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "Originate loans",
}

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/match-odds/internal/models"
	"github.com/yourusername/match-odds/internal/value"
)

var (
	valueProbability float64
	valueOdds        float64
	valueBankroll    float64
	valueKelly       float64
)

func init() {
	valueCmd.Flags().Float64VarP(&valueProbability, "probability", "p", 0, "Model probability of the outcome (0-1)")
	valueCmd.Flags().Float64VarP(&valueOdds, "odds", "o", 0, "Decimal bookmaker odds")
	valueCmd.Flags().Float64Var(&valueBankroll, "bankroll", 0, "Bankroll to size the stake against (defaults to staking.bankroll)")
	valueCmd.Flags().Float64Var(&valueKelly, "kelly", 0, "Kelly safety factor (defaults to staking.kelly_safety_factor)")
	_ = valueCmd.MarkFlagRequired("probability")
	_ = valueCmd.MarkFlagRequired("odds")
}

var valueCmd = &cobra.Command{
	Use:     "value",
	Short:   "Expected value and Kelly stake for a probability at given odds",
	Example: `  matchodds value --probability 0.55 --odds 2.10 --bankroll 500`,
	RunE: func(cmd *cobra.Command, args []string) error {
		evaluator := newEvaluator()
		if cmd.Flags().Changed("bankroll") {
			evaluator.Bankroll = valueBankroll
		}
		if cmd.Flags().Changed("kelly") {
			evaluator.KellySafetyFactor = valueKelly
		}

		assessment, err := evaluator.Evaluate(valueProbability, valueOdds)
		if err != nil {
			if errors.Is(err, models.ErrInvalidOdds) {
				return fmt.Errorf("%w; use decimal odds such as 2.10", err)
			}
			return err
		}

		printAssessment(cmd.OutOrStdout(), assessment)
		return nil
	},
}

func printAssessment(out io.Writer, a models.ValueAssessment) {
	implied, _ := value.ImpliedProbability(a.Odds)
	fmt.Fprintf(out, "Probability:      %.3f (implied %.3f)\n", a.Probability, implied)
	fmt.Fprintf(out, "Odds:             %.2f\n", a.Odds)
	fmt.Fprintf(out, "Expected value:   %+.3f per unit\n", a.ExpectedValue)
	fmt.Fprintf(out, "Kelly fraction:   %.3f\n", a.KellyFraction)
	fmt.Fprintf(out, "Suggested stake:  %.2f\n", a.StakeAmount())
	if !a.HasValue() {
		fmt.Fprintln(out, "No value at this price")
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/match-odds/internal/datasource"
	"github.com/yourusername/match-odds/internal/markets"
	"github.com/yourusername/match-odds/internal/models"
	"github.com/yourusername/match-odds/internal/service"
)

var (
	analyzeHome string
	analyzeAway string
	analyzeOdds []string
	analyzeJSON bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeHome, "home", "", "Home team")
	analyzeCmd.Flags().StringVar(&analyzeAway, "away", "", "Away team")
	analyzeCmd.Flags().StringArrayVar(&analyzeOdds, "odds", nil, "Bookmaker price as market=odds (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full analysis as JSON")
	_ = analyzeCmd.MarkFlagRequired("home")
	_ = analyzeCmd.MarkFlagRequired("away")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Price every market for a fixture",
	Example: `  matchodds analyze --home Arsenal --away Chelsea
  matchodds analyze --home Arsenal --away Chelsea --odds home_win=2.10 --odds goals_over_2.5=1.85`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prices, err := service.ParsePrices(analyzeOdds)
		if err != nil {
			return err
		}

		supplier, err := datasource.NewFactory(cfg.DataSource, appLog).Create()
		if err != nil {
			return fmt.Errorf("failed to create data source: %w", err)
		}

		analyzer := service.NewFixtureAnalyzer(supplier, newEvaluator(), service.AnalyzerConfigFrom(cfg), appLog)
		analysis, err := analyzer.Analyze(cmd.Context(), service.FixtureRequest{
			HomeTeam: analyzeHome,
			AwayTeam: analyzeAway,
			Prices:   prices,
		})
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		}
		printAnalysis(cmd.OutOrStdout(), analysis)
		return nil
	},
}

func printAnalysis(out io.Writer, a *service.Analysis) {
	fmt.Fprintf(out, "%s vs %s\n\n", a.HomeTeam, a.AwayTeam)

	home, away := a.HomeRate.Rounded(), a.AwayRate.Rounded()
	fmt.Fprintf(out, "Rates (for/against):  %s %.2f/%.2f (%d)  %s %.2f/%.2f (%d)\n",
		a.HomeTeam, home.ForAvg, home.AgainstAvg, home.Matches,
		a.AwayTeam, away.ForAvg, away.AgainstAvg, away.Matches)
	fmt.Fprintf(out, "Expected goals:       %.2f - %.2f\n\n",
		models.Round(a.ExpectedGoals.LambdaHome, models.DisplayPlaces),
		models.Round(a.ExpectedGoals.LambdaAway, models.DisplayPlaces))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MARKET\tPROB\tFAIR ODDS")
	for _, q := range models.SortedQuotes(a.Markets) {
		if markets.IsCorrectScore(q.Name) {
			continue
		}
		writeQuote(tw, q)
	}
	for _, m := range []*service.MetricAnalysis{a.Corners, a.Cards} {
		if m == nil {
			continue
		}
		for _, q := range models.SortedQuotes(m.Markets) {
			writeQuote(tw, q)
		}
	}
	tw.Flush()

	fmt.Fprintln(out, "\nMost likely scores:")
	for _, cell := range a.TopScores {
		fmt.Fprintf(out, "  %s  %.1f%%\n", markets.ScoreName(cell.HomeGoals, cell.AwayGoals), cell.Probability*100)
	}

	if a.Book != nil {
		fmt.Fprintf(out, "\nBook margin %.1f%%, fair 1X2: %.3f / %.3f / %.3f\n", a.Book.Margin*100,
			a.Book.Probabilities[markets.HomeWin], a.Book.Probabilities[markets.Draw], a.Book.Probabilities[markets.AwayWin])
	}
	if a.Recommendation != nil {
		fmt.Fprintf(out, "\nRecommended: %s (%.1f%%)\n", a.Recommendation.Quote.Name, a.Recommendation.Quote.Probability*100)
	}
	if len(a.ValueBets) > 0 {
		fmt.Fprintln(out, "\nValue bets:")
		for _, v := range a.ValueBets {
			fmt.Fprintf(out, "  %s @ %.2f  EV %+.3f  Kelly %.3f  stake %.2f\n",
				v.Market, v.Odds, v.ExpectedValue, v.KellyFraction, v.StakeAmount())
		}
	}
	for _, e := range a.PriceErrors {
		fmt.Fprintf(out, "  ! %s\n", e)
	}
}

func writeQuote(w io.Writer, q models.MarketQuote) {
	fair := "-"
	if odds := q.FairOdds(); odds > 0 {
		fair = fmt.Sprintf("%.2f", odds)
	}
	fmt.Fprintf(w, "%s\t%.3f\t%s\n", q.Name, q.Probability, fair)
}

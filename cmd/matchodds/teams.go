package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/match-odds/internal/datasource"
	"github.com/yourusername/match-odds/internal/service"
)

var (
	teamsFilter string
	teamsJSON   bool
)

func init() {
	teamsCmd.Flags().StringVar(&teamsFilter, "filter", "", "Only list teams whose name contains this text")
	teamsCmd.Flags().BoolVar(&teamsJSON, "json", false, "Print the teams as a JSON array")
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams the configured data source covers",
	Example: `  matchodds teams
  matchodds teams --filter united`,
	RunE: func(cmd *cobra.Command, args []string) error {
		supplier, err := datasource.NewFactory(cfg.DataSource, appLog).Create()
		if err != nil {
			return fmt.Errorf("failed to create data source: %w", err)
		}

		analyzer := service.NewFixtureAnalyzer(supplier, newEvaluator(), service.AnalyzerConfigFrom(cfg), appLog)
		teams, err := analyzer.Teams(cmd.Context())
		if err != nil {
			return err
		}
		teams = filterTeams(teams, teamsFilter)

		if teamsJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(teams)
		}
		printTeams(cmd.OutOrStdout(), analyzer.Source(), teams)
		return nil
	},
}

func filterTeams(teams []string, filter string) []string {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return teams
	}
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		if strings.Contains(strings.ToLower(t), filter) {
			out = append(out, t)
		}
	}
	return out
}

func printTeams(out io.Writer, source string, teams []string) {
	if len(teams) == 0 {
		fmt.Fprintf(out, "No teams found in %s\n", source)
		return
	}
	for _, t := range teams {
		fmt.Fprintln(out, t)
	}
}

package markets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/match-odds/internal/models"
)

// Market names
const (
	HomeWin       = "home_win"
	Draw          = "draw"
	AwayWin       = "away_win"
	HomeOrDraw    = "home_or_draw"
	DrawOrAway    = "draw_or_away"
	HomeOrAway    = "home_or_away"
	BTTSYes       = "btts_yes"
	BTTSNo        = "btts_no"
	AHHomeMinus05 = "ah_home_-0.5"
	AHHomePlus05  = "ah_home_+0.5"
	AHAwayMinus05 = "ah_away_-0.5"
	AHAwayPlus05  = "ah_away_+0.5"
)

// OverName returns the market name for over the line, e.g. goals_over_2.5
func OverName(metric models.Metric, line float64) string {
	return fmt.Sprintf("%s_over_%s", metric, formatLine(line))
}

// UnderName returns the market name for under the line, e.g. goals_under_2.5
func UnderName(metric models.Metric, line float64) string {
	return fmt.Sprintf("%s_under_%s", metric, formatLine(line))
}

const scorePrefix = "score_"

// ScoreName returns the correct-score market name, e.g. score_2-1
func ScoreName(homeGoals, awayGoals int) string {
	return fmt.Sprintf("%s%d-%d", scorePrefix, homeGoals, awayGoals)
}

// IsCorrectScore reports whether name is a correct-score market
func IsCorrectScore(name string) bool {
	return strings.HasPrefix(name, scorePrefix)
}

func formatLine(line float64) string {
	return strconv.FormatFloat(line, 'f', -1, 64)
}

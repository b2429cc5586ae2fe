package service

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrices parses "market=odds" or "market:odds" entries into a price map.
// A market listed twice keeps its last price.
func ParsePrices(entries []string) (map[string]float64, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	prices := make(map[string]float64, len(entries))
	for _, entry := range entries {
		name, raw, ok := strings.Cut(entry, "=")
		if !ok {
			name, raw, ok = strings.Cut(entry, ":")
		}
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid price %q: expected market=odds", entry)
		}
		odds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q: %w", entry, err)
		}
		prices[name] = odds
	}
	return prices, nil
}

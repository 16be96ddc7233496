package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimeString converts "M:SS" or "H:MM:SS" into seconds.
// Components that are not numbers count as 0; any other shape yields 0,
// as does a total too large for an int.
func ParseTimeString(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	raw := strings.Split(s, ":")
	parts := make([]int, len(raw))
	for i, p := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			n = 0
		}
		parts[i] = n
	}

	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}
	total := 0
	for _, p := range parts {
		if total > (math.MaxInt-p)/60 {
			return 0
		}
		total = total*60 + p
	}
	return total
}

// FormatTime renders seconds as "M:SS", or "H:MM:SS" from one hour up.
func FormatTime(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

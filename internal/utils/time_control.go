package utils

import (
	"fmt"
	"strconv"
	"strings"
)

type TimeControlCategory string

const (
	CategoryBullet    TimeControlCategory = "bullet"
	CategoryBlitz     TimeControlCategory = "blitz"
	CategoryRapid     TimeControlCategory = "rapid"
	CategoryClassical TimeControlCategory = "classical"
	CategoryDaily     TimeControlCategory = "daily"
	CategoryUnknown   TimeControlCategory = "unknown"
)

const unknownTimeControl = "Unknown"

// FormatTimeControlSeconds renders a base time in seconds, e.g. 125 -> "2min 5sec".
func FormatTimeControlSeconds(seconds int) string {
	if seconds == 0 {
		return unknownTimeControl
	}
	return formatBaseAndIncrement(seconds, 0)
}

// FormatTimeControl renders a time control string. Accepted forms are plain
// seconds ("300"), "base+increment" in seconds ("60+5" -> "1min +5sec") and the
// Chess.com "minutes|increment" form ("3|2" -> "3min +2sec"). An empty value gives
// "Unknown"; a value that does not parse is returned unchanged.
func FormatTimeControl(timeControl string) string {
	if timeControl == "" {
		return unknownTimeControl
	}

	base, increment, err := ParseTimeControl(timeControl)
	if err != nil {
		return timeControl
	}
	return formatBaseAndIncrement(base, increment)
}

// ParseTimeControl splits a time control string into base seconds and increment seconds.
func ParseTimeControl(timeControl string) (base int, increment int, err error) {
	value := strings.TrimSpace(timeControl)

	switch {
	case strings.Contains(value, "+"):
		parts := strings.SplitN(value, "+", 2)
		if base, err = strconv.Atoi(parts[0]); err != nil {
			return 0, 0, fmt.Errorf("invalid base time %q: %w", parts[0], err)
		}
		if increment, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, fmt.Errorf("invalid increment %q: %w", parts[1], err)
		}
	case strings.Contains(value, "|"):
		parts := strings.SplitN(value, "|", 2)
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid base minutes %q: %w", parts[0], err)
		}
		if increment, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, fmt.Errorf("invalid increment %q: %w", parts[1], err)
		}
		base = minutes * 60
	default:
		if base, err = strconv.Atoi(value); err != nil {
			return 0, 0, fmt.Errorf("invalid time control %q: %w", value, err)
		}
	}

	return base, increment, nil
}

// CategorizeTimeControl buckets a time control by its base time.
func CategorizeTimeControl(timeControl string) TimeControlCategory {
	base, _, err := ParseTimeControl(timeControl)
	if err != nil {
		return CategoryUnknown
	}

	minutes := float64(base) / 60
	switch {
	case minutes >= 1440:
		return CategoryDaily
	case minutes < 3:
		return CategoryBullet
	case minutes < 10:
		return CategoryBlitz
	case minutes < 30:
		return CategoryRapid
	default:
		return CategoryClassical
	}
}

func formatBaseAndIncrement(base, increment int) string {
	minutes := base / 60
	remaining := base % 60

	var parts []string
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", minutes))
	}
	if remaining > 0 || minutes == 0 {
		parts = append(parts, fmt.Sprintf("%dsec", remaining))
	}

	display := strings.Join(parts, " ")
	if increment > 0 {
		display += fmt.Sprintf(" +%dsec", increment)
	}
	return display
}

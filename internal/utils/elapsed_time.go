package utils

import (
	"fmt"
	"math"
)

// FormatElapsed renders task runtime as "Xs" below a minute and "Ym Zs" above.
func FormatElapsed(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return "0s"
	}

	minutes := int(seconds / 60)
	remaining := int(math.Mod(seconds, 60))

	if minutes == 0 {
		return fmt.Sprintf("%ds", remaining)
	}
	return fmt.Sprintf("%dm %ds", minutes, remaining)
}

package widgets

import (
	"fmt"
	"strings"
)

// Progress renders a compact labelled bar, e.g. "4/10 ▰▰▱▱▱". Used by
// composite cells like received-vs-ordered quantity.
func Progress(value, maximum float64) string {
	label := fmt.Sprintf("%s/%s", trimFloat(value), trimFloat(maximum))
	const cells = 5
	filled := 0
	if maximum > 0 {
		ratio := value / maximum
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		filled = int(ratio*cells + 0.5)
	}
	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", cells-filled)
	return label + " " + bar
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

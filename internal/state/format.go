package state

import (
	"math"
	"strconv"
)

// FormatNumber renders a float with the shortest representation that round-trips.
// Missing values render as an empty cell.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package ranking

import (
	"strconv"
)

// FormatScore renders "score/max" with precision decimal digits.
func FormatScore(score, maxScore float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return strconv.FormatFloat(score, 'f', precision, 64) + "/" +
		strconv.FormatFloat(maxScore, 'f', precision, 64)
}

// FormatNumber renders v in its shortest decimal form, e.g. "50" or "12.5".
// Values are already rounded, so no digits are dropped here.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PartialMark is the marker printed next to partial scores.
func PartialMark(partial bool) string {
	if partial {
		return "*"
	}
	return ""
}

package scoring

import (
	"math"
	"strconv"
)

// Round rounds x to precision decimal digits, half to even, on the exact
// binary value of x. Rounding an already rounded value is a no-op.
func Round(x float64, precision int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if precision < 0 {
		precision = 0
	}
	// strconv rounds the exact decimal expansion of x and breaks exact
	// ties to even; parsing the result back yields the nearest float.
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', precision, 64), 64)
	if err != nil {
		return x
	}
	if r == 0 {
		// Drop the sign of negative zero.
		return 0
	}
	return r
}

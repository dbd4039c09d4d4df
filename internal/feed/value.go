package feed

import (
	"strconv"
	"strings"
)

// ParseValue interprets a raw field slot as a sensor value. The tokens
// "", "null" and "None" (and an absent slot) mean "no value", which is
// distinct from a reading of zero. Anything else is parsed as a float;
// a parse failure also yields "no value". Never returns an error.
func ParseValue(v *string) *float64 {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	switch s {
	case "", "null", "None":
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}

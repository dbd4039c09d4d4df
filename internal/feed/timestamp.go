package feed

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// OutLayout is the normalised form readings are written back in.
const OutLayout = "2006-01-02T15:04:05Z"

var tzSuffixRe = regexp.MustCompile(`[+\-]\d{2}:?\d{2}$`)

// ParseTimestamp parses a created_at stamp. It accepts ISO-8601 with a Z
// suffix or a numeric offset, with either a T or a space separator. As a
// last resort the offset is stripped and the bare stamp is read as UTC,
// matching how historical exports with malformed zones were recovered.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	// Strip a trailing offset or Z and assume UTC.
	bare := strings.TrimSuffix(s, "Z")
	bare = tzSuffixRe.ReplaceAllString(bare, "")
	bare = strings.TrimSpace(bare)
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, bare); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

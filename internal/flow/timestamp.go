package flow

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MalformedTimestampError reports a timestamp string that could not be
// normalized into a parseable instant. Timestamp ordering integrity cannot
// be guaranteed past a bad timestamp, so callers fail the whole analysis
// rather than dropping the entry.
type MalformedTimestampError struct {
	Value string
	Err   error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp %q: %v", e.Value, e.Err)
}

func (e *MalformedTimestampError) Unwrap() error { return e.Err }

// Jira emits compact numeric offsets (+0000) with no colon separator.
var compactOffsetRegex = regexp.MustCompile(`[+-]\d{4}$`)

// ParseTimestamp parses a Jira ISO timestamp into a timezone-aware instant.
// A trailing literal Z and the compact +0000 offset form are both rewritten
// to the colon-separated offset that RFC 3339 parsing requires.
func ParseTimestamp(value string) (time.Time, error) {
	normalized := value
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	} else if compactOffsetRegex.MatchString(normalized) {
		normalized = normalized[:len(normalized)-2] + ":" + normalized[len(normalized)-2:]
	}

	t, err := time.Parse(time.RFC3339, normalized)
	if err != nil {
		return time.Time{}, &MalformedTimestampError{Value: value, Err: err}
	}
	return t, nil
}

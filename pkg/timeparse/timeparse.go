// Package timeparse handles the --since/--until flag syntax: a raw
// unix timestamp ("1739051292.0042") or a relative duration ("30m",
// "2h", "1d", "1w") measured back from now.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	numericTsRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	durationRe  = regexp.MustCompile(`^(\d+)([smhdw])$`)
)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 604800,
}

// Parse converts a flag value into epoch seconds. ok is false when the
// value is empty (flag unset).
func Parse(value, flag string) (ts float64, ok bool, err error) {
	raw := value
	if raw == "" {
		return 0, false, nil
	}
	if numericTsRe.MatchString(raw) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid value for %s: %q", flag, value)
		}
		return v, true, nil
	}
	if m := durationRe.FindStringSubmatch(raw); m != nil {
		amount, _ := strconv.ParseInt(m[1], 10, 64)
		return float64(time.Now().Unix() - amount*unitSeconds[m[2]]), true, nil
	}
	return 0, false, fmt.Errorf(
		"invalid value for %s: %q (use a unix ts like 1739051292.0042 or a duration like 30m, 2h, 1d)",
		flag, value)
}

// Bounds parses --since/--until into oldest/latest window bounds.
// Zero means unset.
func Bounds(since, until string) (oldest, latest float64, err error) {
	oldest, haveOldest, err := Parse(since, "--since")
	if err != nil {
		return 0, 0, err
	}
	latest, haveLatest, err := Parse(until, "--until")
	if err != nil {
		return 0, 0, err
	}
	if haveOldest && haveLatest && oldest > latest {
		return 0, 0, fmt.Errorf("--since cannot be later than --until")
	}
	return oldest, latest, nil
}

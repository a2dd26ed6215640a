package opendata

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// canonicalTimeToHour normalizes a forecast cycle time to its integer
// hour. Mirrors use the plain-hour form ("0", "6", "12", "18"), its
// two-digit spelling ("00", "06") and the HHMM form without a leading
// zero ("600", "1200", "1800"); anything else is not a valid cycle.
func canonicalTimeToHour(t string) (int, error) {
	switch t {
	case "0", "00":
		return 0, nil
	case "6", "06":
		return 6, nil
	case "12":
		return 12, nil
	case "18":
		return 18, nil
	case "600":
		return 6, nil
	case "1200":
		return 12, nil
	case "1800":
		return 18, nil
	default:
		return 0, fmt.Errorf("%w: invalid time value %q", ErrInvalidRequest, t)
	}
}

var validCycleHours = map[string]bool{"0": true, "6": true, "12": true, "18": true}

// expandTimeValue expands a time keyword's raw tokens through the
// shared numeric grammar, then — only when one of the raw tokens used
// the "a/to/b" range form — filters the result down to the four valid
// synoptic hours, since a bare integer range like 0/to/18 sweeps
// through hours that are never published.
func expandTimeValue(v RequestValue) ([]string, error) {
	raws := v.AsStrings()
	var out []string
	sawRange := false
	for _, s := range raws {
		if strings.Contains(s, "/to/") {
			sawRange = true
		}
		vals, err := expandNumericSyntax(s)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	if !sawRange {
		return out, nil
	}
	filtered := make([]string, 0, len(out))
	for _, o := range out {
		if validCycleHours[o] {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func yyyymmdd(d time.Time) string {
	return d.Format("20060102")
}

// parseDateLike resolves a single date token against `now`: a
// non-positive integer is relative days-from-today, an 8-digit string
// is YYYYMMDD, "YYYY-MM-DD" and "YYYY-MM-DD HH:MM:SS" are accepted
// verbatim. The third return value reports whether an hour component
// was present.
func parseDateLike(s string, now time.Time) (date time.Time, hour int, hasHour bool, err error) {
	s = strings.TrimSpace(s)

	if n, convErr := strconv.Atoi(s); convErr == nil && n <= 0 {
		d := now.AddDate(0, 0, n)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), 0, false, nil
	}

	if len(s) == 8 {
		if _, convErr := strconv.Atoi(s); convErr == nil {
			d, parseErr := time.Parse("20060102", s)
			if parseErr != nil {
				return time.Time{}, 0, false, fmt.Errorf("%w: invalid date %q", ErrInvalidRequest, s)
			}
			return d, 0, false, nil
		}
	}

	if d, parseErr := time.Parse("2006-01-02", s); parseErr == nil {
		return d, 0, false, nil
	}

	if d, parseErr := time.Parse("2006-01-02 15:04:05", s); parseErr == nil {
		return d, d.Hour(), true, nil
	}

	return time.Time{}, 0, false, fmt.Errorf("%w: unrecognized date %q", ErrInvalidRequest, s)
}

// expandDateValue expands a date keyword's raw tokens, handling the
// same "a/to/b" and "a/to/b/by/n" range forms as the numeric grammar
// but over calendar days rather than integers.
func expandDateValue(v RequestValue, now time.Time) ([]string, error) {
	var out []string
	for _, s := range v.AsStrings() {
		tokens := strings.Split(s, "/")
		switch {
		case len(tokens) == 3 && tokens[1] == "to":
			vals, err := expandDateRange(tokens[0], tokens[2], 1, now)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)

		case len(tokens) == 5 && tokens[1] == "to" && tokens[3] == "by":
			stride, convErr := strconv.Atoi(tokens[4])
			if convErr != nil || stride <= 0 {
				return nil, fmt.Errorf("%w: invalid date stride %q", ErrInvalidRequest, tokens[4])
			}
			vals, err := expandDateRange(tokens[0], tokens[2], stride, now)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)

		default:
			d, _, _, err := parseDateLike(s, now)
			if err != nil {
				return nil, err
			}
			out = append(out, yyyymmdd(d))
		}
	}
	return out, nil
}

func expandDateRange(startTok, endTok string, strideDays int, now time.Time) ([]string, error) {
	start, _, _, err := parseDateLike(startTok, now)
	if err != nil {
		return nil, err
	}
	end, _, _, err := parseDateLike(endTok, now)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: date range end %s before start %s", ErrInvalidRequest, yyyymmdd(end), yyyymmdd(start))
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, strideDays) {
		out = append(out, yyyymmdd(d))
	}
	return out, nil
}

// fullDatetimeFromDateTime combines an 8-digit date and an hour into a
// UTC timestamp, used to render the {yyyymmddHHMMSS} URL placeholder.
func fullDatetimeFromDateTime(dateYYYYMMDD string, hour int) (time.Time, error) {
	d, err := time.Parse("20060102", dateYYYYMMDD)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidRequest, dateYYYYMMDD)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC), nil
}

// endStep returns the terminal step of a (possibly ranged) step token,
// e.g. "144-168" -> 168, "240" -> 240. Used to bucket probability
// ("ep") steps into the two published step windows.
func endStep(step string) (int64, error) {
	if idx := strings.IndexByte(step, '-'); idx >= 0 {
		return strconv.ParseInt(step[idx+1:], 10, 64)
	}
	return strconv.ParseInt(step, 10, 64)
}

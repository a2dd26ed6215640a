package opendata

import (
	"fmt"
	"strconv"
	"strings"
)

type valueKind int

const (
	kindStr valueKind = iota
	kindInt
	kindStrList
	kindIntList
)

// RequestValue is a small tagged union over the value types a MARS-like
// keyword can take: a bare string, a bare integer, or a list of either.
type RequestValue struct {
	kind    valueKind
	str     string
	num     int64
	strList []string
	intList []int64
}

// Str wraps a bare string value.
func Str(s string) RequestValue { return RequestValue{kind: kindStr, str: s} }

// IntVal wraps a bare integer value.
func IntVal(n int64) RequestValue { return RequestValue{kind: kindInt, num: n} }

// StrListVal wraps a list of string values.
func StrListVal(vs []string) RequestValue {
	return RequestValue{kind: kindStrList, strList: append([]string(nil), vs...)}
}

// IntListVal wraps a list of integer values.
func IntListVal(vs []int64) RequestValue {
	return RequestValue{kind: kindIntList, intList: append([]int64(nil), vs...)}
}

// AsStrings renders the value as a slice of raw tokens, regardless of
// which variant it was constructed as.
func (v RequestValue) AsStrings() []string {
	switch v.kind {
	case kindStr:
		return []string{v.str}
	case kindInt:
		return []string{strconv.FormatInt(v.num, 10)}
	case kindStrList:
		return append([]string(nil), v.strList...)
	case kindIntList:
		out := make([]string, len(v.intList))
		for i, n := range v.intList {
			out[i] = strconv.FormatInt(n, 10)
		}
		return out
	default:
		return nil
	}
}

// IsEmpty reports whether the value carries no tokens at all (only
// possible for an explicitly-constructed empty list).
func (v RequestValue) IsEmpty() bool {
	switch v.kind {
	case kindStrList:
		return len(v.strList) == 0
	case kindIntList:
		return len(v.intList) == 0
	default:
		return false
	}
}

// ParseAuto infers a RequestValue's shape from a raw string the way a
// keyword argument typed on a command line or in a config file would be
// interpreted: surrounding brackets are stripped, then a comma-separated
// list becomes StrList/IntList (IntList only when every element parses as
// an integer), a bare integer becomes Int, anything else stays Str. A
// bracketed value without a comma ("[5]") is therefore a scalar.
func ParseAuto(s string) RequestValue {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	if strings.Contains(s, ",") {
		var items []string
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			items = append(items, part)
		}
		if len(items) == 0 {
			return StrListVal(nil)
		}
		ints := make([]int64, 0, len(items))
		allInt := true
		for _, it := range items {
			n, err := strconv.ParseInt(it, 10, 64)
			if err != nil {
				allInt = false
				break
			}
			ints = append(ints, n)
		}
		if allInt {
			return IntListVal(ints)
		}
		return StrListVal(items)
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntVal(n)
	}
	return Str(s)
}

// expandNumericSyntax expands the "a/to/b" and "a/to/b/by/c" range
// syntax shared by step, number and levelist keywords into an explicit
// list; any other shape passes through as a single-element list.
func expandNumericSyntax(s string) ([]string, error) {
	tokens := strings.Split(s, "/")

	switch {
	case len(tokens) == 3 && tokens[1] == "to":
		start, end, err := parseRangeEndpoints(tokens[0], tokens[2])
		if err != nil {
			return nil, err
		}
		return intRange(start, end, 1), nil

	case len(tokens) == 5 && tokens[1] == "to" && tokens[3] == "by":
		start, end, err := parseRangeEndpoints(tokens[0], tokens[2])
		if err != nil {
			return nil, err
		}
		by, err := strconv.ParseInt(tokens[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid stride %q", ErrInvalidRequest, tokens[4])
		}
		if by <= 0 {
			return nil, fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidRequest, by)
		}
		return intRange(start, end, by), nil

	default:
		return []string{s}, nil
	}
}

func parseRangeEndpoints(a, b string) (int64, int64, error) {
	start, err := strconv.ParseInt(a, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid range start %q", ErrInvalidRequest, a)
	}
	end, err := strconv.ParseInt(b, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid range end %q", ErrInvalidRequest, b)
	}
	if end < start {
		return 0, 0, fmt.Errorf("%w: range end %d before start %d", ErrInvalidRequest, end, start)
	}
	return start, end, nil
}

func intRange(start, end, by int64) []string {
	out := make([]string, 0, (end-start)/by+1)
	for i := start; i <= end; i += by {
		out = append(out, strconv.FormatInt(i, 10))
	}
	return out
}

// Request is an insertion-ordered set of keyword values; Keys reports
// the keywords in the order they were first set. Index-range ordering
// under PreserveRequestOrder does not follow this keyword order (it uses
// a fixed keyword order), only the order of the values within each
// keyword.
type Request struct {
	keys   []string
	values map[string]RequestValue
}

// NewRequest returns an empty Request.
func NewRequest() *Request {
	return &Request{values: make(map[string]RequestValue)}
}

// FromStrPairs builds a Request from keyword/value pairs, auto-typing
// each value the way ParseAuto does. Pair order follows the slice, not
// map iteration, so callers who need a deterministic key order should
// use this rather than a map literal.
func FromStrPairs(pairs [][2]string) *Request {
	r := NewRequest()
	for _, kv := range pairs {
		r.Set(kv[0], ParseAuto(kv[1]))
	}
	return r
}

// Set inserts or overwrites a keyword's value. First insertion fixes
// the keyword's position; overwriting an existing keyword does not
// move it.
func (r *Request) Set(key string, v RequestValue) *Request {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
	return r
}

// Get returns a keyword's value and whether it was present.
func (r *Request) Get(key string) (RequestValue, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Remove deletes a keyword, if present.
func (r *Request) Remove(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keywords in insertion order.
func (r *Request) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Clone returns a deep-enough copy safe for the resolver to mutate
// (inject a resolved date/time) without touching the caller's Request.
func (r *Request) Clone() *Request {
	c := NewRequest()
	for _, k := range r.keys {
		c.Set(k, r.values[k])
	}
	return c
}

// Convenience builders mirroring the kwargs-style constructors of the
// upstream MARS client; each is a thin Set wrapper.

func (r *Request) WithType(v string) *Request     { return r.Set("type", Str(v)) }
func (r *Request) WithStream(v string) *Request   { return r.Set("stream", Str(v)) }
func (r *Request) WithDate(v string) *Request     { return r.Set("date", ParseAuto(v)) }
func (r *Request) WithTime(v string) *Request     { return r.Set("time", ParseAuto(v)) }
func (r *Request) WithStep(v string) *Request     { return r.Set("step", ParseAuto(v)) }
func (r *Request) WithFcmonth(v string) *Request  { return r.Set("fcmonth", ParseAuto(v)) }
func (r *Request) WithParam(v string) *Request    { return r.Set("param", ParseAuto(v)) }
func (r *Request) WithLevtype(v string) *Request  { return r.Set("levtype", Str(v)) }
func (r *Request) WithLevelist(v string) *Request { return r.Set("levelist", ParseAuto(v)) }
func (r *Request) WithNumber(v string) *Request   { return r.Set("number", ParseAuto(v)) }
func (r *Request) WithModel(v string) *Request    { return r.Set("model", Str(v)) }
func (r *Request) WithResol(v string) *Request    { return r.Set("resol", Str(v)) }
func (r *Request) WithTarget(v string) *Request   { return r.Set("target", Str(v)) }

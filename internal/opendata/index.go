package opendata

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// byteRange is an inclusive [start, end] byte span within a blob.
type byteRange struct {
	start, end int64
}

type indexEntry struct {
	offset int64
	length int64
	fields map[string]string
}

func orderedIndexKeys(forIndex map[string][]string) []string {
	var keys []string
	for _, k := range indexComponents {
		if len(forIndex[k]) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

// expandURLsToRanges turns each blob URL into a "url|s1-e1;s2-e2;..."
// encoded range-request URL by reading its `.index` sidecar and
// keeping only the entries that match the requested keyword values. A
// URL whose sidecar matches nothing is dropped entirely; the whole
// call fails only when every URL dropped out.
func (c *Client) expandURLsToRanges(urls []string, forIndex map[string][]string) ([]string, error) {
	orderedKeys := orderedIndexKeys(forIndex)

	var out []string
	for _, u := range urls {
		ranged, matched, err := c.expandOneURLToRanges(u, forIndex, orderedKeys)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, ranged)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w", ErrNoMatchingIndex)
	}
	return out, nil
}

func (c *Client) expandOneURLToRanges(u string, forIndex map[string][]string, orderedKeys []string) (string, bool, error) {
	entries, err := c.fetchIndex(deriveIndexURL(u))
	if err != nil {
		return "", false, err
	}

	type scored struct {
		r       byteRange
		sortKey []int
	}
	var matches []scored

	for _, e := range entries {
		sortKey := make([]int, 0, len(orderedKeys))
		ok := true
		for _, k := range orderedKeys {
			val, present := e.fields[k]
			if !present {
				ok = false
				break
			}
			pos := indexOfString(forIndex[k], val)
			if pos < 0 {
				ok = false
				break
			}
			sortKey = append(sortKey, pos)
		}
		if !ok {
			continue
		}
		matches = append(matches, scored{r: byteRange{start: e.offset, end: e.offset + e.length - 1}, sortKey: sortKey})
	}

	if len(matches) == 0 {
		return "", false, nil
	}

	if c.opts.PreserveRequestOrder {
		sort.SliceStable(matches, func(i, j int) bool {
			return lessIntSlice(matches[i].sortKey, matches[j].sortKey)
		})
	} else {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].r.start < matches[j].r.start
		})
	}

	ranges := make([]byteRange, len(matches))
	for i, m := range matches {
		ranges[i] = m.r
	}
	var merged []byteRange
	if c.opts.PreserveRequestOrder {
		// Keep the request order: only coalesce a span that starts inside
		// or right after the span before it.
		for _, r := range ranges {
			if n := len(merged); n > 0 && r.start >= merged[n-1].start && r.start <= merged[n-1].end+1 {
				if r.end > merged[n-1].end {
					merged[n-1].end = r.end
				}
				continue
			}
			merged = append(merged, r)
		}
	} else {
		merged = mergeRanges(ranges)
	}
	return encodeRangedURL(u, merged), true, nil
}

func indexOfString(haystack []string, needle string) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}

func lessIntSlice(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// mergeRanges sorts ranges by start offset and coalesces any that are
// adjacent or overlapping (next.start <= prev.end+1), so a single
// Range header can cover several sidecar entries that sit back to
// back in the blob.
func mergeRanges(ranges []byteRange) []byteRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := append([]byteRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	merged := []byteRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end+1 {
			if r.end > last.end {
				last.end = r.end
			}
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

func encodeRangedURL(u string, ranges []byteRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = fmt.Sprintf("%d-%d", r.start, r.end)
	}
	return u + "|" + strings.Join(parts, ";")
}

// splitURLRanges parses the "url|s1-e1;s2-e2" encoding produced by
// expandURLsToRanges back into a plain URL and its ranges. A URL with
// no "|" separator is a whole-file download and returns a nil range
// slice.
func splitURLRanges(encoded string) (string, []byteRange, error) {
	idx := strings.IndexByte(encoded, '|')
	if idx < 0 {
		return encoded, nil, nil
	}
	u := encoded[:idx]
	spanStr := encoded[idx+1:]

	var ranges []byteRange
	for _, span := range strings.Split(spanStr, ";") {
		dash := strings.IndexByte(span, '-')
		if dash < 0 {
			return "", nil, fmt.Errorf("%w: malformed byte range %q", ErrDecode, span)
		}
		start, err := strconv.ParseInt(span[:dash], 10, 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: malformed range start %q: %v", ErrDecode, span, err)
		}
		end, err := strconv.ParseInt(span[dash+1:], 10, 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: malformed range end %q: %v", ErrDecode, span, err)
		}
		ranges = append(ranges, byteRange{start: start, end: end})
	}
	return u, ranges, nil
}

func deriveIndexURL(u string) string {
	dot := strings.LastIndexByte(u, '.')
	if dot < 0 {
		return u + ".index"
	}
	return u[:dot] + ".index"
}

func (c *Client) fetchIndex(indexURL string) ([]indexEntry, error) {
	url := indexURL
	if c.sasToken != "" {
		url = applySASToURL(url, c.sasToken)
	}

	req, err := newUARequest(http.MethodGet, url)
	if err != nil {
		return nil, fmt.Errorf("%w: building index request: %v", ErrTransport, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching index %s: %v", ErrTransport, indexURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: index %s returned status %d", ErrTransport, indexURL, resp.StatusCode)
	}

	reader := bufio.NewReader(resp.Body)
	var body io.Reader = reader

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: decompressing index %s: %v", ErrDecode, indexURL, err)
		}
		defer gz.Close()
		body = gz
	}

	var entries []indexEntry
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseIndexLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning index %s: %v", ErrDecode, indexURL, err)
	}
	return entries, nil
}

func parseIndexLine(line string) (indexEntry, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return indexEntry{}, fmt.Errorf("%w: decoding index line: %v", ErrDecode, err)
	}

	entry := indexEntry{fields: make(map[string]string, len(raw))}
	for k, v := range raw {
		switch k {
		case "_offset":
			if err := json.Unmarshal(v, &entry.offset); err != nil {
				return indexEntry{}, fmt.Errorf("%w: decoding _offset: %v", ErrDecode, err)
			}
		case "_length":
			if err := json.Unmarshal(v, &entry.length); err != nil {
				return indexEntry{}, fmt.Errorf("%w: decoding _length: %v", ErrDecode, err)
			}
		default:
			entry.fields[k] = decodeFieldAsString(v)
		}
	}
	return entry, nil
}

func decodeFieldAsString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return string(v)
}

package opendata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Download fetches every URL in the plan, in order, appending each to
// the target file, and returns the number of bytes written. Ranged
// URLs (the "url|s1-e1;s2-e2" encoding produced by the index planner)
// issue one Range GET per span, in the order the planner produced
// them; plain URLs are fetched whole. The file is written to a
// temporary sibling first and renamed into place only once every URL
// has been fetched successfully, so a failed download never leaves a
// partial file at the target path.
func (c *Client) Download(ctx context.Context, plan *ResolvedPlan) (int64, error) {
	dir := filepath.Dir(plan.Target)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".opendata-%s-*.tmp", uuid.NewString()))
	if err != nil {
		return 0, fmt.Errorf("%w: creating temp file: %v", ErrIO, err)
	}
	tmpPath := tmp.Name()
	succeeded := false
	defer func() {
		tmp.Close()
		if !succeeded {
			os.Remove(tmpPath)
		}
	}()

	var total int64
	for _, encoded := range plan.URLs {
		n, err := c.downloadOne(ctx, tmp, encoded)
		total += n
		if err != nil {
			return total, err
		}
	}

	if err := tmp.Close(); err != nil {
		return total, fmt.Errorf("%w: closing temp file: %v", ErrIO, err)
	}
	if err := os.Rename(tmpPath, plan.Target); err != nil {
		return total, fmt.Errorf("%w: finalizing %s: %v", ErrIO, plan.Target, err)
	}
	succeeded = true
	return total, nil
}

func (c *Client) downloadOne(ctx context.Context, w io.Writer, encoded string) (int64, error) {
	u, ranges, err := splitURLRanges(encoded)
	if err != nil {
		return 0, err
	}
	if c.sasToken != "" {
		u = applySASToURL(u, c.sasToken)
	}

	if len(ranges) == 0 {
		return c.fetchInto(ctx, w, u, "")
	}

	var total int64
	for _, r := range ranges {
		n, err := c.fetchInto(ctx, w, u, fmt.Sprintf("bytes=%d-%d", r.start, r.end))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (c *Client) fetchInto(ctx context.Context, w io.Writer, u, rangeHeader string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: building request for %s: %v", ErrTransport, u, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: fetching %s: %v", ErrTransport, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, fmt.Errorf("%w: %s returned status %d", ErrTransport, u, resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: writing body for %s: %v", ErrIO, u, err)
	}
	return n, nil
}

package opendata

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ClientOptions configures a Client. The zero value is not directly
// usable; call DefaultClientOptions and override from there.
type ClientOptions struct {
	Source               string
	Model                string
	Resol                string
	Beta                 bool
	PreserveRequestOrder bool
	InferStreamKeyword   bool
	VerifyTLS            bool
	UseSASToken          bool
	SASKnownKey          string
	SASCustomURL         string

	// HTTPClient overrides the client's default connection-pooled
	// transport. Mostly useful for tests pointed at an httptest server.
	HTTPClient *http.Client

	// Now overrides the wall clock used for relative date resolution
	// and latest-cycle probing. Tests set this; production code leaves
	// it nil and gets time.Now().UTC().
	Now func() time.Time
}

// DefaultClientOptions returns the options a bare Client should start
// from: the public ECMWF mirror, the IFS model at its default
// resolution, stream inference on.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Source:             "ecmwf",
		Model:              "ifs",
		Resol:              "0p25",
		InferStreamKeyword: true,
		VerifyTLS:          true,
		SASKnownKey:        "ecmwf",
	}
}

// Client resolves Requests against one mirror and downloads the
// resulting blobs. A Client is safe for reuse across many Requests but
// is not designed for concurrent use from multiple goroutines at once.
type Client struct {
	opts     ClientOptions
	baseURL  string
	http     *http.Client
	sasToken string
}

// NewClient builds a Client, resolving the configured source to a base
// URL and, when the source is Azure (or UseSASToken is set), fetching
// a SAS token up front so every subsequent request can reuse it.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Model == "" {
		opts.Model = "ifs"
	}
	if opts.Resol == "" {
		opts.Resol = "0p25"
	}
	if opts.Source == "" {
		opts.Source = "ecmwf"
	}
	if opts.SASKnownKey == "" {
		opts.SASKnownKey = "ecmwf"
	}

	baseURL := opts.Source
	if !isHTTPURL(baseURL) {
		u, ok := sourceToBaseURL(opts.Source)
		if !ok {
			return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidRequest, opts.Source)
		}
		baseURL = u
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: newTransport(!opts.VerifyTLS),
			Timeout:   60 * time.Second,
		}
	}

	c := &Client{opts: opts, baseURL: baseURL, http: httpClient}

	if opts.UseSASToken || opts.Source == "azure" {
		token, err := fetchAzureSASToken(httpClient, opts.SASKnownKey, opts.SASCustomURL)
		if err != nil {
			return nil, err
		}
		c.sasToken = token
	}

	return c, nil
}

func (c *Client) now() time.Time {
	if c.opts.Now != nil {
		return c.opts.Now()
	}
	return time.Now().UTC()
}

// Resolve turns a Request into a ResolvedPlan without downloading
// anything: the blob URLs (or byte-range-encoded URLs, when the
// request names index-filterable keywords like param/step/number),
// the local target path, and the resolved cycle datetime.
func (c *Client) Resolve(req *Request, useIndex bool) (*ResolvedPlan, error) {
	plan, err := c.resolve(req, c.now(), useIndex)
	if err != nil {
		return nil, err
	}
	plan.RequestID = uuid.NewString()
	return plan, nil
}

// Latest resolves the most recent cycle matching the request's
// keywords other than date (a time keyword fixes the cycle hour that is
// searched) and returns its date (YYYYMMDD) and cycle hour (two-digit
// string). It probes the candidate URLs but neither returns nor
// downloads them.
func (c *Client) Latest(req *Request) (date, hour string, err error) {
	r := req.Clone()
	if err := applyDefaults(r, c.opts.Model, c.opts.Resol); err != nil {
		return "", "", err
	}
	return c.latestInner(r, c.now())
}

// Retrieve resolves the request and downloads it to plan.Target,
// returning the resolved plan for inspection (size_bytes is tracked by
// the caller via the returned byte count).
func (c *Client) Retrieve(ctx context.Context, req *Request, useIndex bool) (*ResolvedPlan, int64, error) {
	plan, err := c.Resolve(req, useIndex)
	if err != nil {
		return nil, 0, err
	}
	n, err := c.Download(ctx, plan)
	if err != nil {
		return plan, n, err
	}
	return plan, n, nil
}

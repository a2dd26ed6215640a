package opendata

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// userAgent identifies this client to mirrors; every outbound probe,
// index, and blob request carries it.
const userAgent = "ecmwf-opendata-go/0.1"

// newUARequest builds a request with no body and the client's
// User-Agent header set.
func newUARequest(method, url string) (*http.Request, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// newTransport returns a connection-pooled, HTTP/2-capable transport
// tuned for repeated range GETs against the same few mirror hosts:
// prober HEAD/ranged-GET probes, the `.index` sidecar fetch, and the
// final ranged blob download all reuse one *http.Client built on this.
// insecureSkipVerify disables TLS certificate verification, for
// mirrors reachable only through a self-signed proxy.
func newTransport(insecureSkipVerify bool) *http.Transport {
	return &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify},
	}
}

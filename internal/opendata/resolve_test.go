package opendata

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestBuildURLsBetaRewritesResol(t *testing.T) {
	now := time.Date(2026, 7, 29, 6, 0, 0, 0, time.UTC)

	req := NewRequest().WithType("fc").WithStream("oper").WithStep("0").
		WithDate("20260729").WithTime("0").WithModel("ifs").WithResol("0p25")
	if err := applyDefaults(req, "ifs", "0p25"); err != nil {
		t.Fatalf("applyDefaults: %v", err)
	}

	plain := &Client{opts: ClientOptions{Model: "ifs", Resol: "0p25"}, baseURL: "https://example.test"}
	urls, _, _, _, err := plain.buildURLs(req, now)
	if err != nil {
		t.Fatalf("buildURLs: %v", err)
	}
	if len(urls) == 0 || strings.Contains(urls[0], "/experimental/") {
		t.Fatalf("expected no /experimental/ segment without Beta, got %v", urls)
	}

	beta := &Client{opts: ClientOptions{Model: "ifs", Resol: "0p25", Beta: true}, baseURL: "https://example.test"}
	urls, _, _, _, err = beta.buildURLs(req, now)
	if err != nil {
		t.Fatalf("buildURLs with Beta: %v", err)
	}
	if len(urls) == 0 {
		t.Fatal("expected at least one url")
	}
	for _, u := range urls {
		if !strings.Contains(u, "/0p25/experimental/") {
			t.Errorf("url %q missing /0p25/experimental/ segment with Beta set", u)
		}
	}
}

func TestNewClientHonorsVerifyTLS(t *testing.T) {
	c, err := NewClient(ClientOptions{Source: "ecmwf", VerifyTLS: false})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	transport, ok := c.http.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport is %T, want *http.Transport", c.http.Transport)
	}
	if transport.TLSClientConfig == nil || !transport.TLSClientConfig.InsecureSkipVerify {
		t.Error("VerifyTLS: false should set InsecureSkipVerify on the default transport")
	}

	secure, err := NewClient(ClientOptions{Source: "ecmwf", VerifyTLS: true})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	transport2 := secure.http.Transport.(*http.Transport)
	if transport2.TLSClientConfig != nil && transport2.TLSClientConfig.InsecureSkipVerify {
		t.Error("VerifyTLS: true should not set InsecureSkipVerify")
	}
}

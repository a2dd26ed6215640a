package main

import (
	"flag"
	"testing"
)

func TestBuildRequestSkipsUnsetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	rf := bindRequestFlags(fs)
	if err := fs.Parse([]string{"-type", "fc", "-step", "0/to/12/by/6"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	req := rf.buildRequest()
	if _, ok := req.Get("stream"); ok {
		t.Error("stream should be absent when not set on the command line")
	}
	v, ok := req.Get("type")
	if !ok || v.AsStrings()[0] != "fc" {
		t.Errorf("type = %v, want fc", v.AsStrings())
	}
}

func TestClientOptionsOverridesSource(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	rf := bindRequestFlags(fs)
	if err := fs.Parse([]string{"-model", "aifs-single"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	opts := rf.clientOptions("azure")
	if opts.Source != "azure" {
		t.Errorf("Source = %q, want azure", opts.Source)
	}
	if opts.Model != "aifs-single" {
		t.Errorf("Model = %q, want aifs-single", opts.Model)
	}
	if opts.Resol != "0p25" {
		t.Errorf("Resol = %q, want default 0p25", opts.Resol)
	}
}

// Package opendata implements a client for ECMWF-style Open Data forecast
// mirrors: it turns a MARS-like keyword request into blob URLs and byte
// ranges, then downloads the result.
package opendata

import "errors"

// Sentinel errors form the taxonomy callers can match against with
// errors.Is. Every error returned from this package wraps exactly one
// of these.
var (
	ErrInvalidRequest        = errors.New("opendata: invalid request")
	ErrTransport             = errors.New("opendata: transport error")
	ErrIO                    = errors.New("opendata: io error")
	ErrDecode                = errors.New("opendata: decode error")
	ErrNoMatchingIndex       = errors.New("opendata: no matching index entries")
	ErrCannotEstablishLatest = errors.New("opendata: cannot establish latest cycle")
)

package opendata

import "strings"

// sourceBaseURLs is the registry of named mirrors. A caller may also
// pass a verbatim http(s) URL instead of a name, bypassing this table.
var sourceBaseURLs = map[string]string{
	"ecmwf":         "https://data.ecmwf.int/forecasts",
	"azure":         "https://ai4edataeuwest.blob.core.windows.net/ecmwf",
	"aws":           "https://ecmwf-forecasts.s3.eu-central-1.amazonaws.com",
	"google":        "https://storage.googleapis.com/ecmwf-open-data",
	"ecmwf-esuites": "https://xdiss.ecmwf.int/ecpds/home/opendata",
}

func sourceToBaseURL(source string) (string, bool) {
	u, ok := sourceBaseURLs[source]
	return u, ok
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

package opendata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// knownSASEndpoints maps a short, memorable key to the service that
// mints short-lived Azure Blob SAS tokens for a mirror. "ecmwf" is the
// only mirror published through Azure today.
var knownSASEndpoints = map[string]string{
	"ecmwf": "https://planetarycomputer.microsoft.com/api/sas/v1/token/ecmwf",
}

// fetchAzureSASToken resolves a SAS token either from a known key or a
// caller-supplied endpoint, and extracts the "token" field of the JSON
// response. It is called once, at client construction time.
func fetchAzureSASToken(client *http.Client, knownKey, customURL string) (string, error) {
	endpoint := customURL
	if endpoint == "" {
		known, ok := knownSASEndpoints[knownKey]
		if !ok {
			return "", fmt.Errorf("%w: no known SAS endpoint for key %q", ErrInvalidRequest, knownKey)
		}
		endpoint = known
	}

	req, err := newUARequest(http.MethodGet, endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: building SAS token request: %v", ErrTransport, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching SAS token: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: SAS endpoint returned status %d", ErrTransport, resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decoding SAS response: %v", ErrDecode, err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("%w: SAS response missing token field", ErrDecode)
	}
	return payload.Token, nil
}

// applySASToURL appends the SAS token as a query string, unless the
// URL is already signed.
func applySASToURL(rawURL, token string) string {
	if token == "" || strings.Contains(rawURL, "sig=") {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + token
}

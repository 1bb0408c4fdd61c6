// Package source reads evaluation spreadsheets from disk or from a URL such as
// a published Google Sheets CSV export.
package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	fetchTimeout = 30 * time.Second
	// maxDownload bounds remote spreadsheets.
	maxDownload = 32 * 1024 * 1024
)

// Fetch retrieves raw spreadsheet bytes from a file path or an http(s) URL.
func Fetch(input string) (raw []byte, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	raw, err = FetchWithContext(ctx, input)
	return raw, err
}

// FetchWithContext retrieves raw spreadsheet bytes with context.
func FetchWithContext(ctx context.Context, input string) (raw []byte, err error) {
	if IsURL(input) {
		raw, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch spreadsheet from URL: %s", input)
			return raw, err
		}
		return raw, err
	}

	raw, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch spreadsheet from file: %s", input)
		return raw, err
	}

	return raw, err
}

// IsURL reports whether input names an http or https resource.
func IsURL(input string) (ok bool) {
	parsed, err := url.Parse(input)
	if err != nil {
		return ok
	}
	ok = parsed.Scheme == "http" || parsed.Scheme == "https"
	return ok
}

func fetchFromFile(path string) (raw []byte, err error) {
	raw, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return raw, err
	}

	if len(raw) == 0 {
		err = errors.New("file is empty")
		return raw, err
	}

	return raw, err
}

func fetchFromURL(ctx context.Context, urlStr string) (raw []byte, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return raw, err
	}

	req.Header.Set("User-Agent", "qualitrack/1.0")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	client := &http.Client{
		Timeout: fetchTimeout,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return raw, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return raw, err
	}

	// A sharing link that is not public answers with a sign-in page.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		err = errors.New("URL returned an HTML page, not a spreadsheet export")
		return raw, err
	}

	raw, err = io.ReadAll(io.LimitReader(resp.Body, maxDownload))
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return raw, err
	}

	if len(raw) == 0 {
		err = errors.New("fetched spreadsheet is empty")
		return raw, err
	}

	return raw, err
}

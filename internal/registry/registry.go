// Package registry looks up the version a distribution tag points at.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultURL is the public npm registry.
const DefaultURL = "https://registry.npmjs.org"

// abbreviated metadata is enough to read dist-tags and much smaller
const acceptHeader = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8, */*"

// ErrTagNotFound is returned when the package exists but has no such dist-tag.
var ErrTagNotFound = errors.New("dist-tag not found")

// ErrPackageNotFound is returned on a 404 from the registry.
var ErrPackageNotFound = errors.New("package not found")

// Client queries an npm-compatible registry.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client for baseURL, falling back to DefaultURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// packageURL escapes scoped names the way the npm CLI does (@scope%2fname).
func (c *Client) packageURL(name string) string {
	escaped := url.PathEscape(name)
	if strings.HasPrefix(name, "@") {
		escaped = "@" + url.PathEscape(name[1:])
	}
	return c.BaseURL + "/" + escaped
}

// LatestVersion returns the version that distTag currently points at.
func (c *Client) LatestVersion(ctx context.Context, name, distTag string) (string, error) {
	if distTag == "" {
		distTag = "latest"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.packageURL(name), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", name, ErrPackageNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("read registry response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("registry returned invalid JSON")
	}

	v := gjson.GetBytes(body, "dist-tags."+gjson.Escape(distTag))
	if !v.Exists() || v.String() == "" {
		return "", fmt.Errorf("%s@%s: %w", name, distTag, ErrTagNotFound)
	}
	return v.String(), nil
}

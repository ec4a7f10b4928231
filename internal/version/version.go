// Package version holds build metadata and checks GitHub for newer
// fargift releases.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Build metadata, overridden at link time with -ldflags.
//
//nolint:gochecknoglobals // Set by the linker
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Default release-check settings.
const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultTimeout   = 30 * time.Second
	releaseOwnerRepo = "fargift/fargift"

	maxResponseBodySize = 64 * 1024
)

// ErrReleaseCheckFailed is returned when the GitHub API request fails.
var ErrReleaseCheckFailed = errors.New("release check failed")

// Info describes the running build against the latest release.
type Info struct {
	Current string `json:"current"`
	Latest  string `json:"latest,omitempty"`
	IsNewer bool   `json:"update_available"`
}

// String returns the human-readable build string.
func String() string {
	return fmt.Sprintf("fargift %s (commit %s, built %s)", Version, Commit, Date)
}

// Client fetches release information from GitHub.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a release client with default settings.
func NewClient() *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

type release struct {
	TagName    string `json:"tag_name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// Latest returns the latest published release tag.
func (c *Client) Latest(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, releaseOwnerRepo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrReleaseCheckFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrReleaseCheckFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return "", fmt.Errorf("reading release response: %w", err)
	}

	var rel release
	if err := json.Unmarshal(body, &rel); err != nil {
		return "", fmt.Errorf("decoding release response: %w", err)
	}
	if rel.Draft || rel.Prerelease {
		return "", fmt.Errorf("%w: latest release is not published", ErrReleaseCheckFailed)
	}

	return rel.TagName, nil
}

// Check compares the running build against the latest release.
func (c *Client) Check(ctx context.Context) (Info, error) {
	info := Info{Current: Version}

	latest, err := c.Latest(ctx)
	if err != nil {
		return info, err
	}

	info.Latest = latest
	info.IsNewer = IsNewer(latest, Version)
	return info, nil
}

// IsNewer reports whether candidate is a strictly newer semantic version
// than current. Unparseable versions (like "dev") are never outdated.
func IsNewer(candidate, current string) bool {
	cd, okCandidate := parseSemver(candidate)
	cu, okCurrent := parseSemver(current)
	if !okCandidate || !okCurrent {
		return false
	}

	for i := 0; i < 3; i++ {
		if cd[i] != cu[i] {
			return cd[i] > cu[i]
		}
	}
	return false
}

func parseSemver(v string) ([3]int, bool) {
	var out [3]int

	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return out, false
	}

	// Ignore pre-release and build suffixes
	if idx := strings.IndexAny(v, "-+"); idx >= 0 {
		v = v[:idx]
	}

	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		return out, false
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}

	return out, true
}

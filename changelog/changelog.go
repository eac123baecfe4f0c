// Package changelog fetches the release notes of an extension version.
// Failures never affect settings; callers that only display the notes use
// Text, which degrades to an empty string.
package changelog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grovetools/wallprefs/logging"
	"github.com/sirupsen/logrus"
)

// Fetcher queries a GitHub-compatible releases API.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	repo       string
	userAgent  string
	logger     *logrus.Entry
}

// NewFetcher returns a fetcher for repo ("owner/name") at baseURL.
func NewFetcher(baseURL, repo string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		repo:       strings.Trim(repo, "/"),
		userAgent:  "wallprefs",
		logger:     logging.NewLogger("changelog"),
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func (f *Fetcher) WithUserAgent(ua string) *Fetcher {
	f.userAgent = ua
	return f
}

type release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Body    string `json:"body"`
}

// Fetch returns the release notes of version. A leading "v" is optional.
func (f *Fetcher) Fetch(ctx context.Context, version string) (string, error) {
	tag := "v" + strings.TrimPrefix(strings.TrimSpace(version), "v")
	url := fmt.Sprintf("%s/repos/%s/releases/tags/%s", f.baseURL, f.repo, tag)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch release %s: %w", tag, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release %s: server returned status %d", tag, resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", fmt.Errorf("failed to decode release %s: %w", tag, err)
	}
	return strings.TrimSpace(rel.Body), nil
}

// Text is Fetch with every failure absorbed: it logs at debug level and
// returns "".
func (f *Fetcher) Text(ctx context.Context, version string) string {
	text, err := f.Fetch(ctx, version)
	if err != nil {
		f.logger.WithError(err).WithField("version", version).Debug("Change log unavailable")
		return ""
	}
	return text
}

// Package gateway provides gateways to the WakaTime and GitHub APIs,
// abstracting away the underlying HTTP clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/wakabox/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// maxRateLimitSleep bounds how long a single secondary rate limit may stall a run.
const maxRateLimitSleep = 1 * time.Minute

// Publisher defines the behavior of a gateway for writing the report to a gist.
type Publisher interface {
	// UpdateGist replaces the content of the gist's first file and returns that file's name.
	UpdateGist(ctx context.Context, gistID, content string) (string, error)
}

// GistGateway is the concrete implementation of the Publisher interface.
type GistGateway struct {
	restClient *github.Client
	logger     *logrus.Logger
}

// NewGistGateway is a constructor that creates a new instance of GistGateway.
func NewGistGateway(token string, timeout time.Duration, logger *logrus.Logger) (*GistGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(maxRateLimitSleep, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GistGateway{
		restClient: github.NewClient(httpClient),
		logger:     logger,
	}, nil
}

// UpdateGist looks up the gist, picks the lexicographically smallest filename and
// overwrites that file's content. Every returned error wraps domain.ErrPublish.
func (g *GistGateway) UpdateGist(ctx context.Context, gistID, content string) (string, error) {
	g.logger.WithField("gist", gistID).Debug("Fetching gist metadata")
	gist, _, err := g.restClient.Gists.Get(ctx, gistID)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get gist %s: %w", domain.ErrPublish, gistID, err)
	}

	filename, ok := firstFilename(gist.Files)
	if !ok {
		return "", fmt.Errorf("%w: gist %s has no files", domain.ErrPublish, gistID)
	}

	edit := &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(filename): {Content: github.String(content)},
		},
	}
	if _, _, err := g.restClient.Gists.Edit(ctx, gistID, edit); err != nil {
		return "", fmt.Errorf("%w: failed to edit gist %s: %w", domain.ErrPublish, gistID, err)
	}

	g.logger.WithFields(logrus.Fields{"gist": gistID, "file": filename}).Debug("Completed gist update")
	return filename, nil
}

// firstFilename returns the smallest filename in byte order. The API returns
// files as a JSON object, so there is no service-defined order to rely on.
func firstFilename(files map[github.GistFilename]github.GistFile) (string, bool) {
	if len(files) == 0 {
		return "", false
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names[0], true
}

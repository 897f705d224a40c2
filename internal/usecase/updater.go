package usecase

import (
	"context"
	"errors"

	"github.com/naka-gawa/wakabox/internal/domain"
	"github.com/naka-gawa/wakabox/internal/gateway"
	"github.com/sirupsen/logrus"
)

// Updater is the use case for refreshing the gist with the latest stats.
// It sequences fetch, format and publish.
type Updater struct {
	fetcher   gateway.StatsFetcher
	publisher gateway.Publisher
	logger    *logrus.Logger
}

// NewUpdater creates a new Updater instance.
func NewUpdater(fetcher gateway.StatsFetcher, publisher gateway.Publisher, logger *logrus.Logger) *Updater {
	return &Updater{
		fetcher:   fetcher,
		publisher: publisher,
		logger:    logger,
	}
}

// Preview fetches and formats the report without publishing it.
// Failures are logged and returned.
func (u *Updater) Preview(ctx context.Context) (string, error) {
	u.logger.Debug("Fetching WakaTime statistics")
	s, err := u.fetcher.FetchStats(ctx)
	if err != nil {
		u.logFailure("fetch", err, "Failed to fetch stats")
		return "", err
	}

	u.logger.Debug("Preparing content for Gist")
	content, err := Format(s)
	if err != nil {
		u.logFailure("format", err, "Failed to prepare content")
		return "", err
	}

	if share, err := ShownShare(s.Languages); err == nil {
		u.logger.WithFields(logrus.Fields{
			"languages":   len(TopLanguages(s.Languages)),
			"shown_share": share,
		}).Debug("Content prepared")
	}
	return content, nil
}

// Run performs one full update. A failed stage is logged and ends the run;
// the error is returned so the caller can decide on the exit status.
func (u *Updater) Run(ctx context.Context, gistID string) error {
	content, err := u.Preview(ctx)
	if err != nil {
		return err
	}

	u.logger.Debug("Updating Gist with new content")
	filename, err := u.publisher.UpdateGist(ctx, gistID, content)
	if err != nil {
		u.logFailure("publish", err, "Failed to update Gist")
		return err
	}

	u.logger.WithFields(logrus.Fields{"gist": gistID, "file": filename}).Info("Gist updated successfully")
	return nil
}

func (u *Updater) logFailure(stage string, err error, msg string) {
	entry := u.logger.WithError(err).WithField("stage", stage)
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		entry = entry.WithField("status", apiErr.StatusCode)
	}
	entry.Error(msg)
}

package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/naka-gawa/wakabox/internal/domain"
	"github.com/sirupsen/logrus"
)

// StatsFetcher defines the behavior of a gateway for fetching coding stats.
type StatsFetcher interface {
	FetchStats(ctx context.Context) (*domain.Stats, error)
}

// WakaTimeGateway is the concrete implementation of the StatsFetcher interface.
type WakaTimeGateway struct {
	httpClient *http.Client
	statsURL   string
	apiKey     string
	logger     *logrus.Logger
}

// statsEnvelope mirrors the top-level shape of the stats response.
type statsEnvelope struct {
	Data *domain.Stats `json:"data"`
}

// NewWakaTimeGateway creates a gateway that queries statsURL with the given API key.
func NewWakaTimeGateway(statsURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *WakaTimeGateway {
	return &WakaTimeGateway{
		httpClient: &http.Client{Timeout: timeout},
		statsURL:   statsURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// FetchStats performs a single GET against the stats endpoint and returns the "data" object.
func (g *WakaTimeGateway) FetchStats(ctx context.Context) (*domain.Stats, error) {
	g.logger.WithField("url", g.statsURL).Debug("Fetching WakaTime statistics")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.statsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", domain.ErrFetch, err)
	}
	// The key itself is the encoded credential; no ":" separator is appended.
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(g.apiKey)))
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", domain.ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope statsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON response: %w", domain.ErrFetch, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: response has no \"data\" field", domain.ErrFetch)
	}

	g.logger.WithField("languages", len(envelope.Data.Languages)).Debug("Completed fetching WakaTime statistics")
	return envelope.Data, nil
}

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/naka-gawa/wakabox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWakaTimeGateway_FetchStats(t *testing.T) {
	testCases := []struct {
		name           string
		status         int
		body           string
		expected       *domain.Stats
		expectedStatus int
		expectedErrMsg string
	}{
		{
			name:   "happy path - returns the data object",
			status: http.StatusOK,
			body: `{"data":{"start":"2024-01-01T00:00:00Z","end":"2024-01-07T00:00:00Z","human_readable_total":"10 hrs 0 mins",
				"languages":[{"name":"Python","text":"8 hrs 0 mins","percent":80.0},{"name":"Go","text":"2 hrs 0 mins","percent":20.0}]}}`,
			expected: &domain.Stats{
				Start:              "2024-01-01T00:00:00Z",
				End:                "2024-01-07T00:00:00Z",
				HumanReadableTotal: "10 hrs 0 mins",
				Languages: []domain.Language{
					{Name: "Python", Text: "8 hrs 0 mins", Percent: 80},
					{Name: "Go", Text: "2 hrs 0 mins", Percent: 20},
				},
			},
		},
		{
			name:           "error case - non-success status",
			status:         http.StatusUnauthorized,
			body:           `{"error":"Unauthorized"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedErrMsg: "status 401",
		},
		{
			name:           "error case - invalid JSON",
			status:         http.StatusOK,
			body:           `<html>`,
			expectedErrMsg: "invalid JSON response",
		},
		{
			name:           "error case - missing data field",
			status:         http.StatusOK,
			body:           `{"message":"ok"}`,
			expectedErrMsg: `no "data" field`,
		},
		{
			name:           "error case - null data field",
			status:         http.StatusOK,
			body:           `{"data":null}`,
			expectedErrMsg: `no "data" field`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/stats/last_7_days", r.URL.Path)
				// base64("waka-key")
				assert.Equal(t, "Basic d2FrYS1rZXk=", r.Header.Get("Authorization"))
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}
			server := httptest.NewServer(http.HandlerFunc(handler))
			defer server.Close()

			gateway := NewWakaTimeGateway(server.URL+"/stats/last_7_days", "waka-key", 5*time.Second, discardLogger())
			stats, err := gateway.FetchStats(context.Background())

			if tc.expectedErrMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrFetch)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				assert.Nil(t, stats)
				if tc.expectedStatus != 0 {
					var apiErr *domain.APIError
					require.True(t, errors.As(err, &apiErr))
					assert.Equal(t, tc.expectedStatus, apiErr.StatusCode)
					assert.Equal(t, tc.body, apiErr.Body)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, stats)
		})
	}
}

func TestWakaTimeGateway_FetchStats_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	gateway := NewWakaTimeGateway(url, "waka-key", time.Second, discardLogger())
	_, err := gateway.FetchStats(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestWakaTimeGateway_FetchStats_FlagsMissingFields(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"start":"2024-01-01T00:00:00Z","end":"2024-01-07T00:00:00Z","languages":[{"name":"Go"}]}}`)
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	gateway := NewWakaTimeGateway(server.URL, "waka-key", 5*time.Second, discardLogger())
	stats, err := gateway.FetchStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"human_readable_total"}, stats.MissingFields())
	require.Len(t, stats.Languages, 1)
	assert.Equal(t, []string{"text", "percent"}, stats.Languages[0].MissingFields())
}

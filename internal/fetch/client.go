package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/types"
)

// ErrNotFound marks a 404 from the source API so the boundary layer can
// surface its "not found" state.
var ErrNotFound = errors.New("not found")

// Client retrieves surveys and responses from the source REST API and hands
// the engine plain, already-resolved data. All retry policy lives here; the
// engine itself never does I/O.
type Client struct {
	baseURL    string
	http       *http.Client
	maxElapsed time.Duration
	log        *logrus.Entry
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: timeout},
		maxElapsed: 45 * time.Second,
		log:        logger.Component("fetch-client"),
	}
}

// Survey fetches one survey definition by id.
func (c *Client) Survey(ctx context.Context, surveyID string) (types.Survey, error) {
	var out types.Survey
	err := c.getJSON(ctx, fmt.Sprintf("%s/surveys/%s", c.baseURL, surveyID), &out)
	return out, err
}

// Responses fetches the full response list for a survey.
func (c *Client) Responses(ctx context.Context, surveyID string) ([]types.Response, error) {
	var out []types.Response
	err := c.getJSON(ctx, fmt.Sprintf("%s/surveys/%s/responses", c.baseURL, surveyID), &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("source API not configured")
	}
	log := c.log.WithField("url", url)

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			log.WithError(err).Warn("fetch failed")
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			log.WithError(err).Warn("read body failed")
			return err
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			// Client errors won't heal on retry.
			return backoff.Permanent(fmt.Errorf("source API status %d", resp.StatusCode))
		case resp.StatusCode >= 500:
			return fmt.Errorf("source API status %d", resp.StatusCode)
		}

		if err := json.Unmarshal(body, out); err != nil {
			log.WithError(err).Warn("parse failed")
			return backoff.Permanent(fmt.Errorf("parse response: %w", err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxElapsed
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

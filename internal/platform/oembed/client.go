package oembed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lecturelab/lectura-backend/internal/platform/envutil"
	"github.com/lecturelab/lectura-backend/internal/platform/logger"
)

// Client looks up public video metadata. Lookups are best-effort; callers
// substitute a generic title when they fail.
type Client interface {
	LookupTitle(ctx context.Context, videoURL string) (string, error)
}

type client struct {
	log        *logger.Logger
	endpoint   string
	httpClient *http.Client
}

func New(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	endpoint := strings.TrimSpace(os.Getenv("OEMBED_ENDPOINT"))
	if endpoint == "" {
		endpoint = "https://www.youtube.com/oembed"
	}
	timeoutSec := envutil.Int("OEMBED_TIMEOUT_SECONDS", 10)

	return &client{
		log:        log.With("client", "OEmbedClient"),
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

func (c *client) LookupTitle(ctx context.Context, videoURL string) (string, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return "", fmt.Errorf("video url required")
	}

	q := url.Values{}
	q.Set("url", videoURL)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("oembed http %d", resp.StatusCode)
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("oembed decode: %w", err)
	}
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return "", fmt.Errorf("oembed response missing title")
	}
	return title, nil
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xolan/certtrack/internal/tracker"
)

var ErrMissingRemoteURL = errors.New("remote url is required for the http backend")

// HTTPStore talks to a json-server style remote that exposes the document
// at GET and PUT {base}/timeTrackerData.
type HTTPStore struct {
	endpoint string
	client   *http.Client
}

// NewHTTPStore returns a store for the remote at baseURL.
// A zero timeout uses DefaultHTTPTimeout.
func NewHTTPStore(baseURL string, timeout time.Duration) (*HTTPStore, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingRemoteURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid remote url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	return &HTTPStore{
		endpoint: baseURL + "/" + DocumentKey,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Location implements Store.
func (s *HTTPStore) Location() string {
	return "http " + s.endpoint
}

// Close implements Store.
func (s *HTTPStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// Load fetches the document. A 404 is the empty document.
func (s *HTTPStore) Load(ctx context.Context) (tracker.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return EmptyDocument(), err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return EmptyDocument(), fmt.Errorf("failed to fetch tracker document: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return EmptyDocument(), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return EmptyDocument(), err
	}
	if resp.StatusCode != http.StatusOK {
		return EmptyDocument(), fmt.Errorf("failed to fetch tracker document: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return decodeDocument(body)
}

// Save replaces the remote document.
func (s *HTTPStore) Save(ctx context.Context, doc tracker.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to save tracker document: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("failed to save tracker document: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

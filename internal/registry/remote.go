package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aevon-lab/piecesync/internal/core/piece"
)

const defaultRequestTimeout = 30 * time.Second

// StatusError is a non-success registry response. Its message is the response body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return e.Body
}

// RemoteOptions configures a RemoteSource.
type RemoteOptions struct {
	BaseURL string
	Edition string
	Release string
	Timeout time.Duration
	Client  *http.Client
}

// RemoteSource reads pieces from a remote registry over HTTP.
type RemoteSource struct {
	baseURL string
	edition string
	release string
	client  *http.Client
}

// NewRemoteSource validates the base URL and builds the source.
func NewRemoteSource(opts RemoteOptions) (*RemoteSource, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid registry url %q", opts.BaseURL)
	}
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &RemoteSource{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		edition: opts.Edition,
		release: opts.Release,
		client:  client,
	}, nil
}

func (s *RemoteSource) IsLocal() bool { return false }

// List issues GET <base>?edition=&release=. A 410 Gone means "no pieces".
func (s *RemoteSource) List(ctx context.Context) ([]piece.Summary, error) {
	q := url.Values{}
	q.Set("edition", s.edition)
	q.Set("release", s.release)

	status, body, err := s.get(ctx, s.baseURL, q)
	if err != nil {
		return nil, err
	}
	if status == http.StatusGone {
		slog.Info("[Registry] Registry reports no pieces for release", "release", s.release, "edition", s.edition)
		return []piece.Summary{}, nil
	}
	if status != http.StatusOK {
		return nil, &StatusError{StatusCode: status, Body: string(body)}
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var single piece.Summary
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, fmt.Errorf("decode piece summary: %w", err)
		}
		return []piece.Summary{single}, nil
	}

	var summaries []piece.Summary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("decode piece summaries: %w", err)
	}
	return summaries, nil
}

// ListVersions issues GET <base>/versions?edition=&release=&name= and
// validates the body against the versions schema.
func (s *RemoteSource) ListVersions(ctx context.Context, name string) (VersionMap, error) {
	q := url.Values{}
	q.Set("edition", s.edition)
	q.Set("release", s.release)
	q.Set("name", name)

	status, body, err := s.get(ctx, s.baseURL+"/versions", q)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{StatusCode: status, Body: string(body)}
	}

	if err := validateBody(body, versionsSchema); err != nil {
		return nil, fmt.Errorf("versions response for %s failed validation: %w", name, err)
	}

	var versions VersionMap
	if err := json.Unmarshal(body, &versions); err != nil {
		return nil, fmt.Errorf("decode versions: %w", err)
	}
	return versions, nil
}

// Fetch issues GET <base>/<name>[?version=]. The body is validated against a
// minimal metadata schema before decoding.
func (s *RemoteSource) Fetch(ctx context.Context, name, version string) (*piece.Metadata, error) {
	q := url.Values{}
	if version != "" {
		q.Set("version", version)
	}

	status, body, err := s.get(ctx, s.baseURL+"/"+url.PathEscape(name), q)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s@%s", ErrPieceNotFound, name, version)
	}
	if status != http.StatusOK {
		return nil, &StatusError{StatusCode: status, Body: string(body)}
	}

	if err := validateBody(body, metadataSchema); err != nil {
		return nil, fmt.Errorf("metadata response for %s@%s failed validation: %w", name, version, err)
	}

	var m piece.Metadata
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode piece metadata: %w", err)
	}
	return &m, nil
}

func (s *RemoteSource) get(ctx context.Context, rawURL string, q url.Values) (int, []byte, error) {
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

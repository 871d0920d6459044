package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

const (
	// DefaultHeaderTimeout bounds the wait for response headers. The body is
	// only bounded by the caller's context, since a tarball may take long.
	DefaultHeaderTimeout = time.Minute
	maxRedirects         = 10
)

// NewHTTPClient creates the client used for archive downloads. GitHub answers
// tarball requests with a redirect to its codeload host.
func NewHTTPClient(headerTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// HTTPArchiveRepository opens source archive downloads over HTTP.
// It performs no retries: a failed download is reported as is.
type HTTPArchiveRepository struct {
	client   *http.Client
	settings *entities.Settings
}

// NewHTTPArchiveRepository creates an archive repository. A nil client uses
// NewHTTPClient with DefaultHeaderTimeout.
func NewHTTPArchiveRepository(settings *entities.Settings, client *http.Client) repositories.ArchiveRepository {
	if client == nil {
		client = NewHTTPClient(DefaultHeaderTimeout)
	}
	return &HTTPArchiveRepository{client: client, settings: settings}
}

// Open sends the request and returns a session over the response body once a
// success status arrived. The caller owns the session and must close it.
func (r *HTTPArchiveRepository) Open(ctx context.Context, version string) (*entities.DownloadSession, error) {
	url := r.settings.ArchiveURLFor(version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, entities.NewOperationError("download", url, entities.ErrTransport, err)
	}
	req.Header.Set("User-Agent", r.settings.UserAgent)
	if r.settings.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.settings.Token)
	}

	resp, err := r.client.Do(req) //nolint:bodyclose // owned by the returned session
	if err != nil {
		return nil, entities.NewOperationError("download", url, entities.ErrTransport, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, entities.NewOperationError("download", url, entities.ErrTransport,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	// the declared length is untrusted, the session clamps the hint
	capacity := max(int64(r.settings.MinArchiveSize), resp.ContentLength)
	return entities.NewDownloadSession(url, resp.Body, capacity), nil
}

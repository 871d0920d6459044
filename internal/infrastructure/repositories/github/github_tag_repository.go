package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// GitHubTagRepository implements repositories.TagRepository over the GitHub
// REST API. Pages are requested one at a time and decoded into entities.Tag,
// which keeps node_id, a field the typed go-github tag listing drops.
type GitHubTagRepository struct {
	client     *gh.Client
	owner      string
	repository string
	perPage    int
}

// NewGitHubTagRepository creates a tag repository for settings.Owner/settings.Repository.
// A nil httpClient uses http.DefaultClient.
func NewGitHubTagRepository(
	settings *entities.Settings,
	httpClient *http.Client,
) (repositories.TagRepository, error) {
	client := gh.NewClient(httpClient)
	if settings.Token != "" {
		client = client.WithAuthToken(settings.Token)
	}

	baseURL, err := url.Parse(settings.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api_url %q: %w", settings.APIURL, err)
	}
	client.BaseURL = baseURL
	if settings.UserAgent != "" {
		client.UserAgent = settings.UserAgent
	}

	return &GitHubTagRepository{
		client:     client,
		owner:      settings.Owner,
		repository: settings.Repository,
		perPage:    settings.PageSize,
	}, nil
}

// ListTags fetches one page. A 404 means the listing has no such page and is
// reported as entities.ErrNoMorePages; every other failure status is a
// transport failure and a malformed body a decode failure.
func (r *GitHubTagRepository) ListTags(ctx context.Context, page int) ([]entities.Tag, error) {
	subject := fmt.Sprintf("%s/%s page %d", r.owner, r.repository, page)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(r.perPage))
	path := fmt.Sprintf("repos/%s/%s/tags?%s", r.owner, r.repository, query.Encode())

	req, err := r.client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, entities.NewOperationError("list tags", subject, entities.ErrTransport, err)
	}

	var tags []entities.Tag
	if _, err = r.client.Do(ctx, req, &tags); err != nil {
		return nil, classify(subject, err)
	}

	logger.Debugf("Listed %d tags on %s", len(tags), subject)
	return tags, nil
}

func classify(subject string, err error) error {
	var responseErr *gh.ErrorResponse
	if errors.As(err, &responseErr) && responseErr.Response != nil &&
		responseErr.Response.StatusCode == http.StatusNotFound {
		return entities.NewOperationError("list tags", subject, entities.ErrNoMorePages, nil)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return entities.NewOperationError("list tags", subject, entities.ErrDecode, err)
	}

	return entities.NewOperationError("list tags", subject, entities.ErrTransport, err)
}

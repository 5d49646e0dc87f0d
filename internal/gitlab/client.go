// Package gitlab provides functionality for reading issues from the GitLab REST API.
package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/oauth2"

	"github.com/danielolaszy/glissues/internal/apperr"
	"github.com/danielolaszy/glissues/internal/filter"
	"github.com/danielolaszy/glissues/internal/logging"
)

// AuthMethod selects how the token is presented to GitLab.
type AuthMethod string

const (
	// AuthBearer sends "Authorization: Bearer <token>" through an oauth2 transport.
	AuthBearer AuthMethod = "bearer"
	// AuthPrivateToken sends the token in the PRIVATE-TOKEN header.
	AuthPrivateToken AuthMethod = "private-token"
)

const (
	// DefaultBaseURL is used when no GitLab URL is configured.
	DefaultBaseURL = "https://gitlab.com"
	// MaxPerPage is the largest page size GitLab accepts.
	MaxPerPage = 100
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	ProjectID  string
	Token      string
	AuthMethod AuthMethod
	PerPage    int
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration
}

// Client lists the issues of one GitLab project.
type Client struct {
	api       *gitlab.Client
	baseURL   string
	projectID string
	perPage   int
}

// NewClient validates opts and builds a Client with an HTTP client matching
// the auth method. Bearer auth goes through an oauth2 static token source.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.AuthMethod == "" {
		opts.AuthMethod = AuthBearer
	}

	var httpClient *http.Client
	switch opts.AuthMethod {
	case AuthBearer:
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	case AuthPrivateToken:
		httpClient = &http.Client{}
	default:
		return nil, apperr.New(apperr.KindConfig, "unknown auth method %q, expected %q or %q",
			opts.AuthMethod, AuthBearer, AuthPrivateToken)
	}
	httpClient.Timeout = opts.Timeout

	return NewClientWithHTTP(opts, httpClient)
}

// NewClientWithHTTP builds a Client whose requests go through httpClient.
// Retries are disabled so every page gets exactly one attempt.
func NewClientWithHTTP(opts Options, httpClient *http.Client) (*Client, error) {
	baseURL, err := normalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	projectID := strings.TrimSpace(opts.ProjectID)
	if projectID == "" {
		return nil, apperr.New(apperr.KindConfig, "project id is empty")
	}
	if opts.Token == "" {
		return nil, apperr.New(apperr.KindConfig, "gitlab token is empty")
	}

	perPage := opts.PerPage
	if perPage == 0 {
		perPage = MaxPerPage
	}
	if perPage < 1 || perPage > MaxPerPage {
		return nil, apperr.New(apperr.KindConfig, "per_page must be between 1 and %d, got %d", MaxPerPage, perPage)
	}

	authMethod := opts.AuthMethod
	if authMethod == "" {
		authMethod = AuthBearer
	}

	clientOpts := []gitlab.ClientOptionFunc{
		gitlab.WithBaseURL(baseURL),
		gitlab.WithHTTPClient(httpClient),
		gitlab.WithCustomRetryMax(0),
	}

	var api *gitlab.Client
	switch authMethod {
	case AuthBearer:
		api, err = gitlab.NewOAuthClient(opts.Token, clientOpts...)
	case AuthPrivateToken:
		api, err = gitlab.NewClient(opts.Token, clientOpts...)
	default:
		return nil, apperr.New(apperr.KindConfig, "unknown auth method %q, expected %q or %q",
			authMethod, AuthBearer, AuthPrivateToken)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, err, "failed to create gitlab client")
	}

	logging.Debug("gitlab configuration",
		"base_url", baseURL,
		"project_id", projectID,
		"auth_method", authMethod,
		"per_page", perPage,
		"token", logging.MaskSensitive(opts.Token))

	return &Client{
		api:       api,
		baseURL:   baseURL,
		projectID: projectID,
		perPage:   perPage,
	}, nil
}

// normalizeBaseURL defaults an empty URL and strips a trailing slash or
// /api/v4 suffix. The API client appends /api/v4/ itself.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", apperr.Wrap(apperr.KindConfig, err, "invalid gitlab url %q", raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.New(apperr.KindConfig, "invalid gitlab url %q, expected http(s)://host", raw)
	}

	trimmed := strings.TrimRight(raw, "/")
	trimmed = strings.TrimSuffix(trimmed, "/api/v4")
	return trimmed, nil
}

// ListIssues retrieves every issue of the project created inside r, in the
// order GitLab returns them. Pages are requested one at a time until an empty
// or short page arrives. A failure on any page discards everything fetched so
// far.
func (c *Client) ListIssues(ctx context.Context, r filter.Range) ([]*Issue, error) {
	opt := &gitlab.ListProjectIssuesOptions{
		ListOptions:   gitlab.ListOptions{PerPage: c.perPage},
		State:         gitlab.Ptr("all"),
		CreatedAfter:  r.CreatedAfter(),
		CreatedBefore: r.CreatedBefore(),
	}

	logging.Info("fetching gitlab issues",
		"project_id", c.projectID,
		"range", r.String())

	var all []*Issue
	for page := 1; ; page++ {
		opt.Page = page

		batch, _, err := c.api.Issues.ListProjectIssues(c.projectID, opt, gitlab.WithContext(ctx))
		if err != nil {
			return nil, c.classify(err, page)
		}
		all = append(all, batch...)

		logging.Debug("fetched issues page",
			"page", page,
			"page_count", len(batch),
			"total_count", len(all))

		if len(batch) < c.perPage {
			break
		}
	}

	logging.Info("fetched gitlab issues", "project_id", c.projectID, "count", len(all))
	return all, nil
}

// classify maps a failed page request onto the error kinds.
func (c *Client) classify(err error, page int) error {
	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		status := errResp.Response.StatusCode
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return apperr.New(apperr.KindAuthentication, "gitlab rejected the token (status %d): %s",
				status, snippet(errResp.Message))
		case status == http.StatusNotFound:
			return apperr.New(apperr.KindNotFound, "project %q not found at %s", c.projectID, c.baseURL)
		default:
			return apperr.New(apperr.KindNetwork, "gitlab returned status %d for issues page %d: %s",
				status, page, snippet(errResp.Message))
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperr.Wrap(apperr.KindMalformed, err, "failed to decode issues page %d", page)
	}

	return apperr.Wrap(apperr.KindNetwork, err, "request for issues page %d failed", page)
}

// snippet shortens an error body to at most 200 bytes for messages.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200]
	}
	return s
}

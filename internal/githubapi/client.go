// Package githubapi wraps the GitHub REST API calls mergebot needs.
package githubapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const defaultRequestTimeout = 30 * time.Second

// errNilClient is returned by methods called on a nil *Client.
var errNilClient = errors.New("github client is nil")

// Options configures NewClient. An empty Token means anonymous access and a
// zero Timeout uses 30s per request.
type Options struct {
	Token   string
	APIURL  string
	Timeout time.Duration
}

type Client struct {
	logger *slog.Logger
	rest   *github.Client
}

func NewClient(logger *slog.Logger, opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	var httpClient *http.Client
	if strings.TrimSpace(opts.Token) == "" {
		httpClient = &http.Client{}
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(opts.Token)})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = timeout

	rest := github.NewClient(httpClient)
	if apiURL := strings.TrimSpace(opts.APIURL); apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.APIURL, err)
		}
		if base.Scheme == "" || base.Host == "" {
			return nil, fmt.Errorf("invalid GitHub API URL %q: scheme and host are required", opts.APIURL)
		}
		rest.BaseURL = base
	}

	return &Client{logger: logger, rest: rest}, nil
}

// ParseRepository splits an owner/repo slug.
func ParseRepository(slug string) (owner, name string, err error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", "", fmt.Errorf("repository is empty")
	}
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("invalid repository slug %q, expected owner/repo", slug)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// ListPullRequestsWithCommit returns the pull requests GitHub associates with sha,
// in API order. Only the first page is fetched.
func (c *Client) ListPullRequestsWithCommit(ctx context.Context, owner, repo, sha string) ([]PullRequest, error) {
	if c == nil {
		return nil, errNilClient
	}
	if c.logger != nil {
		c.logger.Debug("listing pull requests for commit", "owner", owner, "repo", repo, "sha", sha)
	}

	prs, _, err := c.rest.PullRequests.ListPullRequestsWithCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("list pull requests for commit %s in %s/%s: %w", sha, owner, repo, err)
	}

	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr == nil {
			continue
		}
		out = append(out, PullRequest{
			Number:  pr.GetNumber(),
			Title:   pr.GetTitle(),
			State:   pr.GetState(),
			HTMLURL: pr.GetHTMLURL(),
		})
	}
	return out, nil
}

// CreateIssueComment posts body as a new comment on issue or pull request number.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*IssueComment, error) {
	if c == nil {
		return nil, errNilClient
	}
	if number <= 0 {
		return nil, fmt.Errorf("issue number must be positive")
	}
	if c.logger != nil {
		c.logger.Debug("creating issue comment", "owner", owner, "repo", repo, "issue", number)
	}

	comment, _, err := c.rest.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a comment on pull request #%d: %w", number, err)
	}

	return &IssueComment{
		ID:      comment.GetID(),
		HTMLURL: comment.GetHTMLURL(),
	}, nil
}

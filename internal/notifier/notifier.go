// Package notifier posts a merge build summary to the pull request a commit belongs to.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codex-k8s/mergebot/internal/githubapi"
	"github.com/codex-k8s/mergebot/internal/logging"
)

// ErrConfiguration marks wiring mistakes by the caller (missing client or repository).
var ErrConfiguration = errors.New("configuration error")

// Skip reasons reported in Result.SkipReason.
const (
	SkipNoVersion = "no-version"
	SkipNoSHA     = "no-sha"
	SkipNoPR      = "no-pr"
)

// RepoClient is the part of the GitHub API Notify depends on.
type RepoClient interface {
	ListPullRequestsWithCommit(ctx context.Context, owner, repo, sha string) ([]githubapi.PullRequest, error)
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*githubapi.IssueComment, error)
}

// RepoContext identifies the target repository.
type RepoContext struct {
	Owner string
	Repo  string
}

func (r *RepoContext) defined() bool {
	return r != nil && strings.TrimSpace(r.Owner) != "" && strings.TrimSpace(r.Repo) != ""
}

// Params are the per-build inputs. Empty strings mean "not provided".
type Params struct {
	Version string
	SHA     string
	// The run line is added only when RunID is set.
	RunID     string
	RunName   string
	RunResult string
	RepoURL   string
}

// Result describes what Notify did.
type Result struct {
	Posted     bool
	SkipReason string
	PRCount    int
	PRNumber   int
	CommentURL string
	Body       string
}

// Notify finds the first pull request associated with params.SHA and posts a
// merge build comment on it.
//
// A nil client or an undefined repo returns an error wrapping ErrConfiguration.
// A missing version or SHA, or a commit without pull requests, is not an
// error: Notify logs it and returns a Result with SkipReason set. Errors from
// client are returned unchanged. Every call posts a new comment.
func Notify(ctx context.Context, logger *slog.Logger, client RepoClient, repo *RepoContext, params Params) (Result, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if client == nil {
		return Result{}, fmt.Errorf("%w: github client not defined", ErrConfiguration)
	}
	if c, ok := client.(*githubapi.Client); ok && c == nil {
		return Result{}, fmt.Errorf("%w: github client not defined", ErrConfiguration)
	}
	if !repo.defined() {
		return Result{}, fmt.Errorf("%w: repository context not defined", ErrConfiguration)
	}

	// Version and SHA are used verbatim; only the empty string counts as missing.
	if params.Version == "" {
		logger.Info("no version found, skipping")
		return Result{SkipReason: SkipNoVersion}, nil
	}
	logger.Info("build version", "version", params.Version)

	sha := params.SHA
	if sha == "" {
		logger.Info("no git SHA found, skipping")
		return Result{SkipReason: SkipNoSHA}, nil
	}
	logger.Info("commit", "sha", sha)

	prs, err := client.ListPullRequestsWithCommit(ctx, repo.Owner, repo.Repo, sha)
	if err != nil {
		return Result{}, err
	}
	if len(prs) == 0 {
		logger.Info("no PR found, skipping", "sha", sha)
		return Result{SkipReason: SkipNoPR}, nil
	}
	logger.Info("found associated pull requests", "count", len(prs))
	pr := prs[0]

	if params.RunID != "" {
		logger.Info("appending run result and URL", "run_id", params.RunID)
	} else {
		logger.Info("no run ID found, skipping run result and URL")
	}
	body, err := RenderBody(params)
	if err != nil {
		return Result{}, err
	}

	logger.Info("commenting on first PR", "pr", pr.Number)
	comment, err := client.CreateIssueComment(ctx, repo.Owner, repo.Repo, pr.Number, body)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Posted:   true,
		PRCount:  len(prs),
		PRNumber: pr.Number,
		Body:     body,
	}
	if comment != nil {
		res.CommentURL = comment.HTMLURL
	}
	return res, nil
}

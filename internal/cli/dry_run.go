package cli

import (
	"context"
	"log/slog"

	"github.com/codex-k8s/mergebot/internal/githubapi"
	"github.com/codex-k8s/mergebot/internal/notifier"
)

// dryRunClient queries GitHub through the wrapped client but only logs comments.
type dryRunClient struct {
	notifier.RepoClient
	logger *slog.Logger
}

func (c dryRunClient) CreateIssueComment(_ context.Context, owner, repo string, number int, body string) (*githubapi.IssueComment, error) {
	c.logger.Info("dry run: comment not created",
		"repo", owner+"/"+repo,
		"pr", number,
		"body", body,
	)
	return &githubapi.IssueComment{}, nil
}

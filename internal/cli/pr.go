package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codex-k8s/mergebot/internal/config"
	"github.com/codex-k8s/mergebot/internal/ghoutput"
	"github.com/codex-k8s/mergebot/internal/githubapi"
	"github.com/codex-k8s/mergebot/internal/notifier"
)

const (
	defaultServerURL      = "https://github.com"
	defaultCommentTimeout = 60 * time.Second
)

// newPRCommand creates the "pr" group command with pull request helpers.
func newPRCommand() *cobra.Command {
	return newGroupCommand(
		"pr",
		"Helpers for Pull Request workflows",
		newMergeCommentCommand(),
	)
}

// newMergeCommentCommand creates "pr merge-comment" that reports a finished merge
// build on the pull request associated with the merge commit.
func newMergeCommentCommand() *cobra.Command {
	var (
		version   string
		sha       string
		runID     string
		runName   string
		runResult string
		repoURL   string
		repoSlug  string
		apiURL    string
		timeout   time.Duration
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "merge-comment",
		Short: "Comment the merge build result on the pull request of a commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			rt := runtimeFromContext(cmd.Context())

			envVars := mergeCommentEnv{}
			if err := parseEnv(&envVars, rt.vars); err != nil {
				return err
			}
			ghEnv := actionsEnv{}
			if err := parseEnv(&ghEnv, rt.vars); err != nil {
				return err
			}

			if !cmd.Flags().Changed("version") && rt.vars.Present("MERGEBOT_VERSION") {
				version = envVars.Version
			}
			if !cmd.Flags().Changed("sha") && rt.vars.Present("MERGEBOT_SHA") {
				sha = envVars.SHA
			}
			if !cmd.Flags().Changed("run-id") && rt.vars.Present("MERGEBOT_RUN_ID") {
				runID = envVars.RunID
			}
			if !cmd.Flags().Changed("run-name") && rt.vars.Present("MERGEBOT_RUN_NAME") {
				runName = envVars.RunName
			}
			if !cmd.Flags().Changed("run-result") && rt.vars.Present("MERGEBOT_RUN_RESULT") {
				runResult = envVars.RunResult
			}
			if !cmd.Flags().Changed("dry-run") && rt.vars.Present("MERGEBOT_DRY_RUN") {
				dryRun = envVars.DryRun
			}

			if !cmd.Flags().Changed("repo") {
				repoSlug = firstNonEmpty(envVars.Repo, ghEnv.Repository, rt.cfg.Repository)
			}
			if strings.TrimSpace(repoSlug) == "" {
				return fmt.Errorf("%w: merge-comment requires --repo, MERGEBOT_REPO or GITHUB_REPOSITORY", notifier.ErrConfiguration)
			}
			owner, name, err := githubapi.ParseRepository(repoSlug)
			if err != nil {
				return fmt.Errorf("%w: %v", notifier.ErrConfiguration, err)
			}

			if !cmd.Flags().Changed("repo-url") {
				repoURL = envVars.RepoURL
				if strings.TrimSpace(repoURL) == "" {
					repoURL = rt.cfg.RepoURL
				}
				if strings.TrimSpace(repoURL) == "" {
					serverURL := firstNonEmpty(ghEnv.ServerURL, rt.cfg.ServerURL, defaultServerURL)
					repoURL = strings.TrimSuffix(serverURL, "/") + "/" + owner + "/" + name
				}
			}
			if !cmd.Flags().Changed("api-url") {
				apiURL = firstNonEmpty(ghEnv.APIURL, rt.cfg.APIURL)
			}
			if !cmd.Flags().Changed("timeout") {
				resolved, err := resolveTimeout(envVars.Timeout, rt.cfg)
				if err != nil {
					return err
				}
				timeout = resolved
			} else if timeout <= 0 {
				return fmt.Errorf("--timeout must be positive, got %s", timeout)
			}

			token, ok := lookupGitHubToken(rt.vars)
			if !ok {
				return fmt.Errorf("%w: GitHub token is required; set MERGEBOT_GH_TOKEN or GH_TOKEN or GITHUB_TOKEN", notifier.ErrConfiguration)
			}

			ghClient, err := githubapi.NewClient(logger, githubapi.Options{Token: token, APIURL: apiURL})
			if err != nil {
				return fmt.Errorf("%w: %v", notifier.ErrConfiguration, err)
			}
			var client notifier.RepoClient = ghClient
			if dryRun {
				client = dryRunClient{RepoClient: ghClient, logger: logger}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			logger.Debug("resolved merge comment inputs",
				"repo", owner+"/"+name,
				"repo_url", repoURL,
				"api_url", apiURL,
				"dry_run", dryRun,
			)

			res, err := notifier.Notify(ctx, logger, client, &notifier.RepoContext{Owner: owner, Repo: name}, notifier.Params{
				Version:   version,
				SHA:       sha,
				RunID:     runID,
				RunName:   runName,
				RunResult: runResult,
				RepoURL:   repoURL,
			})
			if err != nil {
				return err
			}

			return reportMergeComment(cmd, logger, res, dryRun)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Build version to report (defaults to MERGEBOT_VERSION)")
	cmd.Flags().StringVar(&sha, "sha", "", "Merge commit SHA used to find the pull request (defaults to MERGEBOT_SHA)")
	cmd.Flags().StringVar(&runID, "run-id", "", "Workflow run ID to link (defaults to MERGEBOT_RUN_ID)")
	cmd.Flags().StringVar(&runName, "run-name", "", "Workflow run display name (defaults to MERGEBOT_RUN_NAME)")
	cmd.Flags().StringVar(&runResult, "run-result", "", "Workflow run result, e.g. success (defaults to MERGEBOT_RUN_RESULT)")
	cmd.Flags().StringVar(&repoURL, "repo-url", "", "Repository web URL for run links (defaults to GITHUB_SERVER_URL/GITHUB_REPOSITORY)")
	cmd.Flags().StringVar(&repoSlug, "repo", "", "Repository in owner/name form (defaults to GITHUB_REPOSITORY)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "GitHub REST API base URL (defaults to GITHUB_API_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultCommentTimeout, "Overall timeout for the GitHub calls")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Look up the pull request but only log the comment")

	return cmd
}

// reportMergeComment publishes the outcome as step outputs, job summary and stdout.
func reportMergeComment(cmd *cobra.Command, logger *slog.Logger, res notifier.Result, dryRun bool) error {
	outputs := map[string]string{
		"commented":   strconv.FormatBool(res.Posted && !dryRun),
		"skip_reason": res.SkipReason,
		"comment_url": res.CommentURL,
	}
	if res.PRNumber > 0 {
		outputs["pr_number"] = strconv.Itoa(res.PRNumber)
	}
	if err := ghoutput.Write(outputs); err != nil {
		return fmt.Errorf("write step outputs: %w", err)
	}

	if !res.Posted {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "commented: false\nskip_reason: %s\n", res.SkipReason)
		return err
	}

	if !dryRun {
		summary := fmt.Sprintf("Commented on pull request #%d:\n\n%s\n", res.PRNumber, res.Body)
		if err := ghoutput.AppendSummary(summary); err != nil {
			return fmt.Errorf("write step summary: %w", err)
		}
		logger.Info("merge build comment posted", "pr", res.PRNumber, "url", res.CommentURL)
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "commented: %t\npr_number: %d\ncomment_url: %s\n", !dryRun, res.PRNumber, res.CommentURL)
	return err
}

// resolveTimeout prefers MERGEBOT_TIMEOUT over the config file and falls back to the default.
func resolveTimeout(envValue string, cfg *config.Config) (time.Duration, error) {
	d, err := config.ParseTimeout(envValue)
	if err != nil || d > 0 {
		return d, err
	}
	d, err = cfg.TimeoutDuration()
	if err != nil || d > 0 {
		return d, err
	}
	return defaultCommentTimeout, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

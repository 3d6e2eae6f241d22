package cli

import (
	envparse "github.com/caarlos0/env/v11"

	"github.com/codex-k8s/mergebot/internal/env"
)

// baseEnv defines root CLI defaults sourced from the process environment.
type baseEnv struct {
	// ConfigPath is the mergebot.yaml path from MERGEBOT_CONFIG.
	ConfigPath string `env:"MERGEBOT_CONFIG"`
}

// mergeCommentEnv captures inputs for "pr merge-comment".
type mergeCommentEnv struct {
	// Version is the build version from MERGEBOT_VERSION.
	Version string `env:"MERGEBOT_VERSION"`
	// SHA is the merge commit from MERGEBOT_SHA.
	SHA string `env:"MERGEBOT_SHA"`
	// RunID is the workflow run ID from MERGEBOT_RUN_ID.
	RunID string `env:"MERGEBOT_RUN_ID"`
	// RunName is the workflow run display name from MERGEBOT_RUN_NAME.
	RunName string `env:"MERGEBOT_RUN_NAME"`
	// RunResult is the workflow run conclusion from MERGEBOT_RUN_RESULT.
	RunResult string `env:"MERGEBOT_RUN_RESULT"`
	// RepoURL is the link base URL from MERGEBOT_REPO_URL.
	RepoURL string `env:"MERGEBOT_REPO_URL"`
	// Repo is the repository slug from MERGEBOT_REPO.
	Repo string `env:"MERGEBOT_REPO"`
	// Timeout bounds the operation, from MERGEBOT_TIMEOUT.
	Timeout string `env:"MERGEBOT_TIMEOUT"`
	// DryRun disables comment creation, from MERGEBOT_DRY_RUN.
	DryRun bool `env:"MERGEBOT_DRY_RUN"`
}

// actionsEnv holds the variables GitHub Actions sets for every step.
type actionsEnv struct {
	// Repository is the owner/name slug from GITHUB_REPOSITORY.
	Repository string `env:"GITHUB_REPOSITORY"`
	// ServerURL is the web URL from GITHUB_SERVER_URL.
	ServerURL string `env:"GITHUB_SERVER_URL"`
	// APIURL is the REST base URL from GITHUB_API_URL.
	APIURL string `env:"GITHUB_API_URL"`
}

// parseEnv fills target from vars via caarlos0/env.
func parseEnv(target any, vars env.Vars) error {
	return envparse.ParseWithOptions(target, envparse.Options{
		Environment: map[string]string(vars),
	})
}

// lookupGitHubToken returns the first non-empty token variable.
func lookupGitHubToken(vars env.Vars) (string, bool) {
	token := vars.First("MERGEBOT_GH_TOKEN", "GH_TOKEN", "GITHUB_TOKEN")
	return token, token != ""
}

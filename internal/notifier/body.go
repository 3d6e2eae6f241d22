package notifier

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var commentTemplates embed.FS

const mergeCommentTemplate = "templates/merge_comment.tmpl"

var mergeComment = template.Must(template.ParseFS(commentTemplates, mergeCommentTemplate))

// RunURL returns the workflow run link for repoURL and runID.
// The parts are concatenated as given.
func RunURL(repoURL, runID string) string {
	return repoURL + "/actions/runs/" + runID
}

// RenderBody renders the merge build comment. The run line is present only
// when params.RunID is set. The result has no trailing newline.
func RenderBody(params Params) (string, error) {
	data := struct {
		Version   string
		RunID     string
		RunName   string
		RunResult string
		RunURL    string
	}{
		Version:   params.Version,
		RunID:     params.RunID,
		RunName:   params.RunName,
		RunResult: params.RunResult,
	}
	if params.RunID != "" {
		data.RunURL = RunURL(params.RepoURL, params.RunID)
	}

	var sb strings.Builder
	if err := mergeComment.ExecuteTemplate(&sb, "merge_comment.tmpl", data); err != nil {
		return "", fmt.Errorf("execute comment template: %w", err)
	}
	return sb.String(), nil
}

package githubapi

// PullRequest is the subset of a GitHub pull request mergebot reads.
type PullRequest struct {
	Number  int
	Title   string
	State   string
	HTMLURL string
}

type IssueComment struct {
	ID      int64
	HTMLURL string
}

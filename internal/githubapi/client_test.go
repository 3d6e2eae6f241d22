package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/mergebot/internal/logging"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(logging.Discard(), Options{Token: "test-token", APIURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestListPullRequestsWithCommit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/deskflow/deskflow/commits/abc123/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"number": 42, "title": "Add feature", "state": "closed", "html_url": "https://github.com/deskflow/deskflow/pull/42"},
			{"number": 7, "title": "Older", "state": "closed"}
		]`))
	})
	client := newTestClient(t, mux)

	prs, err := client.ListPullRequestsWithCommit(context.Background(), "deskflow", "deskflow", "abc123")
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, PullRequest{
		Number:  42,
		Title:   "Add feature",
		State:   "closed",
		HTMLURL: "https://github.com/deskflow/deskflow/pull/42",
	}, prs[0])
	assert.Equal(t, 7, prs[1].Number)
}

func TestListPullRequestsWithCommitEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/deskflow/deskflow/commits/abc123/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	client := newTestClient(t, mux)

	prs, err := client.ListPullRequestsWithCommit(context.Background(), "deskflow", "deskflow", "abc123")
	require.NoError(t, err)
	assert.Empty(t, prs)
}

func TestListPullRequestsWithCommitErrorKeepsResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/deskflow/deskflow/commits/abc123/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
	})
	client := newTestClient(t, mux)

	_, err := client.ListPullRequestsWithCommit(context.Background(), "deskflow", "deskflow", "abc123")
	require.Error(t, err)

	var ghErr *github.ErrorResponse
	require.True(t, errors.As(err, &ghErr))
	assert.Equal(t, http.StatusUnauthorized, ghErr.Response.StatusCode)
	assert.Equal(t, "Bad credentials", ghErr.Message)
}

func TestCreateIssueComment(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/deskflow/deskflow/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBody = payload.Body

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1001, "html_url": "https://github.com/deskflow/deskflow/pull/42#issuecomment-1001"}`))
	})
	client := newTestClient(t, mux)

	comment, err := client.CreateIssueComment(context.Background(), "deskflow", "deskflow", 42, "Merge build complete.\nVersion: `1.2.3`")
	require.NoError(t, err)
	assert.Equal(t, "Merge build complete.\nVersion: `1.2.3`", gotBody)
	assert.Equal(t, int64(1001), comment.ID)
	assert.Equal(t, "https://github.com/deskflow/deskflow/pull/42#issuecomment-1001", comment.HTMLURL)
}

func TestCreateIssueCommentRejectsInvalidNumber(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())
	_, err := client.CreateIssueComment(context.Background(), "deskflow", "deskflow", 0, "body")
	require.Error(t, err)
}

func TestNilClientReturnsError(t *testing.T) {
	var client *Client

	_, err := client.ListPullRequestsWithCommit(context.Background(), "deskflow", "deskflow", "abc123")
	require.ErrorIs(t, err, errNilClient)

	_, err = client.CreateIssueComment(context.Background(), "deskflow", "deskflow", 42, "body")
	require.ErrorIs(t, err, errNilClient)
}

func TestNewClientAPIURL(t *testing.T) {
	client, err := NewClient(nil, Options{APIURL: "https://ghe.example.com/api/v3"})
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", client.rest.BaseURL.String())

	client, err = NewClient(nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/", client.rest.BaseURL.String())

	_, err = NewClient(nil, Options{APIURL: "not a url"})
	require.Error(t, err)
}

func TestParseRepository(t *testing.T) {
	owner, name, err := ParseRepository(" deskflow/deskflow ")
	require.NoError(t, err)
	assert.Equal(t, "deskflow", owner)
	assert.Equal(t, "deskflow", name)

	for _, bad := range []string{"", "deskflow", "deskflow/", "/deskflow", "a/b/c"} {
		_, _, err := ParseRepository(bad)
		assert.Error(t, err, "slug %q", bad)
	}
}

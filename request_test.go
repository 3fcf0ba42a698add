package ghprobe

import (
	"net/http"
	"testing"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	t.Parallel()

	t.Run("without body", func(t *testing.T) {
		t.Parallel()

		req, err := newRequest(http.MethodGet, "https://api.github.com/user", nil)

		require.NoError(t, err)
		assert.Nil(t, req.Body)
		assert.Equal(t, NoBody, req.BodyString())
		assert.Equal(t, mediaTypeV3, req.Header.Get("Accept"))
		assert.Empty(t, req.Header.Get("Content-Type"))
	})

	t.Run("with body", func(t *testing.T) {
		t.Parallel()

		req, err := newRequest(http.MethodPatch, "https://api.github.com/repos/o/r/issues/1", closeIssueRequest{State: "closed"})

		require.NoError(t, err)
		assert.Equal(t, `{"state":"closed"}`, req.BodyString())
		assert.Equal(t, mediaTypeJSON, req.Header.Get("Content-Type"))
	})

	t.Run("unencodable body", func(t *testing.T) {
		t.Parallel()

		_, err := newRequest(http.MethodPost, "https://api.github.com/user/repos", make(chan int))

		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})
}

func TestResponse_AsError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		resp        Response
		wantCode    errors.ErrorCode
		wantMessage string
	}{
		{
			name:     "success",
			resp:     Response{StatusCode: http.StatusCreated},
			wantCode: "",
		},
		{
			name:        "github message",
			resp:        Response{StatusCode: http.StatusUnauthorized, Body: []byte(`{"message":"Bad credentials"}`)},
			wantCode:    errors.CodeUnauthorized,
			wantMessage: "HTTP 401: Bad credentials",
		},
		{
			name:        "status text fallback",
			resp:        Response{StatusCode: http.StatusNotFound, Body: []byte(`not json`)},
			wantCode:    errors.CodeNotFound,
			wantMessage: "HTTP 404: Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.resp.AsError()

			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantMessage)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("repository ignores unknown fields", func(t *testing.T) {
		t.Parallel()

		repo, err := DecodeRepository(&Response{
			StatusCode: http.StatusCreated,
			Body: []byte(`{"id": 42, "name": "test-repo-abc123", "description": "d", "private": true,
				"html_url": "https://github.com/octocat/test-repo-abc123", "owner": {"login": "octocat"}}`),
		})

		require.NoError(t, err)
		assert.Equal(t, Repository{
			ID:          42,
			Name:        "test-repo-abc123",
			Description: "d",
			Private:     true,
			HTMLURL:     "https://github.com/octocat/test-repo-abc123",
		}, repo)
	})

	t.Run("repositories preserve order", func(t *testing.T) {
		t.Parallel()

		repos, err := DecodeRepositories(&Response{
			StatusCode: http.StatusOK,
			Body:       []byte(`[{"name":"b"},{"name":"a"}]`),
		})

		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "b", repos[0].Name)
		assert.Equal(t, "a", repos[1].Name)
	})

	t.Run("issue accessors", func(t *testing.T) {
		t.Parallel()

		issue, err := DecodeIssue(&Response{
			StatusCode: http.StatusCreated,
			Body:       []byte(`{"number": 3, "title": "Bug", "state": "open", "html_url": "https://x/3"}`),
		})

		require.NoError(t, err)
		assert.Equal(t, 3, issue.Number())
		assert.Equal(t, "Bug", issue.Title())
		assert.Equal(t, "open", issue.State())
		assert.Equal(t, "https://x/3", issue.HTMLURL())
		assert.Zero(t, Issue{}.Number())
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeUserProfile(&Response{StatusCode: http.StatusNoContent})

		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeUserProfile(&Response{StatusCode: http.StatusOK, Body: []byte(`{"login":`)})

		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[UserProfile](nil)

		require.Error(t, err)
	})
}

func TestExchange_String(t *testing.T) {
	t.Parallel()

	exchange := Exchange{
		Method:       http.MethodDelete,
		URL:          "https://api.github.com/repos/octocat/test-repo-abc123",
		StatusCode:   http.StatusNotFound,
		ResponseBody: []byte(`{"message":"Not Found"}`),
		Duration:     time.Millisecond,
	}

	want := "Request:\n" +
		"Method: DELETE\n" +
		"URI: https://api.github.com/repos/octocat/test-repo-abc123\n" +
		"Body:\n" +
		"No body\n" +
		"\n" +
		"Response:\n" +
		"Status Code: 404\n" +
		"Body:\n" +
		"{\n  \"message\": \"Not Found\"\n}"

	assert.Equal(t, want, exchange.String())
}

func TestPrettyJSON(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", prettyJSON(nil))
	assert.Equal(t, "plain text", prettyJSON([]byte("plain text")))
	assert.Equal(t, "[\n  1,\n  2\n]", prettyJSON([]byte("[1,2]")))
}

package ghprobe_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe"
	"github.com/jmgilman/go/ghprobe/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTransport returns a mock that answers every request with status and body.
func staticTransport(status int, body string) *mocks.TransportMock {
	return &mocks.TransportMock{
		DoFunc: func(context.Context, *ghprobe.Request) (*ghprobe.Response, error) {
			return &ghprobe.Response{StatusCode: status, Body: []byte(body)}, nil
		},
	}
}

// captureRecorder collects exchanges and info lines.
type captureRecorder struct {
	mu        sync.Mutex
	exchanges []ghprobe.Exchange
	infos     []string
}

func (r *captureRecorder) RecordExchange(e ghprobe.Exchange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = append(r.exchanges, e)
}

func (r *captureRecorder) Info(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, message)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		client, err := ghprobe.NewClient(staticTransport(http.StatusOK, "{}"))

		require.NoError(t, err)
		assert.Equal(t, ghprobe.DefaultBaseURL, client.BaseURL())
		assert.Empty(t, client.Owner())
	})

	t.Run("trailing slash is trimmed", func(t *testing.T) {
		t.Parallel()

		client, err := ghprobe.NewClient(staticTransport(http.StatusOK, "{}"),
			ghprobe.WithBaseURL("https://github.example.com/api/v3/"),
			ghprobe.WithOwner("octocat"),
		)

		require.NoError(t, err)
		assert.Equal(t, "https://github.example.com/api/v3", client.BaseURL())
		assert.Equal(t, "octocat", client.Owner())
	})

	tests := []struct {
		name      string
		transport ghprobe.Transport
		opts      []ghprobe.Option
		wantCode  errors.ErrorCode
	}{
		{
			name:     "nil transport",
			wantCode: errors.CodeInvalidInput,
		},
		{
			name:      "base URL without scheme",
			transport: staticTransport(http.StatusOK, "{}"),
			opts:      []ghprobe.Option{ghprobe.WithBaseURL("api.github.com")},
			wantCode:  errors.CodeInvalidInput,
		},
		{
			name:      "empty owner",
			transport: staticTransport(http.StatusOK, "{}"),
			opts:      []ghprobe.Option{ghprobe.WithOwner("")},
			wantCode:  errors.CodeInvalidInput,
		},
		{
			name:      "nil unauthorized transport",
			transport: staticTransport(http.StatusOK, "{}"),
			opts:      []ghprobe.Option{ghprobe.WithUnauthorizedTransport(nil)},
			wantCode:  errors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ghprobe.NewClient(tt.transport, tt.opts...)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}

func TestClient_Requests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		call       func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error)
		wantMethod string
		wantURL    string
		wantBody   string
	}{
		{
			name: "authenticated user",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.AuthenticatedUser(ctx)
			},
			wantMethod: http.MethodGet,
			wantURL:    "https://api.github.com/user",
		},
		{
			name: "list repositories without options",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.ListRepositories(ctx, ghprobe.ListOptions{})
			},
			wantMethod: http.MethodGet,
			wantURL:    "https://api.github.com/user/repos",
		},
		{
			name: "list repositories with options",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.ListRepositories(ctx, ghprobe.ListOptions{PerPage: 100, Sort: "created", Direction: "desc"})
			},
			wantMethod: http.MethodGet,
			wantURL:    "https://api.github.com/user/repos?direction=desc&per_page=100&sort=created",
		},
		{
			name: "create issue",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.CreateIssue(ctx, "octocat", "hello-world", "Bug", "Details")
			},
			wantMethod: http.MethodPost,
			wantURL:    "https://api.github.com/repos/octocat/hello-world/issues",
			wantBody:   `{"title":"Bug","body":"Details"}`,
		},
		{
			name: "close issue",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.CloseIssue(ctx, "octocat", "hello-world", 7)
			},
			wantMethod: http.MethodPatch,
			wantURL:    "https://api.github.com/repos/octocat/hello-world/issues/7",
			wantBody:   `{"state":"closed"}`,
		},
		{
			name: "create repository",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.CreateRepository(ctx, "test-repo-abc123", "Test repository", true)
			},
			wantMethod: http.MethodPost,
			wantURL:    "https://api.github.com/user/repos",
			wantBody:   `{"name":"test-repo-abc123","description":"Test repository","private":true}`,
		},
		{
			name: "delete repository uses default owner",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.DeleteRepository(ctx, "test-repo-abc123")
			},
			wantMethod: http.MethodDelete,
			wantURL:    "https://api.github.com/repos/octocat/test-repo-abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := staticTransport(http.StatusOK, `{}`)
			client, err := ghprobe.NewClient(transport, ghprobe.WithOwner("octocat"))
			require.NoError(t, err)

			resp, err := tt.call(context.Background(), client)

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			require.Len(t, transport.DoCalls(), 1)

			req := transport.DoCalls()[0].Req
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, tt.wantURL, req.URL)
			assert.Equal(t, "application/vnd.github.v3+json", req.Header.Get("Accept"))

			if tt.wantBody == "" {
				assert.Nil(t, req.Body)
				assert.Empty(t, req.Header.Get("Content-Type"))
			} else {
				assert.JSONEq(t, tt.wantBody, string(req.Body))
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			}
		})
	}
}

func TestClient_ErrorStatusIsNotAnError(t *testing.T) {
	t.Parallel()

	client, err := ghprobe.NewClient(staticTransport(http.StatusNotFound, `{"message":"Not Found"}`))
	require.NoError(t, err)

	resp, err := client.CreateIssue(context.Background(), "octocat", "missing", "t", "b")

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.True(t, resp.Contains("Not Found"))
}

func TestClient_Unauthorized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		call     func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error)
		wantInfo string
		wantBody string
	}{
		{
			name: "authenticated user",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.AuthenticatedUserUnauthorized(ctx)
			},
			wantInfo: "Attempting to retrieve the authenticated user without authorization",
		},
		{
			name: "create repository",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.CreateRepositoryUnauthorized(ctx, "test-repo-abc123")
			},
			wantInfo: "Attempting to create repository without authorization: test-repo-abc123",
			wantBody: `{"name":"test-repo-abc123","description":"Repository created without authorization","private":false}`,
		},
		{
			name: "create issue",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.CreateIssueUnauthorized(ctx, "octocat", "hello-world", "Bug", "Details")
			},
			wantInfo: "Attempting to create issue without authorization: Bug",
			wantBody: `{"title":"Bug","body":"Details"}`,
		},
		{
			name: "delete repository",
			call: func(ctx context.Context, c *ghprobe.Client) (*ghprobe.Response, error) {
				return c.DeleteRepositoryUnauthorized(ctx, "test-repo-abc123")
			},
			wantInfo: "Attempting to delete repository without authorization: test-repo-abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			valid := staticTransport(http.StatusOK, `{}`)
			invalid := staticTransport(http.StatusUnauthorized, `{"message":"Bad credentials"}`)
			rec := &captureRecorder{}

			client, err := ghprobe.NewClient(valid,
				ghprobe.WithOwner("octocat"),
				ghprobe.WithUnauthorizedTransport(invalid),
				ghprobe.WithRecorder(rec),
			)
			require.NoError(t, err)

			resp, err := tt.call(context.Background(), client)

			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Empty(t, valid.DoCalls())
			require.Len(t, invalid.DoCalls(), 1)
			assert.Equal(t, []string{tt.wantInfo}, rec.infos)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, string(invalid.DoCalls()[0].Req.Body))
			}
		})
	}

	t.Run("without unauthorized transport", func(t *testing.T) {
		t.Parallel()

		client, err := ghprobe.NewClient(staticTransport(http.StatusOK, `{}`))
		require.NoError(t, err)

		_, err = client.AuthenticatedUserUnauthorized(context.Background())

		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
	})
}

func TestClient_Recording(t *testing.T) {
	t.Parallel()

	t.Run("records every exchange", func(t *testing.T) {
		t.Parallel()

		rec := &mocks.RecorderMock{
			RecordExchangeFunc: func(ghprobe.Exchange) {},
			InfoFunc:           func(string) {},
		}
		client, err := ghprobe.NewClient(
			staticTransport(http.StatusCreated, `{"name":"test-repo-abc123"}`),
			ghprobe.WithRecorder(rec),
		)
		require.NoError(t, err)

		_, err = client.CreateRepository(context.Background(), "test-repo-abc123", "d", false)
		require.NoError(t, err)

		require.Len(t, rec.RecordExchangeCalls(), 1)
		exchange := rec.RecordExchangeCalls()[0].Exchange
		assert.Equal(t, http.MethodPost, exchange.Method)
		assert.Equal(t, "https://api.github.com/user/repos", exchange.URL)
		assert.Equal(t, http.StatusCreated, exchange.StatusCode)
		assert.JSONEq(t, `{"name":"test-repo-abc123"}`, string(exchange.ResponseBody))
		assert.Contains(t, exchange.String(), "Status Code: 201")
	})

	t.Run("records transport failures", func(t *testing.T) {
		t.Parallel()

		rec := &captureRecorder{}
		transport := &mocks.TransportMock{
			DoFunc: func(context.Context, *ghprobe.Request) (*ghprobe.Response, error) {
				return nil, context.DeadlineExceeded
			},
		}
		client, err := ghprobe.NewClient(transport, ghprobe.WithRecorder(rec))
		require.NoError(t, err)

		_, err = client.AuthenticatedUser(context.Background())

		require.Error(t, err)
		assert.Equal(t, errors.CodeNetwork, errors.GetCode(err))
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		require.Len(t, rec.exchanges, 1)
		assert.Equal(t, 0, rec.exchanges[0].StatusCode)
		assert.ErrorIs(t, rec.exchanges[0].Err, context.DeadlineExceeded)
	})

	t.Run("record to returns an independent copy", func(t *testing.T) {
		t.Parallel()

		first := &captureRecorder{}
		second := &captureRecorder{}
		client, err := ghprobe.NewClient(staticTransport(http.StatusOK, `{}`), ghprobe.WithRecorder(first))
		require.NoError(t, err)

		scoped := client.RecordTo(second)
		_, err = scoped.AuthenticatedUser(context.Background())
		require.NoError(t, err)

		assert.Empty(t, first.exchanges)
		assert.Len(t, second.exchanges, 1)
		assert.Equal(t, client.BaseURL(), scoped.BaseURL())
	})
}

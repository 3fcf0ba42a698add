// Package cli provides a ghprobe.Transport implementation using the gh CLI.
//
// Every request runs `gh api --include`; the printed status line, headers and
// body become the Response. gh exits non-zero for error statuses but still
// prints them, so those remain successful round trips.
//
// The credential travels in GH_TOKEN and GH_ENTERPRISE_TOKEN, which take
// precedence over gh's stored login. That lets two transports share one gh
// installation while presenting different tokens.
package cli

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/textproto"
	"os"
	osexec "os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/ghprobe"
)

// Transport implements ghprobe.Transport using the gh CLI.
type Transport struct {
	wrapper *exec.CommandWrapper
	token   string
	timeout time.Duration
}

// Option configures the CLI transport.
type Option func(*Transport) error

// NewTransport creates a transport running gh from PATH.
// Without WithToken, gh authenticates with its own stored login.
//
// Example:
//
//	transport, err := cli.NewTransport(cli.WithToken("ghp_..."))
func NewTransport(opts ...Option) (*Transport, error) {
	t := &Transport{
		wrapper: exec.NewWrapper(exec.New(exec.WithInheritEnv()), "gh"),
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// WithExecutor runs gh through executor instead of the process executor.
func WithExecutor(executor exec.Executor) Option {
	return func(t *Transport) error {
		if executor == nil {
			err := errors.New(errors.CodeInvalidInput, "executor cannot be nil")
			return errors.WithContext(err, "field", "executor")
		}
		t.wrapper = exec.NewWrapper(executor, "gh")
		return nil
	}
}

// WithToken sets the token gh presents.
func WithToken(token string) Option {
	return func(t *Transport) error {
		if token == "" {
			err := errors.New(errors.CodeInvalidInput, "token cannot be empty")
			return errors.WithContext(err, "field", "token")
		}
		t.token = token
		return nil
	}
}

// WithTimeout bounds each gh invocation. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Transport) error {
		if timeout < 0 {
			err := errors.New(errors.CodeInvalidInput, "timeout cannot be negative")
			return errors.WithContext(err, "field", "timeout")
		}
		t.timeout = timeout
		return nil
	}
}

// Do sends req through `gh api` and returns GitHub's response whatever its status.
func (t *Transport) Do(ctx context.Context, req *ghprobe.Request) (*ghprobe.Response, error) {
	args := []string{"api", "--include", "--method", req.Method}
	for key, values := range req.Header {
		for _, value := range values {
			args = append(args, "--header", key+": "+value)
		}
	}

	if req.Body != nil {
		input, err := writeInput(req.Body)
		if err != nil {
			return nil, err
		}
		defer os.Remove(input)
		args = append(args, "--input", input)
	}
	args = append(args, req.URL)

	cmd := t.wrapper.Clone().WithContext(ctx).WithDisableColors()
	if t.token != "" {
		cmd = cmd.WithEnv(map[string]string{
			"GH_TOKEN":            t.token,
			"GH_ENTERPRISE_TOKEN": t.token,
		})
	}
	if t.timeout > 0 {
		cmd = cmd.WithTimeout(t.timeout.String())
	}

	result, err := cmd.Run(args...)
	if ctx.Err() != nil {
		return nil, wrapError(ctx.Err(), "request cancelled")
	}
	if result != nil && strings.HasPrefix(result.Stdout, "HTTP/") {
		return parseResponse(result.Stdout)
	}

	return nil, wrapCLIError(err, result)
}

// writeInput stores body in a temporary file for `gh api --input`.
func writeInput(body []byte) (string, error) {
	f, err := os.CreateTemp("", "ghprobe-body-*.json")
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to create request body file")
	}

	_, writeErr := f.Write(body)
	closeErr := f.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(f.Name())
		if writeErr == nil {
			writeErr = closeErr
		}
		return "", errors.Wrap(writeErr, errors.CodeInternal, "failed to write request body file")
	}

	return f.Name(), nil
}

// parseResponse reads the output of `gh api --include`.
func parseResponse(out string) (*ghprobe.Response, error) {
	r := textproto.NewReader(bufio.NewReader(strings.NewReader(out)))

	line, err := r.ReadLine()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "failed to read gh status line")
	}
	_, status, _ := strings.Cut(line, " ")
	code, _, _ := strings.Cut(status, " ")
	statusCode, err := strconv.Atoi(code)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeNetwork, "malformed gh status line"),
			"line", line,
		)
	}

	header, err := r.ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, errors.CodeNetwork, "failed to read gh response headers")
	}

	body, err := io.ReadAll(r.R)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "failed to read gh response body")
	}

	return &ghprobe.Response{
		StatusCode: statusCode,
		Header:     http.Header(header),
		Body:       body,
	}, nil
}

// wrapCLIError converts a gh run that printed no response into an error.
func wrapCLIError(err error, result *exec.Result) error {
	if errors.Is(err, osexec.ErrNotFound) {
		return errors.Wrap(err, errors.CodeExecutionFailed, "gh is not installed")
	}

	wrapped := wrapError(err, "gh api failed")
	if result != nil && result.Stderr != "" {
		wrapped = errors.WithContext(wrapped, "stderr", strings.TrimSpace(result.Stderr))
	}
	return wrapped
}

// wrapError wraps a failed round trip as a network error.
func wrapError(err error, message string) error {
	if err == nil {
		return errors.New(errors.CodeNetwork, message)
	}
	return errors.Wrap(err, errors.CodeNetwork, message)
}

package fakegithub

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
)

// GH is an exec.Executor standing in for the gh binary. It answers
// `gh api` invocations by sending the described request and printing the
// response the way `gh api --include` does: status line, headers, a blank
// line, then the body. Statuses of 400 and above exit 1 as gh does.
// The credential is taken from GH_TOKEN.
type GH struct {
	log *ghLog

	env     map[string]string
	ctx     context.Context
	timeout string
}

type ghLog struct {
	mu    sync.Mutex
	calls []Call
}

// Call is one recorded gh invocation.
type Call struct {
	Args    []string
	Env     map[string]string
	Timeout string

	// Input holds the contents of the --input file while the call ran.
	Input string
}

// NewGH returns a gh stand-in with no recorded calls.
func NewGH() *GH {
	return &GH{
		log: &ghLog{},
		env: make(map[string]string),
		ctx: context.Background(),
	}
}

// Calls returns every invocation made through g or its clones.
func (g *GH) Calls() []Call {
	g.log.mu.Lock()
	defer g.log.mu.Unlock()
	return append([]Call(nil), g.log.calls...)
}

func (g *GH) WithEnv(env map[string]string) exec.Executor {
	for k, v := range env {
		g.env[k] = v
	}
	return g
}

func (g *GH) WithDir(string) exec.Executor { return g }

func (g *GH) WithContext(ctx context.Context) exec.Executor {
	g.ctx = ctx
	return g
}

func (g *GH) WithDisableColors() exec.Executor { return g }

func (g *GH) WithTimeout(timeout string) exec.Executor {
	g.timeout = timeout
	return g
}

func (g *GH) WithInheritEnv() exec.Executor { return g }

func (g *GH) WithStdout(io.Writer) exec.Executor { return g }

func (g *GH) WithStderr(io.Writer) exec.Executor { return g }

func (g *GH) WithPassthrough() exec.Executor { return g }

func (g *GH) Clone() exec.Executor {
	env := make(map[string]string, len(g.env))
	for k, v := range g.env {
		env[k] = v
	}
	return &GH{log: g.log, env: env, ctx: g.ctx, timeout: g.timeout}
}

// Run executes `gh api`. Any other command fails with exit code 1.
func (g *GH) Run(args ...string) (*exec.Result, error) {
	call := Call{Args: args, Env: make(map[string]string), Timeout: g.timeout}
	for k, v := range g.env {
		call.Env[k] = v
	}

	inv, err := parseAPIArgs(args)
	if err != nil {
		g.record(call)
		return exited(args, "", err.Error())
	}

	var body io.Reader
	if inv.input != "" {
		data, err := os.ReadFile(inv.input)
		if err != nil {
			g.record(call)
			return exited(args, "", err.Error())
		}
		call.Input = string(data)
		body = bytes.NewReader(data)
	}
	g.record(call)

	req, err := http.NewRequestWithContext(g.ctx, inv.method, inv.url, body)
	if err != nil {
		return exited(args, "", err.Error())
	}
	for _, h := range inv.headers {
		key, value, _ := strings.Cut(h, ":")
		req.Header.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if token := g.env["GH_TOKEN"]; token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return exited(args, "", "error connecting to "+req.URL.Host)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return exited(args, "", err.Error())
	}

	out := formatResponse(resp, data)
	if resp.StatusCode >= http.StatusBadRequest {
		return exited(args, out, fmt.Sprintf("gh: %s (HTTP %d)", http.StatusText(resp.StatusCode), resp.StatusCode))
	}

	return &exec.Result{Stdout: out, Combined: out}, nil
}

func (g *GH) record(call Call) {
	g.log.mu.Lock()
	defer g.log.mu.Unlock()
	g.log.calls = append(g.log.calls, call)
}

type apiInvocation struct {
	method  string
	url     string
	input   string
	headers []string
}

func parseAPIArgs(args []string) (apiInvocation, error) {
	inv := apiInvocation{method: http.MethodGet}
	if len(args) < 2 || args[0] != "gh" || args[1] != "api" {
		return inv, errors.Newf(errors.CodeInvalidInput, "unknown command %q", strings.Join(args, " "))
	}

	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch arg {
		case "--include", "-i":
			continue
		case "--method", "-X", "--header", "-H", "--input":
			if i+1 >= len(rest) {
				return inv, errors.Newf(errors.CodeInvalidInput, "flag needs an argument: %s", arg)
			}
			i++
			switch arg {
			case "--method", "-X":
				inv.method = rest[i]
			case "--header", "-H":
				inv.headers = append(inv.headers, rest[i])
			default:
				inv.input = rest[i]
			}
		default:
			if strings.HasPrefix(arg, "-") {
				return inv, errors.Newf(errors.CodeInvalidInput, "unknown flag: %s", arg)
			}
			inv.url = arg
		}
	}

	if inv.url == "" {
		return inv, errors.New(errors.CodeInvalidInput, "accepts 1 arg(s), received 0")
	}
	return inv, nil
}

func formatResponse(resp *http.Response, body []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\r\n", resp.Proto, resp.Status)

	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, strings.Join(resp.Header[k], ", "))
	}

	b.WriteString("\r\n")
	b.Write(body)
	return b.String()
}

func exited(args []string, stdout, stderr string) (*exec.Result, error) {
	result := &exec.Result{
		Stdout:   stdout,
		Stderr:   stderr,
		Combined: stdout + stderr,
		ExitCode: 1,
	}
	return result, &exec.ExecError{
		Command:  args,
		ExitCode: 1,
		Stdout:   stdout,
		Stderr:   stderr,
		Err:      errors.New(errors.CodeExecutionFailed, "exit status 1"),
	}
}

package ghprobe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmgilman/go/errors"
)

const (
	mediaTypeV3   = "application/vnd.github.v3+json"
	mediaTypeJSON = "application/json"

	// NoBody is recorded in place of an absent request body.
	NoBody = "No body"
)

// Request is a transport-neutral HTTP request.
type Request struct {
	Method string
	URL    string
	Header http.Header

	// Body is the encoded JSON payload, or nil when the request has none.
	Body []byte
}

// newRequest builds a request with the headers every GitHub call carries.
// A non-nil body is JSON encoded and marks the request as a write.
func newRequest(method, url string, body interface{}) (*Request, error) {
	req := &Request{
		Method: method,
		URL:    url,
		Header: make(http.Header),
	}
	req.Header.Set("Accept", mediaTypeV3)

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "failed to encode request body")
		}
		req.Body = data
		req.Header.Set("Content-Type", mediaTypeJSON)
	}

	return req, nil
}

// BodyString returns the request body as text, or NoBody when it is absent.
func (r *Request) BodyString() string {
	if r.Body == nil {
		return NoBody
	}
	return string(r.Body)
}

// Response is the raw result of a round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// Duration is the time spent in the transport.
	Duration time.Duration
}

// String returns the response body as text.
func (r *Response) String() string {
	return string(r.Body)
}

// Contains reports whether the response body contains substr.
func (r *Response) Contains(substr string) bool {
	return bytes.Contains(r.Body, []byte(substr))
}

// PrettyBody returns the body indented as JSON.
// Bodies that are not valid JSON are returned unchanged.
func (r *Response) PrettyBody() string {
	return prettyJSON(r.Body)
}

// AsError converts a non-2xx response into an error coded by its status.
// Returns nil for 2xx responses.
//
// The message carries GitHub's "message" field when the body has one.
func (r *Response) AsError() error {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return nil
	}

	message := http.StatusText(r.StatusCode)
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(r.Body, &payload) == nil && payload.Message != "" {
		message = payload.Message
	}

	err := errors.New(CodeForStatus(r.StatusCode), fmt.Sprintf("HTTP %d: %s", r.StatusCode, message))
	return errors.WithContext(err, "status_code", r.StatusCode)
}

// Decode unmarshals the response body into a value of type T.
// Unknown JSON fields are ignored. The status code is not inspected.
func Decode[T any](resp *Response) (T, error) {
	var value T
	if resp == nil {
		return value, errors.New(errors.CodeInvalidInput, "cannot decode a nil response")
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		err := errors.New(errors.CodeInvalidInput, "cannot decode an empty response body")
		return value, errors.WithContext(err, "status_code", resp.StatusCode)
	}
	if err := json.Unmarshal(resp.Body, &value); err != nil {
		return value, newDecodeError(err, resp.StatusCode)
	}
	return value, nil
}

// Exchange is one recorded request/response pair.
type Exchange struct {
	Method       string
	URL          string
	RequestBody  []byte
	StatusCode   int
	ResponseBody []byte
	Duration     time.Duration

	// Err is set when the transport failed and no response was received.
	Err error
}

// RequestText returns the request body, or NoBody when absent.
func (e Exchange) RequestText() string {
	if e.RequestBody == nil {
		return NoBody
	}
	return string(e.RequestBody)
}

// ResponseText returns the pretty-printed response body, or the transport
// error when the call failed.
func (e Exchange) ResponseText() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return prettyJSON(e.ResponseBody)
}

// String formats the exchange as a single text block:
//
//	Request:
//	Method: POST
//	URI: https://api.github.com/user/repos
//	Body:
//	{"name":"x"}
//
//	Response:
//	Status Code: 201
//	Body:
//	{ ... }
func (e Exchange) String() string {
	var b strings.Builder
	b.WriteString("Request:\n")
	fmt.Fprintf(&b, "Method: %s\n", e.Method)
	fmt.Fprintf(&b, "URI: %s\n", e.URL)
	b.WriteString("Body:\n")
	b.WriteString(e.RequestText())
	b.WriteString("\n\n")
	b.WriteString("Response:\n")
	fmt.Fprintf(&b, "Status Code: %d\n", e.StatusCode)
	b.WriteString("Body:\n")
	b.WriteString(e.ResponseText())
	return b.String()
}

func prettyJSON(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}

package ghprobe

import "context"

//go:generate go run github.com/matryer/moq@latest -out mocks/transport.go -pkg mocks . Transport Recorder

// Transport performs a single HTTP round trip for the client.
//
// Implementations own authentication: the Authorization header is added by
// the transport, which is why the client holds a second transport for the
// invalid-credential variants.
//
// Do must return a Response for every completed round trip regardless of the
// status code. An error is returned only when no response was received
// (network failure, cancelled context, unreadable body).
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Recorder receives a copy of every exchange made by a Client.
// Report entries implement this interface.
type Recorder interface {
	// RecordExchange records one request/response pair.
	RecordExchange(exchange Exchange)

	// Info records a free-text informational line.
	Info(message string)
}

type nopRecorder struct{}

func (nopRecorder) RecordExchange(Exchange) {}

func (nopRecorder) Info(string) {}

// Package ghprobe provides the API client used to probe the GitHub REST API.
//
// The package is the bottom layer of an integration-test harness: it turns a
// small, fixed set of logical operations (fetch the authenticated user, list,
// create and delete repositories, create and close issues) into HTTP requests,
// and hands the raw result back to the caller. The caller, not the client,
// decides which status code is correct for a given test.
//
// # Architecture
//
//  1. Request and Response are plain value types (method, URL, headers, body)
//  2. Transport performs a single round trip and is the only thing that talks HTTP
//  3. Client builds requests, calls the transport, and records each exchange
//  4. Recorder receives one Exchange per call (normally a report entry)
//
// The client never retries and has no rate-limit awareness. Every 4xx or 5xx
// response is a successful round trip; only transport failures are errors.
//
// # Transports
//
// The providers/sdk package implements Transport on top of go-github and
// golang.org/x/oauth2. The providers/cli package runs `gh api` instead, with
// the token passed to each invocation through the environment. Tests usually
// substitute mocks.TransportMock or point a transport at an httptest server.
//
// # Usage
//
//	transport, err := sdk.NewTransport(sdk.WithToken(os.Getenv("GITHUB_TOKEN")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	invalid, err := sdk.NewTransport(sdk.WithToken(ghprobe.InvalidToken))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := ghprobe.NewClient(transport,
//	    ghprobe.WithOwner("octocat"),
//	    ghprobe.WithUnauthorizedTransport(invalid),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.CreateRepository(ctx, "test-repo-1a2b3c", "scratch", false)
//	if err != nil {
//	    log.Fatal(err) // transport failure
//	}
//	if resp.StatusCode == http.StatusCreated {
//	    repo, _ := ghprobe.DecodeRepository(resp)
//	    fmt.Println(repo.HTMLURL)
//	}
//
// # Recording
//
// A single configured client is usually shared by many tests. RecordTo returns
// a shallow copy that writes its exchanges to a different Recorder, so each
// test's requests end up in that test's report entry:
//
//	client := shared.RecordTo(entry)
//	client.AuthenticatedUser(ctx) // exchange appended to entry
//
// # Error Handling
//
// Errors use the github.com/jmgilman/go/errors library. Transport failures are
// coded NETWORK_ERROR, undecodable bodies INVALID_INPUT, and Response.AsError
// maps a non-2xx status to a code via CodeForStatus.
package ghprobe
